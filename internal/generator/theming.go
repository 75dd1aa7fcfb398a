package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gotheme "github.com/goliatone/go-theme"
)

// ThemingConfig controls how themes are discovered and applied. An empty
// ThemesDir disables theming entirely and the built-in layout is used.
type ThemingConfig struct {
	ThemesDir         string
	DefaultTheme      string
	DefaultVariant    string
	CSSVariablePrefix string
}

type themeManifestLoader interface {
	Load(themePath string) (*gotheme.Manifest, error)
}

type fsThemeManifestLoader struct{}

func (fsThemeManifestLoader) Load(themePath string) (*gotheme.Manifest, error) {
	cleaned := filepath.Clean(strings.TrimSpace(themePath))
	if cleaned == "" {
		return nil, fmt.Errorf("theme path required")
	}
	return gotheme.LoadDir(os.DirFS(cleaned), ".")
}

// themeSelector resolves named theme/variant pairs against manifests living
// under ThemesDir/<name>. Manifests are loaded and registered once.
type themeSelector struct {
	registry       *gotheme.MemoryRegistry
	loader         themeManifestLoader
	themesDir      string
	defaultTheme   string
	defaultVariant string

	mu        sync.Mutex
	manifests map[string]*gotheme.Manifest
}

func newThemeSelector(cfg ThemingConfig, loader themeManifestLoader) *themeSelector {
	if loader == nil {
		loader = fsThemeManifestLoader{}
	}
	return &themeSelector{
		registry:       gotheme.NewRegistry(),
		loader:         loader,
		themesDir:      strings.TrimSpace(cfg.ThemesDir),
		defaultTheme:   strings.TrimSpace(cfg.DefaultTheme),
		defaultVariant: strings.TrimSpace(cfg.DefaultVariant),
		manifests:      map[string]*gotheme.Manifest{},
	}
}

// Enabled reports whether a themes directory is configured.
func (s *themeSelector) Enabled() bool {
	return s != nil && s.themesDir != ""
}

// ThemePath returns the on-disk directory of a named theme.
func (s *themeSelector) ThemePath(name string) string {
	return filepath.Join(s.themesDir, strings.TrimSpace(name))
}

// Selection resolves the theme and variant. A nil selection with nil error
// means theming is disabled and the caller should fall back to the built-in
// layout.
func (s *themeSelector) Selection(name, variant string) (*gotheme.Selection, error) {
	if !s.Enabled() {
		return nil, nil
	}

	resolvedName := strings.TrimSpace(name)
	if resolvedName == "" {
		resolvedName = s.defaultTheme
	}
	if resolvedName == "" {
		return nil, nil
	}

	if _, err := s.ensureManifest(resolvedName); err != nil {
		return nil, err
	}

	selector := gotheme.Selector{
		Registry:       s.registry,
		DefaultTheme:   s.defaultTheme,
		DefaultVariant: s.defaultVariant,
	}

	resolvedVariant := strings.TrimSpace(variant)
	if resolvedVariant == "" {
		resolvedVariant = s.defaultVariant
	}

	selection, err := selector.Select(resolvedName, resolvedVariant)
	if err != nil {
		return nil, fmt.Errorf("generator: select theme %s: %w", resolvedName, err)
	}
	return selection, nil
}

func (s *themeSelector) ensureManifest(name string) (*gotheme.Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if manifest, ok := s.manifests[name]; ok {
		return manifest, nil
	}

	manifest, err := s.loader.Load(s.ThemePath(name))
	if err != nil {
		return nil, fmt.Errorf("generator: load theme manifest %s: %w", name, err)
	}

	normalized := *manifest
	if strings.TrimSpace(normalized.Name) == "" || !strings.EqualFold(normalized.Name, name) {
		normalized.Name = name
	}
	if err := s.registry.Register(&normalized); err != nil {
		return nil, fmt.Errorf("generator: register theme manifest: %w", err)
	}
	s.manifests[name] = &normalized
	return &normalized, nil
}
