package generator

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	manifestFileName    = ".generator-manifest.json"
	manifestFileVersion = 1
)

// buildManifest stores metadata about the last successful build to support
// incremental runs. SiteHash pins the site.yml the entries were rendered
// with; a config edit invalidates every page.
type buildManifest struct {
	Version     int                      `json:"version"`
	GeneratedAt time.Time                `json:"generated_at"`
	SiteHash    string                   `json:"site_hash,omitempty"`
	Pages       map[string]manifestPage  `json:"pages"`
	Assets      map[string]manifestAsset `json:"assets"`
}

type manifestPage struct {
	Path       string    `json:"path"`
	Checksum   string    `json:"checksum"`
	Output     string    `json:"output"`
	Route      string    `json:"route"`
	RenderedAt time.Time `json:"rendered_at"`
	ModTime    time.Time `json:"mod_time"`
}

type manifestAsset struct {
	Source   string    `json:"source"`
	Checksum string    `json:"checksum"`
	Output   string    `json:"output"`
	Size     int64     `json:"size"`
	CopiedAt time.Time `json:"copied_at"`
}

func newBuildManifest() *buildManifest {
	return &buildManifest{
		Version: manifestFileVersion,
		Pages:   map[string]manifestPage{},
		Assets:  map[string]manifestAsset{},
	}
}

func parseManifest(data []byte) (*buildManifest, error) {
	if len(data) == 0 {
		return newBuildManifest(), nil
	}
	var manifest buildManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("generator: parse manifest: %w", err)
	}
	if manifest.Pages == nil {
		manifest.Pages = map[string]manifestPage{}
	}
	if manifest.Assets == nil {
		manifest.Assets = map[string]manifestAsset{}
	}
	if manifest.Version == 0 {
		manifest.Version = manifestFileVersion
	}
	return &manifest, nil
}

// marshal renders the manifest as deterministic JSON. Entries live in maps
// keyed by page path and asset source; encoding/json emits string keys in
// sorted order, so identical trees produce identical bytes.
func (m *buildManifest) marshal() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	cloned := *m
	if cloned.Version == 0 {
		cloned.Version = manifestFileVersion
	}
	if cloned.Pages == nil {
		cloned.Pages = map[string]manifestPage{}
	}
	if cloned.Assets == nil {
		cloned.Assets = map[string]manifestAsset{}
	}
	return json.MarshalIndent(cloned, "", "  ")
}

func (m *buildManifest) pageKey(path string) string {
	return strings.TrimSpace(path)
}

func (m *buildManifest) lookupPage(path string) (manifestPage, bool) {
	if m == nil || len(m.Pages) == 0 {
		return manifestPage{}, false
	}
	entry, ok := m.Pages[m.pageKey(path)]
	return entry, ok
}

func (m *buildManifest) setPage(entry manifestPage) {
	if m == nil {
		return
	}
	if m.Pages == nil {
		m.Pages = map[string]manifestPage{}
	}
	m.Pages[m.pageKey(entry.Path)] = entry
}

// shouldSkipPage reports whether the page can be reused from the previous
// build: same source checksum rendering to the same output location.
func (m *buildManifest) shouldSkipPage(path, checksum, output string) bool {
	entry, ok := m.lookupPage(path)
	if !ok {
		return false
	}
	if entry.Checksum != checksum {
		return false
	}
	return strings.TrimSpace(entry.Output) == strings.TrimSpace(output)
}

func (m *buildManifest) lookupAsset(source string) (manifestAsset, bool) {
	if m == nil || len(m.Assets) == 0 {
		return manifestAsset{}, false
	}
	entry, ok := m.Assets[strings.TrimSpace(source)]
	return entry, ok
}

func (m *buildManifest) setAsset(entry manifestAsset) {
	if m == nil {
		return
	}
	if m.Assets == nil {
		m.Assets = map[string]manifestAsset{}
	}
	m.Assets[strings.TrimSpace(entry.Source)] = entry
}

func (m *buildManifest) shouldSkipAsset(source, checksum, output string) bool {
	entry, ok := m.lookupAsset(source)
	if !ok {
		return false
	}
	if entry.Checksum != checksum {
		return false
	}
	return strings.TrimSpace(entry.Output) == strings.TrimSpace(output)
}

// prunePages drops entries for pages that vanished from the docs tree.
func (m *buildManifest) prunePages(keep map[string]struct{}) {
	if m == nil || len(m.Pages) == 0 {
		return
	}
	for key := range m.Pages {
		if _, ok := keep[key]; !ok {
			delete(m.Pages, key)
		}
	}
}

// resetPages discards every page entry, forcing a full rebuild.
func (m *buildManifest) resetPages() {
	if m == nil {
		return
	}
	m.Pages = map[string]manifestPage{}
}

// checksum hashes the marshaled manifest; build run identifiers derive
// from it so identical trees map onto the same run.
func (m *buildManifest) checksum() (string, error) {
	data, err := m.marshal()
	if err != nil {
		return "", err
	}
	return computeHash(data), nil
}
