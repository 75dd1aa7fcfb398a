package generator

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrSiteConfigInvalid reports a site.yml that parsed but fails validation.
var ErrSiteConfigInvalid = errors.New("generator: site config invalid")

// ThemeRef names the theme and variant the site builds with.
type ThemeRef struct {
	Name    string `yaml:"name"    json:"name"`
	Variant string `yaml:"variant" json:"variant,omitempty"`
}

// SiteConfig is the parsed site.yml. SiteName is the only required field;
// Nav lists the sections in header order.
type SiteConfig struct {
	SiteName        string   `yaml:"site_name"        json:"site_name"`
	SiteDescription string   `yaml:"site_description" json:"site_description,omitempty"`
	BaseURL         string   `yaml:"base_url"         json:"base_url,omitempty"`
	Theme           ThemeRef `yaml:"theme"            json:"theme,omitempty"`
	Nav             []string `yaml:"nav"              json:"nav,omitempty"`
}

// DefaultSiteConfig is used when no site.yml path is configured.
func DefaultSiteConfig() *SiteConfig {
	return &SiteConfig{
		SiteName: "Reference",
		Nav:      []string{"builtins", "stdlib", "versions", "implementations"},
	}
}

// LoadSiteConfig reads and validates a site.yml. The returned hash is the
// SHA-256 of the raw file and feeds the build manifest: any edit to the site
// configuration invalidates every incremental page entry.
func LoadSiteConfig(path string) (*SiteConfig, string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		cfg := DefaultSiteConfig()
		return cfg, "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("generator: read site config: %w", err)
	}

	cfg, err := ParseSiteConfig(data)
	if err != nil {
		return nil, "", err
	}

	sum := sha256.Sum256(data)
	return cfg, hex.EncodeToString(sum[:]), nil
}

// ParseSiteConfig decodes site.yml bytes.
func ParseSiteConfig(data []byte) (*SiteConfig, error) {
	var cfg SiteConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSiteConfigInvalid, err)
	}
	if strings.TrimSpace(cfg.SiteName) == "" {
		return nil, fmt.Errorf("%w: site_name is required", ErrSiteConfigInvalid)
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	return &cfg, nil
}
