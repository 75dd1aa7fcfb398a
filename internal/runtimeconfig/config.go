package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

// ErrDocsDirRequired indicates the corpus root directory is missing.
var ErrDocsDirRequired = errors.New("refdocs config: docs directory is required")

// ErrDataDirRequired indicates the catalog data directory is missing.
var ErrDataDirRequired = errors.New("refdocs config: data directory is required")

// ErrGeneratorOutputDirRequired indicates the site build has nowhere to write.
var ErrGeneratorOutputDirRequired = errors.New("refdocs config: generator output directory is required when generator is enabled")

// ErrReviewAgentsInvalid rejects non-positive swarm sizes.
var ErrReviewAgentsInvalid = errors.New("refdocs config: review agents must be positive")

// ErrReviewTimeoutInvalid rejects negative review timeouts.
var ErrReviewTimeoutInvalid = errors.New("refdocs config: review timeout must be zero or positive")

// ErrEstimatorSizesRequired ensures the estimator has input sizes to sweep.
var ErrEstimatorSizesRequired = errors.New("refdocs config: estimator requires at least three input sizes")

// ErrEstimatorIterationsInvalid rejects non-positive sample counts.
var ErrEstimatorIterationsInvalid = errors.New("refdocs config: estimator iterations must be positive")

// ErrCommandsCronRequiresScheduling ensures automatic cron wiring only runs when scheduling is enabled.
var ErrCommandsCronRequiresScheduling = errors.New("refdocs config: command cron auto-registration requires scheduling to be enabled")

// ErrCachedReadsRequireEnabledCache ensures the cached catalog only builds when cache is enabled.
var ErrCachedReadsRequireEnabledCache = errors.New("refdocs config: cached reads feature requires cache to be enabled")

var ErrLoggingProviderRequired = errors.New("refdocs config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("refdocs config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("refdocs config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("refdocs config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the refdocs engine.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled    bool
	DocsDir    string
	DataDir    string
	SiteConfig string
	Storage    StorageConfig
	Cache      CacheConfig
	Navigation NavigationConfig
	Catalog    CatalogConfig
	Audit      AuditConfig
	Review     ReviewConfig
	Estimator  EstimatorConfig
	Generator  GeneratorConfig
	Commands   CommandsConfig
	Features   Features
	Logging    LoggingConfig
}

// StorageConfig lists identifiers for storage-related dependencies.
type StorageConfig struct {
	Provider string
	Driver   string
	DSN      string
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// NavigationConfig captures routing configuration for site URL resolution.
type NavigationConfig struct {
	RouteConfig  *urlkit.Config
	Group        string
	HomeRoute    string
	SectionRoute string
	PageRoute    string
}

// CatalogConfig names the data files the catalog is seeded from, relative to
// DataDir.
type CatalogConfig struct {
	BuiltinsFile string
	StdlibFile   string
}

// AuditConfig captures coverage audit output behaviour.
type AuditConfig struct {
	ReportFile     string
	MissingPreview int
}

// ReviewConfig captures swarm behaviour for parallel page review.
type ReviewConfig struct {
	Agents       int
	LockDir      string
	ProgressFile string
	SummaryFile  string
	Timeout      time.Duration
}

// EstimatorConfig captures the measurement sweep for complexity estimation.
type EstimatorConfig struct {
	Sizes      []int
	Iterations int
}

// GeneratorConfig captures behaviour for the static site generator.
type GeneratorConfig struct {
	Enabled          bool
	OutputDir        string
	BaseURL          string
	CleanBuild       bool
	Incremental      bool
	CopyAssets       bool
	GenerateSitemap  bool
	GenerateRobots   bool
	Workers          int
	RenderTimeout    time.Duration
	AssetCopyTimeout time.Duration
	Theming          ThemingConfig
}

// ThemingConfig selects the HTML layout used by the site build.
type ThemingConfig struct {
	ThemesDir      string
	DefaultTheme   string
	DefaultVariant string
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled                bool
	AutoRegisterDispatcher bool
	AutoRegisterCron       bool
	AuditCron              string
}

// Features toggles module functionality.
type Features struct {
	Catalog     bool
	Audit       bool
	Review      bool
	Generator   bool
	Scheduling  bool
	Activity    bool
	CachedReads bool
	Logger      bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults for a corpus checked out at the
// working directory: docs/ pages, data/ catalog files, site.yml site config.
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		DocsDir:    "docs",
		DataDir:    "data",
		SiteConfig: "site.yml",
		Storage: StorageConfig{
			Provider: "bun",
			Driver:   "sqlite3",
			DSN:      "file:refdocs.db?_journal=WAL",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Navigation: NavigationConfig{
			Group:        "site",
			HomeRoute:    "home",
			SectionRoute: "section",
			PageRoute:    "page",
		},
		Catalog: CatalogConfig{
			BuiltinsFile: "builtins.json",
			StdlibFile:   "stdlib.json",
		},
		Audit: AuditConfig{
			ReportFile:     "documentation_audit.json",
			MissingPreview: 20,
		},
		Review: ReviewConfig{
			Agents:       4,
			LockDir:      "docs/.locks",
			ProgressFile: ".review_progress.json",
			SummaryFile:  "review_summary.json",
			Timeout:      time.Hour,
		},
		Estimator: EstimatorConfig{
			Sizes:      []int{100, 500, 1000, 2000, 5000},
			Iterations: 5,
		},
		Generator: GeneratorConfig{
			OutputDir:       "site",
			CleanBuild:      false,
			Incremental:     true,
			CopyAssets:      true,
			GenerateSitemap: true,
			GenerateRobots:  true,
			Workers:         0,
			Theming: ThemingConfig{
				ThemesDir: "themes",
			},
		},
		Commands: CommandsConfig{},
		Features: Features{
			Catalog: true,
			Audit:   true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.DocsDir) == "" {
		return ErrDocsDirRequired
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		return ErrDataDirRequired
	}
	if cfg.Features.CachedReads && !cfg.Cache.Enabled {
		return ErrCachedReadsRequireEnabledCache
	}
	if cfg.Commands.AutoRegisterCron && !cfg.Features.Scheduling {
		return ErrCommandsCronRequiresScheduling
	}
	if cfg.Features.Review {
		if cfg.Review.Agents <= 0 {
			return ErrReviewAgentsInvalid
		}
		if cfg.Review.Timeout < 0 {
			return ErrReviewTimeoutInvalid
		}
	}
	if len(cfg.Estimator.Sizes) > 0 && len(cfg.Estimator.Sizes) < 3 {
		return ErrEstimatorSizesRequired
	}
	if cfg.Estimator.Iterations < 0 {
		return ErrEstimatorIterationsInvalid
	}
	if cfg.Generator.Enabled {
		if strings.TrimSpace(cfg.Generator.OutputDir) == "" {
			return ErrGeneratorOutputDirRequired
		}
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
