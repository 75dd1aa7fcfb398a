package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	refdocs "github.com/goliatone/go-refdocs"
	"github.com/goliatone/go-refdocs/internal/di"
	"github.com/goliatone/go-refdocs/pkg/interfaces"
)

// Options captures configuration for refdocs CLI bootstraps. Zero values fall
// back to the engine defaults, then to the REFDOCS_* environment variables.
type Options struct {
	DocsDir        string
	DataDir        string
	SiteConfig     string
	OutputDir      string
	Driver         string
	DSN            string
	Agents         int
	Timeout        time.Duration
	EstimatorSizes []int
	WithReview     bool
	WithGenerator  bool
	WithScheduling bool
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the refdocs engine and the logger the CLI reports through.
type Module struct {
	Engine *refdocs.Engine
	Logger interfaces.Logger
}

// BuildModule constructs a refdocs engine configured for CLI operation.
func BuildModule(opts Options) (*Module, error) {
	cfg := refdocs.DefaultConfig()

	if dir := firstValue(opts.DocsDir, os.Getenv("REFDOCS_DOCS_DIR")); dir != "" {
		cfg.DocsDir = dir
	}
	if dir := firstValue(opts.DataDir, os.Getenv("REFDOCS_DATA_DIR")); dir != "" {
		cfg.DataDir = dir
	}
	if path := firstValue(opts.SiteConfig, os.Getenv("REFDOCS_SITE_CONFIG")); path != "" {
		cfg.SiteConfig = path
	}
	if dir := strings.TrimSpace(opts.OutputDir); dir != "" {
		cfg.Generator.OutputDir = dir
	}
	if driver := firstValue(opts.Driver, os.Getenv("REFDOCS_DB_DRIVER")); driver != "" {
		cfg.Storage.Driver = driver
	}
	if dsn := firstValue(opts.DSN, os.Getenv("REFDOCS_DB_DSN")); dsn != "" {
		cfg.Storage.DSN = dsn
	}

	cfg.Features.Review = opts.WithReview
	cfg.Features.Generator = opts.WithGenerator
	cfg.Generator.Enabled = opts.WithGenerator
	cfg.Features.Scheduling = opts.WithScheduling

	if opts.Agents > 0 {
		cfg.Review.Agents = opts.Agents
	} else if agents := parsePositiveInt(os.Getenv("REFDOCS_REVIEW_AGENTS")); agents > 0 {
		cfg.Review.Agents = agents
	}
	if opts.Timeout > 0 {
		cfg.Review.Timeout = opts.Timeout
	}
	if len(opts.EstimatorSizes) > 0 {
		cfg.Estimator.Sizes = append([]int(nil), opts.EstimatorSizes...)
	}

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	engine, err := refdocs.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise refdocs engine: %w", err)
	}

	return &Module{
		Engine: engine,
		Logger: engine.Logger(),
	}, nil
}

// SplitSizes parses a comma separated size list into a trimmed int slice.
func SplitSizes(value string) ([]int, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	sizes := make([]int, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		size, err := strconv.Atoi(trimmed)
		if err != nil {
			return nil, fmt.Errorf("parse size %q: %w", trimmed, err)
		}
		if size <= 0 {
			return nil, fmt.Errorf("size %d must be positive", size)
		}
		sizes = append(sizes, size)
	}
	return sizes, nil
}

func firstValue(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func parsePositiveInt(value string) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil || parsed <= 0 {
		return 0
	}
	return parsed
}
