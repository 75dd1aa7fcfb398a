package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-refdocs/corpus"
	"github.com/goliatone/go-refdocs/pkg/interfaces"
)

// Config controls how the corpus service discovers and parses pages.
type Config struct {
	// DocsDir is the root of the Markdown reference tree.
	DocsDir string
	// DataDir holds the JSON data files checked by Validate.
	DataDir string
	// SiteConfigPath points at the site.yml checked by Validate.
	SiteConfigPath string
	Pattern        string
	Recursive      bool
	Parser         interfaces.ParseOptions
}

// Service is the filesystem-backed corpus implementation. It loads pages,
// extracts complexity tables, counts rows, analyzes review quality, and
// validates repository structure.
type Service struct {
	cfg       Config
	parser    interfaces.MarkdownParser
	validator DataValidator
	loader    *Loader
}

// NewService constructs a corpus service. When parser is nil a Goldmark
// parser with the configured defaults is created; when validator is nil the
// data files are checked for shape only, not against their schemas.
func NewService(cfg Config, parser interfaces.MarkdownParser, validator DataValidator) (*Service, error) {
	filesystem, err := prepareFilesystem(cfg.DocsDir)
	if err != nil {
		return nil, err
	}

	if parser == nil {
		parser = NewGoldmarkParser(cfg.Parser)
	}

	loader := NewLoader(filesystem, LoaderConfig{
		BasePath:  cfg.DocsDir,
		Pattern:   cfg.Pattern,
		Recursive: cfg.Recursive,
	})

	return &Service{
		cfg:       cfg,
		parser:    parser,
		validator: validator,
		loader:    loader,
	}, nil
}

// Scan walks the docs tree and returns every page in path order.
func (s *Service) Scan(ctx context.Context) ([]*corpus.Page, error) {
	results, err := s.loader.LoadDirectory(ctx, ".", LoadParams{})
	if err != nil {
		return nil, err
	}

	pages := make([]*corpus.Page, 0, len(results))
	for _, result := range results {
		pages = append(pages, result.Page)
	}
	return pages, nil
}

// Pages is an alias for Scan kept for readability at call sites.
func (s *Service) Pages(ctx context.Context) ([]*corpus.Page, error) {
	return s.Scan(ctx)
}

// Load reads a single page relative to the docs root.
func (s *Service) Load(ctx context.Context, path string) (*corpus.Page, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, corpus.ErrPathRequired
	}
	if filepath.Ext(path) != ".md" {
		return nil, fmt.Errorf("%w: %s", corpus.ErrNotMarkdown, path)
	}

	result, err := s.loader.LoadFile(ctx, s.normalisePath(path), LoadParams{})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", corpus.ErrPageNotFound, path)
		}
		return nil, err
	}
	return result.Page, nil
}

// ReviewablePages returns the pages a review pass may claim: every page
// except index pages, sorted by path. Dotfiles never survive the loader.
func (s *Service) ReviewablePages(ctx context.Context) ([]*corpus.Page, error) {
	pages, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}

	reviewable := make([]*corpus.Page, 0, len(pages))
	for _, page := range pages {
		if page.IsIndex() {
			continue
		}
		reviewable = append(reviewable, page)
	}

	sort.Slice(reviewable, func(i, j int) bool {
		return reviewable[i].Path < reviewable[j].Path
	})
	return reviewable, nil
}

// Tables extracts the complexity tables of a single page.
func (s *Service) Tables(ctx context.Context, path string) ([]corpus.ComplexityTable, error) {
	page, err := s.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return ExtractTables(page.Path, page.Body)
}

// CountRows scans the whole tree and aggregates complexity-row totals.
func (s *Service) CountRows(ctx context.Context) (*corpus.RowCountReport, error) {
	pages, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return BuildRowCountReport(pages), nil
}

// Analyze derives the review summary for a single page.
func (s *Service) Analyze(ctx context.Context, path string) (corpus.ReviewSummary, error) {
	page, err := s.Load(ctx, path)
	if err != nil {
		return corpus.ReviewSummary{}, err
	}
	return Analyze(page), nil
}

// AnalyzeAll derives review summaries for every reviewable page.
func (s *Service) AnalyzeAll(ctx context.Context) ([]corpus.ReviewSummary, error) {
	pages, err := s.ReviewablePages(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]corpus.ReviewSummary, 0, len(pages))
	for _, page := range pages {
		summaries = append(summaries, Analyze(page))
	}
	return summaries, nil
}

// Validate checks the corpus structure, site config, and data files. The
// returned slice is empty when everything passes.
func (s *Service) Validate(ctx context.Context) ([]corpus.ValidationIssue, error) {
	pages, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}

	cfg := ValidateConfig{
		SiteConfigPath: s.cfg.SiteConfigPath,
		DataDir:        s.cfg.DataDir,
	}
	return ValidateStructure(pages, cfg, s.validator), nil
}

// Render parses Markdown bytes into HTML using the configured parser.
func (s *Service) Render(ctx context.Context, markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return s.parser.ParseWithOptions(markdown, mergeParseOptions(s.cfg.Parser, opts))
}

func (s *Service) normalisePath(path string) string {
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) && strings.TrimSpace(s.cfg.DocsDir) != "" {
		if rel, err := filepath.Rel(s.cfg.DocsDir, clean); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(clean)
}

func mergeParseOptions(base, override interfaces.ParseOptions) interfaces.ParseOptions {
	result := base
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	if override.Sanitize {
		result.Sanitize = true
	}
	if override.HardWraps {
		result.HardWraps = true
	}
	if override.SafeMode {
		result.SafeMode = true
	}
	return result
}

func prepareFilesystem(docsDir string) (fs.FS, error) {
	if strings.TrimSpace(docsDir) == "" {
		docsDir = "."
	}
	if _, err := os.Stat(docsDir); err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", corpus.ErrDocsRootMissing, docsDir, err)
	}
	return os.DirFS(docsDir), nil
}
