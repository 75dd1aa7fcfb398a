package generator

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-refdocs/corpus"
	"github.com/goliatone/go-refdocs/internal/identity"
	"github.com/goliatone/go-refdocs/internal/logging"
	"github.com/goliatone/go-refdocs/pkg/activity"
	"github.com/goliatone/go-refdocs/pkg/interfaces"
	gotheme "github.com/goliatone/go-theme"
)

var (
	// ErrServiceDisabled indicates the generator feature is disabled.
	ErrServiceDisabled = errors.New("generator: service disabled")

	errPagesRequired  = errors.New("generator: corpus page source is required")
	errParserRequired = errors.New("generator: markdown parser is required")
	errOutputRequired = errors.New("generator: output directory is required")
)

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Scaffold(ctx context.Context, opts ScaffoldOptions) (*ScaffoldResult, error)
	BuildAssets(ctx context.Context) error
	BuildSitemap(ctx context.Context) error
	Clean(ctx context.Context) error
}

// Config captures runtime behaviour toggles for the generator. CleanBuild
// removes the output directory before rendering. RenderTimeout and
// AssetCopyTimeout bound their phases; zero means no deadline.
type Config struct {
	DocsDir          string
	OutputDir        string
	SiteConfigPath   string
	BaseURL          string
	CleanBuild       bool
	Incremental      bool
	CopyAssets       bool
	GenerateSitemap  bool
	GenerateRobots   bool
	Workers          int
	RenderTimeout    time.Duration
	AssetCopyTimeout time.Duration
	Routes           RoutesConfig
	Theming          ThemingConfig
}

// BuildOptions narrows the scope of a generator run. Workers overrides the
// configured pool size for this run only.
type BuildOptions struct {
	Force   bool
	DryRun  bool
	Workers int
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	PagesBuilt    int
	PagesSkipped  int
	AssetsBuilt   int
	AssetsSkipped int
	Duration      time.Duration
	Rendered      []RenderedPage
	Diagnostics   []RenderDiagnostic
	Errors        []error
	DryRun        bool
}

// PageSource lists the corpus pages a build renders.
type PageSource interface {
	Pages(ctx context.Context) ([]*corpus.Page, error)
}

// Dependencies lists the collaborators required by the generator.
type Dependencies struct {
	Corpus   PageSource
	Catalog  ItemSource
	Parser   interfaces.MarkdownParser
	Storage  interfaces.StorageProvider
	Runs     RunRepository
	Logger   interfaces.Logger
	Activity *activity.Emitter
	Clock    func() time.Time
}

// NewService wires a generator implementation with the provided configuration
// and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	if deps.Logger == nil {
		deps.Logger = logging.NoOp()
	}
	if deps.Activity == nil {
		deps.Activity = activity.NewEmitter(nil, activity.Config{})
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &service{
		cfg:    cfg,
		deps:   deps,
		themes: newThemeSelector(cfg.Theming, nil),
		now:    deps.Clock,
	}
}

// NewDisabledService returns a Service that fails all operations with
// ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg    Config
	deps   Dependencies
	themes *themeSelector
	now    func() time.Time
}

type disabledService struct{}

// buildEnv carries the per-run collaborators shared by every page render.
type buildEnv struct {
	site        *SiteConfig
	siteHash    string
	selection   *gotheme.Selection
	themeDir    string
	theme       themeView
	layout      *layoutRenderer
	urls        *siteURLs
	nav         []NavLink
	homeURL     string
	baseURL     string
	baseDir     string
	generatedAt time.Time
}

// prepare resolves the site config, theme selection, layout, and URL
// builders for one run.
func (s *service) prepare(ctx context.Context) (*buildEnv, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	siteCfg, siteHash, err := LoadSiteConfig(s.cfg.SiteConfigPath)
	if err != nil {
		return nil, err
	}

	baseURL := strings.TrimRight(strings.TrimSpace(s.cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = siteCfg.BaseURL
	}

	selection, err := s.themes.Selection(siteCfg.Theme.Name, siteCfg.Theme.Variant)
	if err != nil {
		return nil, err
	}
	themeDir := ""
	if selection != nil {
		themeDir = s.themes.ThemePath(selection.Theme)
	}
	layout, err := newLayoutRenderer(selection, themeDir)
	if err != nil {
		return nil, err
	}

	urls, err := newSiteURLs(newRouteManager(baseURL, s.cfg.Routes), s.cfg.Routes)
	if err != nil {
		return nil, err
	}
	nav, err := buildNav(urls, siteCfg.Nav)
	if err != nil {
		return nil, err
	}
	homeURL, err := urls.Home()
	if err != nil {
		return nil, err
	}

	return &buildEnv{
		site:      siteCfg,
		siteHash:  siteHash,
		selection: selection,
		themeDir:  themeDir,
		theme:     buildThemeView(selection, s.cfg.Theming.CSSVariablePrefix),
		layout:    layout,
		urls:      urls,
		nav:       nav,
		homeURL:   homeURL,
		baseURL:   baseURL,
		baseDir:   strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/"),
	}, nil
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Corpus == nil {
		return nil, errPagesRequired
	}
	if s.deps.Parser == nil {
		return nil, errParserRequired
	}

	start := time.Now()
	env, err := s.prepare(ctx)
	if err != nil {
		return nil, err
	}
	env.generatedAt = s.now().UTC()

	pages, err := s.deps.Corpus.Pages(ctx)
	if err != nil {
		return nil, fmt.Errorf("generator: list pages: %w", err)
	}

	result := &BuildResult{
		DryRun:      opts.DryRun,
		Diagnostics: make([]RenderDiagnostic, 0, len(pages)),
	}

	var (
		mu          sync.Mutex
		rendered    = make([]RenderedPage, 0, len(pages))
		errorsSlice []error
		pageKeys    = map[string]struct{}{}
	)

	writer := newArtifactWriter(s.deps.Storage)
	if s.cfg.CleanBuild && !opts.DryRun && env.baseDir != "" {
		if err := writer.Remove(ctx, env.baseDir); err != nil {
			return nil, fmt.Errorf("generator: clean output: %w", err)
		}
	}
	manifest, manifestErr := s.loadManifest(ctx, writer)
	if manifestErr != nil {
		errorsSlice = append(errorsSlice, manifestErr)
	}
	if manifest == nil {
		manifest = newBuildManifest()
	}
	if opts.Force || manifest.SiteHash != env.siteHash {
		manifest.resetPages()
	}

	collect := func(outcome renderOutcome) {
		mu.Lock()
		defer mu.Unlock()
		result.Diagnostics = append(result.Diagnostics, outcome.diagnostic)
		if key := manifest.pageKey(outcome.diagnostic.Path); key != "" {
			pageKeys[key] = struct{}{}
		}
		if outcome.err != nil {
			errorsSlice = append(errorsSlice, outcome.err)
			return
		}
		if outcome.skipped {
			result.PagesSkipped++
			return
		}
		result.PagesBuilt++
		if !opts.DryRun {
			rendered = append(rendered, outcome.page)
		}
	}

	renderCtx := ctx
	if s.cfg.RenderTimeout > 0 {
		var cancel context.CancelFunc
		renderCtx, cancel = context.WithTimeout(ctx, s.cfg.RenderTimeout)
		defer cancel()
	}

	workerCount := s.effectiveWorkerCount(len(pages), opts.Workers)
	if workerCount <= 1 || len(pages) <= 1 {
		for _, page := range pages {
			select {
			case <-renderCtx.Done():
				collect(renderOutcome{
					diagnostic: RenderDiagnostic{Path: page.Path, Err: renderCtx.Err()},
					err:        renderCtx.Err(),
				})
				return result, renderCtx.Err()
			default:
				collect(s.renderPage(renderCtx, env, page, manifest))
			}
		}
	} else {
		if err := s.renderConcurrently(renderCtx, env, pages, workerCount, manifest, collect); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if opts.DryRun {
		result.Rendered = rendered
		result.Duration = time.Since(start)
		if len(errorsSlice) > 0 {
			result.Errors = append(result.Errors, errorsSlice...)
			return result, errors.Join(errorsSlice...)
		}
		return result, nil
	}

	if err := s.persistPages(ctx, writer, rendered); err != nil {
		errorsSlice = append(errorsSlice, err)
	}

	if s.cfg.CopyAssets {
		assetCtx, cancel := s.assetContext(ctx)
		assetSummary, err := s.copyAssets(assetCtx, writer, env, manifest)
		cancel()
		if err != nil {
			errorsSlice = append(errorsSlice, err)
		} else {
			result.AssetsBuilt += assetSummary.Built
			result.AssetsSkipped += assetSummary.Skipped
		}
	}

	if s.cfg.GenerateSitemap {
		sitemapPages := s.mergeRenderedForSitemap(pages, rendered, manifest, env)
		if err := s.writeSitemap(ctx, writer, env, sitemapPages); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if s.cfg.GenerateRobots {
		if err := s.writeRobots(ctx, writer, env); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if len(errorsSlice) == 0 {
		manifest.GeneratedAt = env.generatedAt
		manifest.SiteHash = env.siteHash
		for _, page := range rendered {
			if strings.TrimSpace(page.Checksum) == "" {
				continue
			}
			manifest.setPage(manifestPage{
				Path:       page.Path,
				Checksum:   page.Checksum,
				Output:     page.Output,
				Route:      page.Route,
				RenderedAt: env.generatedAt,
				ModTime:    page.ModTime,
			})
		}
		manifest.prunePages(pageKeys)
		if err := s.persistManifest(ctx, writer, manifest); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	result.Rendered = rendered
	result.Duration = time.Since(start)
	if len(errorsSlice) > 0 {
		result.Errors = append(result.Errors, errorsSlice...)
		return result, errors.Join(errorsSlice...)
	}

	s.recordRun(ctx, env, manifest, result, opts)
	return result, nil
}

func (s *service) renderConcurrently(
	ctx context.Context,
	env *buildEnv,
	pages []*corpus.Page,
	workers int,
	manifest *buildManifest,
	collect func(renderOutcome),
) error {
	jobs := make(chan *corpus.Page)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for page := range jobs {
				select {
				case <-ctx.Done():
					collect(renderOutcome{
						diagnostic: RenderDiagnostic{Path: page.Path, Err: ctx.Err()},
						err:        ctx.Err(),
					})
					return
				default:
					collect(s.renderPage(ctx, env, page, manifest))
				}
			}
		}()
	}

	for _, page := range pages {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- page:
		}
	}
	close(jobs)
	wg.Wait()
	return nil
}

func (s *service) renderPage(
	ctx context.Context,
	env *buildEnv,
	page *corpus.Page,
	manifest *buildManifest,
) renderOutcome {
	route := routeFor(page)
	outcome := renderOutcome{
		diagnostic: RenderDiagnostic{
			Path:     page.Path,
			Route:    route,
			Template: env.layout.Name(),
		},
	}

	select {
	case <-ctx.Done():
		outcome.err = ctx.Err()
		outcome.diagnostic.Err = ctx.Err()
		return outcome
	default:
	}

	output := joinOutputPath(env.baseDir, outputPathFor(page))
	if s.cfg.Incremental && manifest.shouldSkipPage(page.Path, page.Checksum, output) {
		outcome.skipped = true
		outcome.diagnostic.Skipped = true
		return outcome
	}

	url, err := env.urls.Page(page)
	if err != nil {
		outcome.err = err
		outcome.diagnostic.Err = err
		return outcome
	}

	start := time.Now()
	body, err := s.deps.Parser.Parse(page.Body)
	if err != nil {
		wrapped := fmt.Errorf("generator: parse %s: %w", page.Path, err)
		outcome.err = wrapped
		outcome.diagnostic.Err = wrapped
		outcome.diagnostic.Duration = time.Since(start)
		return outcome
	}

	html, err := env.layout.Render(layoutData{
		Site: siteView{
			Name:        env.site.SiteName,
			Description: env.site.SiteDescription,
			BaseURL:     env.baseURL,
			HomeURL:     env.homeURL,
		},
		Page: pageView{
			Title:   pageTitle(page),
			Route:   route,
			URL:     url,
			Section: string(page.Section),
			Slug:    page.Slug,
			Meta:    page.Meta,
		},
		Nav:         env.nav,
		Theme:       env.theme,
		Content:     template.HTML(body),
		GeneratedAt: env.generatedAt,
	})
	duration := time.Since(start)
	outcome.diagnostic.Duration = duration
	if err != nil {
		wrapped := fmt.Errorf("generator: render %s: %w", page.Path, err)
		outcome.err = wrapped
		outcome.diagnostic.Err = wrapped
		return outcome
	}

	outcome.page = RenderedPage{
		Path:     page.Path,
		Section:  page.Section,
		Slug:     page.Slug,
		Route:    route,
		URL:      url,
		Output:   output,
		Template: env.layout.Name(),
		HTML:     html,
		Checksum: page.Checksum,
		ModTime:  page.ModTime,
		Duration: duration,
	}
	return outcome
}

func (s *service) persistPages(ctx context.Context, writer artifactWriter, pages []RenderedPage) error {
	if len(pages) == 0 {
		return nil
	}
	baseDir := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	dirCache := map[string]struct{}{}
	if baseDir != "" {
		dirCache[baseDir] = struct{}{}
		if err := writer.EnsureDir(ctx, baseDir); err != nil {
			return err
		}
	}
	for i := range pages {
		fullPath := pages[i].Output
		if strings.TrimSpace(fullPath) == "" {
			fullPath = joinOutputPath(baseDir, "index.html")
			pages[i].Output = fullPath
		}
		if err := ensureDir(ctx, writer, dirCache, path.Dir(fullPath)); err != nil {
			return err
		}
		metadata := map[string]string{
			"source":   pages[i].Path,
			"route":    pages[i].Route,
			"template": pages[i].Template,
		}
		if s.cfg.Incremental {
			metadata["incremental"] = "true"
		}
		req := writeFileRequest{
			Path:        fullPath,
			Content:     strings.NewReader(pages[i].HTML),
			Size:        int64(len(pages[i].HTML)),
			Category:    categoryPage,
			ContentType: "text/html; charset=utf-8",
			Checksum:    computeHashFromString(pages[i].HTML),
			Metadata:    metadata,
		}
		if err := writer.WriteFile(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

type assetCopySummary struct {
	Built   int
	Skipped int
}

func (s *service) copyAssets(
	ctx context.Context,
	writer artifactWriter,
	env *buildEnv,
	manifest *buildManifest,
) (assetCopySummary, error) {
	summary := assetCopySummary{}
	if env.selection == nil {
		return summary, nil
	}
	assets := collectThemeAssets(env.selection)
	if len(assets) == 0 {
		return summary, nil
	}
	dirCache := map[string]struct{}{}
	if env.baseDir != "" {
		dirCache[env.baseDir] = struct{}{}
		if err := writer.EnsureDir(ctx, env.baseDir); err != nil {
			return summary, err
		}
	}
	for _, asset := range assets {
		source := filepath.Join(env.themeDir, filepath.FromSlash(asset))
		data, err := os.ReadFile(source)
		if err != nil {
			return summary, fmt.Errorf("generator: read theme asset %s: %w", asset, err)
		}
		destRel := path.Join("assets", asset)
		fullPath := joinOutputPath(env.baseDir, destRel)
		checksum := computeHash(data)
		if s.cfg.Incremental && manifest.shouldSkipAsset(asset, checksum, fullPath) {
			summary.Skipped++
			continue
		}
		if err := ensureDir(ctx, writer, dirCache, path.Dir(fullPath)); err != nil {
			return summary, err
		}
		req := writeFileRequest{
			Path:        fullPath,
			Content:     bytes.NewReader(data),
			Size:        int64(len(data)),
			Category:    categoryAsset,
			ContentType: detectAssetContentType(destRel),
			Checksum:    checksum,
			Metadata: map[string]string{
				"theme": env.selection.Theme,
				"asset": asset,
			},
		}
		if err := writer.WriteFile(ctx, req); err != nil {
			return summary, err
		}
		summary.Built++
		manifest.setAsset(manifestAsset{
			Source:   asset,
			Checksum: checksum,
			Output:   fullPath,
			Size:     int64(len(data)),
			CopiedAt: s.now(),
		})
	}
	return summary, nil
}

// mergeRenderedForSitemap combines freshly rendered pages with manifest
// entries for pages the incremental build skipped, so the sitemap always
// covers the full corpus.
func (s *service) mergeRenderedForSitemap(
	pages []*corpus.Page,
	rendered []RenderedPage,
	manifest *buildManifest,
	env *buildEnv,
) []RenderedPage {
	renderedByPath := make(map[string]RenderedPage, len(rendered))
	for _, page := range rendered {
		renderedByPath[page.Path] = page
	}

	sitemap := make([]RenderedPage, 0, len(pages))
	for _, page := range pages {
		if entry, ok := renderedByPath[page.Path]; ok {
			sitemap = append(sitemap, entry)
			continue
		}
		url := ""
		if resolved, err := env.urls.Page(page); err == nil {
			url = resolved
		}
		if entry, ok := manifest.lookupPage(page.Path); ok {
			sitemap = append(sitemap, RenderedPage{
				Path:     page.Path,
				Section:  page.Section,
				Slug:     page.Slug,
				Route:    entry.Route,
				URL:      url,
				Output:   entry.Output,
				Checksum: entry.Checksum,
				ModTime:  entry.ModTime,
			})
			continue
		}
		sitemap = append(sitemap, RenderedPage{
			Path:    page.Path,
			Section: page.Section,
			Slug:    page.Slug,
			Route:   routeFor(page),
			URL:     url,
			ModTime: page.ModTime,
		})
	}
	return sitemap
}

func (s *service) loadManifest(ctx context.Context, writer artifactWriter) (*buildManifest, error) {
	target := s.manifestTargetPath()
	if strings.TrimSpace(target) == "" {
		return newBuildManifest(), nil
	}
	data, found, err := writer.ReadFile(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("generator: read manifest: %w", err)
	}
	if !found {
		return newBuildManifest(), nil
	}
	return parseManifest(data)
}

func (s *service) manifestTargetPath() string {
	base := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	return joinOutputPath(base, manifestFileName)
}

func (s *service) persistManifest(ctx context.Context, writer artifactWriter, manifest *buildManifest) error {
	if manifest == nil {
		return nil
	}
	data, err := manifest.marshal()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	target := s.manifestTargetPath()
	if strings.TrimSpace(target) == "" {
		return nil
	}
	if err := ensureDir(ctx, writer, map[string]struct{}{}, path.Dir(target)); err != nil {
		return err
	}
	metadata := map[string]string{
		"version": strconv.Itoa(manifest.Version),
	}
	if !manifest.GeneratedAt.IsZero() {
		metadata["generated_at"] = manifest.GeneratedAt.UTC().Format(time.RFC3339)
	}
	req := writeFileRequest{
		Path:        target,
		Content:     bytes.NewReader(data),
		Size:        int64(len(data)),
		Category:    categoryManifest,
		ContentType: "application/json",
		Checksum:    computeHash(data),
		Metadata:    metadata,
	}
	return writer.WriteFile(ctx, req)
}

func (s *service) writeSitemap(ctx context.Context, writer artifactWriter, env *buildEnv, pages []RenderedPage) error {
	content := buildSitemap(env.baseURL, pages, env.generatedAt)
	fullPath := joinOutputPath(env.baseDir, "sitemap.xml")
	if err := ensureDir(ctx, writer, map[string]struct{}{}, path.Dir(fullPath)); err != nil {
		return err
	}
	req := writeFileRequest{
		Path:        fullPath,
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categorySitemap,
		ContentType: "application/xml",
		Checksum:    computeHashFromString(content),
		Metadata: map[string]string{
			"generated_at": env.generatedAt.UTC().Format(time.RFC3339),
		},
	}
	return writer.WriteFile(ctx, req)
}

func (s *service) writeRobots(ctx context.Context, writer artifactWriter, env *buildEnv) error {
	content := buildRobots(env.baseURL, s.cfg.GenerateSitemap)
	fullPath := joinOutputPath(env.baseDir, "robots.txt")
	if err := ensureDir(ctx, writer, map[string]struct{}{}, path.Dir(fullPath)); err != nil {
		return err
	}
	req := writeFileRequest{
		Path:        fullPath,
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categoryRobots,
		ContentType: "text/plain; charset=utf-8",
		Checksum:    computeHashFromString(content),
		Metadata: map[string]string{
			"generated_at": env.generatedAt.UTC().Format(time.RFC3339),
		},
	}
	return writer.WriteFile(ctx, req)
}

// recordRun persists the run row and emits the build activity event. Both
// are best-effort; a failed journal entry never fails a finished build.
func (s *service) recordRun(ctx context.Context, env *buildEnv, manifest *buildManifest, result *BuildResult, opts BuildOptions) {
	sum, err := manifest.checksum()
	if err != nil {
		s.deps.Logger.Warn("generator manifest checksum failed", "error", err)
		return
	}
	run := &GeneratorRun{
		ID:           identity.GeneratorRunUUID(sum),
		RanAt:        env.generatedAt,
		PagesBuilt:   result.PagesBuilt,
		PagesSkipped: result.PagesSkipped,
		AssetsBuilt:  result.AssetsBuilt,
		Force:        opts.Force,
		DurationMS:   result.Duration.Milliseconds(),
		SiteHash:     env.siteHash,
	}
	if s.deps.Runs != nil {
		saved, err := s.deps.Runs.Save(ctx, run)
		if err != nil {
			s.deps.Logger.Warn("generator run save failed", "error", err)
		} else {
			run = saved
		}
	}

	if err := s.deps.Activity.Emit(ctx, activity.Event{
		Verb:       "build",
		ObjectType: "site",
		ObjectID:   run.ID.String(),
		Metadata: map[string]any{
			"pages_built":   result.PagesBuilt,
			"pages_skipped": result.PagesSkipped,
			"assets_built":  result.AssetsBuilt,
			"force":         opts.Force,
		},
	}); err != nil {
		s.deps.Logger.Warn("generator activity emit failed", "error", err)
	}

	s.deps.Logger.Info("site build complete",
		"pages_built", result.PagesBuilt,
		"pages_skipped", result.PagesSkipped,
		"assets_built", result.AssetsBuilt,
		"duration", result.Duration,
	)
}

// BuildAssets copies the selected theme's assets without rendering pages.
func (s *service) BuildAssets(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	env, err := s.prepare(ctx)
	if err != nil {
		return err
	}
	env.generatedAt = s.now().UTC()

	writer := newArtifactWriter(s.deps.Storage)
	manifest, err := s.loadManifest(ctx, writer)
	if err != nil {
		return err
	}
	assetCtx, cancel := s.assetContext(ctx)
	defer cancel()
	if _, err := s.copyAssets(assetCtx, writer, env, manifest); err != nil {
		return err
	}
	return s.persistManifest(ctx, writer, manifest)
}

// assetContext applies the configured asset copy deadline when one is set.
func (s *service) assetContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.AssetCopyTimeout > 0 {
		return context.WithTimeout(ctx, s.cfg.AssetCopyTimeout)
	}
	return ctx, func() {}
}

// BuildSitemap writes sitemap.xml from the current corpus, reusing manifest
// entries for pages that already rendered.
func (s *service) BuildSitemap(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.deps.Corpus == nil {
		return errPagesRequired
	}
	env, err := s.prepare(ctx)
	if err != nil {
		return err
	}
	env.generatedAt = s.now().UTC()

	pages, err := s.deps.Corpus.Pages(ctx)
	if err != nil {
		return fmt.Errorf("generator: list pages: %w", err)
	}
	writer := newArtifactWriter(s.deps.Storage)
	manifest, err := s.loadManifest(ctx, writer)
	if err != nil {
		return err
	}
	return s.writeSitemap(ctx, writer, env, s.mergeRenderedForSitemap(pages, nil, manifest, env))
}

// Clean removes the rendered site, including the build manifest.
func (s *service) Clean(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	baseDir := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	if baseDir == "" {
		return errOutputRequired
	}
	writer := newArtifactWriter(s.deps.Storage)
	return writer.Remove(ctx, baseDir)
}

func (s *service) effectiveWorkerCount(pageCount, override int) int {
	workers := s.cfg.Workers
	if override > 0 {
		workers = override
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if pageCount > 0 && workers > pageCount {
		return pageCount
	}
	return workers
}

func ensureDir(ctx context.Context, writer artifactWriter, cache map[string]struct{}, dir string) error {
	dir = strings.Trim(dir, " ")
	if dir == "" || dir == "." {
		return nil
	}
	if cache != nil {
		if _, ok := cache[dir]; ok {
			return nil
		}
		cache[dir] = struct{}{}
	}
	return writer.EnsureDir(ctx, dir)
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func computeHashFromString(content string) string {
	return computeHash([]byte(content))
}

func (disabledService) Build(context.Context, BuildOptions) (*BuildResult, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) Scaffold(context.Context, ScaffoldOptions) (*ScaffoldResult, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) BuildAssets(context.Context) error {
	return ErrServiceDisabled
}

func (disabledService) BuildSitemap(context.Context) error {
	return ErrServiceDisabled
}

func (disabledService) Clean(context.Context) error {
	return ErrServiceDisabled
}
