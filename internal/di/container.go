// Package di wires the refdocs engine: it builds services from the runtime
// configuration, connects them to their repositories, and hands out the
// resulting instances to the root facade and the command layer.
package di

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-refdocs/internal/adapters/storage"
	"github.com/goliatone/go-refdocs/internal/audit"
	"github.com/goliatone/go-refdocs/internal/catalog"
	corpussvc "github.com/goliatone/go-refdocs/internal/corpus"
	"github.com/goliatone/go-refdocs/internal/estimator"
	"github.com/goliatone/go-refdocs/internal/generator"
	"github.com/goliatone/go-refdocs/internal/jobs"
	"github.com/goliatone/go-refdocs/internal/logging"
	"github.com/goliatone/go-refdocs/internal/logging/console"
	"github.com/goliatone/go-refdocs/internal/logging/gologger"
	"github.com/goliatone/go-refdocs/internal/review"
	"github.com/goliatone/go-refdocs/internal/runtimeconfig"
	"github.com/goliatone/go-refdocs/internal/scheduler"
	"github.com/goliatone/go-refdocs/internal/schema"
	"github.com/goliatone/go-refdocs/pkg/activity"
	"github.com/goliatone/go-refdocs/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// Container wires engine dependencies from a validated configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	storage        interfaces.StorageProvider
	notifier       activity.Notifier
	emitter        *activity.Emitter
	clock          func() time.Time

	bunDB  *bun.DB
	ownsDB bool

	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer
	cacheTTL      time.Duration

	catalogRepo   catalog.ItemRepository
	auditRuns     audit.RunRepository
	reviewRuns    review.RunRepository
	generatorRuns generator.RunRepository

	corpusSvc    *corpussvc.Service
	catalogSvc   *catalog.Service
	auditSvc     *audit.Service
	estimatorSvc *estimator.Service
	reviewSvc    *review.Service
	generatorSvc generator.Service

	schedulerSvc interfaces.Scheduler
	jobWorker    *jobs.Worker
	jobJournal   *jobs.InMemoryJournal
}

// Option mutates the container before services are finalised.
type Option func(*Container)

// WithLoggerProvider overrides the logger provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithStorage overrides the artifact storage provider used by the generator.
func WithStorage(sp interfaces.StorageProvider) Option {
	return func(c *Container) {
		c.storage = sp
	}
}

// WithBunDB injects an externally managed database handle. The container
// will not close handles it did not open.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithNotifier sets the activity sink that receives engine events.
func WithNotifier(notifier activity.Notifier) Option {
	return func(c *Container) {
		c.notifier = notifier
	}
}

// WithClock overrides the time source shared by every service.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithScheduler overrides the default in-memory scheduler binding.
func WithScheduler(s interfaces.Scheduler) Option {
	return func(c *Container) {
		c.schedulerSvc = s
	}
}

// WithCatalogService overrides the default catalog service binding.
func WithCatalogService(svc *catalog.Service) Option {
	return func(c *Container) {
		c.catalogSvc = svc
	}
}

// WithAuditService overrides the default audit service binding.
func WithAuditService(svc *audit.Service) Option {
	return func(c *Container) {
		c.auditSvc = svc
	}
}

// WithReviewService overrides the default review service binding.
func WithReviewService(svc *review.Service) Option {
	return func(c *Container) {
		c.reviewSvc = svc
	}
}

// WithEstimatorService overrides the default estimator service binding.
func WithEstimatorService(svc *estimator.Service) Option {
	return func(c *Container) {
		c.estimatorSvc = svc
	}
}

// WithGeneratorService overrides the default generator service binding.
func WithGeneratorService(svc generator.Service) Option {
	return func(c *Container) {
		c.generatorSvc = svc
	}
}

// NewContainer validates the configuration and builds every enabled service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		clock:    time.Now,
		cacheTTL: cacheTTL,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	c.configureEmitter()
	if err := c.configureDatabase(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	c.configureStorage()

	if err := c.configureServices(); err != nil {
		_ = c.Close()
		return nil, err
	}
	c.configureScheduling()

	return c, nil
}

// Close releases resources the container opened itself, currently the
// database handle when the configuration asked for one.
func (c *Container) Close() error {
	if c == nil || !c.ownsDB || c.bunDB == nil {
		return nil
	}
	db := c.bunDB
	c.bunDB = nil
	c.ownsDB = false
	return db.Close()
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		minLevel := console.ParseLevel(logCfg.Level)
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: &minLevel})
	}
	return nil
}

func (c *Container) configureEmitter() {
	c.emitter = activity.NewEmitter(c.notifier, activity.Config{
		Enabled: c.Config.Features.Activity,
		Clock:   c.clock,
	})
}

func (c *Container) configureDatabase() error {
	if c.bunDB != nil {
		return c.ensureSchema()
	}
	if !strings.EqualFold(strings.TrimSpace(c.Config.Storage.Provider), "bun") {
		return nil
	}

	db, err := storage.OpenDatabase(c.Config.Storage.Driver, c.Config.Storage.DSN)
	if err != nil {
		return err
	}
	c.bunDB = db
	c.ownsDB = true
	return c.ensureSchema()
}

// ensureSchema creates the engine tables when they are absent. Creation is
// idempotent so externally migrated databases pass through untouched.
func (c *Container) ensureSchema() error {
	ctx := context.Background()
	models := []any{
		(*catalog.CatalogItem)(nil),
		(*audit.AuditRun)(nil),
		(*review.ReviewRun)(nil),
		(*generator.GeneratorRun)(nil),
	}
	for _, model := range models {
		if _, err := c.bunDB.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("di: create table for %T: %w", model, err)
		}
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB != nil {
		if c.Config.Features.CachedReads && c.cacheService != nil {
			c.catalogRepo = catalog.NewBunItemRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		} else {
			c.catalogRepo = catalog.NewBunItemRepository(c.bunDB)
		}
		c.auditRuns = audit.NewBunRunRepository(c.bunDB)
		c.reviewRuns = review.NewBunRunRepository(c.bunDB)
		c.generatorRuns = generator.NewBunRunRepository(c.bunDB)
		return
	}

	c.catalogRepo = catalog.NewMemoryItemRepository()
	c.auditRuns = audit.NewMemoryRunRepository()
	c.reviewRuns = review.NewMemoryRunRepository()
	c.generatorRuns = generator.NewMemoryRunRepository()
}

func (c *Container) configureStorage() {
	if c.storage != nil {
		return
	}
	if c.Config.Generator.Enabled {
		outputDir := strings.TrimSpace(c.Config.Generator.OutputDir)
		// The generator prefixes artifact paths with the slash-trimmed
		// output dir, so the storage base must use the same form.
		c.storage = storage.NewFilesystemStorage(outputDir, strings.Trim(outputDir, "/"))
		return
	}
	c.storage = storage.NewNoOpProvider()
}

func (c *Container) configureServices() error {
	cfg := c.Config

	// One parser instance serves both the corpus scanner and the site
	// renderer so table extraction and HTML output stay in lockstep.
	parser := corpussvc.NewGoldmarkParser(interfaces.ParseOptions{})

	if c.corpusSvc == nil {
		registry, err := schema.NewRegistry()
		if err != nil {
			return err
		}
		svc, err := corpussvc.NewService(corpussvc.Config{
			DocsDir:        cfg.DocsDir,
			DataDir:        cfg.DataDir,
			SiteConfigPath: cfg.SiteConfig,
			Recursive:      true,
		}, parser, registry)
		if err != nil {
			return err
		}
		c.corpusSvc = svc
	}

	if c.catalogSvc == nil {
		c.catalogSvc = catalog.NewService(catalog.Config{
			BuiltinsPath: dataFilePath(cfg.DataDir, cfg.Catalog.BuiltinsFile, "builtins.json"),
			StdlibPath:   dataFilePath(cfg.DataDir, cfg.Catalog.StdlibFile, "stdlib.json"),
		}, c.catalogRepo, catalog.WithLogger(logging.CatalogLogger(c.loggerProvider)))
	}

	if c.auditSvc == nil && cfg.Features.Audit {
		c.auditSvc = audit.NewService(audit.Config{
			DocsDir: cfg.DocsDir,
			DataDir: cfg.DataDir,
		}, c.catalogSvc,
			audit.WithRunRepository(c.auditRuns),
			audit.WithEmitter(c.emitter),
			audit.WithLogger(logging.AuditLogger(c.loggerProvider)),
			audit.WithClock(c.clock),
		)
	}

	if c.estimatorSvc == nil {
		c.estimatorSvc = estimator.NewService(estimator.Config{
			Sizes:      cfg.Estimator.Sizes,
			Iterations: cfg.Estimator.Iterations,
		}, estimator.WithLogger(logging.EstimatorLogger(c.loggerProvider)))
	}

	if c.reviewSvc == nil && cfg.Features.Review {
		c.reviewSvc = review.NewService(review.Config{
			DataDir:      cfg.DataDir,
			LockDir:      cfg.Review.LockDir,
			ProgressFile: cfg.Review.ProgressFile,
			SummaryFile:  cfg.Review.SummaryFile,
			Agents:       cfg.Review.Agents,
			Timeout:      cfg.Review.Timeout,
		}, c.corpusSvc,
			review.WithRunRepository(c.reviewRuns),
			review.WithEmitter(c.emitter),
			review.WithLogger(logging.ReviewLogger(c.loggerProvider)),
			review.WithClock(c.clock),
		)
	}

	if c.generatorSvc == nil {
		if !cfg.Generator.Enabled {
			c.generatorSvc = generator.NewDisabledService()
		} else {
			c.generatorSvc = generator.NewService(generator.Config{
				DocsDir:          cfg.DocsDir,
				OutputDir:        cfg.Generator.OutputDir,
				SiteConfigPath:   cfg.SiteConfig,
				BaseURL:          cfg.Generator.BaseURL,
				CleanBuild:       cfg.Generator.CleanBuild,
				Incremental:      cfg.Generator.Incremental,
				CopyAssets:       cfg.Generator.CopyAssets,
				GenerateSitemap:  cfg.Generator.GenerateSitemap,
				GenerateRobots:   cfg.Generator.GenerateRobots,
				Workers:          cfg.Generator.Workers,
				RenderTimeout:    cfg.Generator.RenderTimeout,
				AssetCopyTimeout: cfg.Generator.AssetCopyTimeout,
				Routes: generator.RoutesConfig{
					Table:   cfg.Navigation.RouteConfig,
					Group:   cfg.Navigation.Group,
					Home:    cfg.Navigation.HomeRoute,
					Section: cfg.Navigation.SectionRoute,
					Page:    cfg.Navigation.PageRoute,
				},
				Theming: generator.ThemingConfig{
					ThemesDir:      cfg.Generator.Theming.ThemesDir,
					DefaultTheme:   cfg.Generator.Theming.DefaultTheme,
					DefaultVariant: cfg.Generator.Theming.DefaultVariant,
				},
			}, generator.Dependencies{
				Corpus:   c.corpusSvc,
				Catalog:  c.catalogSvc,
				Parser:   parser,
				Storage:  c.storage,
				Runs:     c.generatorRuns,
				Logger:   logging.GeneratorLogger(c.loggerProvider),
				Activity: c.emitter,
				Clock:    c.clock,
			})
		}
	}

	return nil
}

func (c *Container) configureScheduling() {
	if !c.Config.Features.Scheduling {
		if c.schedulerSvc == nil {
			c.schedulerSvc = scheduler.NewNoOp()
		}
		return
	}

	if c.schedulerSvc == nil {
		c.schedulerSvc = scheduler.NewInMemory(scheduler.WithClock(c.clock))
	}

	// Assign through typed variables so a disabled service stays a nil
	// interface and the worker refuses the matching job type.
	var audits jobs.AuditRunner
	if c.auditSvc != nil {
		audits = c.auditSvc
	}
	var sweeps jobs.LockSweeper
	if c.reviewSvc != nil {
		sweeps = c.reviewSvc
	}

	c.jobJournal = jobs.NewInMemoryJournal()
	c.jobWorker = jobs.NewWorker(c.schedulerSvc, audits, sweeps, c.generatorSvc,
		jobs.WithJournal(c.jobJournal),
		jobs.WithActivityEmitter(c.emitter),
		jobs.WithClock(c.clock),
	)
}

func dataFilePath(dataDir, fileName, fallback string) string {
	name := strings.TrimSpace(fileName)
	if name == "" {
		name = fallback
	}
	if strings.ContainsAny(name, "/\\") {
		return name
	}
	return filepath.Join(dataDir, name)
}

// LoggerProvider exposes the configured logger provider; nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Logger returns the engine root logger.
func (c *Container) Logger() interfaces.Logger {
	return logging.ModuleLogger(c.loggerProvider, "")
}

// StorageProvider exposes the artifact storage backing the generator.
func (c *Container) StorageProvider() interfaces.StorageProvider {
	return c.storage
}

// BunDB exposes the database handle; nil when running memory-backed.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

// ActivityEmitter exposes the shared activity emitter.
func (c *Container) ActivityEmitter() *activity.Emitter {
	return c.emitter
}

// CorpusService returns the docs-tree service.
func (c *Container) CorpusService() *corpussvc.Service {
	return c.corpusSvc
}

// CatalogService returns the catalog service.
func (c *Container) CatalogService() *catalog.Service {
	return c.catalogSvc
}

// AuditService returns the coverage audit service; nil when the feature is disabled.
func (c *Container) AuditService() *audit.Service {
	return c.auditSvc
}

// EstimatorService returns the complexity estimator.
func (c *Container) EstimatorService() *estimator.Service {
	return c.estimatorSvc
}

// ReviewService returns the review coordinator; nil when the feature is disabled.
func (c *Container) ReviewService() *review.Service {
	return c.reviewSvc
}

// GeneratorService returns the site generator; a disabled stub when the
// generator is off so callers can rely on a non-nil service.
func (c *Container) GeneratorService() generator.Service {
	return c.generatorSvc
}

// Scheduler returns the job scheduler binding.
func (c *Container) Scheduler() interfaces.Scheduler {
	return c.schedulerSvc
}

// JobWorker returns the maintenance worker; nil when scheduling is disabled.
func (c *Container) JobWorker() *jobs.Worker {
	return c.jobWorker
}

// JobJournal returns the in-memory journal fed by the worker; nil when
// scheduling is disabled.
func (c *Container) JobJournal() *jobs.InMemoryJournal {
	return c.jobJournal
}
