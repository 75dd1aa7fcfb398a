package refdocs

import (
	"github.com/goliatone/go-refdocs/internal/audit"
	"github.com/goliatone/go-refdocs/internal/catalog"
	corpussvc "github.com/goliatone/go-refdocs/internal/corpus"
	"github.com/goliatone/go-refdocs/internal/di"
	"github.com/goliatone/go-refdocs/internal/estimator"
	"github.com/goliatone/go-refdocs/internal/generator"
	"github.com/goliatone/go-refdocs/internal/jobs"
	"github.com/goliatone/go-refdocs/internal/review"
	"github.com/goliatone/go-refdocs/pkg/interfaces"
)

// CorpusService exports the corpus service contract for consumers of the refdocs package.
type CorpusService = *corpussvc.Service

// CatalogService exports the catalog service contract.
type CatalogService = *catalog.Service

// AuditService exports the coverage audit service contract.
type AuditService = *audit.Service

// ReviewService exports the review swarm service contract.
type ReviewService = *review.Service

// EstimatorService exports the complexity estimator contract.
type EstimatorService = *estimator.Service

// GeneratorService exports the static site generator contract.
type GeneratorService = generator.Service

// JobWorker exports the scheduled job worker.
type JobWorker = *jobs.Worker

// Engine is the top level refdocs runtime façade.
type Engine struct {
	container *di.Container
}

// New constructs a refdocs engine using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Engine, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Engine{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (e *Engine) Container() *di.Container {
	return e.container
}

// Close releases resources the engine opened, such as the database handle.
func (e *Engine) Close() error {
	if e == nil || e.container == nil {
		return nil
	}
	return e.container.Close()
}

// Corpus returns the configured corpus service.
func (e *Engine) Corpus() CorpusService {
	return e.container.CorpusService()
}

// Catalog returns the configured catalog service.
func (e *Engine) Catalog() CatalogService {
	return e.container.CatalogService()
}

// Audit returns the coverage audit service; nil when the feature is disabled.
func (e *Engine) Audit() AuditService {
	if e == nil || e.container == nil {
		return nil
	}
	return e.container.AuditService()
}

// Review returns the review swarm service; nil when the feature is disabled.
func (e *Engine) Review() ReviewService {
	if e == nil || e.container == nil {
		return nil
	}
	return e.container.ReviewService()
}

// Estimator returns the complexity estimator service.
func (e *Engine) Estimator() EstimatorService {
	return e.container.EstimatorService()
}

// Generator returns the configured generator service.
func (e *Engine) Generator() GeneratorService {
	return e.container.GeneratorService()
}

// Scheduler returns the scheduler used for periodic maintenance jobs.
func (e *Engine) Scheduler() interfaces.Scheduler {
	return e.container.Scheduler()
}

// Worker returns the job worker that drains the scheduler; nil when
// scheduling is disabled.
func (e *Engine) Worker() JobWorker {
	if e == nil || e.container == nil {
		return nil
	}
	return e.container.JobWorker()
}

// Logger returns the engine root logger.
func (e *Engine) Logger() interfaces.Logger {
	return e.container.Logger()
}
