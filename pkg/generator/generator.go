// Package generator exposes the static site build API for go-refdocs hosts.
// Use NewService with Config and Dependencies to render corpus pages, copy
// theme assets, emit sitemaps, or scaffold skeleton pages for catalog gaps.
package generator

import internal "github.com/goliatone/go-refdocs/internal/generator"

type (
	Service          = internal.Service
	Config           = internal.Config
	ThemingConfig    = internal.ThemingConfig
	BuildOptions     = internal.BuildOptions
	BuildResult      = internal.BuildResult
	ScaffoldOptions  = internal.ScaffoldOptions
	ScaffoldResult   = internal.ScaffoldResult
	ScaffoldedPage   = internal.ScaffoldedPage
	RenderedPage     = internal.RenderedPage
	RenderDiagnostic = internal.RenderDiagnostic
	Dependencies     = internal.Dependencies
	PageSource       = internal.PageSource
	ItemSource       = internal.ItemSource
	RunRepository    = internal.RunRepository
	GeneratorRun     = internal.GeneratorRun
	SiteConfig       = internal.SiteConfig
	NavLink          = internal.NavLink
)

var (
	ErrServiceDisabled   = internal.ErrServiceDisabled
	ErrSiteConfigInvalid = internal.ErrSiteConfigInvalid
	ErrNoRuns            = internal.ErrNoRuns
)

// NewService wires a site generator with the supplied configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	return internal.NewService(cfg, deps)
}

// NewDisabledService returns a Service that fails all operations with ErrServiceDisabled.
func NewDisabledService() Service {
	return internal.NewDisabledService()
}

// NewMemoryRunRepository keeps build run history in memory for DB-less hosts.
func NewMemoryRunRepository() RunRepository {
	return internal.NewMemoryRunRepository()
}
