package sitecmd

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-refdocs/internal/generator"
)

const (
	buildSiteMessageType     = "refdocs.site.build"
	scaffoldPagesMessageType = "refdocs.site.scaffold"
	cleanSiteMessageType     = "refdocs.site.clean"
)

// ResultCallback receives generator results. The callback is optional and is
// invoked synchronously from the handler when a result is available.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a site command execution.
type ResultEnvelope struct {
	Build    *generator.BuildResult
	Scaffold *generator.ScaffoldResult
	Metadata map[string]any
}

// BuildSiteMessage executes a generator build. Concurrency overrides the
// configured worker pool size for this build only.
type BuildSiteMessage struct {
	Force          bool           `json:"force,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	Concurrency    int            `json:"concurrency,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildSiteMessage) Type() string { return buildSiteMessageType }

// Validate rejects negative concurrency.
func (m BuildSiteMessage) Validate() error {
	errs := validation.Errors{}
	if m.Concurrency < 0 {
		errs["concurrency"] = validation.NewError("refdocs.site.build.concurrency_invalid", "concurrency must be zero or positive")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ScaffoldPagesMessage writes skeleton pages for catalog items missing
// documentation. DryRun lists the pages without touching the docs tree.
type ScaffoldPagesMessage struct {
	DryRun         bool           `json:"dry_run,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (ScaffoldPagesMessage) Type() string { return scaffoldPagesMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (ScaffoldPagesMessage) Validate() error { return nil }

// CleanSiteMessage clears generator artifacts from the configured storage backend.
type CleanSiteMessage struct{}

// Type implements command.Message.
func (CleanSiteMessage) Type() string { return cleanSiteMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (CleanSiteMessage) Validate() error { return nil }

// FeatureGates exposes runtime switches used to guard handler execution.
// Nil gate functions default to enabled.
type FeatureGates struct {
	GeneratorEnabled func() bool
}

func (g FeatureGates) generatorEnabled() bool {
	if g.GeneratorEnabled == nil {
		return true
	}
	return g.GeneratorEnabled()
}
