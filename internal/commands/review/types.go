package reviewcmd

import (
	"context"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-refdocs/internal/review"
)

const (
	runReviewMessageType  = "refdocs.review.run"
	sweepLocksMessageType = "refdocs.review.sweep"
)

// ErrReviewDisabled is returned when the review feature gate is closed.
var ErrReviewDisabled = errors.New("review service disabled")

// ReviewCoordinator exposes the subset of review.Service behaviour required by the review commands.
type ReviewCoordinator interface {
	RunWith(ctx context.Context, opts review.RunOptions) (*review.RunResult, error)
	DryRun(ctx context.Context) (*review.DryRunReport, error)
	SweepStaleLocks(ctx context.Context) ([]string, error)
}

// ResultCallback receives review results. The callback is optional and is
// invoked synchronously from the handler when a result is available.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a review command execution.
type ResultEnvelope struct {
	Run        *review.RunResult
	DryRun     *review.DryRunReport
	SweptLocks []string
	Metadata   map[string]any
}

// RunReviewMessage executes a review wave. Agents and Timeout override the
// configured wave parameters for this run only; DryRun lists the work without
// claiming locks.
type RunReviewMessage struct {
	Agents         int            `json:"agents,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	Timeout        time.Duration  `json:"timeout,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (RunReviewMessage) Type() string { return runReviewMessageType }

// Validate rejects negative wave parameters.
func (m RunReviewMessage) Validate() error {
	errs := validation.Errors{}
	if m.Agents < 0 {
		errs["agents"] = validation.NewError("refdocs.review.run.agents_invalid", "agents must be zero or positive")
	}
	if m.Timeout < 0 {
		errs["timeout"] = validation.NewError("refdocs.review.run.timeout_invalid", "timeout must be zero or positive")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SweepLocksMessage releases stale lock files left behind by crashed agents.
type SweepLocksMessage struct {
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (SweepLocksMessage) Type() string { return sweepLocksMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (SweepLocksMessage) Validate() error { return nil }

// FeatureGates exposes runtime switches used to guard handler execution.
// Nil gate functions default to enabled.
type FeatureGates struct {
	ReviewEnabled func() bool
}

func (g FeatureGates) reviewEnabled() bool {
	if g.ReviewEnabled == nil {
		return true
	}
	return g.ReviewEnabled()
}
