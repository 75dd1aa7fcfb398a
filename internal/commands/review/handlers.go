package reviewcmd

import (
	"context"

	"github.com/goliatone/go-refdocs/internal/commands"
	"github.com/goliatone/go-refdocs/internal/review"
	"github.com/goliatone/go-refdocs/pkg/interfaces"
)

// RunReviewHandler executes review waves through the shared command handler
// foundation. Waves carry their own per-agent timeouts, so the handler runs
// without an execution deadline of its own.
type RunReviewHandler struct {
	inner *commands.Handler[RunReviewMessage]
}

// NewRunReviewHandler constructs a handler wired to the provided review coordinator.
func NewRunReviewHandler(service ReviewCoordinator, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[RunReviewMessage]) *RunReviewHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg RunReviewMessage) error {
		if service == nil || !gates.reviewEnabled() {
			return ErrReviewDisabled
		}

		if msg.DryRun {
			report, err := service.DryRun(ctx)
			invokeCallback(msg.ResultCallback, ResultEnvelope{
				DryRun: report,
				Metadata: map[string]any{
					"operation": "dry_run",
				},
			})
			return err
		}

		result, err := service.RunWith(ctx, review.RunOptions{
			Agents:  msg.Agents,
			Timeout: msg.Timeout,
		})
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Run: result,
			Metadata: map[string]any{
				"operation": "run",
			},
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[RunReviewMessage]{
		commands.WithLogger[RunReviewMessage](baseLogger),
		commands.WithOperation[RunReviewMessage]("review.run"),
		commands.WithTimeout[RunReviewMessage](0),
		commands.WithMessageFields(func(msg RunReviewMessage) map[string]any {
			fields := map[string]any{}
			if msg.Agents > 0 {
				fields["agents"] = msg.Agents
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.Timeout > 0 {
				fields["timeout"] = msg.Timeout.String()
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RunReviewMessage](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RunReviewHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RunReviewMessage].
func (h *RunReviewHandler) Execute(ctx context.Context, msg RunReviewMessage) error {
	return h.inner.Execute(ctx, msg)
}

// SweepLocksHandler releases stale review locks.
type SweepLocksHandler struct {
	inner *commands.Handler[SweepLocksMessage]
}

// NewSweepLocksHandler constructs a handler that sweeps expired lock files.
func NewSweepLocksHandler(service ReviewCoordinator, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[SweepLocksMessage]) *SweepLocksHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg SweepLocksMessage) error {
		if service == nil || !gates.reviewEnabled() {
			return ErrReviewDisabled
		}

		swept, err := service.SweepStaleLocks(ctx)
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			SweptLocks: swept,
			Metadata: map[string]any{
				"operation": "sweep",
			},
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[SweepLocksMessage]{
		commands.WithLogger[SweepLocksMessage](baseLogger),
		commands.WithOperation[SweepLocksMessage]("review.sweep"),
		commands.WithTelemetry(commands.DefaultTelemetry[SweepLocksMessage](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SweepLocksHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SweepLocksMessage].
func (h *SweepLocksHandler) Execute(ctx context.Context, msg SweepLocksMessage) error {
	return h.inner.Execute(ctx, msg)
}

func invokeCallback(cb ResultCallback, envelope ResultEnvelope) {
	if cb == nil {
		return
	}
	cb(envelope)
}
