package sitecmd

import (
	"context"

	"github.com/goliatone/go-refdocs/internal/commands"
	"github.com/goliatone/go-refdocs/internal/generator"
	"github.com/goliatone/go-refdocs/pkg/interfaces"
)

// BuildSiteHandler orchestrates generator builds using the shared command
// handler foundation.
type BuildSiteHandler struct {
	inner *commands.Handler[BuildSiteMessage]
}

// NewBuildSiteHandler constructs a handler wired to the provided generator service.
func NewBuildSiteHandler(service generator.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[BuildSiteMessage]) *BuildSiteHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg BuildSiteMessage) error {
		if service == nil || !gates.generatorEnabled() {
			return generator.ErrServiceDisabled
		}

		result, err := service.Build(ctx, generator.BuildOptions{
			Force:   msg.Force,
			DryRun:  msg.DryRun,
			Workers: msg.Concurrency,
		})
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Build: result,
			Metadata: map[string]any{
				"operation": "build",
			},
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[BuildSiteMessage]{
		commands.WithLogger[BuildSiteMessage](baseLogger),
		commands.WithOperation[BuildSiteMessage]("site.build"),
		commands.WithMessageFields(func(msg BuildSiteMessage) map[string]any {
			fields := map[string]any{}
			if msg.Force {
				fields["force"] = true
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.Concurrency > 0 {
				fields["concurrency"] = msg.Concurrency
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildSiteMessage](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BuildSiteMessage].
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteMessage) error {
	return h.inner.Execute(ctx, msg)
}

// ScaffoldPagesHandler writes skeleton pages for undocumented catalog items.
type ScaffoldPagesHandler struct {
	inner *commands.Handler[ScaffoldPagesMessage]
}

// NewScaffoldPagesHandler constructs a handler wired to the provided generator service.
func NewScaffoldPagesHandler(service generator.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ScaffoldPagesMessage]) *ScaffoldPagesHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ScaffoldPagesMessage) error {
		if service == nil || !gates.generatorEnabled() {
			return generator.ErrServiceDisabled
		}

		result, err := service.Scaffold(ctx, generator.ScaffoldOptions{DryRun: msg.DryRun})
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Scaffold: result,
			Metadata: map[string]any{
				"operation": "scaffold",
			},
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[ScaffoldPagesMessage]{
		commands.WithLogger[ScaffoldPagesMessage](baseLogger),
		commands.WithOperation[ScaffoldPagesMessage]("site.scaffold"),
		commands.WithMessageFields(func(msg ScaffoldPagesMessage) map[string]any {
			fields := map[string]any{}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ScaffoldPagesMessage](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ScaffoldPagesHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ScaffoldPagesMessage].
func (h *ScaffoldPagesHandler) Execute(ctx context.Context, msg ScaffoldPagesMessage) error {
	return h.inner.Execute(ctx, msg)
}

// CleanSiteHandler clears generator artifacts.
type CleanSiteHandler struct {
	inner *commands.Handler[CleanSiteMessage]
}

// NewCleanSiteHandler constructs a handler that cleans generator output.
func NewCleanSiteHandler(service generator.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[CleanSiteMessage]) *CleanSiteHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg CleanSiteMessage) error {
		if service == nil || !gates.generatorEnabled() {
			return generator.ErrServiceDisabled
		}
		return service.Clean(ctx)
	}

	handlerOpts := []commands.HandlerOption[CleanSiteMessage]{
		commands.WithLogger[CleanSiteMessage](baseLogger),
		commands.WithOperation[CleanSiteMessage]("site.clean"),
		commands.WithTelemetry(commands.DefaultTelemetry[CleanSiteMessage](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CleanSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CleanSiteMessage].
func (h *CleanSiteHandler) Execute(ctx context.Context, msg CleanSiteMessage) error {
	return h.inner.Execute(ctx, msg)
}

func invokeCallback(cb ResultCallback, envelope ResultEnvelope) {
	if cb == nil {
		return
	}
	cb(envelope)
}
