package catalogcmd

import (
	"context"

	"github.com/goliatone/go-refdocs/internal/commands"
	"github.com/goliatone/go-refdocs/pkg/interfaces"
)

// SyncCatalogHandler reconciles catalog items through the shared command
// handler foundation.
type SyncCatalogHandler struct {
	inner *commands.Handler[SyncCatalogMessage]
}

// NewSyncCatalogHandler constructs a handler wired to the provided catalog service.
func NewSyncCatalogHandler(service CatalogSyncer, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[SyncCatalogMessage]) *SyncCatalogHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg SyncCatalogMessage) error {
		if service == nil || !gates.catalogEnabled() {
			return ErrCatalogDisabled
		}

		result, err := service.Sync(ctx)
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Sync: result,
			Metadata: map[string]any{
				"operation": "sync",
			},
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[SyncCatalogMessage]{
		commands.WithLogger[SyncCatalogMessage](baseLogger),
		commands.WithOperation[SyncCatalogMessage]("catalog.sync"),
		commands.WithTelemetry(commands.DefaultTelemetry[SyncCatalogMessage](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SyncCatalogHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SyncCatalogMessage].
func (h *SyncCatalogHandler) Execute(ctx context.Context, msg SyncCatalogMessage) error {
	return h.inner.Execute(ctx, msg)
}

func invokeCallback(cb ResultCallback, envelope ResultEnvelope) {
	if cb == nil {
		return
	}
	cb(envelope)
}
