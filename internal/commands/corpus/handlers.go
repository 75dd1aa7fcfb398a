package corpuscmd

import (
	"context"

	"github.com/goliatone/go-refdocs/internal/commands"
	"github.com/goliatone/go-refdocs/pkg/interfaces"
)

// ValidateCorpusHandler runs structural validation over the docs tree.
// Issues are delivered through the result callback; only scan failures
// surface as errors.
type ValidateCorpusHandler struct {
	inner *commands.Handler[ValidateCorpusMessage]
}

// NewValidateCorpusHandler constructs a handler wired to the provided corpus service.
func NewValidateCorpusHandler(service CorpusInspector, logger interfaces.Logger, opts ...commands.HandlerOption[ValidateCorpusMessage]) *ValidateCorpusHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ValidateCorpusMessage) error {
		issues, err := service.Validate(ctx)
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Issues: issues,
			Metadata: map[string]any{
				"operation":   "validate",
				"issue_count": len(issues),
			},
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[ValidateCorpusMessage]{
		commands.WithLogger[ValidateCorpusMessage](baseLogger),
		commands.WithOperation[ValidateCorpusMessage]("corpus.validate"),
		commands.WithTelemetry(commands.DefaultTelemetry[ValidateCorpusMessage](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ValidateCorpusHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ValidateCorpusMessage].
func (h *ValidateCorpusHandler) Execute(ctx context.Context, msg ValidateCorpusMessage) error {
	return h.inner.Execute(ctx, msg)
}

// CountRowsHandler totals complexity table rows across the docs tree.
type CountRowsHandler struct {
	inner *commands.Handler[CountRowsMessage]
}

// NewCountRowsHandler constructs a handler wired to the provided corpus service.
func NewCountRowsHandler(service CorpusInspector, logger interfaces.Logger, opts ...commands.HandlerOption[CountRowsMessage]) *CountRowsHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg CountRowsMessage) error {
		report, err := service.CountRows(ctx)
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			RowCount: report,
			Metadata: map[string]any{
				"operation": "count",
			},
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[CountRowsMessage]{
		commands.WithLogger[CountRowsMessage](baseLogger),
		commands.WithOperation[CountRowsMessage]("corpus.count"),
		commands.WithTelemetry(commands.DefaultTelemetry[CountRowsMessage](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CountRowsHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CountRowsMessage].
func (h *CountRowsHandler) Execute(ctx context.Context, msg CountRowsMessage) error {
	return h.inner.Execute(ctx, msg)
}

func invokeCallback(cb ResultCallback, envelope ResultEnvelope) {
	if cb == nil {
		return
	}
	cb(envelope)
}
