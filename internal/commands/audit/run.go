package auditcmd

import (
	"context"
	"strings"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-refdocs/internal/audit"
	"github.com/goliatone/go-refdocs/internal/commands"
	"github.com/goliatone/go-refdocs/internal/logging"
	"github.com/goliatone/go-refdocs/pkg/interfaces"
)

const runAuditMessageType = "refdocs.audit.run"

// AuditRunner exposes the subset of audit.Service behaviour required by the audit commands.
type AuditRunner interface {
	Preview(ctx context.Context) (*audit.Report, error)
	Run(ctx context.Context) (*audit.RunResult, error)
}

// ResultCallback receives the audit outcome. The callback is optional and is
// invoked synchronously from the handler when a result is available.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the report produced by an audit execution.
type ResultEnvelope struct {
	Report     *audit.Report
	ReportPath string
	Run        *audit.AuditRun
	Metadata   map[string]any
}

// RunAuditMessage computes documentation coverage. When PrintOnly is true the
// report is computed without writing the artifact or recording the run.
type RunAuditMessage struct {
	PrintOnly      bool           `json:"print_only,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (RunAuditMessage) Type() string { return runAuditMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (RunAuditMessage) Validate() error { return nil }

type runHandlerConfig struct {
	cronConfig command.HandlerConfig
	timeout    time.Duration
}

// RunHandlerOption customises the audit run handler.
type RunHandlerOption func(*runHandlerConfig)

// RunWithCronConfig overrides the cron registration options for the audit handler.
func RunWithCronConfig(config command.HandlerConfig) RunHandlerOption {
	return func(cfg *runHandlerConfig) {
		cfg.cronConfig = config
	}
}

// RunWithCronExpression overrides the cron expression for the audit handler.
func RunWithCronExpression(expression string) RunHandlerOption {
	return func(cfg *runHandlerConfig) {
		if trimmed := strings.TrimSpace(expression); trimmed != "" {
			cfg.cronConfig.Expression = trimmed
		}
	}
}

// RunWithTimeout overrides the default execution timeout.
func RunWithTimeout(timeout time.Duration) RunHandlerOption {
	return func(cfg *runHandlerConfig) {
		cfg.timeout = timeout
	}
}

// RunAuditHandler measures documentation coverage via the supplied runner.
type RunAuditHandler struct {
	runner     AuditRunner
	logger     interfaces.Logger
	cronConfig command.HandlerConfig
	timeout    time.Duration
}

// NewRunAuditHandler constructs a handler that delegates to the provided audit service.
func NewRunAuditHandler(runner AuditRunner, logger interfaces.Logger, opts ...RunHandlerOption) *RunAuditHandler {
	cfg := runHandlerConfig{
		cronConfig: command.HandlerConfig{
			Expression: "@daily",
		},
		timeout: commands.DefaultCommandTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &RunAuditHandler{
		runner:     runner,
		logger:     commands.EnsureLogger(logger),
		cronConfig: cfg.cronConfig,
		timeout:    cfg.timeout,
	}
}

// Execute satisfies command.Commander[RunAuditMessage].
func (h *RunAuditHandler) Execute(ctx context.Context, msg RunAuditMessage) error {
	if err := commands.WrapValidationError(command.ValidateMessage(msg)); err != nil {
		return err
	}
	ctx = commands.EnsureContext(ctx)
	ctx, cancel := commands.WithCommandTimeout(ctx, h.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return commands.WrapContextError(err)
	}

	logger := logging.WithFields(h.logger, map[string]any{
		"operation": "audit.run",
	})

	if msg.PrintOnly {
		report, err := h.runner.Preview(ctx)
		if err != nil {
			return commands.WrapExecuteError(err)
		}
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Report:   report,
			Metadata: map[string]any{"print_only": true},
		})
		logging.WithFields(logger, map[string]any{
			"print_only":       true,
			"total_items":      report.Summary.TotalItems,
			"coverage_percent": report.Summary.OverallCoveragePercent,
		}).Debug("audit.command.run.preview")
		return nil
	}

	result, err := h.runner.Run(ctx)
	if err != nil {
		return commands.WrapExecuteError(err)
	}
	invokeCallback(msg.ResultCallback, ResultEnvelope{
		Report:     result.Report,
		ReportPath: result.ReportPath,
		Run:        result.Run,
	})
	logging.WithFields(logger, map[string]any{
		"total_items":      result.Report.Summary.TotalItems,
		"total_documented": result.Report.Summary.TotalDocumented,
		"coverage_percent": result.Report.Summary.OverallCoveragePercent,
		"report":           result.ReportPath,
	}).Debug("audit.command.run.completed")
	return nil
}

// CronHandler satisfies command.CronCommand by binding audit execution to a cron runner.
func (h *RunAuditHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), RunAuditMessage{})
	}
}

// CronOptions satisfies command.CronCommand by returning the configured cron metadata.
func (h *RunAuditHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}

// CLIHandler exposes the audit handler to CLI integrations.
func (h *RunAuditHandler) CLIHandler() any {
	return h
}

// CLIOptions describes the CLI metadata for the coverage audit.
func (h *RunAuditHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"audit", "run"},
		Group:       "audit",
		Description: "Audit documentation coverage against the catalog; supports print-only",
	}
}

func invokeCallback(cb ResultCallback, envelope ResultEnvelope) {
	if cb == nil {
		return
	}
	cb(envelope)
}
