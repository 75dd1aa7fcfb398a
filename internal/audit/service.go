package audit

import (
	"context"
	"time"

	"github.com/goliatone/go-refdocs/internal/catalog"
	"github.com/goliatone/go-refdocs/internal/identity"
	"github.com/goliatone/go-refdocs/internal/logging"
	"github.com/goliatone/go-refdocs/pkg/activity"
	"github.com/goliatone/go-refdocs/pkg/interfaces"
)

// Config carries the locations the audit reads and writes.
type Config struct {
	DocsDir string
	DataDir string
}

// ItemSource supplies the catalog items the audit measures against.
type ItemSource interface {
	Items(ctx context.Context) ([]*catalog.CatalogItem, error)
}

// Service runs coverage audits over the corpus.
type Service struct {
	cfg     Config
	items   ItemSource
	runs    RunRepository
	emitter *activity.Emitter
	logger  interfaces.Logger
	clock   func() time.Time
}

// Option customizes service construction.
type Option func(*Service)

// WithRunRepository enables run history persistence.
func WithRunRepository(runs RunRepository) Option {
	return func(s *Service) {
		if runs != nil {
			s.runs = runs
		}
	}
}

// WithEmitter sets the activity emitter.
func WithEmitter(emitter *activity.Emitter) Option {
	return func(s *Service) {
		if emitter != nil {
			s.emitter = emitter
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewService builds an audit service reading items from the given source.
func NewService(cfg Config, items ItemSource, opts ...Option) *Service {
	s := &Service{
		cfg:     cfg,
		items:   items,
		emitter: activity.NewEmitter(nil, activity.Config{}),
		logger:  logging.NoOp(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunResult pairs a computed report with its artifact location and run row.
type RunResult struct {
	Report     *Report
	ReportPath string
	Run        *AuditRun
}

// Preview computes the report without writing or persisting anything.
func (s *Service) Preview(ctx context.Context) (*Report, error) {
	report, _, err := s.build(ctx)
	return report, err
}

// Run computes the report, writes the data artifact, persists the run row
// when history is enabled, and emits an activity event.
func (s *Service) Run(ctx context.Context) (*RunResult, error) {
	report, now, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	path, err := WriteReportFile(s.cfg.DataDir, report)
	if err != nil {
		return nil, err
	}

	run := &AuditRun{
		ID:              identity.AuditRunUUID(now.Format(time.RFC3339Nano)),
		RanAt:           now,
		TotalItems:      report.Summary.TotalItems,
		TotalDocumented: report.Summary.TotalDocumented,
		OverallCoverage: report.Summary.OverallCoveragePercent,
		Report:          report,
	}
	if s.runs != nil {
		saved, err := s.runs.Save(ctx, run)
		if err != nil {
			return nil, err
		}
		run = saved
	}

	if err := s.emitter.Emit(ctx, activity.Event{
		Verb:       "audit",
		ObjectType: "audit_run",
		ObjectID:   run.ID.String(),
		Metadata: map[string]any{
			"total_items":      report.Summary.TotalItems,
			"total_documented": report.Summary.TotalDocumented,
			"coverage_percent": report.Summary.OverallCoveragePercent,
			"report_path":      path,
		},
	}); err != nil {
		s.logger.Warn("audit activity emit failed", "error", err)
	}

	s.logger.Info("audit complete",
		"total_items", report.Summary.TotalItems,
		"documented", report.Summary.TotalDocumented,
		"coverage_percent", report.Summary.OverallCoveragePercent,
		"report", path,
	)
	return &RunResult{Report: report, ReportPath: path, Run: run}, nil
}

// Latest returns the most recent persisted run.
func (s *Service) Latest(ctx context.Context) (*AuditRun, error) {
	if s.runs == nil {
		return nil, ErrNoRuns
	}
	return s.runs.Latest(ctx)
}

func (s *Service) build(ctx context.Context) (*Report, time.Time, error) {
	items, err := s.items.Items(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}

	documented, err := ScanDocumented(s.cfg.DocsDir)
	if err != nil {
		return nil, time.Time{}, err
	}

	now := s.clock().UTC()
	report := BuildReport(UniverseFromItems(items), documented, &now)
	return report, now, nil
}
