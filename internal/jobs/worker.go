package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-refdocs/internal/audit"
	"github.com/goliatone/go-refdocs/internal/generator"
	refscheduler "github.com/goliatone/go-refdocs/internal/scheduler"
	"github.com/goliatone/go-refdocs/pkg/activity"
	"github.com/goliatone/go-refdocs/pkg/interfaces"
)

// AuditRunner executes a coverage audit and persists its artifacts.
type AuditRunner interface {
	Run(ctx context.Context) (*audit.RunResult, error)
}

// LockSweeper removes review locks whose lease expired.
type LockSweeper interface {
	SweepStaleLocks(ctx context.Context) ([]string, error)
}

// SiteBuilder renders the reference corpus into the publishable site.
type SiteBuilder interface {
	Build(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error)
}

// Worker drains due maintenance jobs and dispatches them to the owning
// service. Periodic jobs carry an "interval" payload entry and are
// re-enqueued under the same key after each successful run.
type Worker struct {
	scheduler interfaces.Scheduler
	audits    AuditRunner
	reviews   LockSweeper
	sites     SiteBuilder
	journal   JournalRecorder
	activity  *activity.Emitter
	now       func() time.Time
	batchSize int
}

type Option func(*Worker)

func WithJournal(recorder JournalRecorder) Option {
	return func(w *Worker) {
		w.journal = recorder
	}
}

func WithActivityEmitter(emitter *activity.Emitter) Option {
	return func(w *Worker) {
		if emitter != nil {
			w.activity = emitter
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(w *Worker) {
		if clock != nil {
			w.now = clock
		}
	}
}

func WithBatchSize(size int) Option {
	return func(w *Worker) {
		if size > 0 {
			w.batchSize = size
		}
	}
}

func NewWorker(scheduler interfaces.Scheduler, audits AuditRunner, reviews LockSweeper, sites SiteBuilder, opts ...Option) *Worker {
	w := &Worker{
		scheduler: scheduler,
		audits:    audits,
		reviews:   reviews,
		sites:     sites,
		now:       time.Now,
		batchSize: 50,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Process drains every job due at the time of the call. Failed jobs are
// handed back to the scheduler for retry accounting; successful periodic
// jobs are rescheduled one interval out.
func (w *Worker) Process(ctx context.Context) error {
	if w.scheduler == nil {
		return errors.New("jobs: scheduler is nil")
	}
	deadline := w.now()
	jobs, err := w.scheduler.ListDue(ctx, deadline, w.batchSize)
	if err != nil {
		return err
	}
	for _, job := range jobs {
		if job == nil {
			continue
		}
		if err := w.handleJob(ctx, job, deadline); err != nil {
			_ = w.scheduler.MarkFailed(ctx, job.ID, err)
			continue
		}
		_ = w.scheduler.MarkDone(ctx, job.ID)
		w.rescheduleJob(ctx, job, deadline)
	}
	return nil
}

func (w *Worker) handleJob(ctx context.Context, job *interfaces.Job, now time.Time) error {
	switch job.Type {
	case refscheduler.JobTypeAuditRun:
		return w.processAuditRun(ctx, job, now)
	case refscheduler.JobTypeReviewSweep:
		return w.processReviewSweep(ctx, job, now)
	case refscheduler.JobTypeSiteRebuild:
		return w.processSiteRebuild(ctx, job, now)
	default:
		return nil
	}
}

func (w *Worker) processAuditRun(ctx context.Context, job *interfaces.Job, now time.Time) error {
	if w.audits == nil {
		return errors.New("jobs: audit runner is nil")
	}
	result, err := w.audits.Run(ctx)
	if err != nil {
		return err
	}
	meta := buildJournalMetadata(job)
	objectID := job.ID
	if result != nil && result.Run != nil {
		objectID = result.Run.ID.String()
		meta["coverage_percent"] = result.Run.OverallCoverage
		meta["report_path"] = result.ReportPath
	}
	w.recordJournal(ctx, JournalEvent{
		EntityType: "audit_run",
		EntityID:   objectID,
		Action:     "audit",
		OccurredAt: now,
		Metadata:   meta,
	})
	w.emitActivity(ctx, "audit", "audit_run", objectID, meta)
	return nil
}

func (w *Worker) processReviewSweep(ctx context.Context, job *interfaces.Job, now time.Time) error {
	if w.reviews == nil {
		return errors.New("jobs: lock sweeper is nil")
	}
	removed, err := w.reviews.SweepStaleLocks(ctx)
	if err != nil {
		return err
	}
	meta := buildJournalMetadata(job)
	meta["removed"] = len(removed)
	if len(removed) > 0 {
		meta["locks"] = removed
	}
	w.recordJournal(ctx, JournalEvent{
		EntityType: "review_locks",
		EntityID:   job.ID,
		Action:     "sweep",
		OccurredAt: now,
		Metadata:   meta,
	})
	w.emitActivity(ctx, "sweep", "review_locks", job.ID, meta)
	return nil
}

func (w *Worker) processSiteRebuild(ctx context.Context, job *interfaces.Job, now time.Time) error {
	if w.sites == nil {
		return errors.New("jobs: site builder is nil")
	}
	force := boolPayload(job.Payload, "force")
	result, err := w.sites.Build(ctx, generator.BuildOptions{Force: force})
	if err != nil {
		return err
	}
	meta := buildJournalMetadata(job)
	meta["force"] = force
	if result != nil {
		meta["pages_built"] = result.PagesBuilt
		meta["pages_skipped"] = result.PagesSkipped
		meta["assets_built"] = result.AssetsBuilt
	}
	w.recordJournal(ctx, JournalEvent{
		EntityType: "site",
		EntityID:   job.ID,
		Action:     "build",
		OccurredAt: now,
		Metadata:   meta,
	})
	w.emitActivity(ctx, "build", "site", job.ID, meta)
	return nil
}

// rescheduleJob re-enqueues periodic jobs. Enqueue replaces by key, so
// calling it after MarkDone leaves exactly one pending entry per key.
func (w *Worker) rescheduleJob(ctx context.Context, job *interfaces.Job, now time.Time) {
	interval, ok := jobInterval(job.Payload)
	if !ok || job.Key == "" {
		return
	}
	_, _ = w.scheduler.Enqueue(ctx, interfaces.JobSpec{
		Key:         job.Key,
		Type:        job.Type,
		RunAt:       now.Add(interval),
		Payload:     job.Payload,
		MaxAttempts: job.MaxAttempts,
	})
}

func (w *Worker) recordJournal(ctx context.Context, event JournalEvent) {
	if w.journal == nil {
		return
	}
	_ = w.journal.Record(ctx, event)
}

func (w *Worker) emitActivity(ctx context.Context, verb, objectType, objectID string, meta map[string]any) {
	if w.activity == nil || !w.activity.Enabled() || objectID == "" {
		return
	}
	event := activity.Event{
		Verb:       verb,
		ObjectType: objectType,
		ObjectID:   objectID,
		Metadata:   meta,
	}
	_ = w.activity.Emit(ctx, event)
}

// jobInterval reads the reschedule interval from the payload. Durations
// survive a JSON round trip as strings or float seconds, so all three
// encodings are accepted.
func jobInterval(payload map[string]any) (time.Duration, bool) {
	if payload == nil {
		return 0, false
	}
	raw, ok := payload["interval"]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case time.Duration:
		if v > 0 {
			return v, true
		}
	case string:
		parsed, err := time.ParseDuration(v)
		if err == nil && parsed > 0 {
			return parsed, true
		}
	case float64:
		if v > 0 {
			return time.Duration(v * float64(time.Second)), true
		}
	case int:
		if v > 0 {
			return time.Duration(v) * time.Second, true
		}
	}
	return 0, false
}

func boolPayload(payload map[string]any, key string) bool {
	if payload == nil {
		return false
	}
	value, ok := payload[key].(bool)
	return ok && value
}

func buildJournalMetadata(job *interfaces.Job) map[string]any {
	meta := map[string]any{
		"job_id":   job.ID,
		"job_type": job.Type,
		"run_at":   job.RunAt,
		"attempt":  job.Attempt,
	}
	if job.Key != "" {
		meta["job_key"] = job.Key
	}
	return meta
}
