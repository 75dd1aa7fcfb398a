package review

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-refdocs/corpus"
	"github.com/goliatone/go-refdocs/internal/identity"
	"github.com/goliatone/go-refdocs/internal/logging"
	"github.com/goliatone/go-refdocs/pkg/activity"
	"github.com/goliatone/go-refdocs/pkg/interfaces"
)

// Default swarm shape when the config leaves fields zero.
const (
	DefaultAgents  = 4
	DefaultTimeout = time.Hour
)

// Config carries the swarm locations and sizing.
type Config struct {
	DataDir      string
	LockDir      string
	ProgressFile string
	SummaryFile  string
	Agents       int
	Timeout      time.Duration
}

// PageSource supplies the reviewable pages and their quality signals.
type PageSource interface {
	ReviewablePages(ctx context.Context) ([]*corpus.Page, error)
	Analyze(ctx context.Context, path string) (corpus.ReviewSummary, error)
	Validate(ctx context.Context) ([]corpus.ValidationIssue, error)
}

// Service coordinates review waves.
type Service struct {
	cfg      Config
	source   PageSource
	locks    *LockManager
	progress *progressStore
	runs     RunRepository
	emitter  *activity.Emitter
	logger   interfaces.Logger
	clock    func() time.Time
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

// NewService builds a review coordinator over the given page source.
func NewService(cfg Config, source PageSource, opts ...Option) *Service {
	if cfg.Agents <= 0 {
		cfg.Agents = DefaultAgents
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.SummaryFile == "" {
		cfg.SummaryFile = DefaultSummaryFileName
	}

	s := &Service{
		cfg:      cfg,
		source:   source,
		locks:    NewLockManager(cfg.LockDir),
		progress: newProgressStore(cfg.ProgressFile),
		emitter:  activity.NewEmitter(nil, activity.Config{}),
		logger:   logging.NoOp(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Locks exposes the lock manager, mainly for sweeping between waves.
func (s *Service) Locks() *LockManager { return s.locks }

// RunResult pairs the wave summary with its artifact location and run row.
type RunResult struct {
	Summary     *Summary
	SummaryPath string
	Run         *ReviewRun
	SweptLocks  []string
}

// waveTally aggregates worker outcomes under one mutex.
type waveTally struct {
	mu        sync.Mutex
	processed int
	skipped   int
	failed    int
	pages     []corpus.ReviewSummary
}

func (t *waveTally) record(summary corpus.ReviewSummary) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.processed++
	t.pages = append(t.pages, summary)
}

func (t *waveTally) skip() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.skipped++
}

func (t *waveTally) fail() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failed++
}

// RunOptions override wave parameters for a single run. Zero values fall
// back to the service configuration.
type RunOptions struct {
	Agents  int
	Timeout time.Duration
}

// Run executes one review wave with the configured parameters.
func (s *Service) Run(ctx context.Context) (*RunResult, error) {
	return s.RunWith(ctx, RunOptions{})
}

// RunWith executes one review wave: the reviewable pages fan out to the
// agent workers, each worker claims pages through the lock manager, and the
// finalize step validates the corpus, writes the summary artifact, persists
// the run row, and emits an activity event.
func (s *Service) RunWith(ctx context.Context, opts RunOptions) (*RunResult, error) {
	agents := s.cfg.Agents
	if opts.Agents > 0 {
		agents = opts.Agents
	}
	timeout := s.cfg.Timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	pages, err := s.source.ReviewablePages(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock().UTC()
	if err := s.progress.reset(len(pages), now); err != nil {
		return nil, err
	}

	s.logger.Info("review wave starting",
		"pages", len(pages),
		"agents", agents,
		"lock_dir", s.cfg.LockDir,
	)

	jobs := make(chan *corpus.Page, len(pages))
	for _, page := range pages {
		jobs <- page
	}
	close(jobs)

	tally := &waveTally{}
	var wg sync.WaitGroup
	for i := 1; i <= agents; i++ {
		agentID := fmt.Sprintf("agent-%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			agentCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			s.reviewLoop(agentCtx, agentID, jobs, tally)
		}()
	}
	wg.Wait()

	return s.finalize(ctx, now, len(pages), tally)
}

// reviewLoop drains pages from the channel until it closes or the agent
// context expires. Cancellation is only honored between pages.
func (s *Service) reviewLoop(ctx context.Context, agentID string, jobs <-chan *corpus.Page, tally *waveTally) {
	for page := range jobs {
		select {
		case <-ctx.Done():
			s.logger.Warn("agent stopping early", "agent", agentID, "reason", ctx.Err())
			return
		default:
		}
		s.reviewPage(ctx, agentID, page, tally)
	}
}

func (s *Service) reviewPage(ctx context.Context, agentID string, page *corpus.Page, tally *waveTally) {
	held, err := s.locks.Acquire(page.Path, agentID, s.clock())
	if err != nil {
		tally.fail()
		s.noteProgress(s.progress.fail(page.Path))
		s.logger.Error("lock acquire failed", "agent", agentID, "page", page.Path, "error", err)
		return
	}
	if !held {
		tally.skip()
		s.logger.Debug("page locked elsewhere", "agent", agentID, "page", page.Path)
		return
	}
	defer func() {
		if err := s.locks.Release(page.Path); err != nil {
			s.logger.Warn("lock release failed", "agent", agentID, "page", page.Path, "error", err)
		}
	}()

	s.noteProgress(s.progress.start(page.Path))

	// Re-read under the lock so the summary reflects the page as reviewed.
	summary, err := s.source.Analyze(ctx, page.Path)
	if err != nil {
		tally.fail()
		s.noteProgress(s.progress.fail(page.Path))
		s.logger.Error("review failed", "agent", agentID, "page", page.Path, "error", err)
		return
	}

	tally.record(summary)
	s.noteProgress(s.progress.complete(page.Path))
	s.logger.Debug("page reviewed",
		"agent", agentID,
		"page", page.Path,
		"complete", summary.Complete(),
	)
}

func (s *Service) noteProgress(err error) {
	if err != nil {
		s.logger.Warn("progress write failed", "error", err)
	}
}

func (s *Service) finalize(ctx context.Context, now time.Time, total int, tally *waveTally) (*RunResult, error) {
	swept, err := s.locks.Sweep()
	if err != nil {
		s.logger.Warn("lock sweep failed", "error", err)
	}
	for _, name := range swept {
		s.logger.Info("removed leftover lock", "lock", name)
	}

	issues, err := s.source.Validate(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(tally.pages, func(i, j int) bool { return tally.pages[i].Path < tally.pages[j].Path })

	allComplete := true
	for _, page := range tally.pages {
		if !page.Complete() {
			allComplete = false
			break
		}
	}
	qualityPassed := len(issues) == 0 && tally.failed == 0 && allComplete

	summary := &Summary{
		GeneratedAt:   &now,
		Agents:        s.cfg.Agents,
		Processed:     tally.processed,
		Skipped:       tally.skipped,
		Failed:        tally.failed,
		Pages:         tally.pages,
		QualityPassed: qualityPassed,
	}

	path, err := WriteSummaryFile(s.cfg.DataDir, s.cfg.SummaryFile, summary)
	if err != nil {
		return nil, err
	}

	run := &ReviewRun{
		ID:            identity.ReviewRunUUID(now.Format(time.RFC3339Nano)),
		RanAt:         now,
		Agents:        s.cfg.Agents,
		Processed:     tally.processed,
		Skipped:       tally.skipped,
		Failed:        tally.failed,
		QualityPassed: qualityPassed,
		Summary:       summary,
	}
	if s.runs != nil {
		saved, err := s.runs.Save(ctx, run)
		if err != nil {
			return nil, err
		}
		run = saved
	}

	if err := s.emitter.Emit(ctx, activity.Event{
		Verb:       "review",
		ObjectType: "review_run",
		ObjectID:   run.ID.String(),
		Metadata: map[string]any{
			"total_pages":    total,
			"processed":      tally.processed,
			"skipped":        tally.skipped,
			"failed":         tally.failed,
			"quality_passed": qualityPassed,
			"summary_path":   path,
		},
	}); err != nil {
		s.logger.Warn("review activity emit failed", "error", err)
	}

	s.logger.Info("review wave complete",
		"processed", tally.processed,
		"skipped", tally.skipped,
		"failed", tally.failed,
		"quality_passed", qualityPassed,
		"summary", path,
	)
	return &RunResult{Summary: summary, SummaryPath: path, Run: run, SweptLocks: swept}, nil
}

// DryRunReport describes what a wave would do without spawning workers.
type DryRunReport struct {
	Agents int      `json:"agents"`
	Pages  []string `json:"pages"`
	Locked []string `json:"locked,omitempty"`
}

// DryRun lists the pages a wave would review and which of them are already
// locked by another process.
func (s *Service) DryRun(ctx context.Context) (*DryRunReport, error) {
	pages, err := s.source.ReviewablePages(ctx)
	if err != nil {
		return nil, err
	}

	report := &DryRunReport{Agents: s.cfg.Agents}
	for _, page := range pages {
		report.Pages = append(report.Pages, page.Path)
		if s.locks.IsLocked(page.Path) {
			report.Locked = append(report.Locked, page.Path)
		}
	}
	return report, nil
}

// Progress returns the persisted wave snapshot and its tallies.
func (s *Service) Progress() (Progress, Counts, error) {
	progress, err := LoadProgress(s.cfg.ProgressFile)
	if err != nil {
		return Progress{}, Counts{}, err
	}
	return progress, progress.Counts(), nil
}

// SweepStaleLocks removes locks older than the wave timeout. It backs the
// scheduled sweep job so an abandoned wave cannot block the next one.
func (s *Service) SweepStaleLocks(_ context.Context) ([]string, error) {
	removed, err := s.locks.SweepStale(s.cfg.Timeout, s.clock())
	for _, name := range removed {
		s.logger.Info("removed stale lock", "lock", name)
	}
	return removed, err
}

// Latest returns the most recent persisted run.
func (s *Service) Latest(ctx context.Context) (*ReviewRun, error) {
	if s.runs == nil {
		return nil, ErrNoRuns
	}
	return s.runs.Latest(ctx)
}
