package review

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-refdocs/corpus"
)

type stubSource struct {
	pages  []*corpus.Page
	issues []corpus.ValidationIssue

	analyzeErr map[string]error

	mu       sync.Mutex
	analyzed []string
}

func (s *stubSource) ReviewablePages(context.Context) ([]*corpus.Page, error) {
	return s.pages, nil
}

func (s *stubSource) Analyze(_ context.Context, path string) (corpus.ReviewSummary, error) {
	s.mu.Lock()
	s.analyzed = append(s.analyzed, path)
	s.mu.Unlock()

	if err := s.analyzeErr[path]; err != nil {
		return corpus.ReviewSummary{}, err
	}
	return corpus.ReviewSummary{
		Path:               path,
		HasComplexityTable: true,
		HasExamples:        true,
		HasBestPractices:   true,
		Size:               128,
	}, nil
}

func (s *stubSource) Validate(context.Context) ([]corpus.ValidationIssue, error) {
	return s.issues, nil
}

func (s *stubSource) analyzedPages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]string(nil), s.analyzed...)
	sort.Strings(out)
	return out
}

func testPages(paths ...string) []*corpus.Page {
	pages := make([]*corpus.Page, 0, len(paths))
	for _, path := range paths {
		pages = append(pages, &corpus.Page{Path: path})
	}
	return pages
}

func newTestService(t *testing.T, source *stubSource, opts ...Option) (*Service, Config) {
	t.Helper()
	root := t.TempDir()
	cfg := Config{
		DataDir:      filepath.Join(root, "data"),
		LockDir:      filepath.Join(root, "locks"),
		ProgressFile: filepath.Join(root, ".review_progress.json"),
		Agents:       2,
		Timeout:      time.Minute,
	}
	return NewService(cfg, source, opts...), cfg
}

func TestRunReviewsEveryPage(t *testing.T) {
	source := &stubSource{
		pages: testPages("builtins/dict.md", "builtins/list.md", "stdlib/collections.md", "stdlib/heapq.md"),
	}
	runs := NewMemoryRunRepository()
	svc, cfg := newTestService(t, source, WithRunRepository(runs))

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Summary.Processed != 4 {
		t.Fatalf("expected 4 processed, got %d", result.Summary.Processed)
	}
	if result.Summary.Skipped != 0 || result.Summary.Failed != 0 {
		t.Fatalf("unexpected tallies: %+v", result.Summary)
	}
	if !result.Summary.QualityPassed {
		t.Fatalf("expected the wave to pass quality checks")
	}
	if len(result.Summary.Pages) != 4 {
		t.Fatalf("expected 4 page summaries, got %d", len(result.Summary.Pages))
	}
	if !sort.SliceIsSorted(result.Summary.Pages, func(i, j int) bool {
		return result.Summary.Pages[i].Path < result.Summary.Pages[j].Path
	}) {
		t.Fatalf("page summaries should be sorted by path")
	}

	if _, err := os.Stat(result.SummaryPath); err != nil {
		t.Fatalf("summary artifact missing: %v", err)
	}

	progress, err := LoadProgress(cfg.ProgressFile)
	if err != nil {
		t.Fatalf("LoadProgress: %v", err)
	}
	if len(progress.Completed) != 4 || len(progress.InProgress) != 0 {
		t.Fatalf("unexpected progress %+v", progress)
	}

	latest, err := runs.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.Processed != 4 || !latest.QualityPassed {
		t.Fatalf("unexpected run row %+v", latest)
	}
	if latest.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("expected a deterministic run id")
	}
}

func TestRunTalliesFailures(t *testing.T) {
	source := &stubSource{
		pages:      testPages("builtins/dict.md", "builtins/list.md"),
		analyzeErr: map[string]error{"builtins/dict.md": errors.New("boom")},
	}
	svc, _ := newTestService(t, source)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Summary.Failed != 1 || result.Summary.Processed != 1 {
		t.Fatalf("unexpected tallies %+v", result.Summary)
	}
	if result.Summary.QualityPassed {
		t.Fatalf("a failed page should fail the wave")
	}
}

func TestRunSkipsExternallyLockedPages(t *testing.T) {
	source := &stubSource{
		pages: testPages("builtins/dict.md", "builtins/list.md", "stdlib/heapq.md"),
	}
	svc, cfg := newTestService(t, source)

	// Another process holds dict.md.
	external := NewLockManager(cfg.LockDir)
	if _, err := external.Acquire("builtins/dict.md", "agent-other", time.Now()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Summary.Skipped != 1 {
		t.Fatalf("expected 1 skipped page, got %d", result.Summary.Skipped)
	}
	if result.Summary.Processed != 2 {
		t.Fatalf("expected 2 processed pages, got %d", result.Summary.Processed)
	}
	// The wave-end sweep clears the leftover external lock as well.
	if len(result.SweptLocks) != 1 || result.SweptLocks[0] != "dict.lock" {
		t.Fatalf("expected dict.lock swept, got %v", result.SweptLocks)
	}

	for _, path := range source.analyzedPages() {
		if path == "builtins/dict.md" {
			t.Fatalf("locked page should not be analyzed")
		}
	}
}

func TestRunFailsQualityOnValidationIssues(t *testing.T) {
	source := &stubSource{
		pages:  testPages("builtins/list.md", "builtins/dict.md", "stdlib/heapq.md"),
		issues: []corpus.ValidationIssue{{Code: corpus.IssueMissingPage, Path: "index.md"}},
	}
	svc, _ := newTestService(t, source)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Summary.QualityPassed {
		t.Fatalf("validation issues should fail the wave")
	}
}

func TestDryRunDoesNotTouchPages(t *testing.T) {
	source := &stubSource{
		pages: testPages("builtins/dict.md", "builtins/list.md"),
	}
	svc, cfg := newTestService(t, source)

	external := NewLockManager(cfg.LockDir)
	if _, err := external.Acquire("builtins/list.md", "agent-other", time.Now()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	report, err := svc.DryRun(context.Background())
	if err != nil {
		t.Fatalf("DryRun: %v", err)
	}
	if len(report.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %v", report.Pages)
	}
	if len(report.Locked) != 1 || report.Locked[0] != "builtins/list.md" {
		t.Fatalf("expected list.md reported locked, got %v", report.Locked)
	}
	if len(source.analyzedPages()) != 0 {
		t.Fatalf("dry run must not analyze pages")
	}
	if _, err := os.Stat(cfg.ProgressFile); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("dry run must not write progress")
	}
}

func TestSweepStaleLocksUsesTimeout(t *testing.T) {
	source := &stubSource{}
	svc, cfg := newTestService(t, source)

	external := NewLockManager(cfg.LockDir)
	if _, err := external.Acquire("builtins/list.md", "agent-old", time.Now().Add(-2*time.Hour)); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, err := external.Acquire("builtins/dict.md", "agent-new", time.Now()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	// Timeout is one minute in the test config, so only the old lock goes.
	removed, err := svc.SweepStaleLocks(context.Background())
	if err != nil {
		t.Fatalf("SweepStaleLocks: %v", err)
	}
	if len(removed) != 1 || removed[0] != "list.lock" {
		t.Fatalf("expected list.lock removed, got %v", removed)
	}
}

func TestLatestWithoutRepository(t *testing.T) {
	svc, _ := newTestService(t, &stubSource{})
	if _, err := svc.Latest(context.Background()); !errors.Is(err, ErrNoRuns) {
		t.Fatalf("expected ErrNoRuns, got %v", err)
	}
}
