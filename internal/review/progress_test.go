package review

import (
	"path/filepath"
	"testing"
	"time"
)

func TestProgressTransitions(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".review_progress.json")
	store := newProgressStore(path)

	if err := store.reset(3, time.Now()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := store.start("builtins/list.md"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := store.complete("builtins/list.md"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := store.start("stdlib/heapq.md"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := store.fail("stdlib/heapq.md"); err != nil {
		t.Fatalf("fail: %v", err)
	}

	progress, err := LoadProgress(path)
	if err != nil {
		t.Fatalf("LoadProgress: %v", err)
	}
	if progress.TotalFiles != 3 {
		t.Fatalf("expected total 3, got %d", progress.TotalFiles)
	}
	if len(progress.Completed) != 1 || progress.Completed[0] != "builtins/list.md" {
		t.Fatalf("unexpected completed list %v", progress.Completed)
	}
	if len(progress.Failed) != 1 || progress.Failed[0] != "stdlib/heapq.md" {
		t.Fatalf("unexpected failed list %v", progress.Failed)
	}
	if len(progress.InProgress) != 0 {
		t.Fatalf("expected empty in_progress, got %v", progress.InProgress)
	}

	counts := progress.Counts()
	if counts.Pending != 1 {
		t.Fatalf("expected 1 pending, got %d", counts.Pending)
	}
	if counts.Percent < 33.2 || counts.Percent > 33.4 {
		t.Fatalf("expected ~33.3%% complete, got %v", counts.Percent)
	}
}

func TestProgressCountsEmpty(t *testing.T) {
	counts := Progress{}.Counts()
	if counts.Percent != 0 || counts.Pending != 0 {
		t.Fatalf("zero progress should produce zero counts, got %+v", counts)
	}
}

func TestLoadProgressMissingFile(t *testing.T) {
	if _, err := LoadProgress(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected an error for a missing artifact")
	}
}
