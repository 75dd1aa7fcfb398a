package audit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-refdocs/internal/catalog"
	"github.com/goliatone/go-refdocs/pkg/activity"
)

type stubItems struct {
	items []*catalog.CatalogItem
	err   error
}

func (s *stubItems) Items(context.Context) ([]*catalog.CatalogItem, error) {
	return s.items, s.err
}

type captureNotifier struct {
	events []activity.Event
}

func (n *captureNotifier) Notify(_ context.Context, event activity.Event) error {
	n.events = append(n.events, event)
	return nil
}

func seedDocs(t *testing.T) string {
	t.Helper()
	docs := t.TempDir()
	pages := map[string]string{
		"builtins/list.md":      "# list",
		"builtins/dict.md":      "# dict",
		"stdlib/collections.md": "# collections",
	}
	for name, content := range pages {
		path := filepath.Join(docs, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return docs
}

func TestPreviewComputesCoverage(t *testing.T) {
	svc := NewService(
		Config{DocsDir: seedDocs(t), DataDir: t.TempDir()},
		&stubItems{items: testItems()},
	)

	report, err := svc.Preview(context.Background())
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if report.Summary.TotalItems != 5 {
		t.Fatalf("expected 5 items, got %d", report.Summary.TotalItems)
	}
	if report.Summary.TotalDocumented != 3 {
		t.Fatalf("expected 3 documented, got %d", report.Summary.TotalDocumented)
	}
	if report.Summary.OverallCoveragePercent != 60.0 {
		t.Fatalf("expected 60%%, got %v", report.Summary.OverallCoveragePercent)
	}
}

func TestRunWritesArtifactAndHistory(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	runs := NewMemoryRunRepository()
	notifier := &captureNotifier{}
	now := time.Date(2025, 7, 14, 12, 0, 0, 0, time.UTC)

	svc := NewService(
		Config{DocsDir: seedDocs(t), DataDir: dataDir},
		&stubItems{items: testItems()},
		WithRunRepository(runs),
		WithEmitter(activity.NewEmitter(notifier, activity.Config{Enabled: true})),
		WithClock(func() time.Time { return now }),
	)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.ReportPath != filepath.Join(dataDir, ReportFileName) {
		t.Fatalf("unexpected artifact path %q", result.ReportPath)
	}
	if _, err := os.Stat(result.ReportPath); err != nil {
		t.Fatalf("artifact missing: %v", err)
	}

	if !result.Run.RanAt.Equal(now) {
		t.Fatalf("expected run stamped %v, got %v", now, result.Run.RanAt)
	}
	if result.Run.TotalItems != 5 || result.Run.TotalDocumented != 3 {
		t.Fatalf("unexpected run row %+v", result.Run)
	}

	latest, err := svc.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.ID != result.Run.ID {
		t.Fatalf("expected latest to return the persisted run")
	}

	// Same clock, same id: audit runs are deterministic per timestamp.
	again, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if again.Run.ID != result.Run.ID {
		t.Fatalf("expected deterministic run ids, got %s and %s", result.Run.ID, again.Run.ID)
	}

	if len(notifier.events) != 2 {
		t.Fatalf("expected 2 activity events, got %d", len(notifier.events))
	}
	event := notifier.events[0]
	if event.Verb != "audit" || event.ObjectType != "audit_run" {
		t.Fatalf("unexpected event %+v", event)
	}
	if event.Metadata["coverage_percent"] != 60.0 {
		t.Fatalf("expected coverage metadata, got %v", event.Metadata)
	}
}

func TestRunPropagatesItemErrors(t *testing.T) {
	svc := NewService(
		Config{DocsDir: t.TempDir(), DataDir: t.TempDir()},
		&stubItems{err: errors.New("catalog unavailable")},
	)
	if _, err := svc.Run(context.Background()); err == nil {
		t.Fatalf("expected the item source error to propagate")
	}
}

func TestLatestWithoutHistory(t *testing.T) {
	svc := NewService(Config{}, &stubItems{})
	if _, err := svc.Latest(context.Background()); !errors.Is(err, ErrNoRuns) {
		t.Fatalf("expected ErrNoRuns, got %v", err)
	}
}
