package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-refdocs/internal/catalog"
)

func testItems() []*catalog.CatalogItem {
	return []*catalog.CatalogItem{
		{FullName: "builtins.list", Origin: catalog.OriginBuiltins, Kind: catalog.KindClass, Category: "types"},
		{FullName: "builtins.dict", Origin: catalog.OriginBuiltins, Kind: catalog.KindClass, Category: "types"},
		{FullName: "builtins.len", Origin: catalog.OriginBuiltins, Kind: catalog.KindFunction, Category: "functions"},
		{FullName: "collections", Origin: catalog.OriginStdlib, Kind: catalog.KindModule},
		{FullName: "heapq", Origin: catalog.OriginStdlib, Kind: catalog.KindModule},
		// Module members share their module page and never widen the universe.
		{FullName: "collections.deque", Origin: catalog.OriginStdlib, Kind: catalog.KindClass},
	}
}

func TestUniverseFromItems(t *testing.T) {
	universe := UniverseFromItems(testItems())

	if got := universe.BuiltinsByCategory["types"]; len(got) != 2 || got[0] != "dict" || got[1] != "list" {
		t.Fatalf("unexpected types category: %v", got)
	}
	if got := universe.BuiltinsByCategory["functions"]; len(got) != 1 || got[0] != "len" {
		t.Fatalf("unexpected functions category: %v", got)
	}
	if len(universe.StdlibModules) != 2 || universe.StdlibModules[0] != "collections" || universe.StdlibModules[1] != "heapq" {
		t.Fatalf("unexpected stdlib modules: %v", universe.StdlibModules)
	}
}

func TestScanDocumented(t *testing.T) {
	docs := t.TempDir()
	for _, dir := range []string{"builtins", "stdlib"} {
		if err := os.MkdirAll(filepath.Join(docs, dir), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	writeFiles := map[string]string{
		"builtins/list.md":      "# list",
		"builtins/index.md":     "# index is never counted",
		"builtins/.draft.md":    "hidden",
		"stdlib/collections.md": "# collections",
	}
	for name, content := range writeFiles {
		if err := os.WriteFile(filepath.Join(docs, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	documented, err := ScanDocumented(docs)
	if err != nil {
		t.Fatalf("ScanDocumented: %v", err)
	}
	if len(documented.Builtins) != 1 || documented.Builtins[0] != "list" {
		t.Fatalf("unexpected builtins stems: %v", documented.Builtins)
	}
	if len(documented.Stdlib) != 1 || documented.Stdlib[0] != "collections" {
		t.Fatalf("unexpected stdlib stems: %v", documented.Stdlib)
	}
}

func TestScanDocumentedMissingDirs(t *testing.T) {
	documented, err := ScanDocumented(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("missing directories should scan empty, got %v", err)
	}
	if len(documented.Builtins) != 0 || len(documented.Stdlib) != 0 {
		t.Fatalf("expected empty scan, got %+v", documented)
	}
}

func TestBuildReport(t *testing.T) {
	universe := UniverseFromItems(testItems())
	documented := Documented{
		Builtins: []string{"list", "dict"},
		Stdlib:   []string{"collections"},
	}
	now := time.Now().UTC()

	report := BuildReport(universe, documented, &now)

	if report.Builtins.Total != 3 || report.Builtins.Documented != 2 {
		t.Fatalf("unexpected builtins coverage %+v", report.Builtins)
	}
	if report.Builtins.CoveragePercent != 66.7 {
		t.Fatalf("expected 66.7%% builtins coverage, got %v", report.Builtins.CoveragePercent)
	}
	if len(report.Builtins.Missing) != 1 || report.Builtins.Missing[0] != "len" {
		t.Fatalf("unexpected missing builtins %v", report.Builtins.Missing)
	}

	if report.Stdlib.Total != 2 || report.Stdlib.Documented != 1 {
		t.Fatalf("unexpected stdlib coverage %+v", report.Stdlib)
	}
	if len(report.Stdlib.Missing) != 1 || report.Stdlib.Missing[0] != "heapq" {
		t.Fatalf("unexpected missing stdlib %v", report.Stdlib.Missing)
	}

	if report.Summary.TotalItems != 5 || report.Summary.TotalDocumented != 3 {
		t.Fatalf("unexpected summary %+v", report.Summary)
	}
	if report.Summary.OverallCoveragePercent != 60.0 {
		t.Fatalf("expected 60%% overall, got %v", report.Summary.OverallCoveragePercent)
	}
	if report.Timestamp == nil || !report.Timestamp.Equal(now) {
		t.Fatalf("expected timestamp %v, got %v", now, report.Timestamp)
	}
}

func TestBuildReportEmptyUniverse(t *testing.T) {
	report := BuildReport(Universe{}, Documented{}, nil)
	if report.Summary.OverallCoveragePercent != 0 {
		t.Fatalf("empty universe should report 0%%, got %v", report.Summary.OverallCoveragePercent)
	}
	if report.Builtins.Missing == nil || report.Stdlib.Missing == nil {
		t.Fatalf("missing lists marshal as [] and must not be nil")
	}
}

func TestWriteReportFile(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	now := time.Now().UTC()
	report := BuildReport(UniverseFromItems(testItems()), Documented{}, &now)

	path, err := WriteReportFile(dataDir, report)
	if err != nil {
		t.Fatalf("WriteReportFile: %v", err)
	}
	if filepath.Base(path) != ReportFileName {
		t.Fatalf("unexpected artifact name %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if len(data) == 0 || data[0] != '{' {
		t.Fatalf("artifact should be a JSON object")
	}
}
