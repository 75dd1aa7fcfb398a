package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-refdocs/internal/catalog"
	"github.com/goliatone/go-refdocs/internal/identity"
)

func loadTestData(t *testing.T) (*catalog.BuiltinsFile, *catalog.StdlibFile) {
	t.Helper()

	builtins, stdlib, err := catalog.LoadDataFiles(
		filepath.Join("testdata", "builtins.json"),
		filepath.Join("testdata", "stdlib.json"),
	)
	if err != nil {
		t.Fatalf("load data files: %v", err)
	}
	return builtins, stdlib
}

func TestLoadDataFiles(t *testing.T) {
	builtins, stdlib := loadTestData(t)

	if builtins.Version != "3.11" {
		t.Fatalf("expected builtins version 3.11, got %q", builtins.Version)
	}
	if len(builtins.Items) != 4 {
		t.Fatalf("expected 4 builtin items, got %d", len(builtins.Items))
	}
	if stdlib.Version != "3.11" {
		t.Fatalf("expected stdlib version 3.11, got %q", stdlib.Version)
	}
	if len(stdlib.Modules) != 3 {
		t.Fatalf("expected 3 stdlib modules, got %d", len(stdlib.Modules))
	}
}

func TestLoadDataFiles_MissingFile(t *testing.T) {
	_, _, err := catalog.LoadDataFiles(
		filepath.Join("testdata", "missing.json"),
		filepath.Join("testdata", "stdlib.json"),
	)
	if !errors.Is(err, catalog.ErrDataFileUnreadable) {
		t.Fatalf("expected ErrDataFileUnreadable, got %v", err)
	}
}

func TestLoadDataFiles_MalformedJSON(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "builtins.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, _, err := catalog.LoadDataFiles(bad, filepath.Join("testdata", "stdlib.json"))
	if !errors.Is(err, catalog.ErrDataFileMalformed) {
		t.Fatalf("expected ErrDataFileMalformed, got %v", err)
	}
}

func TestBuildItems(t *testing.T) {
	builtins, stdlib := loadTestData(t)

	items := catalog.BuildItems(builtins, stdlib)

	wantOrder := []string{
		"builtins.dict",
		"builtins.len",
		"builtins.list",
		"builtins.True",
		"collections",
		"collections.Counter",
		"collections.deque",
		"heapq",
		"heapq.heappop",
		"heapq.heappush",
		"marshal",
	}
	if len(items) != len(wantOrder) {
		t.Fatalf("expected %d items, got %d", len(wantOrder), len(items))
	}
	for i, want := range wantOrder {
		if items[i].FullName != want {
			t.Fatalf("item %d: expected %q, got %q", i, want, items[i].FullName)
		}
	}

	byName := map[string]*catalog.CatalogItem{}
	for _, item := range items {
		byName[item.FullName] = item
	}

	dict := byName["builtins.dict"]
	if dict.Kind != catalog.KindClass {
		t.Fatalf("expected dict kind class, got %q", dict.Kind)
	}
	if dict.Origin != catalog.OriginBuiltins || dict.Module != "builtins" {
		t.Fatalf("unexpected dict origin/module: %q/%q", dict.Origin, dict.Module)
	}
	wantMethods := []string{"clear", "get", "items"}
	if len(dict.Methods) != len(wantMethods) {
		t.Fatalf("expected %d dict methods, got %d", len(wantMethods), len(dict.Methods))
	}
	for i, want := range wantMethods {
		if dict.Methods[i] != want {
			t.Fatalf("dict method %d: expected %q, got %q", i, want, dict.Methods[i])
		}
	}
	if dict.ID != identity.CatalogItemUUID(catalog.OriginBuiltins, "builtins.dict") {
		t.Fatalf("dict ID is not deterministic: %s", dict.ID)
	}

	if byName["builtins.len"].Kind != catalog.KindFunction {
		t.Fatalf("expected len kind function, got %q", byName["builtins.len"].Kind)
	}
	truth := byName["builtins.True"]
	if truth.Kind != catalog.KindConstant {
		t.Fatalf("expected True kind constant, got %q", truth.Kind)
	}
	if truth.SortKey != "builtins.true" {
		t.Fatalf("expected lowercased sort key, got %q", truth.SortKey)
	}

	collections := byName["collections"]
	if collections.Kind != catalog.KindModule || collections.Origin != catalog.OriginStdlib {
		t.Fatalf("unexpected collections kind/origin: %q/%q", collections.Kind, collections.Origin)
	}
	if len(collections.Contents) != 2 || collections.Contents[0] != "Counter" || collections.Contents[1] != "deque" {
		t.Fatalf("expected sorted module contents, got %v", collections.Contents)
	}

	deque := byName["collections.deque"]
	if deque.Kind != catalog.KindClass || deque.Module != "collections" {
		t.Fatalf("unexpected deque kind/module: %q/%q", deque.Kind, deque.Module)
	}
	if len(deque.Operations) != 2 {
		t.Fatalf("expected 2 deque operations, got %d", len(deque.Operations))
	}
	if byName["heapq.heappush"].Kind != catalog.KindFunction {
		t.Fatalf("expected heappush kind function, got %q", byName["heapq.heappush"].Kind)
	}

	marshal := byName["marshal"]
	if len(marshal.Contents) != 0 {
		t.Fatalf("expected empty contents for memberless module, got %v", marshal.Contents)
	}
}

func TestBuildItems_DeduplicatesFirstWins(t *testing.T) {
	builtins := &catalog.BuiltinsFile{
		Version: "3.11",
		Items: []catalog.BuiltinItem{
			{Name: "len", Category: "functions", Summary: "first"},
			{Name: "len", Category: "types", Summary: "second"},
		},
	}

	items := catalog.BuildItems(builtins, nil)
	if len(items) != 1 {
		t.Fatalf("expected 1 item after dedupe, got %d", len(items))
	}
	if items[0].Kind != catalog.KindFunction {
		t.Fatalf("expected first occurrence to win, got kind %q", items[0].Kind)
	}
	if items[0].SummaryText() != "first" {
		t.Fatalf("expected first summary to win, got %q", items[0].SummaryText())
	}
}
