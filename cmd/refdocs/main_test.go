package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	refdocs "github.com/goliatone/go-refdocs"
	"github.com/goliatone/go-refdocs/cmd/refdocs/internal/bootstrap"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// buildTestModule assembles a DB-less engine over a throwaway corpus and
// swaps it in as the CLI module builder for the duration of the test.
func buildTestModule(t *testing.T) *bootstrap.Module {
	t.Helper()

	root := t.TempDir()
	docs := filepath.Join(root, "docs")
	data := filepath.Join(root, "data")

	writeFile(t, filepath.Join(docs, "builtins", "list.md"), strings.Join([]string{
		"---",
		"title: list",
		"---",
		"# list",
		"",
		"| Operation | Time | Space | Notes |",
		"|-----------|------|-------|-------|",
		"| append | O(1) | O(1) | amortized |",
		"| insert | O(n) | O(1) | shifts tail |",
		"",
	}, "\n"))
	writeFile(t, filepath.Join(data, "builtins.json"),
		`{"version": "3.11", "items": [{"name": "list", "category": "types"}]}`)
	writeFile(t, filepath.Join(data, "stdlib.json"),
		`{"version": "3.11", "modules": [{"name": "collections"}]}`)
	writeFile(t, filepath.Join(root, "site.yml"), strings.Join([]string{
		"site_name: Test Reference",
		"theme:",
		"  name: default",
		"",
	}, "\n"))

	cfg := refdocs.DefaultConfig()
	cfg.DocsDir = docs
	cfg.DataDir = data
	cfg.SiteConfig = filepath.Join(root, "site.yml")
	cfg.Storage.Provider = "memory"

	engine, err := refdocs.New(cfg)
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(func() { _ = engine.Close() })

	module := &bootstrap.Module{Engine: engine, Logger: engine.Logger()}

	original := moduleBuilder
	moduleBuilder = func(bootstrap.Options) (*bootstrap.Module, error) {
		return module, nil
	}
	t.Cleanup(func() { moduleBuilder = original })

	return module
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	original := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	runErr := fn()
	_ = w.Close()
	os.Stdout = original
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read captured output: %v", err)
	}
	return string(data), runErr
}

func TestRunRequiresCommand(t *testing.T) {
	if err := run(nil); err == nil {
		t.Fatal("expected an error when no command is given")
	}
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	err := run([]string{"frobnicate"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestRunWalkRequiresExactlyOneSelector(t *testing.T) {
	if err := runWalk(nil); err == nil {
		t.Fatal("expected an error when no selector flag is given")
	}
	if err := runWalk([]string{"-start", "-count"}); err == nil {
		t.Fatal("expected an error when two selector flags are given")
	}
}

func TestRunCountPrintsSectionTotals(t *testing.T) {
	buildTestModule(t)

	out, err := captureStdout(t, func() error { return runCount(nil) })
	if err != nil {
		t.Fatalf("runCount returned error: %v", err)
	}
	for _, line := range []string{
		"total_rows 2",
		"total_files_with_rows 1",
		"builtins_rows 2",
		"stdlib_rows 0",
		"versions_rows 0",
		"implementations_rows 0",
	} {
		if !strings.Contains(out, line) {
			t.Fatalf("expected output to contain %q, got:\n%s", line, out)
		}
	}
}

func TestRunSyncSeedsCatalog(t *testing.T) {
	buildTestModule(t)

	out, err := captureStdout(t, func() error { return runSync(nil) })
	if err != nil {
		t.Fatalf("runSync returned error: %v", err)
	}
	if !strings.Contains(out, "2 total") {
		t.Fatalf("expected two catalog items in output, got:\n%s", out)
	}
}

func TestRunWalkStartAfterSync(t *testing.T) {
	module := buildTestModule(t)

	if _, err := module.Engine.Catalog().Sync(context.Background()); err != nil {
		t.Fatalf("sync catalog: %v", err)
	}

	out, err := captureStdout(t, func() error { return runWalk([]string{"-start"}) })
	if err != nil {
		t.Fatalf("runWalk returned error: %v", err)
	}
	if !strings.Contains(out, "=== builtins.list ===") {
		t.Fatalf("expected walk output to open with builtins.list, got:\n%s", out)
	}
	if !strings.Contains(out, "Next: collections") {
		t.Fatalf("expected walk output to name the next item, got:\n%s", out)
	}
}

func TestRunValidateReportsMissingPages(t *testing.T) {
	buildTestModule(t)

	out, err := captureStdout(t, func() error { return runValidate(nil) })
	if err == nil {
		t.Fatal("expected validation to fail for the minimal corpus")
	}
	if !strings.Contains(out, "index.md") {
		t.Fatalf("expected missing index.md in output, got:\n%s", out)
	}
}
