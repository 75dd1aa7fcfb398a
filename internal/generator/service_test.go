package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-refdocs/corpus"
	"github.com/goliatone/go-refdocs/pkg/activity"
	"github.com/goliatone/go-refdocs/pkg/interfaces"
)

func TestBuildRendersCorpusPages(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	pages := []*corpus.Page{
		testPage("index.md", "# Python Reference", now.Add(-2*time.Hour)),
		testPage("builtins/index.md", "# Builtins", now.Add(-2*time.Hour)),
		testPage("builtins/list.md", "# list", now.Add(-time.Hour)),
		testPage("stdlib/collections.md", "# collections", now.Add(-time.Hour)),
	}
	storage := &recordingStorage{}
	svc := NewService(testBuildConfig(), Dependencies{
		Corpus:  &stubPages{pages: pages},
		Parser:  &stubParser{},
		Storage: storage,
		Clock:   func() time.Time { return now },
	})

	result, err := svc.Build(ctx, BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if result.PagesBuilt != len(pages) {
		t.Fatalf("expected %d pages built, got %d", len(pages), result.PagesBuilt)
	}
	if result.PagesSkipped != 0 {
		t.Fatalf("expected no skipped pages, got %d", result.PagesSkipped)
	}
	if len(result.Rendered) != len(pages) {
		t.Fatalf("expected %d rendered pages, got %d", len(pages), len(result.Rendered))
	}
	if len(result.Diagnostics) != len(pages) {
		t.Fatalf("expected %d diagnostics, got %d", len(pages), len(result.Diagnostics))
	}

	outputs := map[string]string{}
	for _, page := range result.Rendered {
		outputs[page.Path] = page.Output
	}
	expected := map[string]string{
		"index.md":              "site/index.html",
		"builtins/index.md":     "site/builtins/index.html",
		"builtins/list.md":      "site/builtins/list/index.html",
		"stdlib/collections.md": "site/stdlib/collections/index.html",
	}
	for path, want := range expected {
		if outputs[path] != want {
			t.Fatalf("expected output %q for %s, got %q", want, path, outputs[path])
		}
	}

	html, ok := storage.File("site/builtins/list/index.html")
	if !ok {
		t.Fatal("expected rendered list page artifact")
	}
	if !strings.Contains(string(html), "<article># list</article>") {
		t.Fatalf("expected parsed body in output, got %s", html)
	}
	if !strings.Contains(string(html), "<title>list &middot; Reference</title>") {
		t.Fatalf("expected layout title in output, got %s", html)
	}

	for _, artifact := range []string{"site/sitemap.xml", "site/robots.txt", "site/" + manifestFileName} {
		if _, ok := storage.File(artifact); !ok {
			t.Fatalf("expected %s artifact", artifact)
		}
	}
}

func TestBuildIncrementalSkipsUnchangedPages(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	pages := []*corpus.Page{
		testPage("builtins/list.md", "# list", now.Add(-time.Hour)),
		testPage("builtins/dict.md", "# dict", now.Add(-time.Hour)),
	}
	storage := &recordingStorage{}
	svc := NewService(testBuildConfig(), Dependencies{
		Corpus:  &stubPages{pages: pages},
		Parser:  &stubParser{},
		Storage: storage,
		Clock:   func() time.Time { return now },
	})

	if _, err := svc.Build(ctx, BuildOptions{}); err != nil {
		t.Fatalf("first build: %v", err)
	}
	initialWrites := len(storage.CallsFor(storageOpWrite))

	second, err := svc.Build(ctx, BuildOptions{})
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	if second.PagesBuilt != 0 {
		t.Fatalf("expected no pages rebuilt, got %d", second.PagesBuilt)
	}
	if second.PagesSkipped != len(pages) {
		t.Fatalf("expected %d skipped pages, got %d", len(pages), second.PagesSkipped)
	}
	for _, call := range storage.CallsFor(storageOpWrite)[initialWrites:] {
		if callCategory(call) == string(categoryPage) {
			t.Fatalf("expected no page writes on incremental rebuild, wrote %v", call.Args[0])
		}
	}

	force, err := svc.Build(ctx, BuildOptions{Force: true})
	if err != nil {
		t.Fatalf("forced build: %v", err)
	}
	if force.PagesBuilt != len(pages) {
		t.Fatalf("expected forced rebuild of %d pages, got %d", len(pages), force.PagesBuilt)
	}
	if force.PagesSkipped != 0 {
		t.Fatalf("expected no skipped pages on forced rebuild, got %d", force.PagesSkipped)
	}
}

func TestBuildCleanBuildRemovesPriorOutput(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	pages := []*corpus.Page{
		testPage("builtins/list.md", "# list", now.Add(-time.Hour)),
	}
	storage := &recordingStorage{}
	deps := Dependencies{
		Corpus:  &stubPages{pages: pages},
		Parser:  &stubParser{},
		Storage: storage,
		Clock:   func() time.Time { return now },
	}

	if _, err := NewService(testBuildConfig(), deps).Build(ctx, BuildOptions{}); err != nil {
		t.Fatalf("first build: %v", err)
	}
	if _, ok := storage.File("site/" + manifestFileName); !ok {
		t.Fatal("expected manifest from first build")
	}

	cfg := testBuildConfig()
	cfg.CleanBuild = true
	second, err := NewService(cfg, deps).Build(ctx, BuildOptions{})
	if err != nil {
		t.Fatalf("clean build: %v", err)
	}
	if removes := storage.CallsFor(storageOpRemove); len(removes) != 1 {
		t.Fatalf("expected one remove call, got %d", len(removes))
	}
	if second.PagesBuilt != len(pages) {
		t.Fatalf("expected full rebuild after clean, built=%d skipped=%d", second.PagesBuilt, second.PagesSkipped)
	}
}

func TestBuildRebuildsChangedPagesOnly(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	source := &stubPages{pages: []*corpus.Page{
		testPage("builtins/list.md", "# list", now.Add(-time.Hour)),
		testPage("builtins/dict.md", "# dict", now.Add(-time.Hour)),
	}}
	storage := &recordingStorage{}
	svc := NewService(testBuildConfig(), Dependencies{
		Corpus:  source,
		Parser:  &stubParser{},
		Storage: storage,
		Clock:   func() time.Time { return now },
	})

	if _, err := svc.Build(ctx, BuildOptions{}); err != nil {
		t.Fatalf("first build: %v", err)
	}

	source.pages[0] = testPage("builtins/list.md", "# list\n\nAmortized growth.", now)

	second, err := svc.Build(ctx, BuildOptions{})
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	if second.PagesBuilt != 1 {
		t.Fatalf("expected 1 rebuilt page, got %d", second.PagesBuilt)
	}
	if second.PagesSkipped != 1 {
		t.Fatalf("expected 1 skipped page, got %d", second.PagesSkipped)
	}
	if len(second.Rendered) != 1 || second.Rendered[0].Path != "builtins/list.md" {
		t.Fatalf("expected list.md to rebuild, got %+v", second.Rendered)
	}
}

func TestBuildSiteConfigChangeInvalidatesManifest(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	dir := t.TempDir()
	sitePath := filepath.Join(dir, "site.yml")
	writeTestFile(t, sitePath, "site_name: Python Reference\n")

	pages := []*corpus.Page{
		testPage("builtins/list.md", "# list", now.Add(-time.Hour)),
	}
	cfg := testBuildConfig()
	cfg.SiteConfigPath = sitePath
	storage := &recordingStorage{}
	svc := NewService(cfg, Dependencies{
		Corpus:  &stubPages{pages: pages},
		Parser:  &stubParser{},
		Storage: storage,
		Clock:   func() time.Time { return now },
	})

	if _, err := svc.Build(ctx, BuildOptions{}); err != nil {
		t.Fatalf("first build: %v", err)
	}

	writeTestFile(t, sitePath, "site_name: Python Reference\nsite_description: Big-O tables\n")

	second, err := svc.Build(ctx, BuildOptions{})
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	if second.PagesBuilt != len(pages) {
		t.Fatalf("expected config change to rebuild %d pages, got %d", len(pages), second.PagesBuilt)
	}
	if second.PagesSkipped != 0 {
		t.Fatalf("expected no skipped pages after config change, got %d", second.PagesSkipped)
	}
}

func TestBuildDryRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	pages := []*corpus.Page{
		testPage("builtins/list.md", "# list", now.Add(-time.Hour)),
		testPage("builtins/dict.md", "# dict", now.Add(-time.Hour)),
	}
	storage := &recordingStorage{}
	svc := NewService(testBuildConfig(), Dependencies{
		Corpus:  &stubPages{pages: pages},
		Parser:  &stubParser{},
		Storage: storage,
		Clock:   func() time.Time { return now },
	})

	result, err := svc.Build(ctx, BuildOptions{DryRun: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !result.DryRun {
		t.Fatal("expected dry run result")
	}
	if result.PagesBuilt != len(pages) {
		t.Fatalf("expected %d pages counted, got %d", len(pages), result.PagesBuilt)
	}
	if writes := storage.CallsFor(storageOpWrite); len(writes) != 0 {
		t.Fatalf("expected no writes during dry run, got %d", len(writes))
	}
	if dirs := storage.CallsFor(storageOpEnsureDir); len(dirs) != 0 {
		t.Fatalf("expected no directories during dry run, got %d", len(dirs))
	}
}

func TestBuildUsesWorkerPool(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	var pages []*corpus.Page
	for i := 0; i < 24; i++ {
		pages = append(pages, testPage(
			fmt.Sprintf("stdlib/module%02d.md", i),
			fmt.Sprintf("# module%02d", i),
			now.Add(-time.Hour),
		))
	}
	cfg := testBuildConfig()
	cfg.Workers = 4
	storage := &recordingStorage{}
	parser := &stubParser{}
	svc := NewService(cfg, Dependencies{
		Corpus:  &stubPages{pages: pages},
		Parser:  parser,
		Storage: storage,
		Clock:   func() time.Time { return now },
	})

	result, err := svc.Build(ctx, BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if result.PagesBuilt != len(pages) {
		t.Fatalf("expected %d pages built, got %d", len(pages), result.PagesBuilt)
	}
	if parser.Calls() != len(pages) {
		t.Fatalf("expected %d parser calls, got %d", len(pages), parser.Calls())
	}
	for _, page := range pages {
		output := joinOutputPath("site", outputPathFor(page))
		if _, ok := storage.File(output); !ok {
			t.Fatalf("expected artifact %s", output)
		}
	}
}

func TestBuildRecordsRunAndEmitsActivity(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	pages := []*corpus.Page{
		testPage("builtins/list.md", "# list", now.Add(-time.Hour)),
	}
	runs := NewMemoryRunRepository()
	notifier := &captureNotifier{}
	svc := NewService(testBuildConfig(), Dependencies{
		Corpus:   &stubPages{pages: pages},
		Parser:   &stubParser{},
		Storage:  &recordingStorage{},
		Runs:     runs,
		Activity: activity.NewEmitter(notifier, activity.Config{Enabled: true}),
		Clock:    func() time.Time { return now },
	})

	if _, err := svc.Build(ctx, BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}

	latest, err := runs.Latest(ctx)
	if err != nil {
		t.Fatalf("latest run: %v", err)
	}
	if latest.PagesBuilt != len(pages) {
		t.Fatalf("expected run to record %d pages, got %d", len(pages), latest.PagesBuilt)
	}
	if !latest.RanAt.Equal(now) {
		t.Fatalf("expected run at %s, got %s", now, latest.RanAt)
	}

	events := notifier.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 activity event, got %d", len(events))
	}
	if events[0].Verb != "build" || events[0].ObjectType != "site" {
		t.Fatalf("unexpected activity event %+v", events[0])
	}
	if events[0].Channel != "refdocs" {
		t.Fatalf("expected refdocs channel, got %q", events[0].Channel)
	}
	if events[0].Metadata["pages_built"] != len(pages) {
		t.Fatalf("expected pages_built metadata, got %v", events[0].Metadata)
	}
}

func TestBuildSitemapListsEveryPage(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	pages := []*corpus.Page{
		testPage("index.md", "# Python Reference", now.Add(-2*time.Hour)),
		testPage("builtins/list.md", "# list", now.Add(-time.Hour)),
	}
	cfg := testBuildConfig()
	cfg.BaseURL = "https://example.com"
	storage := &recordingStorage{}
	svc := NewService(cfg, Dependencies{
		Corpus:  &stubPages{pages: pages},
		Parser:  &stubParser{},
		Storage: storage,
		Clock:   func() time.Time { return now },
	})

	if _, err := svc.Build(ctx, BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}

	data, ok := storage.File("site/sitemap.xml")
	if !ok {
		t.Fatal("expected sitemap artifact")
	}
	sitemap := string(data)
	if !strings.Contains(sitemap, "<loc>https://example.com/") {
		t.Fatalf("expected home entry, got %s", sitemap)
	}
	if !strings.Contains(sitemap, "<loc>https://example.com/builtins/list/") {
		t.Fatalf("expected list entry, got %s", sitemap)
	}
	if !strings.Contains(sitemap, pages[1].ModTime.UTC().Format(time.RFC3339)) {
		t.Fatalf("expected page mod time as lastmod, got %s", sitemap)
	}

	robots, ok := storage.File("site/robots.txt")
	if !ok {
		t.Fatal("expected robots artifact")
	}
	if !strings.Contains(string(robots), "Sitemap: https://example.com/sitemap.xml") {
		t.Fatalf("expected sitemap reference in robots.txt, got %s", robots)
	}

	// A sweep that skips every page must still produce the full sitemap.
	storage.ResetCalls()
	second, err := svc.Build(ctx, BuildOptions{})
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	if second.PagesSkipped != len(pages) {
		t.Fatalf("expected all pages skipped, got %d", second.PagesSkipped)
	}
	data, ok = storage.File("site/sitemap.xml")
	if !ok {
		t.Fatal("expected sitemap artifact after incremental build")
	}
	if !strings.Contains(string(data), "<loc>https://example.com/builtins/list/") {
		t.Fatalf("expected skipped page in sitemap, got %s", data)
	}
}

func TestBuildSitemapStandalone(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	pages := []*corpus.Page{
		testPage("builtins/list.md", "# list", now.Add(-time.Hour)),
	}
	cfg := testBuildConfig()
	cfg.BaseURL = "https://example.com"
	storage := &recordingStorage{}
	svc := NewService(cfg, Dependencies{
		Corpus:  &stubPages{pages: pages},
		Parser:  &stubParser{},
		Storage: storage,
		Clock:   func() time.Time { return now },
	})

	if err := svc.BuildSitemap(ctx); err != nil {
		t.Fatalf("build sitemap: %v", err)
	}
	data, ok := storage.File("site/sitemap.xml")
	if !ok {
		t.Fatal("expected sitemap artifact")
	}
	if !strings.Contains(string(data), "<loc>https://example.com/builtins/list/") {
		t.Fatalf("expected list entry, got %s", data)
	}
	if pageWrites := storage.writesFor(categoryPage); pageWrites != 0 {
		t.Fatalf("expected no page writes, got %d", pageWrites)
	}
}

func TestCleanRemovesOutputDir(t *testing.T) {
	ctx := context.Background()
	storage := &recordingStorage{files: map[string][]byte{
		"site/index.html":          []byte("<html></html>"),
		"site/" + manifestFileName: []byte("{}"),
	}}
	svc := NewService(testBuildConfig(), Dependencies{
		Corpus:  &stubPages{},
		Parser:  &stubParser{},
		Storage: storage,
	})

	if err := svc.Clean(ctx); err != nil {
		t.Fatalf("clean: %v", err)
	}
	if _, ok := storage.File("site/index.html"); ok {
		t.Fatal("expected page artifact removed")
	}
	if _, ok := storage.File("site/" + manifestFileName); ok {
		t.Fatal("expected manifest removed")
	}

	empty := NewService(Config{}, Dependencies{Corpus: &stubPages{}, Parser: &stubParser{}})
	if err := empty.Clean(ctx); err == nil {
		t.Fatal("expected error when output dir is empty")
	}
}

func TestBuildRequiresCollaborators(t *testing.T) {
	ctx := context.Background()

	svc := NewService(testBuildConfig(), Dependencies{Parser: &stubParser{}})
	if _, err := svc.Build(ctx, BuildOptions{}); err != errPagesRequired {
		t.Fatalf("expected errPagesRequired, got %v", err)
	}

	svc = NewService(testBuildConfig(), Dependencies{Corpus: &stubPages{}})
	if _, err := svc.Build(ctx, BuildOptions{}); err != errParserRequired {
		t.Fatalf("expected errParserRequired, got %v", err)
	}
}

func TestDisabledServiceRejectsOperations(t *testing.T) {
	ctx := context.Background()
	svc := NewDisabledService()

	if _, err := svc.Build(ctx, BuildOptions{}); err != ErrServiceDisabled {
		t.Fatalf("expected ErrServiceDisabled from Build, got %v", err)
	}
	if _, err := svc.Scaffold(ctx, ScaffoldOptions{}); err != ErrServiceDisabled {
		t.Fatalf("expected ErrServiceDisabled from Scaffold, got %v", err)
	}
	if err := svc.BuildAssets(ctx); err != ErrServiceDisabled {
		t.Fatalf("expected ErrServiceDisabled from BuildAssets, got %v", err)
	}
	if err := svc.BuildSitemap(ctx); err != ErrServiceDisabled {
		t.Fatalf("expected ErrServiceDisabled from BuildSitemap, got %v", err)
	}
	if err := svc.Clean(ctx); err != ErrServiceDisabled {
		t.Fatalf("expected ErrServiceDisabled from Clean, got %v", err)
	}
}

// --- fixtures ---

func testBuildConfig() Config {
	return Config{
		OutputDir:       "site",
		Incremental:     true,
		GenerateSitemap: true,
		GenerateRobots:  true,
		Workers:         1,
	}
}

func testPage(relPath, body string, mod time.Time) *corpus.Page {
	raw := []byte(body)
	sum := sha256.Sum256(raw)
	base := relPath
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	return &corpus.Page{
		Path:     relPath,
		Section:  corpus.SectionForPath(relPath),
		Slug:     strings.TrimSuffix(base, ".md"),
		Body:     raw,
		Raw:      raw,
		Checksum: hex.EncodeToString(sum[:]),
		Size:     int64(len(raw)),
		ModTime:  mod,
	}
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

type stubPages struct {
	pages []*corpus.Page
	err   error
}

func (s *stubPages) Pages(context.Context) ([]*corpus.Page, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.pages, nil
}

type stubParser struct {
	mu    sync.Mutex
	calls int
}

func (p *stubParser) Parse(markdown []byte) ([]byte, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	return []byte("<article>" + string(markdown) + "</article>"), nil
}

func (p *stubParser) ParseWithOptions(markdown []byte, _ interfaces.ParseOptions) ([]byte, error) {
	return p.Parse(markdown)
}

func (p *stubParser) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type storageCall struct {
	Query string
	Args  []any
}

func callCategory(call storageCall) string {
	if len(call.Args) >= 4 {
		if category, ok := call.Args[3].(string); ok {
			return category
		}
	}
	return ""
}

type recordingStorage struct {
	mu    sync.Mutex
	calls []storageCall
	files map[string][]byte
}

func (s *recordingStorage) Exec(_ context.Context, query string, args ...any) (interfaces.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if query == storageOpWrite && len(args) >= 2 {
		if target, ok := args[0].(string); ok {
			if reader, ok := args[1].(io.Reader); ok && reader != nil {
				if data, err := io.ReadAll(reader); err == nil {
					if s.files == nil {
						s.files = map[string][]byte{}
					}
					s.files[target] = append([]byte(nil), data...)
				}
			}
		}
	}
	if query == storageOpRemove && len(args) >= 1 {
		if target, ok := args[0].(string); ok && s.files != nil {
			prefix := strings.TrimRight(target, "/") + "/"
			for path := range s.files {
				if path == target || strings.HasPrefix(path, prefix) {
					delete(s.files, path)
				}
			}
		}
	}
	s.calls = append(s.calls, storageCall{Query: query, Args: append([]any(nil), args...)})
	return noopResult{}, nil
}

func (s *recordingStorage) Query(_ context.Context, query string, args ...any) (interfaces.Rows, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, storageCall{Query: query, Args: append([]any(nil), args...)})
	if query == storageOpRead && len(args) > 0 {
		if target, ok := args[0].(string); ok {
			if data, ok := s.files[target]; ok {
				return &bufferedRows{data: [][]byte{append([]byte(nil), data...)}}, nil
			}
		}
	}
	return &bufferedRows{}, nil
}

func (s *recordingStorage) Transaction(_ context.Context, fn func(tx interfaces.Transaction) error) error {
	if fn == nil {
		return nil
	}
	return fn(&recordingTx{storage: s})
}

func (s *recordingStorage) CallsFor(query string) []storageCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	var calls []storageCall
	for _, call := range s.calls {
		if call.Query == query {
			calls = append(calls, call)
		}
	}
	return calls
}

func (s *recordingStorage) writesFor(category writeCategory) int {
	count := 0
	for _, call := range s.CallsFor(storageOpWrite) {
		if callCategory(call) == string(category) {
			count++
		}
	}
	return count
}

func (s *recordingStorage) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func (s *recordingStorage) File(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

type recordingTx struct {
	storage *recordingStorage
}

func (tx *recordingTx) Query(ctx context.Context, query string, args ...any) (interfaces.Rows, error) {
	return tx.storage.Query(ctx, query, args...)
}

func (tx *recordingTx) Exec(ctx context.Context, query string, args ...any) (interfaces.Result, error) {
	return tx.storage.Exec(ctx, query, args...)
}

func (tx *recordingTx) Transaction(ctx context.Context, fn func(tx interfaces.Transaction) error) error {
	return tx.storage.Transaction(ctx, fn)
}

func (tx *recordingTx) Commit() error { return nil }

func (tx *recordingTx) Rollback() error { return nil }

type bufferedRows struct {
	data  [][]byte
	index int
}

func (r *bufferedRows) Next() bool {
	if r.index >= len(r.data) {
		return false
	}
	r.index++
	return true
}

func (r *bufferedRows) Scan(dest ...any) error {
	if r.index == 0 || r.index > len(r.data) {
		return fmt.Errorf("buffered rows: scan without next")
	}
	if len(dest) == 0 {
		return fmt.Errorf("buffered rows: missing destination")
	}
	value := r.data[r.index-1]
	switch target := dest[0].(type) {
	case *[]byte:
		*target = append((*target)[:0], value...)
		return nil
	case *string:
		*target = string(value)
		return nil
	default:
		return fmt.Errorf("buffered rows: unsupported scan type %T", dest[0])
	}
}

func (r *bufferedRows) Close() error { return nil }

type noopResult struct{}

func (noopResult) RowsAffected() (int64, error) { return 0, nil }

func (noopResult) LastInsertId() (int64, error) { return 0, nil }

type captureNotifier struct {
	mu     sync.Mutex
	events []activity.Event
}

func (n *captureNotifier) Notify(_ context.Context, event activity.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *captureNotifier) Events() []activity.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]activity.Event, len(n.events))
	copy(out, n.events)
	return out
}
