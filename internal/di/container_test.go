package di

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-refdocs/internal/catalog"
	"github.com/goliatone/go-refdocs/internal/generator"
	"github.com/goliatone/go-refdocs/internal/runtimeconfig"
	"github.com/goliatone/go-refdocs/pkg/testsupport"
)

// testConfig returns a memory-backed configuration rooted at a scratch
// checkout with docs/ and data/ present.
func testConfig(t *testing.T) runtimeconfig.Config {
	t.Helper()
	root := t.TempDir()
	docsDir := filepath.Join(root, "docs")
	if err := os.MkdirAll(filepath.Join(docsDir, "builtins"), 0o755); err != nil {
		t.Fatalf("mkdir docs: %v", err)
	}
	dataDir := filepath.Join(root, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatalf("mkdir data: %v", err)
	}

	cfg := runtimeconfig.DefaultConfig()
	cfg.DocsDir = docsDir
	cfg.DataDir = dataDir
	cfg.SiteConfig = filepath.Join(root, "site.yml")
	cfg.Storage.Provider = "memory"
	cfg.Generator.OutputDir = filepath.Join(root, "site")
	return cfg
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.DocsDir = ""

	if _, err := NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrDocsDirRequired) {
		t.Fatalf("expected ErrDocsDirRequired, got %v", err)
	}
}

func TestNewContainerBuildsCoreServices(t *testing.T) {
	container, err := NewContainer(testConfig(t))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer container.Close()

	if container.CorpusService() == nil {
		t.Fatal("expected corpus service")
	}
	if container.CatalogService() == nil {
		t.Fatal("expected catalog service")
	}
	if container.AuditService() == nil {
		t.Fatal("expected audit service with default features")
	}
	if container.EstimatorService() == nil {
		t.Fatal("expected estimator service")
	}
	if container.ReviewService() != nil {
		t.Fatal("expected nil review service while feature is off")
	}
	if container.BunDB() != nil {
		t.Fatal("expected no database for memory storage provider")
	}
	if container.LoggerProvider() != nil {
		t.Fatal("expected nil logger provider while logging feature is off")
	}
	if container.Logger() == nil {
		t.Fatal("expected fallback logger")
	}
	if container.Scheduler() == nil {
		t.Fatal("expected a scheduler binding")
	}
	if container.JobWorker() != nil {
		t.Fatal("expected no job worker while scheduling is off")
	}

	svc := container.GeneratorService()
	if svc == nil {
		t.Fatal("expected generator stub")
	}
	if _, err := svc.Build(context.Background(), generator.BuildOptions{}); !errors.Is(err, generator.ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled from generator stub, got %v", err)
	}

	if err := container.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewContainerFeatureToggles(t *testing.T) {
	cfg := testConfig(t)
	cfg.Features.Audit = false
	cfg.Features.Review = true

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer container.Close()

	if container.AuditService() != nil {
		t.Fatal("expected nil audit service when feature is off")
	}
	if container.ReviewService() == nil {
		t.Fatal("expected review service when feature is on")
	}
}

func TestNewContainerSchedulingWiring(t *testing.T) {
	cfg := testConfig(t)
	cfg.Features.Scheduling = true

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer container.Close()

	if container.Scheduler() == nil {
		t.Fatal("expected in-memory scheduler")
	}
	if container.JobWorker() == nil {
		t.Fatal("expected job worker when scheduling is on")
	}
	if container.JobJournal() == nil {
		t.Fatal("expected job journal when scheduling is on")
	}
}

func TestNewContainerEnablesGenerator(t *testing.T) {
	cfg := testConfig(t)
	cfg.Generator.Enabled = true

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer container.Close()

	if container.StorageProvider() == nil {
		t.Fatal("expected filesystem storage provider")
	}
	if err := container.GeneratorService().Clean(context.Background()); err != nil {
		t.Fatalf("expected enabled generator, clean failed: %v", err)
	}
}

func TestNewContainerOpensBunStorage(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Storage.Provider = "bun"
	cfg.Storage.Driver = "sqlite3"
	cfg.Storage.DSN = "file:di_container_test?mode=memory&cache=shared"

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	db := container.BunDB()
	if db == nil {
		t.Fatal("expected opened database")
	}
	count, err := db.NewSelect().Model((*catalog.CatalogItem)(nil)).Count(ctx)
	if err != nil {
		t.Fatalf("expected catalog_items table, count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty catalog table, got %d rows", count)
	}

	if err := container.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := container.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestNewContainerKeepsInjectedDB(t *testing.T) {
	ctx := context.Background()
	db, err := testsupport.NewBunSQLite(ctx)
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	defer db.Close()

	container, err := NewContainer(testConfig(t), WithBunDB(db))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	if container.BunDB() != db {
		t.Fatal("expected injected database handle")
	}
	if err := container.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("expected injected db to stay open after close: %v", err)
	}
}

func TestNewContainerLoggingProviders(t *testing.T) {
	cfg := testConfig(t)
	cfg.Features.Logger = true
	cfg.Logging.Provider = "console"

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("console provider: %v", err)
	}
	if container.LoggerProvider() == nil {
		t.Fatal("expected console logger provider")
	}
	container.Close()

	cfg = testConfig(t)
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "json"

	container, err = NewContainer(cfg)
	if err != nil {
		t.Fatalf("gologger provider: %v", err)
	}
	defer container.Close()
	if container.LoggerProvider() == nil {
		t.Fatal("expected gologger provider")
	}
}
