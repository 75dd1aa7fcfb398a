package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-refdocs/internal/catalog"
	"github.com/goliatone/go-refdocs/internal/identity"
	"github.com/goliatone/go-refdocs/pkg/testsupport"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

func newCatalogDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := testsupport.NewBunSQLite(context.Background(), (*catalog.CatalogItem)(nil))
	if err != nil {
		t.Fatalf("sqlite setup: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestBunItemRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := catalog.NewBunItemRepository(newCatalogDB(t))

	length := &catalog.CatalogItem{
		ID:       identity.CatalogItemUUID(catalog.OriginBuiltins, "builtins.len"),
		FullName: "builtins.len",
		SortKey:  "builtins.len",
		Kind:     catalog.KindFunction,
		Origin:   catalog.OriginBuiltins,
		Category: "functions",
		Module:   "builtins",
	}

	_, created, err := repo.Upsert(ctx, length)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !created {
		t.Fatal("expected first upsert to create")
	}

	got, err := repo.GetByID(ctx, length.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.FullName != "builtins.len" {
		t.Fatalf("expected builtins.len, got %q", got.FullName)
	}

	byName, err := repo.GetByFullName(ctx, "builtins.len")
	if err != nil {
		t.Fatalf("get by full name: %v", err)
	}
	if byName.ID != length.ID {
		t.Fatalf("expected ID %s, got %s", length.ID, byName.ID)
	}

	summary := "Return the number of items in a container."
	length.Summary = &summary
	_, created, err = repo.Upsert(ctx, length)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Fatal("expected second upsert to update")
	}
	got, err = repo.GetByID(ctx, length.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.SummaryText() != summary {
		t.Fatalf("expected updated summary, got %q", got.SummaryText())
	}

	dict := &catalog.CatalogItem{
		ID:       identity.CatalogItemUUID(catalog.OriginBuiltins, "builtins.dict"),
		FullName: "builtins.dict",
		SortKey:  "builtins.dict",
		Kind:     catalog.KindClass,
		Origin:   catalog.OriginBuiltins,
		Category: "types",
		Module:   "builtins",
		Methods:  []string{"clear", "get"},
		Operations: []catalog.Operation{
			{Name: "d[key]", Time: "O(1)", Space: "O(1)", Notes: "Average case"},
		},
	}
	if _, _, err := repo.Upsert(ctx, dict); err != nil {
		t.Fatalf("upsert dict: %v", err)
	}

	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].FullName != "builtins.dict" {
		t.Fatalf("expected sort_key ordering, got %q first", items[0].FullName)
	}
	if len(items[0].Methods) != 2 || items[0].Methods[0] != "clear" {
		t.Fatalf("expected methods to round-trip, got %v", items[0].Methods)
	}
	if len(items[0].Operations) != 1 || items[0].Operations[0].Time != "O(1)" {
		t.Fatalf("expected operations to round-trip, got %v", items[0].Operations)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}

	if err := repo.Delete(ctx, length.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = repo.GetByID(ctx, length.ID)
	var notFound *catalog.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError after delete, got %v", err)
	}

	count, err = repo.Count(ctx)
	if err != nil {
		t.Fatalf("count after delete: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}
}

func TestBunItemRepository_WithCache(t *testing.T) {
	ctx := context.Background()
	db := newCatalogDB(t)

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheSvc, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	repo := catalog.NewBunItemRepositoryWithCache(db, cacheSvc, repocache.NewDefaultKeySerializer())

	item := &catalog.CatalogItem{
		ID:       identity.CatalogItemUUID(catalog.OriginStdlib, "heapq"),
		FullName: "heapq",
		SortKey:  "heapq",
		Kind:     catalog.KindModule,
		Origin:   catalog.OriginStdlib,
		Module:   "heapq",
		Contents: []string{"heappop", "heappush"},
	}
	if _, _, err := repo.Upsert(ctx, item); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.InvalidateCache(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	first, err := repo.GetByFullName(ctx, "heapq")
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	cached, err := repo.GetByFullName(ctx, "heapq")
	if err != nil {
		t.Fatalf("cached get: %v", err)
	}
	if first.ID != cached.ID {
		t.Fatalf("expected identical records, got %s and %s", first.ID, cached.ID)
	}

	summary := "Heap queue algorithm."
	item.Summary = &summary
	if _, _, err := repo.Upsert(ctx, item); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := repo.InvalidateCache(ctx); err != nil {
		t.Fatalf("invalidate after update: %v", err)
	}

	fresh, err := repo.GetByFullName(ctx, "heapq")
	if err != nil {
		t.Fatalf("get after invalidate: %v", err)
	}
	if fresh.SummaryText() != summary {
		t.Fatalf("expected refreshed summary, got %q", fresh.SummaryText())
	}
}
