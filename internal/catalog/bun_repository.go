package catalog

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const itemNamespace = "catalog_item"

// BunItemRepository implements ItemRepository with optional caching.
type BunItemRepository struct {
	repo         repository.Repository[*CatalogItem]
	cacheService cache.CacheService
	cachePrefix  string
}

// NewBunItemRepository creates a catalog item repository without caching.
func NewBunItemRepository(db *bun.DB) *BunItemRepository {
	return NewBunItemRepositoryWithCache(db, nil, nil)
}

// NewBunItemRepositoryWithCache creates a catalog item repository with caching services.
func NewBunItemRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunItemRepository {
	base := NewCatalogItemRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = itemNamespace + cache.KeySeparator
	}
	return &BunItemRepository{
		repo:         base,
		cacheService: svc,
		cachePrefix:  prefix,
	}
}

func (r *BunItemRepository) Upsert(ctx context.Context, item *CatalogItem) (*CatalogItem, bool, error) {
	_, err := r.GetByID(ctx, item.ID)
	if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, false, err
		}
		record, err := r.repo.Create(ctx, item)
		if err != nil {
			return nil, false, err
		}
		return record, true, nil
	}

	record, err := r.repo.Update(ctx, item)
	if err != nil {
		return nil, false, mapRepositoryError(err, "catalog item", item.FullName)
	}
	return record, false, nil
}

func (r *BunItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*CatalogItem, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "catalog item", id.String())
	}
	return record, nil
}

func (r *BunItemRepository) GetByFullName(ctx context.Context, fullName string) (*CatalogItem, error) {
	record, err := r.repo.GetByIdentifier(ctx, fullName)
	if err != nil {
		return nil, mapRepositoryError(err, "catalog item", fullName)
	}
	return record, nil
}

func (r *BunItemRepository) List(ctx context.Context) ([]*CatalogItem, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("sort_key ASC")
	}))
	return records, err
}

func (r *BunItemRepository) Count(ctx context.Context) (int, error) {
	_, total, err := r.repo.List(ctx, repository.SelectPaginate(1, 0))
	return total, err
}

func (r *BunItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &CatalogItem{ID: id})
}

func (r *BunItemRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
