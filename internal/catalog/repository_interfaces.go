package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ItemRepository exposes persistence operations for catalog items.
type ItemRepository interface {
	// Upsert creates the item when its ID is unknown and updates it
	// otherwise. The bool reports whether a new record was created.
	Upsert(ctx context.Context, item *CatalogItem) (*CatalogItem, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*CatalogItem, error)
	GetByFullName(ctx context.Context, fullName string) (*CatalogItem, error)
	// List returns every item ordered by sort key.
	List(ctx context.Context) ([]*CatalogItem, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	InvalidateCache(ctx context.Context) error
}
