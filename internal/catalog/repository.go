package catalog

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewCatalogItemRepository creates a repository for catalog items.
func NewCatalogItemRepository(db *bun.DB) repository.Repository[*CatalogItem] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*CatalogItem]{
		NewRecord:          func() *CatalogItem { return &CatalogItem{} },
		GetID:              func(item *CatalogItem) uuid.UUID { return item.ID },
		SetID:              func(item *CatalogItem, id uuid.UUID) { item.ID = id },
		GetIdentifier:      func() string { return "full_name" },
		GetIdentifierValue: func(item *CatalogItem) string { return item.FullName },
	})
}
