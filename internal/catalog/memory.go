package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryItemRepository stores catalog items in-memory. Read-only commands
// use it when no database is configured; tests use it to avoid sqlite.
type MemoryItemRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*CatalogItem
}

// NewMemoryItemRepository constructs an empty in-memory repository.
func NewMemoryItemRepository() *MemoryItemRepository {
	return &MemoryItemRepository{items: map[uuid.UUID]*CatalogItem{}}
}

func (r *MemoryItemRepository) Upsert(_ context.Context, item *CatalogItem) (*CatalogItem, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.items[item.ID]
	r.items[item.ID] = cloneItem(item)
	return cloneItem(item), !exists, nil
}

func (r *MemoryItemRepository) GetByID(_ context.Context, id uuid.UUID) (*CatalogItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, &NotFoundError{Resource: "catalog item", Key: id.String()}
	}
	return cloneItem(item), nil
}

func (r *MemoryItemRepository) GetByFullName(_ context.Context, fullName string) (*CatalogItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.FullName == fullName {
			return cloneItem(item), nil
		}
	}
	return nil, &NotFoundError{Resource: "catalog item", Key: fullName}
}

func (r *MemoryItemRepository) List(_ context.Context) ([]*CatalogItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*CatalogItem, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, cloneItem(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortKey < out[j].SortKey })
	return out, nil
}

func (r *MemoryItemRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

func (r *MemoryItemRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *MemoryItemRepository) InvalidateCache(context.Context) error {
	return nil
}

func cloneItem(item *CatalogItem) *CatalogItem {
	if item == nil {
		return nil
	}
	copied := *item
	copied.Contents = append([]string(nil), item.Contents...)
	copied.Methods = append([]string(nil), item.Methods...)
	copied.Attributes = append([]string(nil), item.Attributes...)
	copied.Operations = append([]Operation(nil), item.Operations...)
	if item.Summary != nil {
		summary := *item.Summary
		copied.Summary = &summary
	}
	return &copied
}
