package catalog

import (
	"context"
	"strings"

	"github.com/goliatone/go-refdocs/internal/logging"
	"github.com/goliatone/go-refdocs/pkg/interfaces"
	"github.com/google/uuid"
)

// Config carries the data file locations the catalog syncs from.
type Config struct {
	BuiltinsPath string
	StdlibPath   string
}

// SyncResult summarizes one catalog sync.
type SyncResult struct {
	Created   int    `json:"created"`
	Updated   int    `json:"updated"`
	Unchanged int    `json:"unchanged"`
	Removed   int    `json:"removed"`
	Total     int    `json:"total"`
	Version   string `json:"version,omitempty"`
}

// MissingPage pairs a catalog item with the documentation page it expects.
type MissingPage struct {
	Item *CatalogItem
	Path string
}

// Service keeps the catalog in step with the data files and answers
// cursor-walk queries over the stored items.
type Service struct {
	cfg    Config
	repo   ItemRepository
	logger interfaces.Logger
}

// Option customizes service construction.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService builds a catalog service backed by the given repository.
func NewService(cfg Config, repo ItemRepository, opts ...Option) *Service {
	s := &Service{
		cfg:    cfg,
		repo:   repo,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync rebuilds the catalog from the data files: new items are created,
// changed items updated, and items no longer present removed.
func (s *Service) Sync(ctx context.Context) (*SyncResult, error) {
	builtins, stdlib, err := LoadDataFiles(s.cfg.BuiltinsPath, s.cfg.StdlibPath)
	if err != nil {
		return nil, err
	}

	items := BuildItems(builtins, stdlib)

	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	current := make(map[uuid.UUID]*CatalogItem, len(existing))
	for _, item := range existing {
		current[item.ID] = item
	}

	result := &SyncResult{Total: len(items), Version: dataVersion(builtins, stdlib)}
	keep := make(map[uuid.UUID]struct{}, len(items))

	for _, item := range items {
		keep[item.ID] = struct{}{}
		if prev, ok := current[item.ID]; ok && equalItems(prev, item) {
			result.Unchanged++
			continue
		}
		_, created, err := s.repo.Upsert(ctx, item)
		if err != nil {
			return nil, err
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	for id := range current {
		if _, ok := keep[id]; ok {
			continue
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return nil, err
		}
		result.Removed++
	}

	if err := s.repo.InvalidateCache(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("catalog sync complete",
		"created", result.Created,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
		"removed", result.Removed,
		"total", result.Total,
	)
	return result, nil
}

// Count returns the number of stored catalog items.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Items returns every stored item ordered by sort key.
func (s *Service) Items(ctx context.Context) ([]*CatalogItem, error) {
	return s.repo.List(ctx)
}

// Item returns the stored item with the given full name.
func (s *Service) Item(ctx context.Context, fullName string) (*CatalogItem, error) {
	return s.repo.GetByFullName(ctx, fullName)
}

// First returns the walk entry for the first stored item.
func (s *Service) First(ctx context.Context) (*WalkEntry, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCatalogEmpty
	}

	nextName := ""
	if len(items) > 1 {
		nextName = items[1].FullName
	}
	return &WalkEntry{
		Item:     items[0],
		Output:   Describe(items[0], nextName),
		NextName: nextName,
	}, nil
}

// Next returns the walk entry for the item after the named one. It returns
// NotFoundError when the name is unknown and WalkCompleteError when the
// named item is the last in the walk.
func (s *Service) Next(ctx context.Context, fullName string) (*WalkEntry, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCatalogEmpty
	}

	idx := -1
	for i, item := range items {
		if item.FullName == fullName {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &NotFoundError{Resource: "catalog item", Key: fullName}
	}
	if idx+1 >= len(items) {
		return nil, &WalkCompleteError{Name: fullName}
	}

	shown := items[idx+1]
	nextName := ""
	if idx+2 < len(items) {
		nextName = items[idx+2].FullName
	}
	return &WalkEntry{
		Item:     shown,
		Output:   Describe(shown, nextName),
		NextName: nextName,
	}, nil
}

// MissingPages reports catalog items whose documentation page is absent from
// the given set of docs-relative paths. Module members share their module
// page and are never reported on their own.
func (s *Service) MissingPages(ctx context.Context, existing map[string]struct{}) ([]MissingPage, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var missing []MissingPage
	for _, item := range items {
		path := PagePath(item)
		if path == "" {
			continue
		}
		if _, ok := existing[path]; ok {
			continue
		}
		missing = append(missing, MissingPage{Item: item, Path: path})
	}
	return missing, nil
}

// PagePath returns the docs-relative markdown path an item is documented at.
// Builtins map to builtins/<name>.md, stdlib modules to stdlib/<module>.md.
// Module members return "" because they live on their module's page.
func PagePath(item *CatalogItem) string {
	switch {
	case item == nil:
		return ""
	case item.Origin == OriginBuiltins:
		return "builtins/" + strings.TrimPrefix(item.FullName, "builtins.") + ".md"
	case item.Kind == KindModule:
		return "stdlib/" + item.FullName + ".md"
	default:
		return ""
	}
}

func dataVersion(builtins *BuiltinsFile, stdlib *StdlibFile) string {
	if builtins != nil && builtins.Version != "" {
		return builtins.Version
	}
	if stdlib != nil {
		return stdlib.Version
	}
	return ""
}

func equalItems(a, b *CatalogItem) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.FullName == b.FullName &&
		a.Kind == b.Kind &&
		a.Origin == b.Origin &&
		a.Category == b.Category &&
		a.Module == b.Module &&
		a.SummaryText() == b.SummaryText() &&
		equalStrings(a.Contents, b.Contents) &&
		equalStrings(a.Methods, b.Methods) &&
		equalStrings(a.Attributes, b.Attributes) &&
		equalOperations(a.Operations, b.Operations)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalOperations(a, b []Operation) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
