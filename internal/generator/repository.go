package generator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNoRuns signals that no build has been recorded yet.
var ErrNoRuns = errors.New("generator: no runs recorded")

// RunRepository persists build run history.
type RunRepository interface {
	Save(ctx context.Context, run *GeneratorRun) (*GeneratorRun, error)
	// Latest returns the most recent run or ErrNoRuns.
	Latest(ctx context.Context) (*GeneratorRun, error)
	List(ctx context.Context, limit int) ([]*GeneratorRun, error)
}

// NewGeneratorRunRepository creates a repository for build runs.
func NewGeneratorRunRepository(db *bun.DB) repository.Repository[*GeneratorRun] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*GeneratorRun]{
		NewRecord:          func() *GeneratorRun { return &GeneratorRun{} },
		GetID:              func(run *GeneratorRun) uuid.UUID { return run.ID },
		SetID:              func(run *GeneratorRun, id uuid.UUID) { run.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(run *GeneratorRun) string { return run.ID.String() },
	})
}

// BunRunRepository implements RunRepository on bun.
type BunRunRepository struct {
	repo repository.Repository[*GeneratorRun]
}

// NewBunRunRepository creates a build run repository.
func NewBunRunRepository(db *bun.DB) *BunRunRepository {
	return &BunRunRepository{repo: NewGeneratorRunRepository(db)}
}

// Save upserts a run. Build identifiers derive from the manifest checksum,
// so rebuilding an unchanged tree refreshes the existing row.
func (r *BunRunRepository) Save(ctx context.Context, run *GeneratorRun) (*GeneratorRun, error) {
	_, err := r.repo.GetByID(ctx, run.ID.String())
	if err != nil {
		if !goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, fmt.Errorf("generator run repository error: %w", err)
		}
		record, err := r.repo.Create(ctx, run)
		if err != nil {
			return nil, fmt.Errorf("generator run repository error: %w", err)
		}
		return record, nil
	}
	record, err := r.repo.Update(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("generator run repository error: %w", err)
	}
	return record, nil
}

func (r *BunRunRepository) Latest(ctx context.Context) (*GeneratorRun, error) {
	records, err := r.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRuns
	}
	return records[0], nil
}

func (r *BunRunRepository) List(ctx context.Context, limit int) ([]*GeneratorRun, error) {
	if limit <= 0 {
		limit = 10
	}
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("ran_at DESC")
		}),
		repository.SelectPaginate(limit, 0),
	)
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("generator run repository error: %w", err)
	}
	return records, nil
}

// MemoryRunRepository keeps build runs in-memory for DB-less setups.
type MemoryRunRepository struct {
	mu   sync.RWMutex
	runs []*GeneratorRun
}

// NewMemoryRunRepository constructs an empty in-memory run repository.
func NewMemoryRunRepository() *MemoryRunRepository {
	return &MemoryRunRepository{}
}

func (r *MemoryRunRepository) Save(_ context.Context, run *GeneratorRun) (*GeneratorRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *run
	for i, existing := range r.runs {
		if existing.ID == copied.ID {
			r.runs[i] = &copied
			return &copied, nil
		}
	}
	r.runs = append(r.runs, &copied)
	return &copied, nil
}

func (r *MemoryRunRepository) Latest(ctx context.Context) (*GeneratorRun, error) {
	records, err := r.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRuns
	}
	return records[0], nil
}

func (r *MemoryRunRepository) List(_ context.Context, limit int) ([]*GeneratorRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*GeneratorRun, 0, len(r.runs))
	for _, run := range r.runs {
		copied := *run
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RanAt.After(out[j].RanAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
