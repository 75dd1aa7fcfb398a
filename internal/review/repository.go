package review

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

// ErrNoRuns signals that no review wave has been recorded yet.
var ErrNoRuns = errors.New("review: no runs recorded")

// RunRepository persists review run history.
type RunRepository interface {
	Save(ctx context.Context, run *ReviewRun) (*ReviewRun, error)
	// Latest returns the most recent run or ErrNoRuns.
	Latest(ctx context.Context) (*ReviewRun, error)
	List(ctx context.Context, limit int) ([]*ReviewRun, error)
}

// NewReviewRunRepository creates a repository for review runs.
func NewReviewRunRepository(db *bun.DB) repository.Repository[*ReviewRun] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ReviewRun]{
		NewRecord:          func() *ReviewRun { return &ReviewRun{} },
		GetID:              func(run *ReviewRun) uuid.UUID { return run.ID },
		SetID:              func(run *ReviewRun, id uuid.UUID) { run.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(run *ReviewRun) string { return run.ID.String() },
	})
}

// BunRunRepository implements RunRepository on bun.
type BunRunRepository struct {
	repo repository.Repository[*ReviewRun]
}

// NewBunRunRepository creates a review run repository.
func NewBunRunRepository(db *bun.DB) *BunRunRepository {
	return &BunRunRepository{repo: NewReviewRunRepository(db)}
}

func (r *BunRunRepository) Save(ctx context.Context, run *ReviewRun) (*ReviewRun, error) {
	record, err := r.repo.Create(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("review run repository error: %w", err)
	}
	return record, nil
}

func (r *BunRunRepository) Latest(ctx context.Context) (*ReviewRun, error) {
	records, err := r.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRuns
	}
	return records[0], nil
}

func (r *BunRunRepository) List(ctx context.Context, limit int) ([]*ReviewRun, error) {
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
		return nil, fmt.Errorf("review run repository error: %w", err)
	}
	return records, nil
}

// MemoryRunRepository keeps review runs in-memory for DB-less setups.
type MemoryRunRepository struct {
	mu   sync.RWMutex
	runs []*ReviewRun
}

// NewMemoryRunRepository constructs an empty in-memory run repository.
func NewMemoryRunRepository() *MemoryRunRepository {
	return &MemoryRunRepository{}
}

func (r *MemoryRunRepository) Save(_ context.Context, run *ReviewRun) (*ReviewRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *run
	r.runs = append(r.runs, &copied)
	return &copied, nil
}

func (r *MemoryRunRepository) Latest(ctx context.Context) (*ReviewRun, error) {
	records, err := r.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRuns
	}
	return records[0], nil
}

func (r *MemoryRunRepository) List(_ context.Context, limit int) ([]*ReviewRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*ReviewRun, 0, len(r.runs))
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
