package audit

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

// ErrNoRuns signals that no audit has been recorded yet.
var ErrNoRuns = errors.New("audit: no runs recorded")

// RunRepository persists audit run history.
type RunRepository interface {
	Save(ctx context.Context, run *AuditRun) (*AuditRun, error)
	// Latest returns the most recent run or ErrNoRuns.
	Latest(ctx context.Context) (*AuditRun, error)
	List(ctx context.Context, limit int) ([]*AuditRun, error)
}

// NewAuditRunRepository creates a repository for audit runs.
func NewAuditRunRepository(db *bun.DB) repository.Repository[*AuditRun] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*AuditRun]{
		NewRecord:          func() *AuditRun { return &AuditRun{} },
		GetID:              func(run *AuditRun) uuid.UUID { return run.ID },
		SetID:              func(run *AuditRun, id uuid.UUID) { run.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(run *AuditRun) string { return run.ID.String() },
	})
}

// BunRunRepository implements RunRepository on bun.
type BunRunRepository struct {
	repo repository.Repository[*AuditRun]
}

// NewBunRunRepository creates an audit run repository.
func NewBunRunRepository(db *bun.DB) *BunRunRepository {
	return &BunRunRepository{repo: NewAuditRunRepository(db)}
}

func (r *BunRunRepository) Save(ctx context.Context, run *AuditRun) (*AuditRun, error) {
	record, err := r.repo.Create(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("audit run repository error: %w", err)
	}
	return record, nil
}

func (r *BunRunRepository) Latest(ctx context.Context) (*AuditRun, error) {
	records, err := r.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRuns
	}
	return records[0], nil
}

func (r *BunRunRepository) List(ctx context.Context, limit int) ([]*AuditRun, error) {
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
		return nil, fmt.Errorf("audit run repository error: %w", err)
	}
	return records, nil
}

// MemoryRunRepository keeps audit runs in-memory for DB-less setups.
type MemoryRunRepository struct {
	mu   sync.RWMutex
	runs []*AuditRun
}

// NewMemoryRunRepository constructs an empty in-memory run repository.
func NewMemoryRunRepository() *MemoryRunRepository {
	return &MemoryRunRepository{}
}

func (r *MemoryRunRepository) Save(_ context.Context, run *AuditRun) (*AuditRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *run
	r.runs = append(r.runs, &copied)
	return &copied, nil
}

func (r *MemoryRunRepository) Latest(ctx context.Context) (*AuditRun, error) {
	records, err := r.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRuns
	}
	return records[0], nil
}

func (r *MemoryRunRepository) List(_ context.Context, limit int) ([]*AuditRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*AuditRun, 0, len(r.runs))
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
