package jobs

import (
	"context"
	"sync"
	"time"
)

// JournalEvent captures one maintenance action applied by the worker.
type JournalEvent struct {
	EntityType string
	EntityID   string
	Action     string
	OccurredAt time.Time
	Metadata   map[string]any
}

// JournalRecorder persists worker journal entries.
type JournalRecorder interface {
	Record(ctx context.Context, event JournalEvent) error
	List(ctx context.Context) ([]JournalEvent, error)
	Clear(ctx context.Context) error
}

// InMemoryJournal accumulates journal entries in-memory for tests and
// DB-less setups.
type InMemoryJournal struct {
	mu     sync.Mutex
	events []JournalEvent
	err    error
}

// NewInMemoryJournal constructs an empty journal.
func NewInMemoryJournal() *InMemoryJournal {
	return &InMemoryJournal{}
}

// Record stores the supplied event.
func (j *InMemoryJournal) Record(_ context.Context, event JournalEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	copied := event
	if copied.Metadata != nil {
		metadata := make(map[string]any, len(copied.Metadata))
		for k, v := range copied.Metadata {
			metadata[k] = v
		}
		copied.Metadata = metadata
	}
	j.events = append(j.events, copied)
	return nil
}

// Events returns a snapshot of the recorded entries.
func (j *InMemoryJournal) Events() []JournalEvent {
	events, _ := j.List(context.Background())
	return events
}

// Fail configures the journal to return the supplied error on subsequent
// Record calls.
func (j *InMemoryJournal) Fail(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.err = err
}

// List returns the entries recorded so far.
func (j *InMemoryJournal) List(context.Context) ([]JournalEvent, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]JournalEvent, len(j.events))
	copy(out, j.events)
	return out, nil
}

// Clear removes all recorded entries.
func (j *InMemoryJournal) Clear(context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = nil
	return nil
}
