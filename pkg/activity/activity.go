package activity

import (
	"context"
	"strings"
	"time"
)

// Event describes a domain action worth surfacing to host applications:
// a coverage audit ran, a review wave finished, a page was scaffolded.
type Event struct {
	Verb           string
	ActorID        string
	UserID         string
	TenantID       string
	ObjectType     string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	OccurredAt     time.Time
}

// Notifier receives events emitted by the engine. Implementations decide the
// delivery mechanism (activity sinks, queues, logs).
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Config controls emitter defaults applied to every event.
type Config struct {
	Enabled bool
	Channel string
	Clock   func() time.Time
}

// Emitter fans events out to a notifier, applying channel and timestamp
// defaults. A nil notifier or disabled config turns Emit into a no-op so
// callers never need nil checks around instrumentation.
type Emitter struct {
	notifier Notifier
	channel  string
	enabled  bool
	clock    func() time.Time
}

// NewEmitter builds an emitter around the supplied notifier. Passing a nil
// notifier yields a disabled emitter.
func NewEmitter(notifier Notifier, cfg Config) *Emitter {
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = "refdocs"
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Emitter{
		notifier: notifier,
		channel:  channel,
		enabled:  cfg.Enabled && notifier != nil,
		clock:    clock,
	}
}

// Enabled reports whether Emit will deliver events.
func (e *Emitter) Enabled() bool {
	return e != nil && e.enabled && e.notifier != nil
}

// Emit delivers the event, filling in channel and timestamp when absent.
// Events without a verb are dropped.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Verb) == "" {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = e.clock()
	}
	return e.notifier.Notify(ctx, event)
}
