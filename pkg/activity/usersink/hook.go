// Package usersink bridges refdocs activity events into the go-users
// activity sink contract so hosts already running go-users can collect
// engine activity alongside their own.
package usersink

import (
	"context"
	"strings"

	"github.com/goliatone/go-refdocs/pkg/activity"
	"github.com/goliatone/go-refdocs/pkg/interfaces"
	"github.com/google/uuid"
)

// Hook adapts activity events into ActivityRecord entries and forwards them
// to the configured sink. It satisfies activity.Notifier.
type Hook struct {
	Sink interfaces.ActivitySink
}

var _ activity.Notifier = Hook{}

// Notify maps the event onto the go-users record shape. Events without a verb
// are ignored; identifier fields that fail to parse fall back to uuid.Nil so
// a malformed actor never drops the record.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	if strings.TrimSpace(event.Verb) == "" {
		return nil
	}

	data := make(map[string]any, len(event.Metadata)+2)
	for key, value := range event.Metadata {
		data[key] = value
	}
	if event.DefinitionCode != "" {
		data["definition_code"] = event.DefinitionCode
	}
	if len(event.Recipients) > 0 {
		data["recipients"] = append([]string(nil), event.Recipients...)
	}

	record := interfaces.ActivityRecord{
		ActorID:    parseID(event.ActorID),
		UserID:     parseID(event.UserID),
		TenantID:   parseID(event.TenantID),
		Verb:       event.Verb,
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		OccurredAt: event.OccurredAt,
		Data:       data,
	}
	return h.Sink.Log(ctx, record)
}

func parseID(value string) uuid.UUID {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil
	}
	return id
}
