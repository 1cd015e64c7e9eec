package events

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type EventType string

const (
	// EventTypeStart is published right before the model is called.
	EventTypeStart EventType = "start"
	// EventTypeFinal carries the completion text of a successful call.
	EventTypeFinal EventType = "final"
	// EventTypeError is published when the model call failed. The chat goes on with
	// an apology turn.
	EventTypeError EventType = "error"
	// EventTypeMissingCredential is published when a response was requested without
	// a credential. No model call happens.
	EventTypeMissingCredential EventType = "missing-credential"
)

// Event describes one step of answering a user turn.
type Event struct {
	Type     EventType     `json:"type"`
	Metadata EventMetadata `json:"meta"`
	Text     string        `json:"text,omitempty"`
	Error    string        `json:"error,omitempty"`
}

func (e Event) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("type", string(e.Type))
	if e.Error != "" {
		ev.Str("error", e.Error)
	}
	if e.Text != "" {
		ev.Int("text_len", len(e.Text))
	}
	ev.Object("meta", e.Metadata)
}

func NewStartEvent(metadata EventMetadata) Event {
	return Event{Type: EventTypeStart, Metadata: metadata}
}

func NewFinalEvent(metadata EventMetadata, text string) Event {
	return Event{Type: EventTypeFinal, Metadata: metadata, Text: text}
}

func NewErrorEvent(metadata EventMetadata, err error) Event {
	ret := Event{Type: EventTypeError, Metadata: metadata}
	if err != nil {
		ret.Error = err.Error()
	}
	return ret
}

func NewMissingCredentialEvent(metadata EventMetadata) Event {
	return Event{Type: EventTypeMissingCredential, Metadata: metadata}
}

func NewEventFromJson(b []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(b, &e); err != nil {
		return Event{}, errors.Wrap(err, "could not decode event")
	}
	if e.Type == "" {
		return Event{}, errors.New("event has no type")
	}
	return e, nil
}

// EventMetadata identifies the request an event belongs to.
type EventMetadata struct {
	ID         uuid.UUID `json:"id"`
	SessionID  string    `json:"session_id,omitempty"`
	Engine     string    `json:"engine,omitempty"`
	DurationMs *int64    `json:"duration_ms,omitempty"`
}

func NewEventMetadata(sessionID string, engine string) EventMetadata {
	return EventMetadata{
		ID:        uuid.New(),
		SessionID: sessionID,
		Engine:    engine,
	}
}

func (em EventMetadata) MarshalZerologObject(e *zerolog.Event) {
	e.Str("id", em.ID.String())
	if em.SessionID != "" {
		e.Str("session_id", em.SessionID)
	}
	if em.Engine != "" {
		e.Str("engine", em.Engine)
	}
	if em.DurationMs != nil {
		e.Int64("duration_ms", *em.DurationMs)
	}
}
