// Package event provides synchronous topic-based notifications.
//
// Topics are dot-separated names. Subscribers register a pattern that may
// use "*" for one segment and "**" for any number of segments, and are
// called in subscription order on the publisher's goroutine.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is one published notification.
type Event struct {
	ID        uuid.UUID
	Topic     Topic
	Source    any
	Payload   any
	Timestamp time.Time
}

// New creates an event.
func New(t Topic, source, payload any) Event {
	return Event{
		ID:        uuid.New(),
		Topic:     t,
		Source:    source,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// PayloadAs returns the payload of e as T.
func PayloadAs[T any](e Event) (T, bool) {
	v, ok := e.Payload.(T)
	return v, ok
}
