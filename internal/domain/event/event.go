// Package event defines the closed set of domain events emitted by the
// aggregates, the append/drain buffer they share, and the publisher port
// used to deliver drained events to external consumers.
package event

import (
	"context"
	"time"
)

// Event is an immutable fact recording a domain state change.
type Event interface {
	// EventName returns the stable dotted name of the event kind.
	EventName() string

	// OccurredAt returns when the change happened.
	OccurredAt() time.Time
}

// Publisher delivers domain events to interested external collaborators.
// Both methods preserve input order and treat an empty batch as a no-op.
// Publishing is best-effort: a failure never rolls back the persisted
// state change that produced the events.
type Publisher interface {
	// Publish delivers a single event.
	Publish(ctx context.Context, e Event) error

	// PublishBatch delivers events in order.
	PublishBatch(ctx context.Context, events []Event) error
}

// Buffer is the per-aggregate append buffer. Aggregates embed it, append
// during mutations, and the service layer drains it exactly once after a
// successful persist. Draining a second time yields nothing.
type Buffer struct {
	events []Event
}

// Append records an event for later draining.
func (b *Buffer) Append(e Event) {
	b.events = append(b.events, e)
}

// TakeEvents returns all buffered events and clears the buffer.
func (b *Buffer) TakeEvents() []Event {
	events := b.events
	b.events = nil
	return events
}

// PendingEvents returns the number of undrained events.
func (b *Buffer) PendingEvents() int {
	return len(b.events)
}
