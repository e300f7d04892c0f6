// Package eventbus provides event.Publisher implementations: an in-memory
// bus with handler fan-out and a retrying decorator for flaky sinks.
package eventbus

import (
	"context"
	"sync"

	"github.com/conveyor-ci/conveyor/internal/domain/event"
)

// Handler consumes a published event.
type Handler func(event.Event)

// InMemoryPublisher keeps an ordered log of published events and fans each
// one out to the subscribed handlers. Handlers run outside the lock so
// they may call back into the publisher.
type InMemoryPublisher struct {
	mu       sync.RWMutex
	events   []event.Event
	handlers []Handler
}

// NewInMemoryPublisher creates an empty publisher.
func NewInMemoryPublisher() *InMemoryPublisher {
	return &InMemoryPublisher{}
}

// Publish records a single event and notifies handlers.
func (p *InMemoryPublisher) Publish(ctx context.Context, e event.Event) error {
	return p.PublishBatch(ctx, []event.Event{e})
}

// PublishBatch records events in order and notifies handlers for each.
// An empty batch is a no-op.
func (p *InMemoryPublisher) PublishBatch(_ context.Context, events []event.Event) error {
	if len(events) == 0 {
		return nil
	}

	p.mu.Lock()
	p.events = append(p.events, events...)
	handlers := make([]Handler, len(p.handlers))
	copy(handlers, p.handlers)
	p.mu.Unlock()

	for _, e := range events {
		for _, h := range handlers {
			h(e)
		}
	}
	return nil
}

// Subscribe adds a handler for all future events.
func (p *InMemoryPublisher) Subscribe(h Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, h)
}

// Events returns a copy of everything published so far, in order.
func (p *InMemoryPublisher) Events() []event.Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]event.Event{}, p.events...)
}

// EventsByName returns the published events with the given name, in order.
func (p *InMemoryPublisher) EventsByName(name string) []event.Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []event.Event
	for _, e := range p.events {
		if e.EventName() == name {
			out = append(out, e)
		}
	}
	return out
}

// Clear drops the event log. Handlers stay subscribed.
func (p *InMemoryPublisher) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = p.events[:0]
}
