package test

import (
	"context"
	"sync"

	"github.com/polkiloo/foodcourt/internal/domain/event"
)

// PublisherRecorder captures published events.
type PublisherRecorder struct {
	mu     sync.Mutex
	events []event.Event
}

// Publish records event.
func (r *PublisherRecorder) Publish(ctx context.Context, e event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of recorded events.
func (r *PublisherRecorder) Events() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Names returns wire names of recorded events in order.
func (r *PublisherRecorder) Names() []string {
	events := r.Events()
	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e.Name())
	}
	return names
}

// Reset drops recorded events.
func (r *PublisherRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
