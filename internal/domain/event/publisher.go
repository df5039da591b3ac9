package event

import "context"

// Publisher delivers events to interested parties. Implementations must not
// block callers on slow consumers and never report delivery failures.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, e Event)

// Publish calls f.
func (f PublisherFunc) Publish(ctx context.Context, e Event) {
	f(ctx, e)
}

// Fanout publishes each event to every sink in order.
type Fanout []Publisher

// Publish forwards event to all sinks.
func (f Fanout) Publish(ctx context.Context, e Event) {
	for _, p := range f {
		if p != nil {
			p.Publish(ctx, e)
		}
	}
}

// Discard drops every event.
var Discard Publisher = PublisherFunc(func(context.Context, Event) {})
