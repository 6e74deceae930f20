package events

import (
	"context"
	"errors"
	"sync"
)

// Handler processes a published event.
type Handler func(context.Context, Event) error

// Dispatcher publishes events to subscribed handlers.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler Handler)
}

// memoryDispatcher fans out events synchronously, in subscription order.
type memoryDispatcher struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewInMemoryDispatcher creates a synchronous in-process dispatcher.
func NewInMemoryDispatcher() Dispatcher {
	return &memoryDispatcher{handlers: make(map[EventType][]Handler)}
}

// Publish invokes every handler subscribed to the event's type. A failing
// handler does not stop the others; their errors are joined and returned.
func (d *memoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	subscribed := make([]Handler, len(d.handlers[event.Type]))
	copy(subscribed, d.handlers[event.Type])
	d.mu.RUnlock()

	var errs []error
	for _, handler := range subscribed {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Subscribe registers a handler for the given event type.
func (d *memoryDispatcher) Subscribe(eventType EventType, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}
