package memory

import (
	"context"
	"sync"

	"github.com/Ihuarraquax/santavibe-sub004/pkg/domain"
	"github.com/Ihuarraquax/santavibe-sub004/pkg/ports"
)

// subscription ties a handler to the context that scopes its lifetime.
type subscription struct {
	ctx     context.Context
	handler ports.EventHandler
}

// InMemoryEventBus implements ports.EventBus using in-memory handlers.
// It mirrors the Redis bus semantics: every distinct subscriber name sees
// each event, subscriptions sharing a name receive it once, and a
// subscription ends with its context. Delivery is synchronous so tests
// observe effects deterministically.
// This is for testing purposes only
type InMemoryEventBus struct {
	subscribers map[string]map[string][]subscription
	mu          sync.Mutex
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus() *InMemoryEventBus {
	return &InMemoryEventBus{
		subscribers: make(map[string]map[string][]subscription),
	}
}

// Publish delivers an event once per live subscriber name on the topic
func (e *InMemoryEventBus) Publish(ctx context.Context, topic string, event domain.Event) error {
	e.mu.Lock()
	var handlers []ports.EventHandler
	for name, subs := range e.subscribers[topic] {
		live := subs[:0]
		for _, s := range subs {
			if s.ctx.Err() == nil {
				live = append(live, s)
			}
		}
		if len(live) == 0 {
			delete(e.subscribers[topic], name)
			continue
		}
		e.subscribers[topic][name] = live
		handlers = append(handlers, live[0].handler)
	}
	e.mu.Unlock()

	// Handlers run outside the lock so they may publish in turn.
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			// Handler errors do not fail the publish
			continue
		}
	}

	return nil
}

// Subscribe registers a handler under a subscriber name. The subscription
// is dropped once ctx is cancelled.
func (e *InMemoryEventBus) Subscribe(ctx context.Context, topic, subscriber string, handler ports.EventHandler) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.subscribers[topic] == nil {
		e.subscribers[topic] = make(map[string][]subscription)
	}
	e.subscribers[topic][subscriber] = append(
		e.subscribers[topic][subscriber],
		subscription{ctx: ctx, handler: handler},
	)

	return nil
}

// Close closes the event bus and cleans up resources
func (e *InMemoryEventBus) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.subscribers = make(map[string]map[string][]subscription)
	return nil
}
