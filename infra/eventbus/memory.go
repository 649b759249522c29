// Package eventbus provides event bus implementations: an in-process bus and a
// Redis Streams mirror for other services.
package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/xbank/xbank/pkg/domain/events"
)

// MemoryBus is an in-process, synchronous event bus. Safe for concurrent use.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]func(context.Context, events.Event)
	logger   *slog.Logger
}

// NewMemoryBus creates an empty bus.
func NewMemoryBus(logger *slog.Logger) *MemoryBus {
	return &MemoryBus{
		handlers: make(map[string][]func(context.Context, events.Event)),
		logger:   logger.With("component", "eventbus"),
	}
}

// Publish invokes every handler registered for the event's type.
func (b *MemoryBus) Publish(ctx context.Context, event events.Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type()]
	b.mu.RUnlock()
	b.logger.Debug("publishing event", "event_type", event.Type(), "handlers", len(handlers))
	for _, handler := range handlers {
		handler(ctx, event)
	}
	return nil
}

// Subscribe registers handler for the given event type.
func (b *MemoryBus) Subscribe(eventType string, handler func(context.Context, events.Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
