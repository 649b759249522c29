// Package eventbus defines the contract for publishing domain events to
// registered listeners.
package eventbus

import (
	"context"

	"github.com/xbank/xbank/pkg/domain/events"
)

// EventBus publishes domain events and registers listeners by event type.
// Publish is synchronous: it returns after every registered handler for the
// event type has run.
type EventBus interface {
	Publish(ctx context.Context, event events.Event) error
	Subscribe(eventType string, handler func(context.Context, events.Event))
}
