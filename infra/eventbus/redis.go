package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xbank/xbank/pkg/domain/events"
)

// envelope is the wire format written to the stream.
type envelope struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// StreamPublisher mirrors domain events to a Redis Stream so that other
// services can consume them. Publish errors are logged, never surfaced: the
// mirror is an observer, not part of the mutation path.
type StreamPublisher struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

// NewStreamPublisher creates a publisher writing to the given stream.
func NewStreamPublisher(client *redis.Client, stream string, logger *slog.Logger) *StreamPublisher {
	return &StreamPublisher{
		client: client,
		stream: stream,
		logger: logger.With("component", "stream_publisher", "stream", stream),
	}
}

// Handler returns a bus handler that forwards events to the stream. Register
// it on the in-process bus for the event types to mirror.
func (p *StreamPublisher) Handler() func(context.Context, events.Event) {
	return func(ctx context.Context, event events.Event) {
		payload, err := json.Marshal(envelope{
			Type:      event.Type(),
			Timestamp: time.Now().UTC(),
			Data:      event,
		})
		if err != nil {
			p.logger.Error("failed to marshal event", "event_type", event.Type(), "error", err)
			return
		}
		err = p.client.XAdd(ctx, &redis.XAddArgs{
			Stream: p.stream,
			Values: map[string]any{"event": payload},
		}).Err()
		if err != nil {
			p.logger.Error("failed to publish event to stream", "event_type", event.Type(), "error", err)
		}
	}
}
