package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StreamSink forwards workflow events to a Redis stream for downstream
// consumers (notification workers, analytics). Delivery is best-effort:
// failures are logged and swallowed so the committed operation is never
// reported as failed because of the sink.
type StreamSink struct {
	client *redis.Client
	stream string
	logger *zap.Logger
}

// NewStreamSink builds the sink.
func NewStreamSink(client *redis.Client, stream string, logger *zap.Logger) *StreamSink {
	return &StreamSink{client: client, stream: stream, logger: logger}
}

// Handle serializes the event and appends it to the stream.
func (s *StreamSink) Handle(ctx context.Context, event Event) error {
	if s.client == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("event marshal failed", zap.String("event_id", event.ID), zap.Error(err))
		return nil
	}
	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			"type":  string(event.Type),
			"event": payload,
		},
	}).Err()
	if err != nil {
		s.logger.Warn("event publish failed",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
	}
	return nil
}

// Register subscribes the sink to every workflow event type.
func (s *StreamSink) Register(dispatcher Dispatcher) {
	for _, eventType := range AllEventTypes {
		dispatcher.Subscribe(eventType, s.Handle)
	}
}
