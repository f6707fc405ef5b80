// Package eventbus wraps watermill's in-process gochannel pub/sub behind a
// small interface. The app has a single logical writer and no cross-process
// consumers, so an in-memory bus is sufficient; the interface keeps the
// option of swapping in a broker-backed implementation open.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/oh-hell-club/kachuful-bot/internal/attr"
)

// EventBus publishes JSON-encoded payloads and exposes a subscriber for
// router wiring.
type EventBus interface {
	Publish(ctx context.Context, topic string, payload any) error
	Subscriber() message.Subscriber
	Close() error
}

// Bus is the gochannel-backed EventBus.
type Bus struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
}

// NewGoChannelBus creates an in-process event bus.
func NewGoChannelBus(logger *slog.Logger) *Bus {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewSlogLogger(logger),
	)
	return &Bus{pubSub: pubSub, logger: logger}
}

// Publish JSON-encodes the payload and publishes it on the topic, stamping
// the message with the context's correlation ID.
func (b *Bus) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload for topic %s: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if correlationID := attr.CorrelationIDFromContext(ctx); correlationID != "" {
		middleware.SetCorrelationID(correlationID, msg)
	}

	if err := b.pubSub.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, err)
	}
	return nil
}

// Subscriber returns the underlying subscriber for watermill handler wiring.
func (b *Bus) Subscriber() message.Subscriber {
	return b.pubSub
}

// Close shuts down the pub/sub and releases its subscribers.
func (b *Bus) Close() error {
	return b.pubSub.Close()
}
