// Package event provides a pub/sub event system for the server using watermill.
package event

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/airtrafficctl/atc/internal/logging"
)

// EventType represents the type of event.
type EventType string

// ToolDispatched fires once per runtime.Dispatch call, success or failure.
const ToolDispatched EventType = "tool.dispatched"

// Event represents an event to be published.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// wireEvent is Event's on-the-wire shape: Data travels as raw JSON so a
// subscriber can decode it into the concrete payload type for its Type.
type wireEvent struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Subscriber is a function that receives events.
type Subscriber func(event Event)

// Bus fans tool-dispatch notifications out to subscribers, publishing and
// subscribing through a watermill gochannel so delivery goes through the
// library's topic routing rather than a hand-rolled subscriber list.
type Bus struct {
	pubsub *gochannel.GoChannel
	ctx    context.Context
	cancel context.CancelFunc
}

// NewBus creates a new event bus instance.
func NewBus() *Bus {
	ctx, cancel := context.WithCancel(context.Background())
	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{
				OutputChannelBuffer: 100,
				Persistent:          false,
			},
			watermill.NopLogger{},
		),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Subscribe registers a subscriber for a specific event type. Returns an
// unsubscribe function.
func (b *Bus) Subscribe(eventType EventType, fn Subscriber) func() {
	subCtx, cancel := context.WithCancel(b.ctx)

	messages, err := b.pubsub.Subscribe(subCtx, string(eventType))
	if err != nil {
		logging.Logger.Warn().Err(err).Str("event_type", string(eventType)).Msg("event subscribe failed")
		cancel()
		return func() {}
	}

	go func() {
		for msg := range messages {
			var we wireEvent
			if err := json.Unmarshal(msg.Payload, &we); err != nil {
				msg.Nack()
				continue
			}
			var data ToolDispatchedData
			if len(we.Data) > 0 {
				_ = json.Unmarshal(we.Data, &data)
			}
			fn(Event{Type: we.Type, Data: data})
			msg.Ack()
		}
	}()

	return cancel
}

// Publish sends an event to every subscriber of event.Type.
func (b *Bus) Publish(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logging.Logger.Warn().Err(err).Str("event_type", string(event.Type)).Msg("event marshal failed")
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.pubsub.Publish(string(event.Type), msg); err != nil {
		logging.Logger.Warn().Err(err).Str("event_type", string(event.Type)).Msg("event publish failed")
	}
}

// Close closes the bus and unblocks every subscriber's delivery loop.
func (b *Bus) Close() error {
	b.cancel()
	return b.pubsub.Close()
}
