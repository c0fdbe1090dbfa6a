package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	FriendRequested = "friend.requested"
	FriendAccepted  = "friend.accepted"
	FriendRemoved   = "friend.removed"
	GroupCreated    = "group.created"
	GroupDeleted    = "group.deleted"
	MessageSent     = "message.sent"
	MessageDeleted  = "message.deleted"
	StoryCreated    = "story.created"
	StoryDeleted    = "story.deleted"
)

type Event struct {
	Type      string    `json:"type"`
	ActorID   string    `json:"actor_id"`
	SubjectID string    `json:"subject_id"`
	At        time.Time `json:"at"`
	Payload   any       `json:"payload,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop discards events. Used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// writer is the part of kafka.Writer the producer uses.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	w writer
}

func NewKafkaPublisher(brokers []string, topic string, log *zap.SugaredLogger) *KafkaPublisher {
	return &KafkaPublisher{w: newKafkaWriter(brokers, topic, log)}
}

// newKafkaWriter returns an async writer so Publish never waits on a batch.
// Delivery failures surface through the completion callback only.
func newKafkaWriter(brokers []string, topic string, log *zap.SugaredLogger) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		Async:                  true,
		Completion:             deliveryLogger(log),
	}
}

func deliveryLogger(log *zap.SugaredLogger) func([]kafka.Message, error) {
	return func(msgs []kafka.Message, err error) {
		if err == nil {
			return
		}
		for _, m := range msgs {
			log.Warnw("event delivery failed", "type", eventType(m), "subject", string(m.Key), "err", err)
		}
	}
}

func eventType(m kafka.Message) string {
	for _, h := range m.Headers {
		if h.Key == "type" {
			return string(h.Value)
		}
	}
	return ""
}

// Publish writes e keyed by its subject so events for one entity stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.SubjectID),
		Value: b,
		Time:  e.At,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	if p.w == nil {
		return nil
	}
	return p.w.Close()
}
