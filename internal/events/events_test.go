package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type captureWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (c *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	c.msgs = append(c.msgs, msgs...)
	return nil
}

func (c *captureWriter) Close() error {
	c.closed = true
	return nil
}

func TestKafkaPublisherKeysBySubject(t *testing.T) {
	w := &captureWriter{}
	p := &KafkaPublisher{w: w}

	if err := p.Publish(context.Background(), Event{Type: StoryCreated, ActorID: "u1", SubjectID: "s1"}); err != nil {
		t.Fatalf("expected publish to succeed got %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message got %d", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != "s1" {
		t.Fatalf("expected key s1 got %s", msg.Key)
	}
	var decoded Event
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("expected json payload got %v", err)
	}
	if decoded.Type != StoryCreated || decoded.At.IsZero() {
		t.Fatalf("unexpected event %+v", decoded)
	}
	if err := p.Close(); err != nil || !w.closed {
		t.Fatal("expected writer to be closed")
	}
}

func TestKafkaWriterIsAsync(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	w := newKafkaWriter([]string{"localhost:9092"}, "snapshoot.events", zap.New(core).Sugar())
	if !w.Async || w.Completion == nil {
		t.Fatal("expected async writer with a completion callback")
	}

	msgs := []kafka.Message{
		{Key: []byte("s1"), Headers: []kafka.Header{{Key: "type", Value: []byte(StoryCreated)}}},
		{Key: []byte("m1"), Headers: []kafka.Header{{Key: "type", Value: []byte(MessageSent)}}},
	}
	w.Completion(msgs, nil)
	if logs.Len() != 0 {
		t.Fatalf("expected no logs for delivered batch got %d", logs.Len())
	}
	w.Completion(msgs, errors.New("broker down"))
	entries := logs.FilterMessage("event delivery failed").All()
	if len(entries) != 2 {
		t.Fatalf("expected a log per failed message got %d", len(entries))
	}
	if got := entries[0].ContextMap()["type"]; got != StoryCreated {
		t.Fatalf("expected type %s got %v", StoryCreated, got)
	}
}
