package messaging

import (
	"context"
	"testing"
	"time"

	"adpilot/contexts/ad-operations/action-orchestrator/adapters/memory"
	"adpilot/contexts/ad-operations/action-orchestrator/application/workers"
	"adpilot/contexts/ad-operations/action-orchestrator/ports"
)

func TestPublishDeliversToSubscriber(t *testing.T) {
	bus, err := NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new kafka failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan ports.EventEnvelope, 1)
	err = bus.Subscribe(ctx, "ad_action.completed", "orchestrator-test", func(_ context.Context, event ports.EventEnvelope) error {
		received <- event
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := bus.Publish(ctx, "ad_action.completed", ports.EventEnvelope{
		EventID:   "evt-1",
		EventType: "ad_action.completed",
	}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case event := <-received:
		if event.EventID != "evt-1" {
			t.Fatalf("expected evt-1, got %s", event.EventID)
		}
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestPublishSkipsOtherTopics(t *testing.T) {
	bus, err := NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new kafka failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan ports.EventEnvelope, 1)
	if err := bus.Subscribe(ctx, "ad_action.failed", "orchestrator-test", func(_ context.Context, event ports.EventEnvelope) error {
		received <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := bus.Publish(ctx, "ad_action.completed", ports.EventEnvelope{EventID: "evt-1"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case event := <-received:
		t.Fatalf("unexpected delivery on a different topic: %s", event.EventID)
	case <-time.After(50 * time.Millisecond):
	}
}

// The relay drains the outbox through this bus in production; the round trip
// from appended envelope to consumer handler is the contract worth pinning.
func TestOutboxRelayPublishesThroughBus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := memory.NewStore(nil)
	if err := store.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:      "evt-1",
		EventType:    "ad_action.completed",
		PartitionKey: "camp-1",
	}); err != nil {
		t.Fatalf("append outbox failed: %v", err)
	}

	bus, err := NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new kafka failed: %v", err)
	}
	received := make(chan ports.EventEnvelope, 1)
	if err := bus.Subscribe(ctx, "ad_action.completed", "orchestrator-test", func(_ context.Context, event ports.EventEnvelope) error {
		received <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	relay := workers.OutboxRelay{Outbox: store, Publisher: bus, Clock: store}
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}

	select {
	case event := <-received:
		if event.EventID != "evt-1" || event.PartitionKey != "camp-1" {
			t.Fatalf("unexpected envelope: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("relayed event was not delivered")
	}

	pending, err := store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected an empty outbox after the relay cycle, got %d rows", len(pending))
	}
}
