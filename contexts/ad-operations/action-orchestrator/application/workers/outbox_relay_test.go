package workers

import (
	"context"
	"testing"

	"adpilot/contexts/ad-operations/action-orchestrator/adapters/memory"
	"adpilot/contexts/ad-operations/action-orchestrator/ports"
	"adpilot/internal/shared/events"
)

type capturingPublisher struct {
	topics []string
	events []ports.EventEnvelope
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func TestRelayPublishesAndMarksRows(t *testing.T) {
	store := memory.NewStore(nil)
	ctx := context.Background()

	for _, eventType := range []string{"ad_action.completed", "ad_action.failed"} {
		if err := store.AppendOutbox(ctx, events.Envelope{
			EventID:   "evt-" + eventType,
			EventType: eventType,
		}); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	publisher := &capturingPublisher{}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}

	if len(publisher.events) != 2 {
		t.Fatalf("expected two published events, got %d", len(publisher.events))
	}
	if publisher.topics[0] != "ad_action.completed" || publisher.topics[1] != "ad_action.failed" {
		t.Fatalf("expected event-type topics, got %v", publisher.topics)
	}

	pending, _ := store.ListPendingOutbox(ctx, 10)
	if len(pending) != 0 {
		t.Fatalf("expected all rows marked published, got %d pending", len(pending))
	}

	// A second cycle with nothing pending is a no-op.
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("idle relay run failed: %v", err)
	}
	if len(publisher.events) != 2 {
		t.Fatal("idle cycle must not republish")
	}
}
