package workers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"newedenfaces/contexts/arena/faceoff-service/adapters/memory"
	"newedenfaces/contexts/arena/faceoff-service/application/workers"
	"newedenfaces/contexts/arena/faceoff-service/ports"
)

type capturingPublisher struct {
	published []ports.EventEnvelope
	topics    []string
	err       error
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.published = append(p.published, event)
	return nil
}

var _ ports.EventPublisher = (*capturingPublisher)(nil)

func appendEnvelope(t *testing.T, store *memory.Store, eventID string, occurredAt time.Time) {
	t.Helper()
	err := store.AppendOutbox(context.Background(), ports.EventEnvelope{
		EventID:       eventID,
		EventType:     "faceoff.vote.settled",
		OccurredAt:    occurredAt,
		SourceService: "faceoff-service",
		SchemaVersion: 1,
		PartitionKey:  "1",
	})
	if err != nil {
		t.Fatalf("append outbox failed: %v", err)
	}
}

func TestRunOncePublishesAndMarksPending(t *testing.T) {
	store := memory.NewStore(nil)
	base := time.Date(2015, 3, 14, 9, 0, 0, 0, time.UTC)
	appendEnvelope(t, store, "event-1", base)
	appendEnvelope(t, store, "event-2", base.Add(time.Minute))

	publisher := &capturingPublisher{}
	relay := workers.OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     store,
	}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once failed: %v", err)
	}
	if len(publisher.published) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(publisher.published))
	}
	if publisher.published[0].EventID != "event-1" || publisher.published[1].EventID != "event-2" {
		t.Fatalf("events published out of creation order: %+v", publisher.published)
	}
	for _, topic := range publisher.topics {
		if topic != "faceoff.vote.settled" {
			t.Fatalf("topic must follow the event type, got %s", topic)
		}
	}
	if store.PendingOutboxCount() != 0 {
		t.Fatalf("published rows must leave the pending set, %d remain", store.PendingOutboxCount())
	}
}

func TestRunOnceEmptyOutboxIsNoOp(t *testing.T) {
	store := memory.NewStore(nil)
	publisher := &capturingPublisher{}
	relay := workers.OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once on empty outbox failed: %v", err)
	}
	if len(publisher.published) != 0 {
		t.Fatalf("nothing should publish from an empty outbox")
	}
}

func TestRunOnceStopsOnPublishFailure(t *testing.T) {
	store := memory.NewStore(nil)
	appendEnvelope(t, store, "event-1", time.Now().UTC())

	publishErr := errors.New("broker unavailable")
	relay := workers.OutboxRelay{
		Outbox:    store,
		Publisher: &capturingPublisher{err: publishErr},
		Clock:     store,
	}

	if err := relay.RunOnce(context.Background()); !errors.Is(err, publishErr) {
		t.Fatalf("expected publish error, got %v", err)
	}
	if store.PendingOutboxCount() != 1 {
		t.Fatalf("failed publish must keep the row pending for retry")
	}
}
