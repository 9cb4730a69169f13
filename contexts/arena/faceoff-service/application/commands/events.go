package commands

import (
	"encoding/json"
	"time"

	"newedenfaces/contexts/arena/faceoff-service/ports"
)

func newFaceoffEnvelope(
	eventID string,
	eventType string,
	characterID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Command-side events are partitioned by character for stable ordering on
	// character-scoped consumers.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "faceoff-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "character_id",
		PartitionKey:     characterID,
		Data:             payload,
	}, nil
}
