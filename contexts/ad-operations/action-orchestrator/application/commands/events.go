package commands

import (
	"encoding/json"
	"time"

	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
	"adpilot/contexts/ad-operations/action-orchestrator/ports"
)

func newActionEnvelope(
	eventID string,
	eventType string,
	actionID string,
	entry entities.ActionLogEntry,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	body := map[string]any{
		"action_id":   actionID,
		"user_id":     entry.UserID,
		"platform":    string(entry.Platform),
		"action_type": string(entry.ActionType),
		"entity_type": string(entry.EntityType),
		"entity_id":   entry.EntityID,
	}
	for key, value := range data {
		body[key] = value
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "action-orchestrator",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "entity_id",
		PartitionKey:     entry.EntityID,
		Data:             payload,
	}, nil
}
