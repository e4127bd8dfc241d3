package gateways

import (
	"context"
	"fmt"
	"net/http"

	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
	domainerrors "adpilot/contexts/ad-operations/action-orchestrator/domain/errors"
)

// Directory reads current entity state across platforms over the same
// clients the gateways mutate through. It backs pre-flight checks, dry runs,
// and rebalancing target selection.
type Directory struct {
	clients map[entities.Platform]*Client
}

func NewDirectory(clients map[entities.Platform]*Client) *Directory {
	return &Directory{clients: clients}
}

func (d *Directory) GetEntity(ctx context.Context, platform entities.Platform, entityType entities.EntityType, entityID string) (entities.EntitySnapshot, error) {
	client, ok := d.clients[platform]
	if !ok {
		return entities.EntitySnapshot{}, domainerrors.ErrGatewayUnavailable
	}
	data, err := client.do(ctx, http.MethodGet,
		fmt.Sprintf("/entities/%s/%s", entityType, entityID), nil)
	if err != nil {
		if IsNotFound(err) {
			return entities.EntitySnapshot{}, domainerrors.ErrEntityNotFound
		}
		return entities.EntitySnapshot{}, err
	}
	return snapshotFromPayload(platform, entityType, entityID, data), nil
}

func (d *Directory) ListCampaigns(ctx context.Context, platform entities.Platform) ([]entities.EntitySnapshot, error) {
	client, ok := d.clients[platform]
	if !ok {
		return nil, domainerrors.ErrGatewayUnavailable
	}
	data, err := client.do(ctx, http.MethodGet, "/entities/campaign", nil)
	if err != nil {
		return nil, err
	}
	items, _ := data["items"].([]any)
	snapshots := make([]entities.EntitySnapshot, 0, len(items))
	for _, item := range items {
		payload, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, _ := payload["id"].(string)
		snapshots = append(snapshots, snapshotFromPayload(platform, entities.EntityTypeCampaign, id, payload))
	}
	return snapshots, nil
}

func snapshotFromPayload(platform entities.Platform, entityType entities.EntityType, entityID string, payload map[string]any) entities.EntitySnapshot {
	name, _ := payload["name"].(string)
	status, _ := payload["status"].(string)
	daily, _ := payload["daily_budget"].(float64)
	lifetime, _ := payload["lifetime_budget"].(float64)
	return entities.EntitySnapshot{
		Platform:       platform,
		EntityType:     entityType,
		EntityID:       entityID,
		Name:           name,
		Status:         status,
		DailyBudget:    daily,
		LifetimeBudget: lifetime,
	}
}
