package gateways

import (
	"context"
	"net/http"

	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
	"adpilot/contexts/ad-operations/action-orchestrator/ports"
)

// TikTokGateway drives the TikTok Business API, which takes command-style
// endpoints with ids in the body.
type TikTokGateway struct {
	client *Client
}

func NewTikTokGateway(client *Client) *TikTokGateway {
	return &TikTokGateway{client: client}
}

func tiktokLevel(entityType entities.EntityType) string {
	switch entityType {
	case entities.EntityTypeCampaign:
		return "campaign"
	case entities.EntityTypeAdSet:
		return "adgroup"
	default:
		return "ad"
	}
}

func (g *TikTokGateway) UpdateBudget(ctx context.Context, entityType entities.EntityType, entityID string, newBudget float64, budgetType string) (ports.GatewayResult, error) {
	mode := "BUDGET_MODE_DAY"
	if budgetType == entities.BudgetTypeLifetime {
		mode = "BUDGET_MODE_TOTAL"
	}
	data, err := g.client.do(ctx, http.MethodPost, "/"+tiktokLevel(entityType)+"/update/", map[string]any{
		tiktokLevel(entityType) + "_id": entityID,
		"budget":                        newBudget,
		"budget_mode":                   mode,
	})
	if err != nil {
		return ports.GatewayResult{}, err
	}
	return ports.GatewayResult{Data: data}, nil
}

func (g *TikTokGateway) ToggleStatus(ctx context.Context, entityType entities.EntityType, entityID string, enable bool) (ports.GatewayResult, error) {
	operation := "DISABLE"
	if enable {
		operation = "ENABLE"
	}
	data, err := g.client.do(ctx, http.MethodPost, "/"+tiktokLevel(entityType)+"/status/update/", map[string]any{
		tiktokLevel(entityType) + "_ids": []string{entityID},
		"operation_status":               operation,
	})
	if err != nil {
		return ports.GatewayResult{}, err
	}
	return ports.GatewayResult{Data: data}, nil
}

func (g *TikTokGateway) DuplicateEntity(ctx context.Context, entityType entities.EntityType, entityID string, modifications map[string]any) (ports.GatewayResult, error) {
	data, err := g.client.do(ctx, http.MethodPost, "/"+tiktokLevel(entityType)+"/copy/", map[string]any{
		tiktokLevel(entityType) + "_id": entityID,
		"modifications":                 modifications,
	})
	if err != nil {
		return ports.GatewayResult{}, err
	}
	result := map[string]any{}
	for key, value := range data {
		result[key] = value
	}
	if id, ok := data["new_"+tiktokLevel(entityType)+"_id"]; ok {
		result["new_entity_id"] = id
	}
	return ports.GatewayResult{Data: result}, nil
}
