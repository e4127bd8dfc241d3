package gateways

import (
	"context"
	"fmt"
	"net/http"

	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
	"adpilot/contexts/ad-operations/action-orchestrator/ports"
)

// GoogleGateway drives the Google Ads API through mutate-style endpoints.
// Budgets are expressed in micros.
type GoogleGateway struct {
	client *Client
}

func NewGoogleGateway(client *Client) *GoogleGateway {
	return &GoogleGateway{client: client}
}

func googleResource(entityType entities.EntityType) string {
	switch entityType {
	case entities.EntityTypeCampaign:
		return "campaigns"
	case entities.EntityTypeAdSet:
		return "adGroups"
	default:
		return "adGroupAds"
	}
}

func (g *GoogleGateway) UpdateBudget(ctx context.Context, entityType entities.EntityType, entityID string, newBudget float64, budgetType string) (ports.GatewayResult, error) {
	data, err := g.client.do(ctx, http.MethodPost, fmt.Sprintf("/%s:mutate", googleResource(entityType)), map[string]any{
		"operations": []map[string]any{{
			"update": map[string]any{
				"id":            entityID,
				"amount_micros": int64(newBudget * 1_000_000),
				"budget_type":   budgetType,
			},
			"update_mask": "amount_micros",
		}},
	})
	if err != nil {
		return ports.GatewayResult{}, err
	}
	return ports.GatewayResult{Data: data}, nil
}

func (g *GoogleGateway) ToggleStatus(ctx context.Context, entityType entities.EntityType, entityID string, enable bool) (ports.GatewayResult, error) {
	status := "PAUSED"
	if enable {
		status = "ENABLED"
	}
	data, err := g.client.do(ctx, http.MethodPost, fmt.Sprintf("/%s:mutate", googleResource(entityType)), map[string]any{
		"operations": []map[string]any{{
			"update": map[string]any{
				"id":     entityID,
				"status": status,
			},
			"update_mask": "status",
		}},
	})
	if err != nil {
		return ports.GatewayResult{}, err
	}
	return ports.GatewayResult{Data: data}, nil
}

func (g *GoogleGateway) DuplicateEntity(ctx context.Context, entityType entities.EntityType, entityID string, modifications map[string]any) (ports.GatewayResult, error) {
	data, err := g.client.do(ctx, http.MethodPost, fmt.Sprintf("/%s:copy", googleResource(entityType)), map[string]any{
		"source_id":     entityID,
		"modifications": modifications,
	})
	if err != nil {
		return ports.GatewayResult{}, err
	}
	result := map[string]any{}
	for key, value := range data {
		result[key] = value
	}
	if id, ok := data["resource_id"]; ok {
		result["new_entity_id"] = id
	}
	return ports.GatewayResult{Data: result}, nil
}
