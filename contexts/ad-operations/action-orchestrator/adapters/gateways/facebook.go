package gateways

import (
	"context"
	"fmt"
	"net/http"

	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
	"adpilot/contexts/ad-operations/action-orchestrator/ports"
)

// FacebookGateway drives the Marketing API. Budgets are posted in cents and
// statuses use the ACTIVE/PAUSED vocabulary.
type FacebookGateway struct {
	client *Client
}

func NewFacebookGateway(client *Client) *FacebookGateway {
	return &FacebookGateway{client: client}
}

func (g *FacebookGateway) UpdateBudget(ctx context.Context, entityType entities.EntityType, entityID string, newBudget float64, budgetType string) (ports.GatewayResult, error) {
	field := "daily_budget"
	if budgetType == entities.BudgetTypeLifetime {
		field = "lifetime_budget"
	}
	data, err := g.client.do(ctx, http.MethodPost, "/"+entityID, map[string]any{
		field: int64(newBudget * 100),
	})
	if err != nil {
		return ports.GatewayResult{}, err
	}
	return ports.GatewayResult{Data: data}, nil
}

func (g *FacebookGateway) ToggleStatus(ctx context.Context, entityType entities.EntityType, entityID string, enable bool) (ports.GatewayResult, error) {
	status := "PAUSED"
	if enable {
		status = "ACTIVE"
	}
	data, err := g.client.do(ctx, http.MethodPost, "/"+entityID, map[string]any{
		"status": status,
	})
	if err != nil {
		return ports.GatewayResult{}, err
	}
	return ports.GatewayResult{Data: data}, nil
}

func (g *FacebookGateway) DuplicateEntity(ctx context.Context, entityType entities.EntityType, entityID string, modifications map[string]any) (ports.GatewayResult, error) {
	data, err := g.client.do(ctx, http.MethodPost, fmt.Sprintf("/%s/copies", entityID), map[string]any{
		"deep_copy":     true,
		"modifications": modifications,
	})
	if err != nil {
		return ports.GatewayResult{}, err
	}
	result := map[string]any{}
	for key, value := range data {
		result[key] = value
	}
	if id, ok := data[fmt.Sprintf("copied_%s_id", entityType)]; ok {
		result["new_entity_id"] = id
	} else if id, ok := data["id"]; ok {
		result["new_entity_id"] = id
	}
	return ports.GatewayResult{Data: result}, nil
}
