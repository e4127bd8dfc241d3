package memory

import (
	"context"
	"sync"

	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
	"adpilot/contexts/ad-operations/action-orchestrator/ports"

	"github.com/google/uuid"
)

// GatewayCall records one invocation against the stub gateway.
type GatewayCall struct {
	Operation  string
	EntityType entities.EntityType
	EntityID   string
	Budget     float64
	BudgetType string
	Enable     bool
}

// StubGateway is a scripted platform gateway for tests and local wiring.
// Set Err to make every call fail the way a remote platform would.
type StubGateway struct {
	mu    sync.Mutex
	calls []GatewayCall

	Err error
}

func (g *StubGateway) UpdateBudget(_ context.Context, entityType entities.EntityType, entityID string, newBudget float64, budgetType string) (ports.GatewayResult, error) {
	g.record(GatewayCall{
		Operation:  "update_budget",
		EntityType: entityType,
		EntityID:   entityID,
		Budget:     newBudget,
		BudgetType: budgetType,
	})
	if g.Err != nil {
		return ports.GatewayResult{}, g.Err
	}
	return ports.GatewayResult{Data: map[string]any{
		"budget":      newBudget,
		"budget_type": budgetType,
	}}, nil
}

func (g *StubGateway) ToggleStatus(_ context.Context, entityType entities.EntityType, entityID string, enable bool) (ports.GatewayResult, error) {
	g.record(GatewayCall{
		Operation:  "toggle_status",
		EntityType: entityType,
		EntityID:   entityID,
		Enable:     enable,
	})
	if g.Err != nil {
		return ports.GatewayResult{}, g.Err
	}
	status := "paused"
	if enable {
		status = "active"
	}
	return ports.GatewayResult{Data: map[string]any{"status": status}}, nil
}

func (g *StubGateway) DuplicateEntity(_ context.Context, entityType entities.EntityType, entityID string, _ map[string]any) (ports.GatewayResult, error) {
	g.record(GatewayCall{
		Operation:  "duplicate_entity",
		EntityType: entityType,
		EntityID:   entityID,
	})
	if g.Err != nil {
		return ports.GatewayResult{}, g.Err
	}
	return ports.GatewayResult{Data: map[string]any{
		"new_entity_id": uuid.NewString(),
	}}, nil
}

func (g *StubGateway) record(call GatewayCall) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, call)
}

// Calls returns a copy of everything invoked so far.
func (g *StubGateway) Calls() []GatewayCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]GatewayCall(nil), g.calls...)
}
