package queries

import (
	"context"
	"errors"
	"strings"
	"testing"

	"adpilot/contexts/ad-operations/action-orchestrator/adapters/memory"
	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
	domainerrors "adpilot/contexts/ad-operations/action-orchestrator/domain/errors"
	"adpilot/contexts/ad-operations/action-orchestrator/domain/rules"
	"adpilot/contexts/ad-operations/action-orchestrator/ports"
)

func seededStore() *memory.Store {
	return memory.NewStore([]entities.EntitySnapshot{{
		Platform:    entities.PlatformFacebook,
		EntityType:  entities.EntityTypeCampaign,
		EntityID:    "camp-1",
		Name:        "Summer Sale",
		Status:      "active",
		DailyBudget: 100,
	}})
}

func TestDryRunBudgetLeavesNoTrace(t *testing.T) {
	store := seededStore()
	uc := DryRunUseCase{Entities: store, Rules: rules.NewRulebook()}

	result := uc.Execute(context.Background(), DryRunQuery{
		Platform:   entities.PlatformFacebook,
		ActionType: entities.ActionTypeUpdateBudget,
		EntityType: entities.EntityTypeCampaign,
		EntityID:   "camp-1",
		Parameters: map[string]any{"new_budget": 200.0, "budget_type": "daily"},
	})
	if !result.WouldSucceed {
		t.Fatalf("expected a successful preview, got: %s", result.Message)
	}
	if result.Preview.CurrentValue != "100.00" || result.Preview.NewValue != "200.00" {
		t.Fatalf("unexpected preview values: %+v", result.Preview)
	}
	if !strings.Contains(result.Preview.EstimatedImpact, "reset the learning phase") {
		t.Fatalf("a 100%% increase should flag the learning reset, got %q", result.Preview.EstimatedImpact)
	}

	history, err := store.ListActions(context.Background(), ports.ActionLogFilter{})
	if err != nil {
		t.Fatalf("list actions failed: %v", err)
	}
	if len(history) != 0 {
		t.Fatal("a dry run must not create log entries")
	}
}

func TestDryRunToggleAlreadyInState(t *testing.T) {
	store := seededStore()
	uc := DryRunUseCase{Entities: store, Rules: rules.NewRulebook()}

	result := uc.Execute(context.Background(), DryRunQuery{
		Platform:   entities.PlatformFacebook,
		ActionType: entities.ActionTypeToggleStatus,
		EntityType: entities.EntityTypeCampaign,
		EntityID:   "camp-1",
		Parameters: map[string]any{"enable": true},
	})
	if !result.WouldSucceed {
		t.Fatalf("expected a successful preview, got: %s", result.Message)
	}
	if !strings.Contains(result.Preview.EstimatedImpact, "already active") {
		t.Fatalf("expected a no-change note, got %q", result.Preview.EstimatedImpact)
	}
}

func TestDryRunScheduleDescribesWindows(t *testing.T) {
	store := seededStore()
	uc := DryRunUseCase{Entities: store, Rules: rules.NewRulebook()}

	result := uc.Execute(context.Background(), DryRunQuery{
		Platform:   entities.PlatformFacebook,
		ActionType: entities.ActionTypeUpdateSchedule,
		EntityType: entities.EntityTypeCampaign,
		EntityID:   "camp-1",
		Parameters: map[string]any{"excluded_hours": []any{0.0, 1.0, 2.0}},
	})
	if !result.WouldSucceed {
		t.Fatalf("expected a successful preview, got: %s", result.Message)
	}
	if result.Preview.NewValue != "03:00-23:59" {
		t.Fatalf("unexpected serving window: %q", result.Preview.NewValue)
	}
}

func TestDryRunMissingEntity(t *testing.T) {
	uc := DryRunUseCase{Entities: memory.NewStore(nil), Rules: rules.NewRulebook()}

	result := uc.Execute(context.Background(), DryRunQuery{
		Platform:   entities.PlatformFacebook,
		ActionType: entities.ActionTypeUpdateBudget,
		EntityType: entities.EntityTypeCampaign,
		EntityID:   "missing",
		Parameters: map[string]any{"new_budget": 200.0},
	})
	if result.WouldSucceed {
		t.Fatal("expected the preview to fail for a missing entity")
	}
}

func TestActionHistoryRequiresUser(t *testing.T) {
	uc := ActionHistoryUseCase{Log: memory.NewStore(nil)}

	_, err := uc.Execute(context.Background(), ActionHistoryQuery{})
	if !errors.Is(err, domainerrors.ErrMissingUserIdentity) {
		t.Fatalf("expected missing identity error, got %v", err)
	}
}
