package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	application "adpilot/contexts/ad-operations/action-orchestrator/application"
	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
	domainerrors "adpilot/contexts/ad-operations/action-orchestrator/domain/errors"
	"adpilot/contexts/ad-operations/action-orchestrator/ports"
)

type RollbackActionCommand struct {
	UserID      string
	ActionLogID string
}

// RollbackActionUseCase undoes a completed action by replaying its recorded
// previous state through the gateway. The rollback is itself a logged action,
// and the original entry is stamped so it cannot be rolled back twice.
type RollbackActionUseCase struct {
	Exec   *ActionExecutor
	Logger *slog.Logger
}

func (uc RollbackActionUseCase) Execute(ctx context.Context, cmd RollbackActionCommand) entities.ActionResult {
	logger := application.ResolveLogger(uc.Logger)

	if strings.TrimSpace(cmd.UserID) == "" {
		return failure("", entities.ErrorCategoryUnauthorized, "caller identity is required")
	}

	lookup, err := uc.Exec.Log.GetAction(ctx, strings.TrimSpace(cmd.ActionLogID))
	if err != nil || lookup.UserID != strings.TrimSpace(cmd.UserID) {
		if err != nil && !errors.Is(err, domainerrors.ErrActionLogNotFound) {
			return failure("", entities.ErrorCategoryInternal, "audit log is unavailable")
		}
		// Foreign entries are reported identically to missing ones.
		return failure("", entities.ErrorCategoryNotFound, "action log entry not found")
	}

	// Availability is re-checked inside the entity critical section with a
	// fresh read so two concurrent rollbacks of the same entry cannot both
	// pass the gate.
	result := uc.Exec.execute(ctx, lookup.Platform, lookup.EntityID, func(ctx context.Context) (entities.ActionLogEntry, gatewayCall, *entities.ActionResult) {
		original, err := uc.Exec.Log.GetAction(ctx, lookup.ActionID)
		if err != nil {
			return refuse(failure("", entities.ErrorCategoryInternal, "audit log is unavailable"))
		}

		if !original.RollbackAvailable() {
			return refuse(failure(original.ActionID, entities.ErrorCategoryRollbackUnavailable,
				"this action has no reversible prior state"))
		}

		call, newState, ok := inverseCall(original)
		if !ok {
			return refuse(failure(original.ActionID, entities.ErrorCategoryRollbackUnavailable,
				fmt.Sprintf("%s actions cannot be rolled back", original.ActionType)))
		}

		entry := entities.ActionLogEntry{
			UserID:      original.UserID,
			Platform:    original.Platform,
			ActionType:  entities.ActionTypeRollback,
			EntityType:  original.EntityType,
			EntityID:    original.EntityID,
			EntityName:  original.EntityName,
			TriggeredBy: entities.TriggerUserManual,
			Parameters: map[string]any{
				"rollback_of": original.ActionID,
			},
			PreviousState: copyState(original.NewState),
		}

		return entry, func(ctx context.Context, gateway ports.PlatformGateway) (ports.GatewayResult, map[string]any, error) {
			gatewayResult, err := call(ctx, gateway)
			if err != nil {
				return ports.GatewayResult{}, nil, err
			}
			return gatewayResult, newState, nil
		}, nil
	})
	if !result.Success {
		return result
	}

	now := uc.Exec.Clock.Now().UTC()
	if err := uc.Exec.Log.MarkActionRolledBack(ctx, lookup.ActionID, result.ActionLogID, now); err != nil {
		logger.Error("rolled-back marker lost",
			"event", "action_rollback_marker_lost",
			"module", "ad-operations/action-orchestrator",
			"layer", "application",
			"action_id", lookup.ActionID,
			"rollback_action_id", result.ActionLogID,
			"error", err.Error(),
		)
	}
	result.Message = fmt.Sprintf("rolled back %s on %s", lookup.ActionType, lookup.Platform)
	return result
}

// inverseCall maps a completed action onto the gateway call that restores its
// previous state.
func inverseCall(original entities.ActionLogEntry) (func(context.Context, ports.PlatformGateway) (ports.GatewayResult, error), map[string]any, bool) {
	switch original.ActionType {
	case entities.ActionTypeUpdateBudget:
		budget, ok := stateFloat(original.PreviousState, "budget")
		if !ok {
			return nil, nil, false
		}
		budgetType, _ := stateString(original.PreviousState, "budget_type")
		if budgetType == "" {
			budgetType = entities.BudgetTypeDaily
		}
		return func(ctx context.Context, gateway ports.PlatformGateway) (ports.GatewayResult, error) {
			return gateway.UpdateBudget(ctx, original.EntityType, original.EntityID, budget, budgetType)
		}, copyState(original.PreviousState), true
	case entities.ActionTypeToggleStatus:
		status, ok := stateString(original.PreviousState, "status")
		if !ok {
			return nil, nil, false
		}
		return func(ctx context.Context, gateway ports.PlatformGateway) (ports.GatewayResult, error) {
			return gateway.ToggleStatus(ctx, original.EntityType, original.EntityID, status == "active")
		}, copyState(original.PreviousState), true
	default:
		return nil, nil, false
	}
}

func copyState(state map[string]any) map[string]any {
	if state == nil {
		return nil
	}
	out := make(map[string]any, len(state))
	for key, value := range state {
		out[key] = value
	}
	return out
}

// States round-trip through JSON columns, so numbers may come back as
// float64 and the occasional int must still be accepted.
func stateFloat(state map[string]any, key string) (float64, bool) {
	switch value := state[key].(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	default:
		return 0, false
	}
}

func stateString(state map[string]any, key string) (string, bool) {
	value, ok := state[key].(string)
	return value, ok
}
