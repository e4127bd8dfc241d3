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

type UpdateBudgetCommand struct {
	UserID     string
	Platform   entities.Platform
	EntityType entities.EntityType
	EntityID   string
	NewBudget  float64
	BudgetType string
	// AcknowledgeLearningReset lets the caller push through an increase the
	// ramp planner flags as learning-resetting. Without it the request is
	// rejected pre-flight with the recommended staged plan attached.
	AcknowledgeLearningReset bool
	TriggeredBy              entities.TriggerSource
	SuggestionID             string
}

type UpdateBudgetUseCase struct {
	Exec   *ActionExecutor
	Logger *slog.Logger
}

func (uc UpdateBudgetUseCase) Execute(ctx context.Context, cmd UpdateBudgetCommand) entities.ActionResult {
	logger := application.ResolveLogger(uc.Logger)

	if strings.TrimSpace(cmd.UserID) == "" {
		return failure("", entities.ErrorCategoryUnauthorized, "caller identity is required")
	}
	if !entities.IsSupportedPlatform(cmd.Platform) ||
		!entities.IsSupportedEntityType(cmd.EntityType) ||
		strings.TrimSpace(cmd.EntityID) == "" ||
		cmd.NewBudget <= 0 ||
		!entities.IsSupportedBudgetType(cmd.BudgetType) {
		return failure("", entities.ErrorCategoryInvalidInput, "budget update request is invalid")
	}

	entityID := strings.TrimSpace(cmd.EntityID)

	// Snapshot read and constraint checks run inside the entity critical
	// section so the previous state recorded here is the state the gateway
	// call actually replaces.
	return uc.Exec.execute(ctx, cmd.Platform, entityID, func(ctx context.Context) (entities.ActionLogEntry, gatewayCall, *entities.ActionResult) {
		snapshot, err := uc.Exec.Entities.GetEntity(ctx, cmd.Platform, cmd.EntityType, entityID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrEntityNotFound) {
				return refuse(failure("", entities.ErrorCategoryNotFound,
					fmt.Sprintf("%s %s was not found on %s", cmd.EntityType, entityID, cmd.Platform)))
			}
			return refuse(failure("", entities.ErrorCategoryGateway, "could not read current entity state"))
		}

		field := entities.BudgetField(cmd.BudgetType)
		editability := uc.Exec.Rules.CanEditField(cmd.Platform, field, snapshot.Launched())
		if !editability.CanEdit {
			result := failure("", entities.ErrorCategoryConstraint, editability.Reason)
			if editability.AlternativeAction != "" {
				result.Data = map[string]any{"alternative_action": editability.AlternativeAction}
			}
			return refuse(result)
		}

		currentBudget := snapshot.DailyBudget
		if field == "lifetime_budget" {
			currentBudget = snapshot.LifetimeBudget
		}

		now := uc.Exec.Clock.Now().UTC()
		plan := uc.Exec.Rules.PlanBudgetIncrease(cmd.Platform, currentBudget, cmd.NewBudget, now)
		if plan.WillResetLearning && !cmd.AcknowledgeLearningReset {
			logger.Info("budget change rejected pre-flight",
				"event", "budget_change_rejected",
				"module", "ad-operations/action-orchestrator",
				"layer", "application",
				"platform", string(cmd.Platform),
				"entity_id", entityID,
				"increase_percent", plan.IncreasePercent,
			)
			steps := make([]map[string]any, 0, len(plan.Steps))
			for _, step := range plan.Steps {
				steps = append(steps, map[string]any{
					"amount": step.Amount,
					"date":   step.Date,
				})
			}
			return refuse(entities.ActionResult{
				Success: false,
				Message: fmt.Sprintf("a %.0f%% increase would reset the learning phase on %s; use the staged plan or acknowledge the reset",
					plan.IncreasePercent, cmd.Platform),
				Error: entities.ErrorCategoryConstraint,
				Data: map[string]any{
					"recommended_steps": steps,
					"increase_percent":  plan.IncreasePercent,
				},
			})
		}

		entry := entities.ActionLogEntry{
			UserID:       strings.TrimSpace(cmd.UserID),
			Platform:     cmd.Platform,
			ActionType:   entities.ActionTypeUpdateBudget,
			EntityType:   cmd.EntityType,
			EntityID:     entityID,
			EntityName:   snapshot.Name,
			TriggeredBy:  cmd.TriggeredBy,
			SuggestionID: strings.TrimSpace(cmd.SuggestionID),
			Parameters: map[string]any{
				"new_budget":  cmd.NewBudget,
				"budget_type": cmd.BudgetType,
			},
			PreviousState: map[string]any{
				"budget":      currentBudget,
				"budget_type": cmd.BudgetType,
			},
		}

		return entry, func(ctx context.Context, gateway ports.PlatformGateway) (ports.GatewayResult, map[string]any, error) {
			result, err := gateway.UpdateBudget(ctx, cmd.EntityType, entityID, cmd.NewBudget, cmd.BudgetType)
			if err != nil {
				return ports.GatewayResult{}, nil, err
			}
			return result, map[string]any{
				"budget":      cmd.NewBudget,
				"budget_type": cmd.BudgetType,
			}, nil
		}, nil
	})
}
