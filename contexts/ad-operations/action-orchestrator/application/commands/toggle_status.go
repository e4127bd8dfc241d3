package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
	domainerrors "adpilot/contexts/ad-operations/action-orchestrator/domain/errors"
	"adpilot/contexts/ad-operations/action-orchestrator/ports"
)

type ToggleStatusCommand struct {
	UserID       string
	Platform     entities.Platform
	EntityType   entities.EntityType
	EntityID     string
	Enable       bool
	TriggeredBy  entities.TriggerSource
	SuggestionID string
}

type ToggleStatusUseCase struct {
	Exec   *ActionExecutor
	Logger *slog.Logger
}

func (uc ToggleStatusUseCase) Execute(ctx context.Context, cmd ToggleStatusCommand) entities.ActionResult {
	if strings.TrimSpace(cmd.UserID) == "" {
		return failure("", entities.ErrorCategoryUnauthorized, "caller identity is required")
	}
	if !entities.IsSupportedPlatform(cmd.Platform) ||
		!entities.IsSupportedEntityType(cmd.EntityType) ||
		strings.TrimSpace(cmd.EntityID) == "" {
		return failure("", entities.ErrorCategoryInvalidInput, "status toggle request is invalid")
	}

	entityID := strings.TrimSpace(cmd.EntityID)

	targetStatus := "paused"
	if cmd.Enable {
		targetStatus = "active"
	}

	return uc.Exec.execute(ctx, cmd.Platform, entityID, func(ctx context.Context) (entities.ActionLogEntry, gatewayCall, *entities.ActionResult) {
		snapshot, err := uc.Exec.Entities.GetEntity(ctx, cmd.Platform, cmd.EntityType, entityID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrEntityNotFound) {
				return refuse(failure("", entities.ErrorCategoryNotFound,
					fmt.Sprintf("%s %s was not found on %s", cmd.EntityType, entityID, cmd.Platform)))
			}
			return refuse(failure("", entities.ErrorCategoryGateway, "could not read current entity state"))
		}

		editability := uc.Exec.Rules.CanEditField(cmd.Platform, "status", snapshot.Launched())
		if !editability.CanEdit {
			return refuse(failure("", entities.ErrorCategoryConstraint, editability.Reason))
		}

		entry := entities.ActionLogEntry{
			UserID:       strings.TrimSpace(cmd.UserID),
			Platform:     cmd.Platform,
			ActionType:   entities.ActionTypeToggleStatus,
			EntityType:   cmd.EntityType,
			EntityID:     entityID,
			EntityName:   snapshot.Name,
			TriggeredBy:  cmd.TriggeredBy,
			SuggestionID: strings.TrimSpace(cmd.SuggestionID),
			Parameters: map[string]any{
				"enable": cmd.Enable,
			},
			PreviousState: map[string]any{
				"status": snapshot.Status,
			},
		}

		return entry, func(ctx context.Context, gateway ports.PlatformGateway) (ports.GatewayResult, map[string]any, error) {
			result, err := gateway.ToggleStatus(ctx, cmd.EntityType, entityID, cmd.Enable)
			if err != nil {
				return ports.GatewayResult{}, nil, err
			}
			return result, map[string]any{
				"status": targetStatus,
			}, nil
		}, nil
	})
}
