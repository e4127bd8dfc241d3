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

type DuplicateWithScheduleCommand struct {
	UserID         string
	Platform       entities.Platform
	EntityType     entities.EntityType
	EntityID       string
	Schedule       []entities.ScheduleRange
	LifetimeBudget float64
	TriggeredBy    entities.TriggerSource
	SuggestionID   string
}

// DuplicateWithScheduleUseCase creates a scheduled copy of an entity. The
// platforms do not allow editing a serving schedule in place, so "change the
// schedule" is expressed as "duplicate with a lifetime budget and the new
// schedule". Duplication has no inverse gateway call, so these entries never
// record a previous state and are never rollback-available.
type DuplicateWithScheduleUseCase struct {
	Exec   *ActionExecutor
	Logger *slog.Logger
}

func (uc DuplicateWithScheduleUseCase) Execute(ctx context.Context, cmd DuplicateWithScheduleCommand) entities.ActionResult {
	if strings.TrimSpace(cmd.UserID) == "" {
		return failure("", entities.ErrorCategoryUnauthorized, "caller identity is required")
	}
	if !entities.IsSupportedPlatform(cmd.Platform) ||
		!entities.IsSupportedEntityType(cmd.EntityType) ||
		strings.TrimSpace(cmd.EntityID) == "" ||
		len(cmd.Schedule) == 0 ||
		cmd.LifetimeBudget <= 0 {
		return failure("", entities.ErrorCategoryInvalidInput, "duplicate-with-schedule request is invalid")
	}

	entityID := strings.TrimSpace(cmd.EntityID)

	schedule := make([]map[string]any, 0, len(cmd.Schedule))
	for _, r := range cmd.Schedule {
		schedule = append(schedule, map[string]any{
			"days":         r.Days,
			"start_minute": r.StartMinute,
			"end_minute":   r.EndMinute,
		})
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

		modifications := map[string]any{
			"name":            snapshot.Name + " - scheduled",
			"lifetime_budget": cmd.LifetimeBudget,
			"schedule":        schedule,
		}

		entry := entities.ActionLogEntry{
			UserID:       strings.TrimSpace(cmd.UserID),
			Platform:     cmd.Platform,
			ActionType:   entities.ActionTypeDuplicateWithSchedule,
			EntityType:   cmd.EntityType,
			EntityID:     entityID,
			EntityName:   snapshot.Name,
			TriggeredBy:  cmd.TriggeredBy,
			SuggestionID: strings.TrimSpace(cmd.SuggestionID),
			Parameters: map[string]any{
				"lifetime_budget": cmd.LifetimeBudget,
				"schedule_ranges": len(cmd.Schedule),
			},
		}

		return entry, func(ctx context.Context, gateway ports.PlatformGateway) (ports.GatewayResult, map[string]any, error) {
			result, err := gateway.DuplicateEntity(ctx, cmd.EntityType, entityID, modifications)
			if err != nil {
				return ports.GatewayResult{}, nil, err
			}
			newState := map[string]any{
				"lifetime_budget": cmd.LifetimeBudget,
				"schedule_ranges": len(cmd.Schedule),
			}
			if id, ok := result.Data["new_entity_id"]; ok {
				newState["new_entity_id"] = id
			}
			return result, newState, nil
		}, nil
	})
}
