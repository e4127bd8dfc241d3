package commands

import (
	"context"
	"log/slog"

	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
	"adpilot/contexts/ad-operations/action-orchestrator/domain/rules"
)

type UpdateScheduleCommand struct {
	UserID         string
	Platform       entities.Platform
	EntityType     entities.EntityType
	EntityID       string
	ExcludedHours  []int
	LifetimeBudget float64
	TriggeredBy    entities.TriggerSource
	SuggestionID   string
}

// UpdateScheduleUseCase is a thin composition: it compiles the excluded-hours
// list into serving windows and delegates to duplicate-with-schedule.
type UpdateScheduleUseCase struct {
	Duplicate DuplicateWithScheduleUseCase
	Logger    *slog.Logger
}

func (uc UpdateScheduleUseCase) Execute(ctx context.Context, cmd UpdateScheduleCommand) entities.ActionResult {
	schedule := rules.CompileSchedule(cmd.ExcludedHours)
	return uc.Duplicate.Execute(ctx, DuplicateWithScheduleCommand{
		UserID:         cmd.UserID,
		Platform:       cmd.Platform,
		EntityType:     cmd.EntityType,
		EntityID:       cmd.EntityID,
		Schedule:       schedule,
		LifetimeBudget: cmd.LifetimeBudget,
		TriggeredBy:    cmd.TriggeredBy,
		SuggestionID:   cmd.SuggestionID,
	})
}
