package httpadapter

import (
	"context"
	"log/slog"

	"adpilot/contexts/ad-operations/action-orchestrator/application/commands"
	"adpilot/contexts/ad-operations/action-orchestrator/application/queries"
	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
	httptransport "adpilot/contexts/ad-operations/action-orchestrator/transport/http"
)

type Handler struct {
	UpdateBudget     commands.UpdateBudgetUseCase
	ToggleStatus     commands.ToggleStatusUseCase
	Duplicate        commands.DuplicateWithScheduleUseCase
	UpdateSchedule   commands.UpdateScheduleUseCase
	RebalanceBudgets commands.RebalanceBudgetsUseCase
	RollbackAction   commands.RollbackActionUseCase
	DryRun           queries.DryRunUseCase
	ActionHistory    queries.ActionHistoryUseCase
	Logger           *slog.Logger
}

func (h Handler) UpdateBudgetHandler(ctx context.Context, userID string, req httptransport.UpdateBudgetRequest) httptransport.ActionResponse {
	result := h.UpdateBudget.Execute(ctx, commands.UpdateBudgetCommand{
		UserID:                   userID,
		Platform:                 entities.Platform(req.Platform),
		EntityType:               entities.EntityType(req.EntityType),
		EntityID:                 req.EntityID,
		NewBudget:                req.NewBudget,
		BudgetType:               req.BudgetType,
		AcknowledgeLearningReset: req.AcknowledgeLearningReset,
		TriggeredBy:              triggerSource(req.TriggeredBy),
		SuggestionID:             req.SuggestionID,
	})
	return mapResult(result)
}

func (h Handler) ToggleStatusHandler(ctx context.Context, userID string, req httptransport.ToggleStatusRequest) httptransport.ActionResponse {
	result := h.ToggleStatus.Execute(ctx, commands.ToggleStatusCommand{
		UserID:       userID,
		Platform:     entities.Platform(req.Platform),
		EntityType:   entities.EntityType(req.EntityType),
		EntityID:     req.EntityID,
		Enable:       req.Enable,
		TriggeredBy:  triggerSource(req.TriggeredBy),
		SuggestionID: req.SuggestionID,
	})
	return mapResult(result)
}

func (h Handler) DuplicateWithScheduleHandler(ctx context.Context, userID string, req httptransport.DuplicateWithScheduleRequest) httptransport.ActionResponse {
	schedule := make([]entities.ScheduleRange, 0, len(req.Schedule))
	for _, item := range req.Schedule {
		schedule = append(schedule, entities.ScheduleRange{
			Days:        append([]int(nil), item.Days...),
			StartMinute: item.StartMinute,
			EndMinute:   item.EndMinute,
		})
	}
	result := h.Duplicate.Execute(ctx, commands.DuplicateWithScheduleCommand{
		UserID:         userID,
		Platform:       entities.Platform(req.Platform),
		EntityType:     entities.EntityType(req.EntityType),
		EntityID:       req.EntityID,
		Schedule:       schedule,
		LifetimeBudget: req.LifetimeBudget,
		TriggeredBy:    triggerSource(req.TriggeredBy),
		SuggestionID:   req.SuggestionID,
	})
	return mapResult(result)
}

func (h Handler) UpdateScheduleHandler(ctx context.Context, userID string, req httptransport.UpdateScheduleRequest) httptransport.ActionResponse {
	result := h.UpdateSchedule.Execute(ctx, commands.UpdateScheduleCommand{
		UserID:         userID,
		Platform:       entities.Platform(req.Platform),
		EntityType:     entities.EntityType(req.EntityType),
		EntityID:       req.EntityID,
		ExcludedHours:  append([]int(nil), req.ExcludedHours...),
		LifetimeBudget: req.LifetimeBudget,
		TriggeredBy:    triggerSource(req.TriggeredBy),
		SuggestionID:   req.SuggestionID,
	})
	return mapResult(result)
}

func (h Handler) RebalanceBudgetsHandler(ctx context.Context, userID string, req httptransport.RebalanceBudgetsRequest) httptransport.RebalanceBudgetsResponse {
	allocations := make([]commands.BudgetAllocation, 0, len(req.Allocations))
	for _, item := range req.Allocations {
		allocations = append(allocations, commands.BudgetAllocation{
			Label:         item.Label,
			CurrentSpend:  item.CurrentSpend,
			TargetPercent: item.TargetPercent,
		})
	}
	results := h.RebalanceBudgets.Execute(ctx, commands.RebalanceBudgetsCommand{
		UserID:      userID,
		Platform:    entities.Platform(req.Platform),
		TotalBudget: req.TotalBudget,
		Allocations: allocations,
	})
	mapped := make([]httptransport.ActionResponse, 0, len(results))
	for _, result := range results {
		mapped = append(mapped, mapResult(result))
	}
	return httptransport.RebalanceBudgetsResponse{Results: mapped}
}

func (h Handler) RollbackActionHandler(ctx context.Context, userID string, actionLogID string) httptransport.ActionResponse {
	result := h.RollbackAction.Execute(ctx, commands.RollbackActionCommand{
		UserID:      userID,
		ActionLogID: actionLogID,
	})
	return mapResult(result)
}

func (h Handler) DryRunHandler(ctx context.Context, req httptransport.DryRunRequest) httptransport.DryRunResponse {
	result := h.DryRun.Execute(ctx, queries.DryRunQuery{
		Platform:   entities.Platform(req.Platform),
		ActionType: entities.ActionType(req.ActionType),
		EntityType: entities.EntityType(req.EntityType),
		EntityID:   req.EntityID,
		Parameters: req.Parameters,
	})
	return httptransport.DryRunResponse{
		WouldSucceed: result.WouldSucceed,
		Message:      result.Message,
		Preview: httptransport.DryRunPreviewDTO{
			EntityName:      result.Preview.EntityName,
			CurrentValue:    result.Preview.CurrentValue,
			NewValue:        result.Preview.NewValue,
			EstimatedImpact: result.Preview.EstimatedImpact,
		},
	}
}

func (h Handler) ActionHistoryHandler(ctx context.Context, userID string, status string, limit int) (httptransport.ActionHistoryResponse, error) {
	items, err := h.ActionHistory.Execute(ctx, queries.ActionHistoryQuery{
		UserID: userID,
		Status: entities.ActionStatus(status),
		Limit:  limit,
	})
	if err != nil {
		return httptransport.ActionHistoryResponse{}, err
	}
	mapped := make([]httptransport.ActionLogEntryDTO, 0, len(items))
	for _, item := range items {
		mapped = append(mapped, mapEntry(item))
	}
	return httptransport.ActionHistoryResponse{Items: mapped}, nil
}

func triggerSource(raw string) entities.TriggerSource {
	if raw == "" {
		return entities.TriggerUserManual
	}
	return entities.TriggerSource(raw)
}

func mapResult(result entities.ActionResult) httptransport.ActionResponse {
	return httptransport.ActionResponse{
		Success:     result.Success,
		ActionLogID: result.ActionLogID,
		Message:     result.Message,
		Error:       result.Error,
		Data:        result.Data,
	}
}

func mapEntry(entry entities.ActionLogEntry) httptransport.ActionLogEntryDTO {
	return httptransport.ActionLogEntryDTO{
		ActionID:          entry.ActionID,
		Platform:          string(entry.Platform),
		ActionType:        string(entry.ActionType),
		EntityType:        string(entry.EntityType),
		EntityID:          entry.EntityID,
		EntityName:        entry.EntityName,
		Parameters:        entry.Parameters,
		Status:            string(entry.Status),
		TriggeredBy:       string(entry.TriggeredBy),
		SuggestionID:      entry.SuggestionID,
		PreviousState:     entry.PreviousState,
		NewState:          entry.NewState,
		ErrorMessage:      entry.ErrorMessage,
		CreatedAt:         entry.CreatedAt,
		ExecutedAt:        entry.ExecutedAt,
		RolledBackAt:      entry.RolledBackAt,
		RollbackAvailable: entry.RollbackAvailable(),
	}
}
