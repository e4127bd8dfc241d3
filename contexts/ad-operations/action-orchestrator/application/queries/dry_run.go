package queries

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
	domainerrors "adpilot/contexts/ad-operations/action-orchestrator/domain/errors"
	"adpilot/contexts/ad-operations/action-orchestrator/domain/rules"
	"adpilot/contexts/ad-operations/action-orchestrator/ports"
)

type DryRunQuery struct {
	Platform   entities.Platform
	ActionType entities.ActionType
	EntityType entities.EntityType
	EntityID   string
	Parameters map[string]any
}

// DryRunUseCase previews an action with no side effects: no log entry is
// created and no gateway is invoked, whatever the outcome.
type DryRunUseCase struct {
	Entities ports.EntityReader
	Rules    *rules.Rulebook
	Logger   *slog.Logger
}

func (uc DryRunUseCase) Execute(ctx context.Context, query DryRunQuery) entities.DryRunResult {
	snapshot, err := uc.Entities.GetEntity(ctx, query.Platform, query.EntityType, query.EntityID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrEntityNotFound) {
			return entities.DryRunResult{
				WouldSucceed: false,
				Message: fmt.Sprintf("%s %s was not found on %s",
					query.EntityType, query.EntityID, query.Platform),
			}
		}
		return entities.DryRunResult{
			WouldSucceed: false,
			Message:      "current entity state is unavailable",
		}
	}

	switch query.ActionType {
	case entities.ActionTypeUpdateBudget:
		return uc.previewBudget(query, snapshot)
	case entities.ActionTypeToggleStatus:
		return uc.previewToggle(query, snapshot)
	case entities.ActionTypeDuplicateWithSchedule, entities.ActionTypeUpdateSchedule:
		return uc.previewSchedule(query, snapshot)
	default:
		return entities.DryRunResult{
			WouldSucceed: false,
			Message:      fmt.Sprintf("action type %q cannot be previewed", query.ActionType),
		}
	}
}

func (uc DryRunUseCase) previewBudget(query DryRunQuery, snapshot entities.EntitySnapshot) entities.DryRunResult {
	newBudget, ok := paramFloat(query.Parameters, "new_budget")
	if !ok || newBudget <= 0 {
		return entities.DryRunResult{
			WouldSucceed: false,
			Message:      "new_budget parameter is required for a budget preview",
			Preview:      entities.DryRunPreview{EntityName: snapshot.Name},
		}
	}
	budgetType, _ := query.Parameters["budget_type"].(string)
	field := entities.BudgetField(budgetType)
	current := snapshot.DailyBudget
	if field == "lifetime_budget" {
		current = snapshot.LifetimeBudget
	}

	impact := "no current budget to compare against"
	if current > 0 {
		changePercent := (newBudget - current) / current * 100
		impact = fmt.Sprintf("%+.1f%% %s budget", changePercent, entities.BudgetField(budgetType))
		if check := uc.Rules.WillResetLearningPhase(query.Platform, field, magnitudeFor(uc.Rules, query.Platform, current, newBudget)); check.WillReset {
			impact += "; would reset the learning phase"
		}
	}

	return entities.DryRunResult{
		WouldSucceed: true,
		Message: fmt.Sprintf("would set %s to %.2f on %s %q",
			field, newBudget, query.EntityType, snapshot.Name),
		Preview: entities.DryRunPreview{
			EntityName:      snapshot.Name,
			CurrentValue:    fmt.Sprintf("%.2f", current),
			NewValue:        fmt.Sprintf("%.2f", newBudget),
			EstimatedImpact: impact,
		},
	}
}

func (uc DryRunUseCase) previewToggle(query DryRunQuery, snapshot entities.EntitySnapshot) entities.DryRunResult {
	enable, _ := query.Parameters["enable"].(bool)
	newStatus := "paused"
	impact := "spend stops while paused"
	if enable {
		newStatus = "active"
		impact = "spend resumes at the current budget"
	}
	if snapshot.Status == newStatus {
		impact = "no change: entity is already " + newStatus
	}
	return entities.DryRunResult{
		WouldSucceed: true,
		Message:      fmt.Sprintf("would set %s %q to %s", query.EntityType, snapshot.Name, newStatus),
		Preview: entities.DryRunPreview{
			EntityName:      snapshot.Name,
			CurrentValue:    snapshot.Status,
			NewValue:        newStatus,
			EstimatedImpact: impact,
		},
	}
}

func (uc DryRunUseCase) previewSchedule(query DryRunQuery, snapshot entities.EntitySnapshot) entities.DryRunResult {
	excluded := paramIntSlice(query.Parameters, "excluded_hours")
	schedule := rules.CompileSchedule(excluded)
	return entities.DryRunResult{
		WouldSucceed: true,
		Message: fmt.Sprintf("would duplicate %s %q with %d serving window(s)",
			query.EntityType, snapshot.Name, len(schedule)),
		Preview: entities.DryRunPreview{
			EntityName:      snapshot.Name,
			CurrentValue:    "serving all day",
			NewValue:        describeSchedule(schedule),
			EstimatedImpact: fmt.Sprintf("%d of 24 hours excluded", len(excluded)),
		},
	}
}

func describeSchedule(schedule []entities.ScheduleRange) string {
	parts := make([]string, 0, len(schedule))
	for _, r := range schedule {
		parts = append(parts, fmt.Sprintf("%02d:%02d-%02d:%02d",
			r.StartMinute/60, r.StartMinute%60, r.EndMinute/60, r.EndMinute%60))
	}
	return strings.Join(parts, ", ")
}

func magnitudeFor(rb *rules.Rulebook, platform entities.Platform, current, desired float64) rules.ChangeMagnitude {
	rule, ok := rb.ScalingRule(platform)
	if !ok || current <= 0 {
		return rules.ChangeMinor
	}
	if (desired-current)/current*100 > rule.MaxIncreasePercentWithoutReset {
		return rules.ChangeMajor
	}
	return rules.ChangeMinor
}

func paramFloat(params map[string]any, key string) (float64, bool) {
	switch value := params[key].(type) {
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

func paramIntSlice(params map[string]any, key string) []int {
	switch value := params[key].(type) {
	case []int:
		return value
	case []any:
		hours := make([]int, 0, len(value))
		for _, item := range value {
			if hour, ok := paramFloat(map[string]any{"v": item}, "v"); ok {
				hours = append(hours, int(hour))
			}
		}
		return hours
	default:
		return nil
	}
}
