package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ActionResponse mirrors the orchestrator's ActionResult: success flag,
// audit-log id, human-readable message, and a machine-usable error category.
type ActionResponse struct {
	Success     bool           `json:"success"`
	ActionLogID string         `json:"action_log_id,omitempty"`
	Message     string         `json:"message"`
	Error       string         `json:"error,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
}

type UpdateBudgetRequest struct {
	Platform                 string  `json:"platform"`
	EntityType               string  `json:"entity_type"`
	EntityID                 string  `json:"entity_id"`
	NewBudget                float64 `json:"new_budget"`
	BudgetType               string  `json:"budget_type"`
	AcknowledgeLearningReset bool    `json:"acknowledge_learning_reset"`
	TriggeredBy              string  `json:"triggered_by"`
	SuggestionID             string  `json:"suggestion_id"`
}

type ToggleStatusRequest struct {
	Platform     string `json:"platform"`
	EntityType   string `json:"entity_type"`
	EntityID     string `json:"entity_id"`
	Enable       bool   `json:"enable"`
	TriggeredBy  string `json:"triggered_by"`
	SuggestionID string `json:"suggestion_id"`
}

type ScheduleRangeDTO struct {
	Days        []int `json:"days"`
	StartMinute int   `json:"start_minute"`
	EndMinute   int   `json:"end_minute"`
}

type DuplicateWithScheduleRequest struct {
	Platform       string             `json:"platform"`
	EntityType     string             `json:"entity_type"`
	EntityID       string             `json:"entity_id"`
	LifetimeBudget float64            `json:"lifetime_budget"`
	Schedule       []ScheduleRangeDTO `json:"schedule"`
	TriggeredBy    string             `json:"triggered_by"`
	SuggestionID   string             `json:"suggestion_id"`
}

type UpdateScheduleRequest struct {
	Platform       string  `json:"platform"`
	EntityType     string  `json:"entity_type"`
	EntityID       string  `json:"entity_id"`
	ExcludedHours  []int   `json:"excluded_hours"`
	LifetimeBudget float64 `json:"lifetime_budget"`
	TriggeredBy    string  `json:"triggered_by"`
	SuggestionID   string  `json:"suggestion_id"`
}

type BudgetAllocationDTO struct {
	Label         string  `json:"label"`
	CurrentSpend  float64 `json:"current_spend"`
	TargetPercent float64 `json:"target_percent"`
}

type RebalanceBudgetsRequest struct {
	Platform    string                `json:"platform"`
	TotalBudget float64               `json:"total_budget"`
	Allocations []BudgetAllocationDTO `json:"allocations"`
}

type RebalanceBudgetsResponse struct {
	Results []ActionResponse `json:"results"`
}

type DryRunRequest struct {
	Platform   string         `json:"platform"`
	ActionType string         `json:"action_type"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Parameters map[string]any `json:"parameters"`
}

type DryRunPreviewDTO struct {
	EntityName      string `json:"entity_name"`
	CurrentValue    string `json:"current_value"`
	NewValue        string `json:"new_value"`
	EstimatedImpact string `json:"estimated_impact"`
}

type DryRunResponse struct {
	WouldSucceed bool             `json:"would_succeed"`
	Message      string           `json:"message"`
	Preview      DryRunPreviewDTO `json:"preview"`
}

type ActionLogEntryDTO struct {
	ActionID          string         `json:"action_id"`
	Platform          string         `json:"platform"`
	ActionType        string         `json:"action_type"`
	EntityType        string         `json:"entity_type"`
	EntityID          string         `json:"entity_id"`
	EntityName        string         `json:"entity_name,omitempty"`
	Parameters        map[string]any `json:"parameters,omitempty"`
	Status            string         `json:"status"`
	TriggeredBy       string         `json:"triggered_by"`
	SuggestionID      string         `json:"suggestion_id,omitempty"`
	PreviousState     map[string]any `json:"previous_state,omitempty"`
	NewState          map[string]any `json:"new_state,omitempty"`
	ErrorMessage      string         `json:"error_message,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	ExecutedAt        *time.Time     `json:"executed_at,omitempty"`
	RolledBackAt      *time.Time     `json:"rolled_back_at,omitempty"`
	RollbackAvailable bool           `json:"rollback_available"`
}

type ActionHistoryResponse struct {
	Items []ActionLogEntryDTO `json:"items"`
}
