package entities

import (
	"strings"
	"time"
)

type Platform string
type EntityType string
type ActionType string
type ActionStatus string
type TriggerSource string

const (
	PlatformFacebook Platform = "facebook"
	PlatformTikTok   Platform = "tiktok"
	PlatformGoogle   Platform = "google"

	EntityTypeCampaign EntityType = "campaign"
	EntityTypeAdSet    EntityType = "ad_set"
	EntityTypeAd       EntityType = "ad"

	ActionTypeUpdateBudget          ActionType = "update_budget"
	ActionTypeToggleStatus          ActionType = "toggle_status"
	ActionTypeDuplicateWithSchedule ActionType = "duplicate_with_schedule"
	ActionTypeUpdateSchedule        ActionType = "update_schedule"
	ActionTypeRollback              ActionType = "rollback_action"

	ActionStatusPending   ActionStatus = "pending"
	ActionStatusExecuting ActionStatus = "executing"
	ActionStatusCompleted ActionStatus = "completed"
	ActionStatusFailed    ActionStatus = "failed"

	TriggerUserManual       TriggerSource = "user_manual"
	TriggerSuggestionAction TriggerSource = "suggestion_action"
	TriggerAutomationRule   TriggerSource = "automation_rule"
)

const (
	BudgetTypeDaily    = "daily"
	BudgetTypeLifetime = "lifetime"
)

// Machine-usable failure categories carried on ActionResult.Error so callers
// can decide between retry, alternative action, or hard stop.
const (
	ErrorCategoryConstraint          = "constraint_violation"
	ErrorCategoryUnauthorized        = "unauthorized"
	ErrorCategoryGateway             = "gateway_error"
	ErrorCategoryNotFound            = "not_found"
	ErrorCategoryRollbackUnavailable = "rollback_unavailable"
	ErrorCategoryInvalidInput        = "invalid_input"
	// ErrorCategoryInternal marks failures of the engine's own stores
	// (audit log, id generation). Retrying against the platform is
	// pointless for these; gateway_error is reserved for the platforms.
	ErrorCategoryInternal = "internal_error"
)

// ActionRequest is the unit of work submitted to the orchestrator. It is
// validated against the constraint knowledge base before any log entry exists.
type ActionRequest struct {
	Platform     Platform
	ActionType   ActionType
	EntityType   EntityType
	EntityID     string
	Parameters   map[string]any
	TriggeredBy  TriggerSource
	SuggestionID string
}

// ActionLogEntry is the durable audit record for one executed action.
// Status only ever moves pending -> executing -> {completed, failed}; a
// terminal entry is immutable except for the rolled-back markers.
type ActionLogEntry struct {
	ActionID         string
	UserID           string
	Platform         Platform
	ActionType       ActionType
	EntityType       EntityType
	EntityID         string
	EntityName       string
	Parameters       map[string]any
	Status           ActionStatus
	TriggeredBy      TriggerSource
	SuggestionID     string
	PreviousState    map[string]any
	NewState         map[string]any
	ErrorMessage     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ExecutedAt       *time.Time
	RolledBackAt     *time.Time
	RollbackActionID string
}

// RollbackAvailable reports whether the entry's effect can still be undone:
// the action completed, a reversible prior state was captured, and no
// rollback has been applied yet.
func (e ActionLogEntry) RollbackAvailable() bool {
	return e.Status == ActionStatusCompleted &&
		len(e.PreviousState) > 0 &&
		e.RolledBackAt == nil
}

// ActionResult is what every orchestrator operation returns to its caller.
// Failures are values, never panics or errors escaping the application layer.
type ActionResult struct {
	Success     bool
	ActionLogID string
	Message     string
	Data        map[string]any
	Error       string
}

// DryRunResult previews an action's effect. It is never persisted.
type DryRunResult struct {
	WouldSucceed bool
	Message      string
	Preview      DryRunPreview
}

type DryRunPreview struct {
	EntityName      string
	CurrentValue    string
	NewValue        string
	EstimatedImpact string
}

// EntitySnapshot is the read-side view of a platform entity used for
// pre-flight checks, previous-state capture, and dry runs.
type EntitySnapshot struct {
	Platform       Platform
	EntityType     EntityType
	EntityID       string
	Name           string
	Status         string
	DailyBudget    float64
	LifetimeBudget float64
}

// Launched reports whether the entity has ever served. Platforms report
// active/paused for launched entities and draft for unlaunched ones.
func (s EntitySnapshot) Launched() bool {
	return s.Status != "" && s.Status != "draft"
}

func IsSupportedPlatform(value Platform) bool {
	switch value {
	case PlatformFacebook, PlatformTikTok, PlatformGoogle:
		return true
	default:
		return false
	}
}

func IsSupportedEntityType(value EntityType) bool {
	switch value {
	case EntityTypeCampaign, EntityTypeAdSet, EntityTypeAd:
		return true
	default:
		return false
	}
}

func IsSupportedTrigger(value TriggerSource) bool {
	switch value {
	case TriggerUserManual, TriggerSuggestionAction, TriggerAutomationRule:
		return true
	default:
		return false
	}
}

func IsSupportedBudgetType(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case BudgetTypeDaily, BudgetTypeLifetime:
		return true
	default:
		return false
	}
}

// BudgetField maps a budget type onto the constraint-table field key.
func BudgetField(budgetType string) string {
	if strings.ToLower(strings.TrimSpace(budgetType)) == BudgetTypeLifetime {
		return "lifetime_budget"
	}
	return "daily_budget"
}
