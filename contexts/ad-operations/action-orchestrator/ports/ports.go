package ports

import (
	"context"
	"time"

	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
	domainerrors "adpilot/contexts/ad-operations/action-orchestrator/domain/errors"
	"adpilot/internal/shared/events"
	"adpilot/internal/shared/outbox"
)

type ActionLogFilter struct {
	UserID string
	Status entities.ActionStatus
	Limit  int
}

// TerminalUpdate carries the fields written when an entry reaches a terminal
// status.
type TerminalUpdate struct {
	NewState     map[string]any
	ErrorMessage string
	ExecutedAt   *time.Time
}

// ActionLogRepository is the durable audit store. TransitionAction must be a
// conditional update: it moves an entry from exactly the expected status to
// the next one and fails with a conflict otherwise, which is what upholds the
// pending -> executing -> terminal state machine under concurrency.
type ActionLogRepository interface {
	InsertAction(ctx context.Context, entry entities.ActionLogEntry) error
	TransitionAction(ctx context.Context, actionID string, from, to entities.ActionStatus, update TerminalUpdate) error
	GetAction(ctx context.Context, actionID string) (entities.ActionLogEntry, error)
	ListActions(ctx context.Context, filter ActionLogFilter) ([]entities.ActionLogEntry, error)
	MarkActionRolledBack(ctx context.Context, actionID string, rollbackActionID string, at time.Time) error
}

// GatewayResult is the opaque payload a platform returns for a successful
// mutating call.
type GatewayResult struct {
	Data map[string]any
}

// PlatformGateway wraps the mutating API of one external advertising
// platform. Each call is a single outbound request; any transport failure or
// non-2xx response surfaces as an error.
type PlatformGateway interface {
	UpdateBudget(ctx context.Context, entityType entities.EntityType, entityID string, newBudget float64, budgetType string) (GatewayResult, error)
	ToggleStatus(ctx context.Context, entityType entities.EntityType, entityID string, enable bool) (GatewayResult, error)
	DuplicateEntity(ctx context.Context, entityType entities.EntityType, entityID string, modifications map[string]any) (GatewayResult, error)
}

// GatewayRegistry selects the gateway implementation for a platform.
type GatewayRegistry map[entities.Platform]PlatformGateway

func (r GatewayRegistry) Gateway(platform entities.Platform) (PlatformGateway, error) {
	gateway, ok := r[platform]
	if !ok || gateway == nil {
		return nil, domainerrors.ErrGatewayUnavailable
	}
	return gateway, nil
}

// EntityReader is the read-side collaborator for current entity state, used
// for pre-flight checks, previous-state capture, dry runs, and rebalancing
// target selection.
type EntityReader interface {
	GetEntity(ctx context.Context, platform entities.Platform, entityType entities.EntityType, entityID string) (entities.EntitySnapshot, error)
	ListCampaigns(ctx context.Context, platform entities.Platform) ([]entities.EntitySnapshot, error)
}

type EventEnvelope = events.Envelope

type OutboxMessage = outbox.Message

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
