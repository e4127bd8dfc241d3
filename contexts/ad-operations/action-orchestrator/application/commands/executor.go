package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	application "adpilot/contexts/ad-operations/action-orchestrator/application"
	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
	"adpilot/contexts/ad-operations/action-orchestrator/domain/rules"
	"adpilot/contexts/ad-operations/action-orchestrator/ports"
)

// entityLockTable hands out one mutex per (platform, entity) pair so actions
// against the same entity are serialized while unrelated entities proceed
// concurrently.
type entityLockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (t *entityLockTable) acquire(platform entities.Platform, entityID string) func() {
	key := string(platform) + "/" + entityID
	t.mu.Lock()
	if t.locks == nil {
		t.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := t.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[key] = lock
	}
	t.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// gatewayCall performs the single outbound platform mutation for an action
// and returns the gateway payload plus the new-state fields to record.
type gatewayCall func(ctx context.Context, gateway ports.PlatformGateway) (ports.GatewayResult, map[string]any, error)

// preflight runs inside the entity critical section: it reads current state,
// applies constraint checks, and builds the log entry plus gateway call, or
// refuses the action with a ready result. Capturing the previous state under
// the lock is what keeps two in-flight actions on the same entity from both
// recording the pre-both value and corrupting later rollbacks.
type preflight func(ctx context.Context) (entities.ActionLogEntry, gatewayCall, *entities.ActionResult)

func refuse(result entities.ActionResult) (entities.ActionLogEntry, gatewayCall, *entities.ActionResult) {
	return entities.ActionLogEntry{}, nil, &result
}

// ActionExecutor owns the audit-log state machine shared by every mutating
// use case: insert pending, move to executing, perform the gateway call, and
// settle the entry in exactly one terminal status. It is the error boundary:
// all failures come back as ActionResult values.
type ActionExecutor struct {
	Log      ports.ActionLogRepository
	Gateways ports.GatewayRegistry
	Entities ports.EntityReader
	Rules    *rules.Rulebook
	Outbox   ports.OutboxWriter
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger

	locks entityLockTable
}

func (e *ActionExecutor) execute(ctx context.Context, platform entities.Platform, entityID string, prepare preflight) entities.ActionResult {
	logger := application.ResolveLogger(e.Logger)

	gateway, err := e.Gateways.Gateway(platform)
	if err != nil {
		return failure("", entities.ErrorCategoryInvalidInput,
			fmt.Sprintf("no gateway is configured for platform %q", platform))
	}

	unlock := e.locks.acquire(platform, entityID)
	defer unlock()

	entry, call, refused := prepare(ctx)
	if refused != nil {
		return *refused
	}

	actionID, err := e.IDGen.NewID(ctx)
	if err != nil {
		return failure("", entities.ErrorCategoryInternal, "could not allocate an action id")
	}
	now := e.Clock.Now().UTC()
	entry.ActionID = actionID
	entry.Status = entities.ActionStatusPending
	entry.CreatedAt = now
	entry.UpdatedAt = now

	if err := e.Log.InsertAction(ctx, entry); err != nil {
		logger.Error("action log insert failed",
			"event", "action_log_insert_failed",
			"module", "ad-operations/action-orchestrator",
			"layer", "application",
			"action_id", actionID,
			"error", err.Error(),
		)
		return failure("", entities.ErrorCategoryInternal, "audit log is unavailable")
	}

	if err := e.Log.TransitionAction(ctx, actionID,
		entities.ActionStatusPending, entities.ActionStatusExecuting, ports.TerminalUpdate{}); err != nil {
		return failure(actionID, entities.ErrorCategoryInternal, "audit log transition failed")
	}

	result, newState, callErr := call(ctx, gateway)
	if callErr != nil {
		if err := e.Log.TransitionAction(ctx, actionID,
			entities.ActionStatusExecuting, entities.ActionStatusFailed, ports.TerminalUpdate{
				ErrorMessage: callErr.Error(),
			}); err != nil {
			logger.Error("action log failure transition lost",
				"event", "action_log_fail_transition_lost",
				"module", "ad-operations/action-orchestrator",
				"layer", "application",
				"action_id", actionID,
				"error", err.Error(),
			)
		}
		e.emitEvent(ctx, "ad_action.failed", entry, actionID, map[string]any{
			"error": callErr.Error(),
		})
		logger.Warn("ad action failed",
			"event", "ad_action_failed",
			"module", "ad-operations/action-orchestrator",
			"layer", "application",
			"action_id", actionID,
			"platform", string(entry.Platform),
			"action_type", string(entry.ActionType),
			"entity_id", entry.EntityID,
			"error", callErr.Error(),
		)
		return failure(actionID, entities.ErrorCategoryGateway,
			fmt.Sprintf("%s failed on %s: %s", entry.ActionType, entry.Platform, callErr.Error()))
	}

	executedAt := e.Clock.Now().UTC()
	if err := e.Log.TransitionAction(ctx, actionID,
		entities.ActionStatusExecuting, entities.ActionStatusCompleted, ports.TerminalUpdate{
			NewState:   newState,
			ExecutedAt: &executedAt,
		}); err != nil {
		// The external mutation already happened; report success but flag the
		// audit gap loudly.
		logger.Error("action log completion transition lost",
			"event", "action_log_complete_transition_lost",
			"module", "ad-operations/action-orchestrator",
			"layer", "application",
			"action_id", actionID,
			"error", err.Error(),
		)
	}

	e.emitEvent(ctx, "ad_action.completed", entry, actionID, newState)
	logger.Info("ad action completed",
		"event", "ad_action_completed",
		"module", "ad-operations/action-orchestrator",
		"layer", "application",
		"action_id", actionID,
		"platform", string(entry.Platform),
		"action_type", string(entry.ActionType),
		"entity_id", entry.EntityID,
	)

	return entities.ActionResult{
		Success:     true,
		ActionLogID: actionID,
		Message:     fmt.Sprintf("%s completed on %s", entry.ActionType, entry.Platform),
		Data:        result.Data,
	}
}

func (e *ActionExecutor) emitEvent(ctx context.Context, eventType string, entry entities.ActionLogEntry, actionID string, data map[string]any) {
	if e.Outbox == nil {
		return
	}
	eventID, err := e.IDGen.NewID(ctx)
	if err != nil {
		return
	}
	envelope, err := newActionEnvelope(eventID, eventType, actionID, entry, e.Clock.Now().UTC(), data)
	if err != nil {
		return
	}
	if err := e.Outbox.AppendOutbox(ctx, envelope); err != nil {
		application.ResolveLogger(e.Logger).Error("action outbox append failed",
			"event", "action_outbox_append_failed",
			"module", "ad-operations/action-orchestrator",
			"layer", "application",
			"action_id", actionID,
			"error", err.Error(),
		)
	}
}

func failure(actionLogID, category, message string) entities.ActionResult {
	return entities.ActionResult{
		Success:     false,
		ActionLogID: actionLogID,
		Message:     message,
		Error:       category,
	}
}
