package commands

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"adpilot/contexts/ad-operations/action-orchestrator/adapters/memory"
	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
	"adpilot/contexts/ad-operations/action-orchestrator/domain/rules"
	"adpilot/contexts/ad-operations/action-orchestrator/ports"
)

type fixture struct {
	store    *memory.Store
	gateway  *memory.StubGateway
	executor *ActionExecutor
}

func newFixture(seed ...entities.EntitySnapshot) fixture {
	store := memory.NewStore(seed)
	gateway := &memory.StubGateway{}
	executor := &ActionExecutor{
		Log: store,
		Gateways: ports.GatewayRegistry{
			entities.PlatformFacebook: gateway,
			entities.PlatformTikTok:   gateway,
			entities.PlatformGoogle:   gateway,
		},
		Entities: store,
		Rules:    rules.NewRulebook(),
		Outbox:   store,
		Clock:    store,
		IDGen:    store,
	}
	return fixture{store: store, gateway: gateway, executor: executor}
}

func activeCampaign(id string, dailyBudget float64) entities.EntitySnapshot {
	return entities.EntitySnapshot{
		Platform:    entities.PlatformFacebook,
		EntityType:  entities.EntityTypeCampaign,
		EntityID:    id,
		Name:        "Summer Sale",
		Status:      "active",
		DailyBudget: dailyBudget,
	}
}

func TestUpdateBudgetCompletesAndLogs(t *testing.T) {
	f := newFixture(activeCampaign("camp-1", 100))
	uc := UpdateBudgetUseCase{Exec: f.executor}

	result := uc.Execute(context.Background(), UpdateBudgetCommand{
		UserID:                   "user-1",
		Platform:                 entities.PlatformFacebook,
		EntityType:               entities.EntityTypeCampaign,
		EntityID:                 "camp-1",
		NewBudget:                200,
		BudgetType:               entities.BudgetTypeDaily,
		AcknowledgeLearningReset: true,
		TriggeredBy:              entities.TriggerUserManual,
	})
	if !result.Success {
		t.Fatalf("expected success, got %s: %s", result.Error, result.Message)
	}
	if result.ActionLogID == "" {
		t.Fatal("expected an action log id")
	}

	entry, err := f.store.GetAction(context.Background(), result.ActionLogID)
	if err != nil {
		t.Fatalf("get action failed: %v", err)
	}
	if entry.Status != entities.ActionStatusCompleted {
		t.Fatalf("expected completed entry, got %s", entry.Status)
	}
	if entry.ExecutedAt == nil {
		t.Fatal("expected executed_at on completed entry")
	}
	if got := entry.NewState["budget"]; got != 200.0 {
		t.Fatalf("expected new state budget 200, got %v", got)
	}
	if got := entry.PreviousState["budget"]; got != 100.0 {
		t.Fatalf("expected previous state budget 100, got %v", got)
	}
	if !entry.RollbackAvailable() {
		t.Fatal("completed budget update should be rollback-available")
	}

	history, err := f.store.ListActions(context.Background(), ports.ActionLogFilter{UserID: "user-1"})
	if err != nil {
		t.Fatalf("list actions failed: %v", err)
	}
	if len(history) != 1 || history[0].ActionID != result.ActionLogID {
		t.Fatalf("expected the new entry first in history, got %d entries", len(history))
	}
}

func TestUpdateBudgetRejectsUnacknowledgedLearningReset(t *testing.T) {
	f := newFixture(activeCampaign("camp-1", 100))
	uc := UpdateBudgetUseCase{Exec: f.executor}

	result := uc.Execute(context.Background(), UpdateBudgetCommand{
		UserID:     "user-1",
		Platform:   entities.PlatformFacebook,
		EntityType: entities.EntityTypeCampaign,
		EntityID:   "camp-1",
		NewBudget:  200,
		BudgetType: entities.BudgetTypeDaily,
	})
	if result.Success {
		t.Fatal("expected the increase to be rejected pre-flight")
	}
	if result.Error != entities.ErrorCategoryConstraint {
		t.Fatalf("expected constraint_violation, got %s", result.Error)
	}
	if _, ok := result.Data["recommended_steps"]; !ok {
		t.Fatal("expected a recommended staged plan in the result data")
	}
	if len(f.gateway.Calls()) != 0 {
		t.Fatal("pre-flight rejection must not touch the gateway")
	}
	history, _ := f.store.ListActions(context.Background(), ports.ActionLogFilter{UserID: "user-1"})
	if len(history) != 0 {
		t.Fatal("pre-flight rejection must not create a log entry")
	}
}

func TestUpdateBudgetMissingUserIsUnauthorized(t *testing.T) {
	f := newFixture(activeCampaign("camp-1", 100))
	uc := UpdateBudgetUseCase{Exec: f.executor}

	result := uc.Execute(context.Background(), UpdateBudgetCommand{
		Platform:   entities.PlatformFacebook,
		EntityType: entities.EntityTypeCampaign,
		EntityID:   "camp-1",
		NewBudget:  110,
		BudgetType: entities.BudgetTypeDaily,
	})
	if result.Success || result.Error != entities.ErrorCategoryUnauthorized {
		t.Fatalf("expected unauthorized, got %s", result.Error)
	}
}

func TestUpdateBudgetUnknownEntityIsNotFound(t *testing.T) {
	f := newFixture()
	uc := UpdateBudgetUseCase{Exec: f.executor}

	result := uc.Execute(context.Background(), UpdateBudgetCommand{
		UserID:     "user-1",
		Platform:   entities.PlatformFacebook,
		EntityType: entities.EntityTypeCampaign,
		EntityID:   "missing",
		NewBudget:  110,
		BudgetType: entities.BudgetTypeDaily,
	})
	if result.Success || result.Error != entities.ErrorCategoryNotFound {
		t.Fatalf("expected not_found, got %s", result.Error)
	}
}

func TestGatewayFailureMarksEntryFailed(t *testing.T) {
	f := newFixture(activeCampaign("camp-1", 100))
	f.gateway.Err = errors.New("rate limited")
	uc := UpdateBudgetUseCase{Exec: f.executor}

	result := uc.Execute(context.Background(), UpdateBudgetCommand{
		UserID:     "user-1",
		Platform:   entities.PlatformFacebook,
		EntityType: entities.EntityTypeCampaign,
		EntityID:   "camp-1",
		NewBudget:  110,
		BudgetType: entities.BudgetTypeDaily,
	})
	if result.Success || result.Error != entities.ErrorCategoryGateway {
		t.Fatalf("expected gateway_error, got %s", result.Error)
	}

	entry, err := f.store.GetAction(context.Background(), result.ActionLogID)
	if err != nil {
		t.Fatalf("get action failed: %v", err)
	}
	if entry.Status != entities.ActionStatusFailed {
		t.Fatalf("expected failed entry, got %s", entry.Status)
	}
	if entry.ErrorMessage == "" {
		t.Fatal("expected the gateway error recorded on the entry")
	}
	if entry.RollbackAvailable() {
		t.Fatal("failed entries must never be rollback-available")
	}
}

func TestToggleStatusRecordsPreviousStatus(t *testing.T) {
	f := newFixture(activeCampaign("camp-1", 100))
	uc := ToggleStatusUseCase{Exec: f.executor}

	result := uc.Execute(context.Background(), ToggleStatusCommand{
		UserID:      "user-1",
		Platform:    entities.PlatformFacebook,
		EntityType:  entities.EntityTypeCampaign,
		EntityID:    "camp-1",
		Enable:      false,
		TriggeredBy: entities.TriggerUserManual,
	})
	if !result.Success {
		t.Fatalf("expected success, got %s: %s", result.Error, result.Message)
	}

	entry, _ := f.store.GetAction(context.Background(), result.ActionLogID)
	if got := entry.PreviousState["status"]; got != "active" {
		t.Fatalf("expected previous status active, got %v", got)
	}
	if got := entry.NewState["status"]; got != "paused" {
		t.Fatalf("expected new status paused, got %v", got)
	}
}

func TestDuplicateWithScheduleIsNeverRollbackAvailable(t *testing.T) {
	f := newFixture(activeCampaign("camp-1", 100))
	uc := DuplicateWithScheduleUseCase{Exec: f.executor}

	result := uc.Execute(context.Background(), DuplicateWithScheduleCommand{
		UserID:         "user-1",
		Platform:       entities.PlatformFacebook,
		EntityType:     entities.EntityTypeCampaign,
		EntityID:       "camp-1",
		Schedule:       []entities.ScheduleRange{{Days: entities.AllWeekdays(), StartMinute: 360, EndMinute: 1439}},
		LifetimeBudget: 500,
		TriggeredBy:    entities.TriggerUserManual,
	})
	if !result.Success {
		t.Fatalf("expected success, got %s: %s", result.Error, result.Message)
	}

	entry, _ := f.store.GetAction(context.Background(), result.ActionLogID)
	if entry.Status != entities.ActionStatusCompleted {
		t.Fatalf("expected completed entry, got %s", entry.Status)
	}
	if entry.RollbackAvailable() {
		t.Fatal("duplication has no inverse and must not be rollback-available")
	}
	if _, ok := entry.NewState["new_entity_id"]; !ok {
		t.Fatal("expected the copied entity id in the new state")
	}
}

func TestUpdateScheduleCompilesExcludedHours(t *testing.T) {
	f := newFixture(activeCampaign("camp-1", 100))
	duplicate := DuplicateWithScheduleUseCase{Exec: f.executor}
	uc := UpdateScheduleUseCase{Duplicate: duplicate}

	result := uc.Execute(context.Background(), UpdateScheduleCommand{
		UserID:         "user-1",
		Platform:       entities.PlatformFacebook,
		EntityType:     entities.EntityTypeCampaign,
		EntityID:       "camp-1",
		ExcludedHours:  []int{0, 1, 2, 3, 4, 5},
		LifetimeBudget: 500,
		TriggeredBy:    entities.TriggerUserManual,
	})
	if !result.Success {
		t.Fatalf("expected success, got %s: %s", result.Error, result.Message)
	}

	entry, _ := f.store.GetAction(context.Background(), result.ActionLogID)
	if entry.ActionType != entities.ActionTypeDuplicateWithSchedule {
		t.Fatalf("expected a duplicate-with-schedule entry, got %s", entry.ActionType)
	}
	if got := entry.Parameters["schedule_ranges"]; got != 1 {
		t.Fatalf("expected one compiled serving window, got %v", got)
	}

	calls := f.gateway.Calls()
	if len(calls) != 1 || calls[0].Operation != "duplicate_entity" {
		t.Fatalf("expected exactly one duplicate call, got %v", calls)
	}
}

func TestRollbackRestoresPreviousBudget(t *testing.T) {
	f := newFixture(activeCampaign("camp-1", 100))
	updateBudget := UpdateBudgetUseCase{Exec: f.executor}
	rollback := RollbackActionUseCase{Exec: f.executor}

	original := updateBudget.Execute(context.Background(), UpdateBudgetCommand{
		UserID:                   "user-1",
		Platform:                 entities.PlatformFacebook,
		EntityType:               entities.EntityTypeCampaign,
		EntityID:                 "camp-1",
		NewBudget:                200,
		BudgetType:               entities.BudgetTypeDaily,
		AcknowledgeLearningReset: true,
		TriggeredBy:              entities.TriggerUserManual,
	})
	if !original.Success {
		t.Fatalf("setup update failed: %s", original.Message)
	}

	result := rollback.Execute(context.Background(), RollbackActionCommand{
		UserID:      "user-1",
		ActionLogID: original.ActionLogID,
	})
	if !result.Success {
		t.Fatalf("expected rollback success, got %s: %s", result.Error, result.Message)
	}

	calls := f.gateway.Calls()
	last := calls[len(calls)-1]
	if last.Operation != "update_budget" || last.Budget != 100 {
		t.Fatalf("expected the gateway to restore budget 100, got %+v", last)
	}

	originalEntry, _ := f.store.GetAction(context.Background(), original.ActionLogID)
	if originalEntry.RolledBackAt == nil {
		t.Fatal("expected the original entry stamped as rolled back")
	}
	if originalEntry.RollbackActionID != result.ActionLogID {
		t.Fatal("expected the original entry to reference the rollback entry")
	}

	rollbackEntry, _ := f.store.GetAction(context.Background(), result.ActionLogID)
	if rollbackEntry.ActionType != entities.ActionTypeRollback {
		t.Fatalf("expected a rollback entry, got %s", rollbackEntry.ActionType)
	}

	// A second rollback of the same entry must be refused.
	again := rollback.Execute(context.Background(), RollbackActionCommand{
		UserID:      "user-1",
		ActionLogID: original.ActionLogID,
	})
	if again.Success || again.Error != entities.ErrorCategoryRollbackUnavailable {
		t.Fatalf("expected rollback_unavailable on second attempt, got %s", again.Error)
	}
}

func TestRollbackForeignEntryLooksMissing(t *testing.T) {
	f := newFixture(activeCampaign("camp-1", 100))
	updateBudget := UpdateBudgetUseCase{Exec: f.executor}
	rollback := RollbackActionUseCase{Exec: f.executor}

	original := updateBudget.Execute(context.Background(), UpdateBudgetCommand{
		UserID:                   "user-1",
		Platform:                 entities.PlatformFacebook,
		EntityType:               entities.EntityTypeCampaign,
		EntityID:                 "camp-1",
		NewBudget:                110,
		BudgetType:               entities.BudgetTypeDaily,
		AcknowledgeLearningReset: true,
	})
	callsBefore := len(f.gateway.Calls())

	result := rollback.Execute(context.Background(), RollbackActionCommand{
		UserID:      "someone-else",
		ActionLogID: original.ActionLogID,
	})
	if result.Success || result.Error != entities.ErrorCategoryNotFound {
		t.Fatalf("expected not_found for a foreign entry, got %s", result.Error)
	}
	if len(f.gateway.Calls()) != callsBefore {
		t.Fatal("a refused rollback must not touch the gateway")
	}
}

func TestRollbackFailedEntryIsUnavailable(t *testing.T) {
	f := newFixture(activeCampaign("camp-1", 100))
	f.gateway.Err = errors.New("platform down")
	updateBudget := UpdateBudgetUseCase{Exec: f.executor}
	rollback := RollbackActionUseCase{Exec: f.executor}

	failed := updateBudget.Execute(context.Background(), UpdateBudgetCommand{
		UserID:     "user-1",
		Platform:   entities.PlatformFacebook,
		EntityType: entities.EntityTypeCampaign,
		EntityID:   "camp-1",
		NewBudget:  110,
		BudgetType: entities.BudgetTypeDaily,
	})
	f.gateway.Err = nil
	callsBefore := len(f.gateway.Calls())

	result := rollback.Execute(context.Background(), RollbackActionCommand{
		UserID:      "user-1",
		ActionLogID: failed.ActionLogID,
	})
	if result.Success || result.Error != entities.ErrorCategoryRollbackUnavailable {
		t.Fatalf("expected rollback_unavailable, got %s", result.Error)
	}
	if len(f.gateway.Calls()) != callsBefore {
		t.Fatal("a refused rollback must not touch the gateway")
	}
}

func TestRebalanceSkipsImmaterialDeltas(t *testing.T) {
	f := newFixture(activeCampaign("camp-1", 50))
	uc := RebalanceBudgetsUseCase{UpdateBudget: UpdateBudgetUseCase{Exec: f.executor}}

	results := uc.Execute(context.Background(), RebalanceBudgetsCommand{
		UserID:      "user-1",
		Platform:    entities.PlatformFacebook,
		TotalBudget: 1000,
		Allocations: []BudgetAllocation{
			{Label: "prospecting", CurrentSpend: 100, TargetPercent: 20}, // delta +100
			{Label: "retargeting", CurrentSpend: 95, TargetPercent: 10}, // delta +5, immaterial
		},
	})
	if len(results) != 1 {
		t.Fatalf("expected one processed allocation, got %d", len(results))
	}
	if !results[0].Success {
		t.Fatalf("expected success, got %s: %s", results[0].Error, results[0].Message)
	}

	calls := f.gateway.Calls()
	if len(calls) != 1 || calls[0].Budget != 150 {
		t.Fatalf("expected one update to budget 150, got %v", calls)
	}
}

func TestRebalanceEnforcesBudgetFloor(t *testing.T) {
	f := newFixture(activeCampaign("camp-1", 50))
	uc := RebalanceBudgetsUseCase{UpdateBudget: UpdateBudgetUseCase{Exec: f.executor}}

	results := uc.Execute(context.Background(), RebalanceBudgetsCommand{
		UserID:      "user-1",
		Platform:    entities.PlatformFacebook,
		TotalBudget: 1000,
		Allocations: []BudgetAllocation{
			{Label: "shrinking", CurrentSpend: 150, TargetPercent: 5}, // delta -100
		},
	})
	if len(results) != 1 || !results[0].Success {
		t.Fatalf("expected one successful result, got %v", results)
	}

	calls := f.gateway.Calls()
	if len(calls) != 1 || calls[0].Budget != 10 {
		t.Fatalf("expected the floor budget of 10, got %v", calls)
	}
}

// applyingGateway writes each budget update back into the entity store, the
// way a real platform makes a mutation visible to the next read. The first
// call can be held open to stage a second action against the same entity.
type applyingGateway struct {
	store   *memory.Store
	hold    chan struct{}
	entered chan struct{}

	mu    sync.Mutex
	calls int
}

func (g *applyingGateway) UpdateBudget(ctx context.Context, entityType entities.EntityType, entityID string, newBudget float64, budgetType string) (ports.GatewayResult, error) {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	g.mu.Unlock()

	if first {
		if g.entered != nil {
			close(g.entered)
		}
		if g.hold != nil {
			<-g.hold
		}
	}

	snapshot, err := g.store.GetEntity(ctx, entities.PlatformFacebook, entityType, entityID)
	if err != nil {
		return ports.GatewayResult{}, err
	}
	snapshot.DailyBudget = newBudget
	g.store.SeedEntity(snapshot)
	return ports.GatewayResult{Data: map[string]any{"budget": newBudget}}, nil
}

func (g *applyingGateway) ToggleStatus(ctx context.Context, entityType entities.EntityType, entityID string, enable bool) (ports.GatewayResult, error) {
	return ports.GatewayResult{}, nil
}

func (g *applyingGateway) DuplicateEntity(ctx context.Context, entityType entities.EntityType, entityID string, modifications map[string]any) (ports.GatewayResult, error) {
	return ports.GatewayResult{}, nil
}

// Two overlapping updates to the same entity must serialize so the second
// one's previous state is the first one's result, not the value both read
// before either landed. Otherwise rolling back the second would silently undo
// the first.
func TestOverlappingUpdatesCaptureEachOthersState(t *testing.T) {
	f := newFixture(activeCampaign("camp-1", 100))
	gateway := &applyingGateway{
		store:   f.store,
		hold:    make(chan struct{}),
		entered: make(chan struct{}),
	}
	f.executor.Gateways = ports.GatewayRegistry{entities.PlatformFacebook: gateway}
	uc := UpdateBudgetUseCase{Exec: f.executor}

	command := func(newBudget float64) UpdateBudgetCommand {
		return UpdateBudgetCommand{
			UserID:                   "user-1",
			Platform:                 entities.PlatformFacebook,
			EntityType:               entities.EntityTypeCampaign,
			EntityID:                 "camp-1",
			NewBudget:                newBudget,
			BudgetType:               entities.BudgetTypeDaily,
			AcknowledgeLearningReset: true,
			TriggeredBy:              entities.TriggerUserManual,
		}
	}

	firstDone := make(chan entities.ActionResult, 1)
	go func() {
		firstDone <- uc.Execute(context.Background(), command(115))
	}()
	<-gateway.entered

	secondDone := make(chan entities.ActionResult, 1)
	go func() {
		secondDone <- uc.Execute(context.Background(), command(130))
	}()
	// Give the second action time to reach the entity lock while the first
	// is still mid-gateway-call, then let the first finish.
	time.Sleep(50 * time.Millisecond)
	close(gateway.hold)

	first := <-firstDone
	if !first.Success {
		t.Fatalf("first update failed: %s: %s", first.Error, first.Message)
	}
	second := <-secondDone
	if !second.Success {
		t.Fatalf("second update failed: %s: %s", second.Error, second.Message)
	}

	entry, err := f.store.GetAction(context.Background(), second.ActionLogID)
	if err != nil {
		t.Fatalf("get action failed: %v", err)
	}
	if got := entry.PreviousState["budget"]; got != 115.0 {
		t.Fatalf("expected the second update to record previous budget 115, got %v", got)
	}
}

type failingIDGenerator struct{}

func (failingIDGenerator) NewID(context.Context) (string, error) {
	return "", errors.New("id source exhausted")
}

func TestIDGenerationFailureIsInternal(t *testing.T) {
	f := newFixture(activeCampaign("camp-1", 100))
	f.executor.IDGen = failingIDGenerator{}
	uc := UpdateBudgetUseCase{Exec: f.executor}

	result := uc.Execute(context.Background(), UpdateBudgetCommand{
		UserID:     "user-1",
		Platform:   entities.PlatformFacebook,
		EntityType: entities.EntityTypeCampaign,
		EntityID:   "camp-1",
		NewBudget:  110,
		BudgetType: entities.BudgetTypeDaily,
	})
	if result.Success || result.Error != entities.ErrorCategoryInternal {
		t.Fatalf("expected internal_error for an id allocation failure, got %s", result.Error)
	}
	if len(f.gateway.Calls()) != 0 {
		t.Fatal("an internal failure must not reach the gateway")
	}
	history, _ := f.store.ListActions(context.Background(), ports.ActionLogFilter{UserID: "user-1"})
	if len(history) != 0 {
		t.Fatal("an internal failure must not leave a log entry")
	}
}

func TestRebalanceWithoutActiveCampaignIsNotFound(t *testing.T) {
	paused := activeCampaign("camp-1", 50)
	paused.Status = "paused"
	f := newFixture(paused)
	uc := RebalanceBudgetsUseCase{UpdateBudget: UpdateBudgetUseCase{Exec: f.executor}}

	results := uc.Execute(context.Background(), RebalanceBudgetsCommand{
		UserID:      "user-1",
		Platform:    entities.PlatformFacebook,
		TotalBudget: 1000,
		Allocations: []BudgetAllocation{
			{Label: "prospecting", CurrentSpend: 100, TargetPercent: 20},
		},
	})
	if len(results) != 1 || results[0].Error != entities.ErrorCategoryNotFound {
		t.Fatalf("expected not_found without an active campaign, got %v", results)
	}
}
