package actionorchestrator

import (
	"log/slog"

	httpadapter "adpilot/contexts/ad-operations/action-orchestrator/adapters/http"
	"adpilot/contexts/ad-operations/action-orchestrator/adapters/memory"
	"adpilot/contexts/ad-operations/action-orchestrator/application/commands"
	"adpilot/contexts/ad-operations/action-orchestrator/application/queries"
	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
	"adpilot/contexts/ad-operations/action-orchestrator/domain/rules"
	"adpilot/contexts/ad-operations/action-orchestrator/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Log         ports.ActionLogRepository
	Gateways    ports.GatewayRegistry
	Entities    ports.EntityReader
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	rulebook := rules.NewRulebook()
	executor := &commands.ActionExecutor{
		Log:      deps.Log,
		Gateways: deps.Gateways,
		Entities: deps.Entities,
		Rules:    rulebook,
		Outbox:   deps.Outbox,
		Clock:    deps.Clock,
		IDGen:    deps.IDGenerator,
		Logger:   deps.Logger,
	}

	updateBudget := commands.UpdateBudgetUseCase{
		Exec:   executor,
		Logger: deps.Logger,
	}
	toggleStatus := commands.ToggleStatusUseCase{
		Exec:   executor,
		Logger: deps.Logger,
	}
	duplicate := commands.DuplicateWithScheduleUseCase{
		Exec:   executor,
		Logger: deps.Logger,
	}
	updateSchedule := commands.UpdateScheduleUseCase{
		Duplicate: duplicate,
		Logger:    deps.Logger,
	}
	rebalance := commands.RebalanceBudgetsUseCase{
		UpdateBudget: updateBudget,
		Logger:       deps.Logger,
	}
	rollback := commands.RollbackActionUseCase{
		Exec:   executor,
		Logger: deps.Logger,
	}

	dryRun := queries.DryRunUseCase{
		Entities: deps.Entities,
		Rules:    rulebook,
		Logger:   deps.Logger,
	}
	actionHistory := queries.ActionHistoryUseCase{
		Log:    deps.Log,
		Logger: deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			UpdateBudget:     updateBudget,
			ToggleStatus:     toggleStatus,
			Duplicate:        duplicate,
			UpdateSchedule:   updateSchedule,
			RebalanceBudgets: rebalance,
			RollbackAction:   rollback,
			DryRun:           dryRun,
			ActionHistory:    actionHistory,
			Logger:           deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module against the in-memory store and stub
// gateways for every supported platform. Used by the API in dev mode and by
// tests.
func NewInMemoryModule(seed []entities.EntitySnapshot, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	registry := ports.GatewayRegistry{
		entities.PlatformFacebook: &memory.StubGateway{},
		entities.PlatformTikTok:   &memory.StubGateway{},
		entities.PlatformGoogle:   &memory.StubGateway{},
	}
	module := NewModule(Dependencies{
		Log:         store,
		Gateways:    registry,
		Entities:    store,
		Outbox:      store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
