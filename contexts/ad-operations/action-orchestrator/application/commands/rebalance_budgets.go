package commands

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	application "adpilot/contexts/ad-operations/action-orchestrator/application"
	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
)

const (
	// Deltas below this are noise relative to platform minimum budgets.
	rebalanceMaterialityUSD = 10.0
	// Floor keeps a rebalance from driving any budget to zero or negative.
	rebalanceBudgetFloorUSD = 10.0

	rebalanceBatchSize  = 5
	rebalanceBatchDelay = 500 * time.Millisecond
)

type BudgetAllocation struct {
	Label         string
	CurrentSpend  float64
	TargetPercent float64
}

type RebalanceBudgetsCommand struct {
	UserID      string
	Platform    entities.Platform
	Allocations []BudgetAllocation
	TotalBudget float64
}

// RebalanceBudgetsUseCase applies a set of target allocations as individual
// budget updates against the platform's highest-budget active campaign.
//
// Best-effort by design: allocations are processed independently, one result
// per processed allocation, and a failure partway through does not undo
// earlier successful updates. Callers must treat the result slice, not the
// whole call, as the unit of success.
type RebalanceBudgetsUseCase struct {
	UpdateBudget UpdateBudgetUseCase
	Logger       *slog.Logger
}

func (uc RebalanceBudgetsUseCase) Execute(ctx context.Context, cmd RebalanceBudgetsCommand) []entities.ActionResult {
	logger := application.ResolveLogger(uc.Logger)

	if strings.TrimSpace(cmd.UserID) == "" {
		return []entities.ActionResult{failure("", entities.ErrorCategoryUnauthorized, "caller identity is required")}
	}
	if cmd.TotalBudget <= 0 || len(cmd.Allocations) == 0 {
		return []entities.ActionResult{failure("", entities.ErrorCategoryInvalidInput, "rebalance request is invalid")}
	}

	type job struct {
		allocation BudgetAllocation
		delta      float64
	}
	jobs := make([]job, 0, len(cmd.Allocations))
	for _, allocation := range cmd.Allocations {
		targetBudget := allocation.TargetPercent / 100 * cmd.TotalBudget
		delta := targetBudget - allocation.CurrentSpend
		if math.Abs(delta) < rebalanceMaterialityUSD {
			logger.Info("rebalance allocation skipped",
				"event", "rebalance_allocation_skipped",
				"module", "ad-operations/action-orchestrator",
				"layer", "application",
				"allocation", allocation.Label,
				"delta", delta,
			)
			continue
		}
		jobs = append(jobs, job{allocation: allocation, delta: delta})
	}

	results := make([]entities.ActionResult, len(jobs))
	// External platforms rate-limit callers: process in bounded batches with
	// an inter-batch delay instead of firing everything at once.
	for start := 0; start < len(jobs); start += rebalanceBatchSize {
		end := start + rebalanceBatchSize
		if end > len(jobs) {
			end = len(jobs)
		}

		group, groupCtx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			group.Go(func() error {
				results[i] = uc.applyAllocation(groupCtx, cmd, jobs[i].allocation, jobs[i].delta)
				return nil
			})
		}
		_ = group.Wait()

		if end < len(jobs) {
			select {
			case <-ctx.Done():
				for i := end; i < len(jobs); i++ {
					results[i] = failure("", entities.ErrorCategoryGateway, "rebalance canceled before allocation was processed")
				}
				return results
			case <-time.After(rebalanceBatchDelay):
			}
		}
	}
	return results
}

func (uc RebalanceBudgetsUseCase) applyAllocation(ctx context.Context, cmd RebalanceBudgetsCommand, allocation BudgetAllocation, delta float64) entities.ActionResult {
	campaigns, err := uc.UpdateBudget.Exec.Entities.ListCampaigns(ctx, cmd.Platform)
	if err != nil {
		return failure("", entities.ErrorCategoryGateway,
			fmt.Sprintf("allocation %q: could not list campaigns", allocation.Label))
	}

	var target *entities.EntitySnapshot
	for i := range campaigns {
		if campaigns[i].Status != "active" {
			continue
		}
		if target == nil || campaigns[i].DailyBudget > target.DailyBudget {
			target = &campaigns[i]
		}
	}
	if target == nil {
		return failure("", entities.ErrorCategoryNotFound,
			fmt.Sprintf("allocation %q: no active campaign available on %s", allocation.Label, cmd.Platform))
	}

	newBudget := math.Max(rebalanceBudgetFloorUSD, target.DailyBudget+delta)
	result := uc.UpdateBudget.Execute(ctx, UpdateBudgetCommand{
		UserID:                   cmd.UserID,
		Platform:                 cmd.Platform,
		EntityType:               entities.EntityTypeCampaign,
		EntityID:                 target.EntityID,
		NewBudget:                newBudget,
		BudgetType:               entities.BudgetTypeDaily,
		AcknowledgeLearningReset: true,
		TriggeredBy:              entities.TriggerAutomationRule,
	})
	if result.Success {
		result.Message = fmt.Sprintf("allocation %q: %s", allocation.Label, result.Message)
	}
	return result
}
