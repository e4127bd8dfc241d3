package rules

import (
	"time"

	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
)

// maxRampSteps bounds plan size for pathological current/desired pairs.
const maxRampSteps = 20

// BudgetStep is one scheduled increase within a ramp plan.
type BudgetStep struct {
	Amount float64
	Date   time.Time
}

// BudgetRampPlan is the outcome of a safe-increase calculation. When IsSafe
// is true the single step can be applied immediately; otherwise Steps is a
// staged ramp where each step, relative to its predecessor, stays within the
// platform's recommended increase and therefore never trips a learning reset
// on its own.
type BudgetRampPlan struct {
	IsSafe            bool
	Steps             []BudgetStep
	WillResetLearning bool
	IncreasePercent   float64
}

// PlanBudgetIncrease checks a desired budget move against the platform's
// scaling rule. Pure: the caller supplies now so plans are reproducible.
func (rb *Rulebook) PlanBudgetIncrease(platform entities.Platform, currentBudget, desiredBudget float64, now time.Time) BudgetRampPlan {
	rule, ok := rb.scaling[platform]
	if !ok || currentBudget <= 0 {
		// Unknown platform or nothing to ramp from: apply in one step.
		return BudgetRampPlan{
			IsSafe: true,
			Steps:  []BudgetStep{{Amount: desiredBudget, Date: now}},
		}
	}

	increasePercent := (desiredBudget - currentBudget) / currentBudget * 100
	if increasePercent <= rule.MaxIncreasePercentWithoutReset {
		return BudgetRampPlan{
			IsSafe:          true,
			Steps:           []BudgetStep{{Amount: desiredBudget, Date: now}},
			IncreasePercent: increasePercent,
		}
	}

	stepDays := (rule.TimeWindowHours + 23) / 24
	steps := make([]BudgetStep, 0, 4)
	amount := currentBudget
	date := now
	for len(steps) < maxRampSteps {
		amount = amount * (1 + rule.RecommendedIncreasePercent/100)
		if amount > desiredBudget {
			amount = desiredBudget
		}
		date = date.AddDate(0, 0, stepDays)
		steps = append(steps, BudgetStep{Amount: amount, Date: date})
		if amount >= desiredBudget {
			break
		}
	}
	return BudgetRampPlan{
		IsSafe:            false,
		Steps:             steps,
		WillResetLearning: true,
		IncreasePercent:   increasePercent,
	}
}
