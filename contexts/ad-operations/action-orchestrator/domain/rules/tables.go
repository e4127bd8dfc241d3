package rules

import "adpilot/contexts/ad-operations/action-orchestrator/domain/entities"

// Per-platform operational rules. These encode behavior the platforms enforce
// but mostly do not document: what is locked after launch, what restarts the
// optimization learning phase, and how fast budgets can move.

func defaultConstraints() map[entities.Platform]map[string]PlatformConstraint {
	return map[entities.Platform]map[string]PlatformConstraint{
		entities.PlatformFacebook: {
			"objective": {
				Field:              "objective",
				CanEdit:            true,
				CanEditAfterLaunch: false,
				Reason:             "Facebook locks the campaign objective once delivery has started",
				AlternativeAction:  "duplicate the campaign with the new objective",
			},
			"daily_budget": {
				Field:               "daily_budget",
				CanEdit:             true,
				CanEditAfterLaunch:  true,
				ResetsLearningPhase: false,
			},
			"lifetime_budget": {
				Field:               "lifetime_budget",
				CanEdit:             true,
				CanEditAfterLaunch:  true,
				ResetsLearningPhase: false,
			},
			"budget_moderate_change": {
				Field:               "budget_moderate_change",
				CanEdit:             true,
				CanEditAfterLaunch:  true,
				ResetsLearningPhase: false,
				Reason:              "budget moves within 20% keep the delivery model stable",
			},
			"budget_significant_change": {
				Field:               "budget_significant_change",
				CanEdit:             true,
				CanEditAfterLaunch:  true,
				ResetsLearningPhase: true,
				Reason:              "budget moves beyond 20% restart learning on the ad set",
				AlternativeAction:   "stage the increase in 15% steps at least a day apart",
			},
			"targeting_minor_change": {
				Field:               "targeting_minor_change",
				CanEdit:             true,
				CanEditAfterLaunch:  true,
				ResetsLearningPhase: false,
				Reason:              "audience expansions that keep overlap above 90% do not reset learning",
			},
			"targeting_major_change": {
				Field:               "targeting_major_change",
				CanEdit:             true,
				CanEditAfterLaunch:  true,
				ResetsLearningPhase: true,
				Reason:              "replacing the audience restarts delivery optimization",
				AlternativeAction:   "duplicate the ad set with the new audience and ramp spend over",
			},
			"bid_strategy": {
				Field:              "bid_strategy",
				CanEdit:            true,
				CanEditAfterLaunch: false,
				Reason:             "bid strategy changes after launch invalidate the auction model",
				AlternativeAction:  "duplicate the ad set with the new bid strategy",
			},
			"creative": {
				Field:               "creative",
				CanEdit:             true,
				CanEditAfterLaunch:  true,
				ResetsLearningPhase: true,
				Reason:              "swapping the creative restarts learning for the ad",
			},
			"schedule": {
				Field:              "schedule",
				CanEdit:            true,
				CanEditAfterLaunch: false,
				Reason:             "dayparting requires a lifetime budget fixed at creation",
				AlternativeAction:  "duplicate the entity with a lifetime budget and the new schedule",
			},
			"status": {
				Field:              "status",
				CanEdit:            true,
				CanEditAfterLaunch: true,
			},
			"name": {
				Field:              "name",
				CanEdit:            true,
				CanEditAfterLaunch: true,
			},
		},
		entities.PlatformTikTok: {
			"objective": {
				Field:              "objective",
				CanEdit:            true,
				CanEditAfterLaunch: false,
				Reason:             "TikTok campaign objectives are immutable after creation",
				AlternativeAction:  "create a new campaign with the desired objective",
			},
			"daily_budget": {
				Field:               "daily_budget",
				CanEdit:             true,
				CanEditAfterLaunch:  true,
				ResetsLearningPhase: false,
			},
			"lifetime_budget": {
				Field:               "lifetime_budget",
				CanEdit:             true,
				CanEditAfterLaunch:  true,
				ResetsLearningPhase: false,
			},
			"budget_moderate_change": {
				Field:               "budget_moderate_change",
				CanEdit:             true,
				CanEditAfterLaunch:  true,
				ResetsLearningPhase: false,
				Reason:              "budget moves within 50% are absorbed without a learning restart",
			},
			"budget_significant_change": {
				Field:               "budget_significant_change",
				CanEdit:             true,
				CanEditAfterLaunch:  true,
				ResetsLearningPhase: true,
				Reason:              "doubling budget restarts the exploration phase",
				AlternativeAction:   "stage the increase in 30% steps two days apart",
			},
			"targeting_minor_change": {
				Field:               "targeting_minor_change",
				CanEdit:             true,
				CanEditAfterLaunch:  true,
				ResetsLearningPhase: false,
			},
			"targeting_major_change": {
				Field:               "targeting_major_change",
				CanEdit:             true,
				CanEditAfterLaunch:  true,
				ResetsLearningPhase: true,
				Reason:              "audience replacement restarts the exploration phase",
			},
			"bid_strategy": {
				Field:              "bid_strategy",
				CanEdit:            true,
				CanEditAfterLaunch: false,
				Reason:             "bid type cannot change after the ad group starts delivering",
				AlternativeAction:  "duplicate the ad group with the new bid type",
			},
			"creative": {
				Field:               "creative",
				CanEdit:             true,
				CanEditAfterLaunch:  true,
				ResetsLearningPhase: true,
				Reason:              "new creatives re-enter review and restart learning",
			},
			"schedule": {
				Field:              "schedule",
				CanEdit:            true,
				CanEditAfterLaunch: false,
				Reason:             "dayparting is fixed once the ad group is live",
				AlternativeAction:  "duplicate the entity with a lifetime budget and the new schedule",
			},
			"status": {
				Field:              "status",
				CanEdit:            true,
				CanEditAfterLaunch: true,
			},
			"name": {
				Field:              "name",
				CanEdit:            true,
				CanEditAfterLaunch: true,
			},
		},
		entities.PlatformGoogle: {
			"objective": {
				Field:              "objective",
				CanEdit:            true,
				CanEditAfterLaunch: false,
				Reason:             "Google Ads campaign goals cannot change after launch",
				AlternativeAction:  "create a new campaign with the desired goal",
			},
			"daily_budget": {
				Field:               "daily_budget",
				CanEdit:             true,
				CanEditAfterLaunch:  true,
				ResetsLearningPhase: false,
			},
			"lifetime_budget": {
				Field:               "lifetime_budget",
				CanEdit:             true,
				CanEditAfterLaunch:  true,
				ResetsLearningPhase: false,
			},
			"budget_moderate_change": {
				Field:               "budget_moderate_change",
				CanEdit:             true,
				CanEditAfterLaunch:  true,
				ResetsLearningPhase: false,
				Reason:              "Smart Bidding tolerates budget moves up to 100%",
			},
			"budget_significant_change": {
				Field:               "budget_significant_change",
				CanEdit:             true,
				CanEditAfterLaunch:  true,
				ResetsLearningPhase: true,
				Reason:              "budget moves beyond 100% push Smart Bidding back into learning",
				AlternativeAction:   "stage the increase in 50% steps a day apart",
			},
			"targeting_minor_change": {
				Field:               "targeting_minor_change",
				CanEdit:             true,
				CanEditAfterLaunch:  true,
				ResetsLearningPhase: false,
			},
			"targeting_major_change": {
				Field:               "targeting_major_change",
				CanEdit:             true,
				CanEditAfterLaunch:  true,
				ResetsLearningPhase: true,
				Reason:              "changing conversion goals or audiences restarts bid learning",
			},
			"bid_strategy": {
				Field:               "bid_strategy",
				CanEdit:             true,
				CanEditAfterLaunch:  true,
				ResetsLearningPhase: true,
				Reason:              "switching bid strategies restarts the Smart Bidding learning period",
				AlternativeAction:   "use a bid strategy experiment instead of an in-place switch",
			},
			"creative": {
				Field:               "creative",
				CanEdit:             true,
				CanEditAfterLaunch:  true,
				ResetsLearningPhase: false,
				Reason:              "responsive ads rotate assets without restarting bidding",
			},
			"schedule": {
				Field:              "schedule",
				CanEdit:            true,
				CanEditAfterLaunch: true,
			},
			"status": {
				Field:              "status",
				CanEdit:            true,
				CanEditAfterLaunch: true,
			},
			"name": {
				Field:              "name",
				CanEdit:            true,
				CanEditAfterLaunch: true,
			},
		},
	}
}

func defaultLearningRules() map[entities.Platform]LearningPhaseRule {
	return map[entities.Platform]LearningPhaseRule{
		entities.PlatformFacebook: {
			ConversionsRequired: 50,
			TimeWindowDays:      7,
			ResetTriggers: []string{
				"budget_significant_change",
				"targeting_major_change",
				"creative",
				"bid_strategy",
				"pause_longer_than_7_days",
			},
			CanForceExit: false,
		},
		entities.PlatformTikTok: {
			ConversionsRequired: 50,
			TimeWindowDays:      7,
			ResetTriggers: []string{
				"budget_significant_change",
				"targeting_major_change",
				"creative",
			},
			CanForceExit: false,
		},
		entities.PlatformGoogle: {
			ConversionsRequired: 30,
			TimeWindowDays:      14,
			ResetTriggers: []string{
				"budget_significant_change",
				"targeting_major_change",
				"bid_strategy",
			},
			CanForceExit: true,
		},
	}
}

func defaultScalingRules() map[entities.Platform]BudgetScalingRule {
	return map[entities.Platform]BudgetScalingRule{
		entities.PlatformFacebook: {
			MaxIncreasePercentWithoutReset: 20,
			MaxDecreasePercentWithoutReset: 25,
			RecommendedIncreasePercent:     15,
			TimeWindowHours:                24,
		},
		entities.PlatformTikTok: {
			MaxIncreasePercentWithoutReset: 50,
			MaxDecreasePercentWithoutReset: 50,
			RecommendedIncreasePercent:     30,
			TimeWindowHours:                48,
		},
		entities.PlatformGoogle: {
			MaxIncreasePercentWithoutReset: 100,
			MaxDecreasePercentWithoutReset: 100,
			RecommendedIncreasePercent:     50,
			TimeWindowHours:                24,
		},
	}
}
