package rules

import (
	"strings"

	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
)

// FieldCategory classifies mutable fields whose learning-phase impact depends
// on the size of the change. The substring convention inherited from platform
// documentation lives in exactly one place: CategorizeField.
type FieldCategory string

// ChangeMagnitude qualifies how large a change is relative to the platform's
// no-reset threshold.
type ChangeMagnitude string

const (
	FieldCategoryBudget    FieldCategory = "budget"
	FieldCategoryTargeting FieldCategory = "targeting"
	FieldCategoryOther     FieldCategory = "other"

	ChangeMinor ChangeMagnitude = "minor"
	ChangeMajor ChangeMagnitude = "major"
)

// PlatformConstraint is one editability rule for one mutable field.
type PlatformConstraint struct {
	Field               string
	CanEdit             bool
	CanEditAfterLaunch  bool
	ResetsLearningPhase bool
	Reason              string
	AlternativeAction   string
}

// LearningPhaseRule describes when a platform considers an entity to be in an
// unstable optimization state.
type LearningPhaseRule struct {
	ConversionsRequired int
	TimeWindowDays      int
	ResetTriggers       []string
	CanForceExit        bool
}

// BudgetScalingRule bounds how fast a budget can move without restarting the
// platform's optimization.
type BudgetScalingRule struct {
	MaxIncreasePercentWithoutReset float64
	MaxDecreasePercentWithoutReset float64
	RecommendedIncreasePercent     float64
	TimeWindowHours                int
}

// Rulebook is the immutable constraint knowledge base. Construct once at
// process start and inject it; the tables are never mutated afterwards.
type Rulebook struct {
	constraints map[entities.Platform]map[string]PlatformConstraint
	learning    map[entities.Platform]LearningPhaseRule
	scaling     map[entities.Platform]BudgetScalingRule
}

// NewRulebook builds the rulebook from the built-in per-platform tables.
func NewRulebook() *Rulebook {
	return &Rulebook{
		constraints: defaultConstraints(),
		learning:    defaultLearningRules(),
		scaling:     defaultScalingRules(),
	}
}

// CategorizeField resolves a field key into its learning-impact category.
// This is the single mapping from field naming conventions to categories;
// nothing else in the engine matches on field-name substrings.
func CategorizeField(field string) FieldCategory {
	key := strings.ToLower(strings.TrimSpace(field))
	switch {
	case strings.Contains(key, "budget"):
		return FieldCategoryBudget
	case strings.Contains(key, "targeting"):
		return FieldCategoryTargeting
	default:
		return FieldCategoryOther
	}
}

// learningKey disambiguates category fields by change magnitude before the
// constraint table is consulted. Other fields are looked up directly.
func learningKey(field string, magnitude ChangeMagnitude) string {
	switch CategorizeField(field) {
	case FieldCategoryBudget:
		if magnitude == ChangeMajor {
			return "budget_significant_change"
		}
		return "budget_moderate_change"
	case FieldCategoryTargeting:
		if magnitude == ChangeMajor {
			return "targeting_major_change"
		}
		return "targeting_minor_change"
	default:
		return strings.ToLower(strings.TrimSpace(field))
	}
}

// ScalingRule exposes the budget-scaling rule for a platform, reporting
// whether the platform is known.
func (rb *Rulebook) ScalingRule(platform entities.Platform) (BudgetScalingRule, bool) {
	rule, ok := rb.scaling[platform]
	return rule, ok
}

// LearningRule exposes the learning-phase rule for a platform.
func (rb *Rulebook) LearningRule(platform entities.Platform) (LearningPhaseRule, bool) {
	rule, ok := rb.learning[platform]
	return rule, ok
}

// Constraints returns the field-constraint table for a platform. The returned
// map must be treated as read-only.
func (rb *Rulebook) Constraints(platform entities.Platform) map[string]PlatformConstraint {
	return rb.constraints[platform]
}
