package rules

import (
	"fmt"
	"strings"

	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
)

// FieldEditability is the answer to "may this field change right now".
type FieldEditability struct {
	CanEdit           bool
	Reason            string
	AlternativeAction string
}

// LearningResetCheck is the answer to "would this change restart learning".
type LearningResetCheck struct {
	WillReset bool
	Reason    string
}

// LearningPhaseStatus describes where an entity sits relative to the
// platform's learning phase.
type LearningPhaseStatus struct {
	IsLearning        bool
	IsLearningLimited bool
	Reason            string
	DaysRemaining     int
	ConversionsNeeded int
}

// CanEditField consults the constraint table for one field. Unknown platforms
// and unknown fields yield a permissive default: these checks are advisory,
// the orchestrator decides where they become hard gates.
func (rb *Rulebook) CanEditField(platform entities.Platform, field string, isLaunched bool) FieldEditability {
	table, ok := rb.constraints[platform]
	if !ok {
		return FieldEditability{
			CanEdit: true,
			Reason:  fmt.Sprintf("no constraint rules loaded for platform %q", platform),
		}
	}
	constraint, ok := table[strings.ToLower(strings.TrimSpace(field))]
	if !ok {
		return FieldEditability{
			CanEdit: true,
			Reason:  fmt.Sprintf("no constraint recorded for field %q on %s", field, platform),
		}
	}
	if !isLaunched {
		return FieldEditability{CanEdit: constraint.CanEdit, Reason: constraint.Reason}
	}
	if constraint.CanEditAfterLaunch {
		return FieldEditability{CanEdit: true, Reason: constraint.Reason}
	}
	return FieldEditability{
		CanEdit:           false,
		Reason:            constraint.Reason,
		AlternativeAction: constraint.AlternativeAction,
	}
}

// WillResetLearningPhase reports whether changing a field at the given
// magnitude restarts the platform's learning phase.
func (rb *Rulebook) WillResetLearningPhase(platform entities.Platform, field string, magnitude ChangeMagnitude) LearningResetCheck {
	table, ok := rb.constraints[platform]
	if !ok {
		return LearningResetCheck{
			WillReset: false,
			Reason:    fmt.Sprintf("no learning rules loaded for platform %q", platform),
		}
	}
	constraint, ok := table[learningKey(field, magnitude)]
	if !ok {
		return LearningResetCheck{WillReset: false}
	}
	return LearningResetCheck{WillReset: constraint.ResetsLearningPhase, Reason: constraint.Reason}
}

// InLearningPhase evaluates conversion volume against the platform's exit
// criteria. An entity past the time window without enough conversions is
// learning-limited: stuck, unlikely to exit on its own.
func (rb *Rulebook) InLearningPhase(platform entities.Platform, conversionsInWindow int, daysSinceLaunchOrReset int) LearningPhaseStatus {
	rule, ok := rb.learning[platform]
	if !ok {
		return LearningPhaseStatus{
			IsLearning: false,
			Reason:     fmt.Sprintf("no learning rules loaded for platform %q", platform),
		}
	}
	if conversionsInWindow >= rule.ConversionsRequired {
		return LearningPhaseStatus{
			IsLearning: false,
			Reason: fmt.Sprintf("exited learning with %d conversions (%d required)",
				conversionsInWindow, rule.ConversionsRequired),
		}
	}
	needed := rule.ConversionsRequired - conversionsInWindow
	if daysSinceLaunchOrReset > rule.TimeWindowDays {
		return LearningPhaseStatus{
			IsLearning:        true,
			IsLearningLimited: true,
			Reason: fmt.Sprintf("learning limited: %d conversions short after %d days (window is %d days)",
				needed, daysSinceLaunchOrReset, rule.TimeWindowDays),
			ConversionsNeeded: needed,
		}
	}
	return LearningPhaseStatus{
		IsLearning: true,
		Reason: fmt.Sprintf("still learning: needs %d more conversions within %d days",
			needed, rule.TimeWindowDays-daysSinceLaunchOrReset),
		DaysRemaining:     rule.TimeWindowDays - daysSinceLaunchOrReset,
		ConversionsNeeded: needed,
	}
}
