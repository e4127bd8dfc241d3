package rules

import (
	"testing"

	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
)

func TestPostLaunchLockedFieldsCarryReasons(t *testing.T) {
	rb := NewRulebook()
	for _, platform := range []entities.Platform{
		entities.PlatformFacebook,
		entities.PlatformTikTok,
		entities.PlatformGoogle,
	} {
		for field, constraint := range rb.Constraints(platform) {
			if constraint.CanEditAfterLaunch {
				continue
			}
			result := rb.CanEditField(platform, field, true)
			if result.CanEdit {
				t.Fatalf("%s/%s: expected post-launch edit to be rejected", platform, field)
			}
			if result.Reason == "" {
				t.Fatalf("%s/%s: locked field must carry a reason", platform, field)
			}
		}
	}
}

func TestCanEditFieldBeforeLaunchUsesUnconditionalFlag(t *testing.T) {
	rb := NewRulebook()
	result := rb.CanEditField(entities.PlatformFacebook, "objective", false)
	if !result.CanEdit {
		t.Fatalf("objective is editable before launch")
	}
	result = rb.CanEditField(entities.PlatformFacebook, "objective", true)
	if result.CanEdit {
		t.Fatalf("objective is locked after launch")
	}
	if result.AlternativeAction == "" {
		t.Fatalf("locked objective should surface an alternative action")
	}
}

func TestUnknownPlatformYieldsNeutralDefaults(t *testing.T) {
	rb := NewRulebook()
	other := entities.Platform("linkedin")

	edit := rb.CanEditField(other, "daily_budget", true)
	if !edit.CanEdit || edit.Reason == "" {
		t.Fatalf("unknown platform should allow edits with an explanatory reason, got %+v", edit)
	}
	reset := rb.WillResetLearningPhase(other, "daily_budget", ChangeMajor)
	if reset.WillReset {
		t.Fatalf("unknown platform should not predict learning resets")
	}
	learning := rb.InLearningPhase(other, 0, 0)
	if learning.IsLearning || learning.Reason == "" {
		t.Fatalf("unknown platform should report not-learning with a reason, got %+v", learning)
	}
}

func TestWillResetLearningPhaseDisambiguatesByMagnitude(t *testing.T) {
	rb := NewRulebook()

	minor := rb.WillResetLearningPhase(entities.PlatformFacebook, "daily_budget", ChangeMinor)
	if minor.WillReset {
		t.Fatalf("moderate budget change must not reset learning on facebook")
	}
	major := rb.WillResetLearningPhase(entities.PlatformFacebook, "daily_budget", ChangeMajor)
	if !major.WillReset {
		t.Fatalf("significant budget change must reset learning on facebook")
	}
	targeting := rb.WillResetLearningPhase(entities.PlatformFacebook, "targeting", ChangeMajor)
	if !targeting.WillReset {
		t.Fatalf("major targeting change must reset learning on facebook")
	}
	direct := rb.WillResetLearningPhase(entities.PlatformFacebook, "creative", ChangeMinor)
	if !direct.WillReset {
		t.Fatalf("creative swaps reset learning on facebook regardless of magnitude")
	}
}

func TestCategorizeField(t *testing.T) {
	cases := map[string]FieldCategory{
		"daily_budget":    FieldCategoryBudget,
		"lifetime_budget": FieldCategoryBudget,
		"targeting":       FieldCategoryTargeting,
		"targeting_spec":  FieldCategoryTargeting,
		"creative":        FieldCategoryOther,
		"status":          FieldCategoryOther,
	}
	for field, want := range cases {
		if got := CategorizeField(field); got != want {
			t.Fatalf("field %q: expected category %s, got %s", field, want, got)
		}
	}
}

func TestInLearningPhaseTransitions(t *testing.T) {
	rb := NewRulebook()

	exited := rb.InLearningPhase(entities.PlatformFacebook, 60, 3)
	if exited.IsLearning {
		t.Fatalf("50+ conversions should exit learning on facebook")
	}

	learning := rb.InLearningPhase(entities.PlatformFacebook, 20, 3)
	if !learning.IsLearning || learning.IsLearningLimited {
		t.Fatalf("expected still-learning status, got %+v", learning)
	}
	if learning.DaysRemaining != 4 || learning.ConversionsNeeded != 30 {
		t.Fatalf("expected 4 days / 30 conversions remaining, got %+v", learning)
	}

	limited := rb.InLearningPhase(entities.PlatformFacebook, 20, 10)
	if !limited.IsLearning || !limited.IsLearningLimited {
		t.Fatalf("expected learning-limited status past the window, got %+v", limited)
	}
}
