package rules

import (
	"testing"
)

func TestCompileNightExclusionYieldsSingleRange(t *testing.T) {
	ranges := CompileSchedule([]int{0, 1, 2, 22, 23})
	if len(ranges) != 1 {
		t.Fatalf("expected 1 range, got %d", len(ranges))
	}
	if ranges[0].StartMinute != 180 || ranges[0].EndMinute != 1319 {
		t.Fatalf("expected minutes 180..1319, got %d..%d", ranges[0].StartMinute, ranges[0].EndMinute)
	}
	if len(ranges[0].Days) != 7 {
		t.Fatalf("expected all 7 weekdays, got %v", ranges[0].Days)
	}
}

func TestCompileSplitExclusionsYieldThreeRanges(t *testing.T) {
	ranges := CompileSchedule([]int{5, 6, 7, 15, 16})
	if len(ranges) != 3 {
		t.Fatalf("expected 3 ranges, got %d", len(ranges))
	}
	expected := [][2]int{{0, 299}, {480, 899}, {1020, 1439}}
	for i, want := range expected {
		if ranges[i].StartMinute != want[0] || ranges[i].EndMinute != want[1] {
			t.Fatalf("range %d: expected %d..%d, got %d..%d",
				i, want[0], want[1], ranges[i].StartMinute, ranges[i].EndMinute)
		}
	}
}

// Documented policy, not a defect: excluding all 24 hours produces one range
// covering the whole day instead of an empty schedule.
func TestCompileAllHoursExcluded(t *testing.T) {
	all := make([]int, 24)
	for i := range all {
		all[i] = i
	}
	ranges := CompileSchedule(all)
	if len(ranges) != 1 {
		t.Fatalf("expected fallback single range, got %d ranges", len(ranges))
	}
	if ranges[0].StartMinute != 0 || ranges[0].EndMinute != 1439 {
		t.Fatalf("expected full-day range, got %d..%d", ranges[0].StartMinute, ranges[0].EndMinute)
	}
	if len(ranges[0].Days) != 7 {
		t.Fatalf("expected all weekdays, got %v", ranges[0].Days)
	}
}

func TestCompileRoundTripReproducesIncludedHours(t *testing.T) {
	cases := [][]int{
		{},
		{0},
		{23},
		{0, 1, 2, 22, 23},
		{5, 6, 7, 15, 16},
		{1, 3, 5, 7, 9, 11, 13, 15, 17, 19, 21, 23},
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22},
	}
	for _, excluded := range cases {
		excludedSet := make(map[int]bool, len(excluded))
		for _, hour := range excluded {
			excludedSet[hour] = true
		}
		want := make([]int, 0, 24)
		for hour := 0; hour < 24; hour++ {
			if !excludedSet[hour] {
				want = append(want, hour)
			}
		}

		got := IncludedHoursFromRanges(CompileSchedule(excluded))
		if len(got) != len(want) {
			t.Fatalf("excluded %v: expected %d included hours, got %d (%v)", excluded, len(want), len(got), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("excluded %v: expected included hours %v, got %v", excluded, want, got)
			}
		}
	}
}
