package rules

import (
	"sort"

	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
)

// CompileSchedule converts an hour-exclusion set (hours 0..23) into the
// minimal set of contiguous serving windows, applied across all weekdays.
//
// Policy: when every hour is excluded the compiler returns a single full-day
// range rather than an empty schedule; an exclusion list that removes
// everything is treated as meaningless, not as "serve nothing". Callers that
// want to stop serving should pause the entity instead.
func CompileSchedule(excludedHours []int) []entities.ScheduleRange {
	excluded := make(map[int]bool, len(excludedHours))
	for _, hour := range excludedHours {
		if hour >= 0 && hour <= 23 {
			excluded[hour] = true
		}
	}

	included := make([]int, 0, 24)
	for hour := 0; hour < 24; hour++ {
		if !excluded[hour] {
			included = append(included, hour)
		}
	}

	if len(included) == 0 {
		return []entities.ScheduleRange{{
			Days:        entities.AllWeekdays(),
			StartMinute: 0,
			EndMinute:   1439,
		}}
	}

	ranges := make([]entities.ScheduleRange, 0, 4)
	start := included[0]
	prev := included[0]
	for _, hour := range included[1:] {
		if hour == prev+1 {
			prev = hour
			continue
		}
		ranges = append(ranges, hourRange(start, prev))
		start = hour
		prev = hour
	}
	ranges = append(ranges, hourRange(start, prev))
	return ranges
}

func hourRange(startHour, endHour int) entities.ScheduleRange {
	return entities.ScheduleRange{
		Days:        entities.AllWeekdays(),
		StartMinute: startHour * 60,
		EndMinute:   (endHour+1)*60 - 1,
	}
}

// IncludedHoursFromRanges reconstructs the set of served hours covered by a
// compiled schedule. Inverse of CompileSchedule for every input except the
// all-excluded fallback above.
func IncludedHoursFromRanges(ranges []entities.ScheduleRange) []int {
	seen := make(map[int]bool)
	for _, r := range ranges {
		for minute := r.StartMinute; minute <= r.EndMinute; minute++ {
			seen[minute/60] = true
		}
	}
	hours := make([]int, 0, len(seen))
	for hour := range seen {
		hours = append(hours, hour)
	}
	sort.Ints(hours)
	return hours
}
