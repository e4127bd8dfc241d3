package entities

// ScheduleRange is an active-serving window within a day, applied identically
// across the listed weekdays (0 = Sunday .. 6 = Saturday). Minutes are
// inclusive on both ends, 0..1439.
type ScheduleRange struct {
	Days        []int
	StartMinute int
	EndMinute   int
}

// AllWeekdays returns a fresh 0..6 slice so callers can mutate their copy.
func AllWeekdays() []int {
	return []int{0, 1, 2, 3, 4, 5, 6}
}
