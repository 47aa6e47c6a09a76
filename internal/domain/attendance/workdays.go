package attendance

import "time"

// IsWorkingDay reports whether t falls Monday through Friday.
func IsWorkingDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// WorkingDays returns every Monday-Friday date in [start, end], both ends included.
func WorkingDays(start, end time.Time) []time.Time {
	start = toDay(start)
	end = toDay(end)

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if IsWorkingDay(d) {
			days = append(days, d)
		}
	}
	return days
}

// CountWorkingDays counts Monday-Friday dates in [start, end]; zero when end precedes start.
func CountWorkingDays(start, end time.Time) int {
	return len(WorkingDays(start, end))
}

func toDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
