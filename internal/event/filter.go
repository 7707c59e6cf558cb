package event

import (
	"strings"
	"time"
)

// DateFilter narrows a listing to a calendar window around today.
type DateFilter string

const (
	FilterNone  DateFilter = ""
	FilterToday DateFilter = "today"
	FilterWeek  DateFilter = "week"
	FilterMonth DateFilter = "month"
)

// ParseDateFilter maps a query value to a filter. Unknown values mean no
// filter.
func ParseDateFilter(s string) DateFilter {
	switch f := DateFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterToday, FilterWeek, FilterMonth:
		return f
	default:
		return FilterNone
	}
}

// Window returns the inclusive [from, to] date range for the filter, taking
// the calendar date of now in loc. ok is false for FilterNone.
// Weeks run Monday to Sunday, as ISO weeks do.
func (f DateFilter) Window(now time.Time, loc *time.Location) (from, to time.Time, ok bool) {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := now.In(loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	switch f {
	case FilterToday:
		return today, today, true
	case FilterWeek:
		offset := (int(today.Weekday()) + 6) % 7
		from = today.AddDate(0, 0, -offset)
		return from, from.AddDate(0, 0, 6), true
	case FilterMonth:
		from = time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, -1), true
	default:
		return time.Time{}, time.Time{}, false
	}
}
