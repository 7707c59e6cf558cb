package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseDateFilter(t *testing.T) {
	assert.Equal(t, FilterToday, ParseDateFilter("today"))
	assert.Equal(t, FilterWeek, ParseDateFilter(" Week "))
	assert.Equal(t, FilterMonth, ParseDateFilter("MONTH"))
	assert.Equal(t, FilterNone, ParseDateFilter(""))
	assert.Equal(t, FilterNone, ParseDateFilter("year"))
}

func TestDateFilter_Window(t *testing.T) {
	// Saturday
	now := time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		filter   DateFilter
		from, to string
	}{
		{FilterToday, "2024-06-15", "2024-06-15"},
		{FilterWeek, "2024-06-10", "2024-06-16"},
		{FilterMonth, "2024-06-01", "2024-06-30"},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			from, to, ok := tt.filter.Window(now, time.UTC)
			assert.True(t, ok)
			assert.Equal(t, tt.from, from.Format(dateLayout))
			assert.Equal(t, tt.to, to.Format(dateLayout))
		})
	}

	_, _, ok := FilterNone.Window(now, time.UTC)
	assert.False(t, ok)
}

func TestDateFilter_WindowEdges(t *testing.T) {
	t.Run("SundayBelongsToPreviousMonday", func(t *testing.T) {
		from, to, _ := FilterWeek.Window(day("2024-06-16"), time.UTC)
		assert.Equal(t, "2024-06-10", from.Format(dateLayout))
		assert.Equal(t, "2024-06-16", to.Format(dateLayout))
	})

	t.Run("WeekSpansYearEnd", func(t *testing.T) {
		from, to, _ := FilterWeek.Window(day("2025-01-01"), time.UTC)
		assert.Equal(t, "2024-12-30", from.Format(dateLayout))
		assert.Equal(t, "2025-01-05", to.Format(dateLayout))
	})

	t.Run("LeapFebruary", func(t *testing.T) {
		_, to, _ := FilterMonth.Window(day("2024-02-10"), time.UTC)
		assert.Equal(t, "2024-02-29", to.Format(dateLayout))
	})

	t.Run("TodayUsesLocationDate", func(t *testing.T) {
		tokyo := time.FixedZone("JST", 9*3600)
		// 20:00 UTC on the 15th is already the 16th in Tokyo.
		from, _, _ := FilterToday.Window(time.Date(2024, 6, 15, 20, 0, 0, 0, time.UTC), tokyo)
		assert.Equal(t, "2024-06-16", from.Format(dateLayout))
	})
}
