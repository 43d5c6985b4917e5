package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 2026-08-31 is a Monday.
var monday = time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

func TestBusinessDaysBetween(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"same day", monday, monday, 0},
		{"monday to tuesday", monday, monday.AddDate(0, 0, 1), 1},
		{"monday to friday", monday, monday.AddDate(0, 0, 4), 4},
		{"monday to saturday", monday, monday.AddDate(0, 0, 5), 4},
		{"monday to sunday", monday, monday.AddDate(0, 0, 6), 4},
		{"monday to following monday", monday, monday.AddDate(0, 0, 7), 5},
		{"two full weeks", monday, monday.AddDate(0, 0, 14), 10},
		{"saturday to sunday", monday.AddDate(0, 0, 5), monday.AddDate(0, 0, 6), 0},
		{"reversed span is negative", monday.AddDate(0, 0, 7), monday, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BusinessDaysBetween(tt.start, tt.end))
		})
	}
}

func TestBusinessDaysBetween_IgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC)
	early := time.Date(2026, 9, 1, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, BusinessDaysBetween(late, early))
}

func TestAddBusinessDays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		n     int
		want  time.Time
	}{
		{"zero days", monday, 0, date(monday)},
		{"one day", monday, 1, date(monday.AddDate(0, 0, 1))},
		{"four days lands friday", monday, 4, date(monday.AddDate(0, 0, 4))},
		{"five days skips weekend", monday, 5, date(monday.AddDate(0, 0, 7))},
		{"ten days is two weeks", monday, 10, date(monday.AddDate(0, 0, 14))},
		{"from saturday", monday.AddDate(0, 0, 5), 1, date(monday.AddDate(0, 0, 7))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddBusinessDays(tt.start, tt.n))
		})
	}
}

func TestAddBusinessDays_RoundTripsBetween(t *testing.T) {
	for n := 1; n <= 20; n++ {
		target := AddBusinessDays(monday, n)
		assert.Equal(t, n, BusinessDaysBetween(monday, target), "n=%d", n)
	}
}

func TestCalendarDaysBetween(t *testing.T) {
	assert.Equal(t, 7, CalendarDaysBetween(monday, monday.AddDate(0, 0, 7)))
	assert.Equal(t, 0, CalendarDaysBetween(monday, monday))
	assert.Equal(t, -3, CalendarDaysBetween(monday, monday.AddDate(0, 0, -3)))
}

func TestIsBusinessDay(t *testing.T) {
	assert.True(t, IsBusinessDay(monday))
	assert.False(t, IsBusinessDay(monday.AddDate(0, 0, 5)))
	assert.False(t, IsBusinessDay(monday.AddDate(0, 0, 6)))
}
