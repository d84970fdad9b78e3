package models

import (
	"fmt"
	"strings"
	"time"
)

// DayOfWeek identifies a teaching day on the recurring weekly grid.
type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
)

var weekdays = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday}

// ParseDayOfWeek normalises user input into a DayOfWeek.
func ParseDayOfWeek(raw string) (DayOfWeek, error) {
	day := DayOfWeek(strings.ToUpper(strings.TrimSpace(raw)))
	for _, d := range weekdays {
		if d == day {
			return day, nil
		}
	}
	return "", fmt.Errorf("invalid day of week %q", raw)
}

// Order returns the position of the day within the teaching week, Monday first.
func (d DayOfWeek) Order() int {
	for i, day := range weekdays {
		if day == d {
			return i
		}
	}
	return len(weekdays)
}

// Weekdays returns the teaching days in order.
func Weekdays() []DayOfWeek {
	return weekdays
}

// Period is one slot of the daily grid. Break periods appear on the grid for
// display but cannot hold assignments.
type Period struct {
	Index     int    `json:"index"`
	Label     string `json:"label"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Break     bool   `json:"break"`
}

// PeriodGrid is the shared period-to-wall-clock lookup. It is configuration:
// every entry in the system derives its times from the same grid.
type PeriodGrid struct {
	periods []Period
	byIndex map[int]Period
}

// NewPeriodGrid builds a grid from ordered period definitions.
func NewPeriodGrid(periods []Period) (*PeriodGrid, error) {
	if len(periods) == 0 {
		return nil, fmt.Errorf("period grid requires at least one period")
	}
	byIndex := make(map[int]Period, len(periods))
	prevEnd := -1
	for _, p := range periods {
		if _, exists := byIndex[p.Index]; exists {
			return nil, fmt.Errorf("duplicate period index %d", p.Index)
		}
		start, err := MinutesOfDay(p.StartTime)
		if err != nil {
			return nil, fmt.Errorf("period %d: %w", p.Index, err)
		}
		end, err := MinutesOfDay(p.EndTime)
		if err != nil {
			return nil, fmt.Errorf("period %d: %w", p.Index, err)
		}
		if end <= start {
			return nil, fmt.Errorf("period %d: end %s not after start %s", p.Index, p.EndTime, p.StartTime)
		}
		if start < prevEnd {
			return nil, fmt.Errorf("period %d overlaps the previous period", p.Index)
		}
		prevEnd = end
		byIndex[p.Index] = p
	}
	return &PeriodGrid{periods: periods, byIndex: byIndex}, nil
}

// Periods returns the ordered grid.
func (g *PeriodGrid) Periods() []Period {
	out := make([]Period, len(g.periods))
	copy(out, g.periods)
	return out
}

// Lookup returns the period for the given index.
func (g *PeriodGrid) Lookup(index int) (Period, bool) {
	p, ok := g.byIndex[index]
	return p, ok
}

// Assignable reports whether the period exists and may hold an assignment.
func (g *PeriodGrid) Assignable(index int) bool {
	p, ok := g.byIndex[index]
	return ok && !p.Break
}

// MinutesOfDay parses an "HH:MM" wall-clock value into minutes since midnight.
func MinutesOfDay(raw string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid wall-clock time %q", raw)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// DurationMinutes returns end - start in minutes for "HH:MM" values.
func DurationMinutes(start, end string) (int, error) {
	s, err := MinutesOfDay(start)
	if err != nil {
		return 0, err
	}
	e, err := MinutesOfDay(end)
	if err != nil {
		return 0, err
	}
	return e - s, nil
}

// SameDate compares two timestamps by calendar date, ignoring time of day.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// OverlapsDated reports whether two half-open [start, end) windows on the same
// date intersect. Windows that merely touch do not overlap; windows on
// different dates never overlap. Inputs are assumed well-formed: validation
// rejects end <= start before any overlap test runs.
func OverlapsDated(dateA time.Time, startA, endA int, dateB time.Time, startB, endB int) bool {
	if !SameDate(dateA, dateB) {
		return false
	}
	return startA < endB && startB < endA
}

// OverlapsRecurring reports whether two recurring weekly slots collide. Slots
// are discrete, so overlap is exact equality of day and period.
func OverlapsRecurring(dayA DayOfWeek, periodA int, dayB DayOfWeek, periodB int) bool {
	return dayA == dayB && periodA == periodB
}
