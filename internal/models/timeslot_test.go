package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDayOfWeek(t *testing.T) {
	day, err := ParseDayOfWeek(" wednesday ")
	require.NoError(t, err)
	assert.Equal(t, Wednesday, day)

	_, err = ParseDayOfWeek("SATURDAY")
	require.Error(t, err)
}

func TestDayOfWeekOrder(t *testing.T) {
	assert.Equal(t, 0, Monday.Order())
	assert.Equal(t, 4, Friday.Order())
	assert.Less(t, Tuesday.Order(), Thursday.Order())
}

func TestMinutesOfDay(t *testing.T) {
	m, err := MinutesOfDay("09:40")
	require.NoError(t, err)
	assert.Equal(t, 580, m)

	_, err = MinutesOfDay("9h40")
	require.Error(t, err)

	_, err = MinutesOfDay("25:00")
	require.Error(t, err)
}

func TestNewPeriodGridValidation(t *testing.T) {
	_, err := NewPeriodGrid(nil)
	require.Error(t, err)

	_, err = NewPeriodGrid([]Period{
		{Index: 1, StartTime: "09:00", EndTime: "09:40"},
		{Index: 1, StartTime: "09:40", EndTime: "10:20"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")

	_, err = NewPeriodGrid([]Period{
		{Index: 1, StartTime: "09:00", EndTime: "09:40"},
		{Index: 2, StartTime: "09:30", EndTime: "10:10"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlaps")

	_, err = NewPeriodGrid([]Period{
		{Index: 1, StartTime: "09:40", EndTime: "09:00"},
	})
	require.Error(t, err)
}

func TestPeriodGridAssignable(t *testing.T) {
	grid, err := NewPeriodGrid([]Period{
		{Index: 1, StartTime: "09:00", EndTime: "09:40"},
		{Index: 2, Label: "BREAK", StartTime: "09:40", EndTime: "10:00", Break: true},
	})
	require.NoError(t, err)

	assert.True(t, grid.Assignable(1))
	assert.False(t, grid.Assignable(2))
	assert.False(t, grid.Assignable(99))

	p, ok := grid.Lookup(2)
	require.True(t, ok)
	assert.Equal(t, "BREAK", p.Label)
}

func TestOverlapsDated(t *testing.T) {
	day := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	otherDay := day.AddDate(0, 0, 1)

	// Partial overlap.
	assert.True(t, OverlapsDated(day, 540, 660, day, 600, 720))
	// Containment.
	assert.True(t, OverlapsDated(day, 540, 720, day, 600, 660))
	// Identical windows.
	assert.True(t, OverlapsDated(day, 540, 660, day, 540, 660))
	// Touching boundaries do not overlap.
	assert.False(t, OverlapsDated(day, 540, 660, day, 660, 780))
	assert.False(t, OverlapsDated(day, 660, 780, day, 540, 660))
	// Different dates never overlap.
	assert.False(t, OverlapsDated(day, 540, 660, otherDay, 540, 660))
}

func TestOverlapsDatedIsSymmetric(t *testing.T) {
	day := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t,
		OverlapsDated(day, 540, 660, day, 600, 720),
		OverlapsDated(day, 600, 720, day, 540, 660))
}

func TestOverlapsRecurring(t *testing.T) {
	assert.True(t, OverlapsRecurring(Monday, 1, Monday, 1))
	assert.False(t, OverlapsRecurring(Monday, 1, Monday, 2))
	assert.False(t, OverlapsRecurring(Monday, 1, Tuesday, 1))
}

func TestDurationMinutes(t *testing.T) {
	d, err := DurationMinutes("09:00", "11:00")
	require.NoError(t, err)
	assert.Equal(t, 120, d)
}

func TestSameDate(t *testing.T) {
	a := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	b := time.Date(2026, 3, 3, 23, 59, 0, 0, time.UTC)
	assert.True(t, SameDate(a, b))
	assert.False(t, SameDate(a, b.AddDate(0, 0, 1)))
}
