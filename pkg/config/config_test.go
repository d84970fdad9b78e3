package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriods(t *testing.T) {
	defs, err := parsePeriods("09:00-09:40,09:40-10:20,BREAK:10:20-10:40,10:40-11:20")
	require.NoError(t, err)
	require.Len(t, defs, 4)

	assert.Equal(t, "Period 1", defs[0].Label)
	assert.Equal(t, "09:00", defs[0].Start)
	assert.Equal(t, "09:40", defs[0].End)
	assert.False(t, defs[0].Break)

	assert.Equal(t, "Break", defs[2].Label)
	assert.Equal(t, "10:20", defs[2].Start)
	assert.Equal(t, "10:40", defs[2].End)
	assert.True(t, defs[2].Break)
}

func TestParsePeriodsRejectsEmpty(t *testing.T) {
	_, err := parsePeriods("")
	require.Error(t, err)
}

func TestParsePeriodsRejectsMalformedRange(t *testing.T) {
	_, err := parsePeriods("09:00")
	require.Error(t, err)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 90*time.Second, parseDuration("90s", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("bogus", time.Minute))
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a , b ,"))
	assert.Nil(t, splitAndTrim(""))
}
