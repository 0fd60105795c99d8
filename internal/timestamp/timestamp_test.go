package timestamp

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var layout = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}[+-]\d{2}:\d{2}$`)

func TestFormat_DefaultOffsetPattern(t *testing.T) {
	got := Format(time.Date(2025, 3, 9, 17, 4, 5, 0, time.UTC), DefaultOffsetHours)
	require.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\+08:00$`, got)
	assert.Equal(t, "2025-03-10T01:04:05+08:00", got)
}

func TestFormat_ShiftsFieldsByOffset(t *testing.T) {
	got := Format(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 8)
	assert.Equal(t, "2024-01-01T08:00:00+08:00", got)
}

func TestFormat_NegativeFractionalOffset(t *testing.T) {
	instants := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1999, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2030, 6, 15, 12, 30, 0, 0, time.UTC),
	}
	for _, instant := range instants {
		got := Format(instant, -5.5)
		assert.Regexp(t, `-05:30$`, got)
	}
	assert.Equal(t, "2023-12-31T18:30:00-05:30", Format(instants[0], -5.5))
}

func TestFormat_ZeroOffsetIsPositive(t *testing.T) {
	got := Format(time.Date(2024, 2, 29, 13, 14, 15, 0, time.UTC), 0)
	assert.Equal(t, "2024-02-29T13:14:15+00:00", got)
}

func TestFormat_IgnoresInputLocation(t *testing.T) {
	loc := time.FixedZone("elsewhere", -3*60*60)
	instant := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).In(loc)
	assert.Equal(t, "2024-01-01T08:00:00+08:00", Format(instant, 8))
}

func TestFormat_CrossesDayBoundaries(t *testing.T) {
	assert.Equal(t, "2024-03-01T02:00:00+08:00", Format(time.Date(2024, 2, 29, 18, 0, 0, 0, time.UTC), 8))
	assert.Equal(t, "2023-12-31T20:00:00-10:00", Format(time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC), -10))
}

func TestOffset(t *testing.T) {
	cases := map[float64]string{
		8:     "+08:00",
		8.5:   "+08:30",
		5.75:  "+05:45",
		0:     "+00:00",
		-5.5:  "-05:30",
		-12:   "-12:00",
		14:    "+14:00",
		8.999: "+08:60",
	}
	for in, want := range cases {
		assert.Equal(t, want, Offset(in), "offset %v", in)
	}
}

func TestNow_MatchesLayout(t *testing.T) {
	got := Now(DefaultOffsetHours)
	require.Regexp(t, layout, got)
	assert.Regexp(t, `\+08:00$`, got)
}
