package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newWindowService(t *testing.T) *SetpointService {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	point := NewPointNamer("#shared/rit/", "/occ_stpt")
	return NewSetpointService(nil, nil, nil, nil, point, loc, zap.NewNop())
}

func TestParseWindow_ExplicitBounds(t *testing.T) {
	s := newWindowService(t)

	start, end, err := s.ParseWindow("2026-1-5", "2026-1-9")

	require.NoError(t, err)
	assert.Equal(t, 2026, start.Year())
	assert.Equal(t, time.January, start.Month())
	assert.Equal(t, 5, start.Day())
	assert.Equal(t, 9, end.Day())
	assert.Equal(t, "America/New_York", start.Location().String())
}

func TestParseWindow_EmptyEndDefaultsToSingleDay(t *testing.T) {
	s := newWindowService(t)

	start, end, err := s.ParseWindow("2026-1-5", "")

	require.NoError(t, err)
	assert.Equal(t, start.AddDate(0, 0, 1), end)
}

func TestParseWindow_ZeroSentinelDefaultsToSingleDay(t *testing.T) {
	s := newWindowService(t)

	start, end, err := s.ParseWindow("2026-1-5", "0-0-0")

	require.NoError(t, err)
	assert.Equal(t, start.AddDate(0, 0, 1), end)
}

func TestParseWindow_BadStartIsInputError(t *testing.T) {
	s := newWindowService(t)

	_, _, err := s.ParseWindow("yesterday", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadDate)
}

func TestParseWindow_BadEndIsInputError(t *testing.T) {
	s := newWindowService(t)

	_, _, err := s.ParseWindow("2026-1-5", "2026-13-40")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadDate)
}

func TestEventStart_CombinesDateAndMeetingTime(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	got, err := eventStart(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), "14:30", loc)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 10, 14, 30, 0, 0, loc), got)
}

func TestEventStart_BadTime(t *testing.T) {
	loc := time.UTC

	_, err := eventStart(time.Date(2026, 2, 10, 0, 0, 0, 0, loc), "2pm", loc)
	require.Error(t, err)
}
