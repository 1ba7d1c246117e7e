package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RIT-ITS/DCVTool-sub002/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpandEvent_EmitsOneRowPerFlaggedWeekday(t *testing.T) {
	// Mon/Wed/Fri pattern over two full weeks starting on a Monday.
	e := &domain.ScheduleEvent{
		Strm:         2261,
		CourseID:     "CSCI-141",
		ClassSection: "01",
		CourseTitle:  "Computer Science I",
		FacilityID:   "GOL-1400",
		EnrlTot:      30,
		StartDate:    day(2026, 1, 12), // Monday
		EndDate:      day(2026, 1, 25), // Sunday two weeks on
		MeetingStart: "10:00",
		MeetingEnd:   "10:50",
		Mon:          1,
		Wed:          1,
		Fri:          1,
	}

	out := ExpandEvent(e, 3)

	require.Len(t, out, 6)
	for _, ev := range out {
		wd := ev.EventDate.Weekday()
		assert.Contains(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, wd)
		assert.Equal(t, int64(3), ev.BuildingID)
		assert.Equal(t, 2261, ev.Strm)
		assert.Equal(t, "10:00", ev.MeetingStart)
		assert.Equal(t, 0, ev.ExamFlag)
	}
	assert.Equal(t, day(2026, 1, 12), out[0].EventDate)
	assert.Equal(t, day(2026, 1, 23), out[5].EventDate)
}

func TestExpandEvent_NoFlaggedDaysEmitsNothing(t *testing.T) {
	e := &domain.ScheduleEvent{
		StartDate: day(2026, 1, 12),
		EndDate:   day(2026, 1, 25),
	}

	assert.Empty(t, ExpandEvent(e, 3))
}

func TestExpandEvent_ExamRowsIgnoreWeekdayFlags(t *testing.T) {
	// Exam rows are date-specific: every date in the range is emitted even
	// with all weekly flags clear.
	e := &domain.ScheduleEvent{
		Strm:      2261,
		CourseID:  "CSCI-141",
		StartDate: day(2026, 5, 4),
		EndDate:   day(2026, 5, 4),
		ExamFlag:  1,
	}

	out := ExpandEvent(e, 3)

	require.Len(t, out, 1)
	assert.Equal(t, day(2026, 5, 4), out[0].EventDate)
	assert.Equal(t, 1, out[0].ExamFlag)
}

func TestExpandEvent_SingleDayRangeRespectsFlag(t *testing.T) {
	e := &domain.ScheduleEvent{
		StartDate: day(2026, 1, 13), // Tuesday
		EndDate:   day(2026, 1, 13),
		Tue:       1,
	}

	out := ExpandEvent(e, 3)
	require.Len(t, out, 1)
	assert.Equal(t, day(2026, 1, 13), out[0].EventDate)
}
