package domain

import (
	"database/sql"
	"time"
)

// ScheduleEvent is one raw term-scoped meeting pattern pulled from the
// source-of-record: a weekly day-flag pattern over a date range. Rows are
// replaced wholesale per sync run, never hand-edited.
type ScheduleEvent struct {
	EventID      int64          `db:"event_id"`
	Strm         int            `db:"strm"`
	CourseID     string         `db:"course_id"`
	ClassSection string         `db:"class_section"`
	CourseTitle  string         `db:"course_title"`
	FacilityID   string         `db:"facility_id"`
	EnrlTot      int            `db:"enrl_tot"`
	StartDate    time.Time      `db:"start_date"`
	EndDate      time.Time      `db:"end_date"`
	MeetingStart string         `db:"meeting_start"` // "15:04"
	MeetingEnd   string         `db:"meeting_end"`
	Mon          int            `db:"mon"`
	Tue          int            `db:"tue"`
	Wed          int            `db:"wed"`
	Thu          int            `db:"thu"`
	Fri          int            `db:"fri"`
	Sat          int            `db:"sat"`
	Sun          int            `db:"sun"`
	ExamFlag     int            `db:"exam_flag"`
	BuildingID   sql.NullInt64  `db:"building_id"`
}

// ExpandedScheduleEvent is one concrete calendar-day occupancy interval
// produced by expanding a raw event's weekly pattern.
type ExpandedScheduleEvent struct {
	ExpandedID   int64     `db:"expanded_id" json:"expanded_id"`
	Strm         int       `db:"strm" json:"strm"`
	BuildingID   int64     `db:"building_id" json:"building_id"`
	CourseID     string    `db:"course_id" json:"course_id"`
	ClassSection string    `db:"class_section" json:"class_section"`
	CourseTitle  string    `db:"course_title" json:"course_title"`
	FacilityID   string    `db:"facility_id" json:"facility_id"`
	EnrlTot      int       `db:"enrl_tot" json:"enrl_tot"`
	EventDate    time.Time `db:"event_date" json:"event_date"`
	MeetingStart string    `db:"meeting_start" json:"meeting_start"`
	MeetingEnd   string    `db:"meeting_end" json:"meeting_end"`
	ExamFlag     int       `db:"exam_flag" json:"exam_flag"`
}
