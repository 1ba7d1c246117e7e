package repository

import (
	"context"
	"database/sql"

	"github.com/RIT-ITS/DCVTool-sub002/internal/domain"
)

// ScheduleRepo owns the raw and expanded schedule-event tables. Rows are
// replaced wholesale per sync run; there is no row-level editing.
type ScheduleRepo struct {
	db *sql.DB
}

func NewScheduleRepo(db *sql.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

// ReplaceRawForTerm swaps the raw schedule for one (term, exam-flag) slice in
// a single transaction: re-running a sync replaces rather than duplicates.
func (r *ScheduleRepo) ReplaceRawForTerm(ctx context.Context, strm int, examFlag int, events []*domain.ScheduleEvent) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM schedule_events WHERE strm = $1 AND exam_flag = $2`, strm, examFlag); err != nil {
		return err
	}

	q := `
		INSERT INTO schedule_events
			(strm, course_id, class_section, course_title, facility_id, enrl_tot,
			 start_date, end_date, meeting_start, meeting_end,
			 mon, tue, wed, thu, fri, sat, sun, exam_flag)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	for _, e := range events {
		_, err = tx.ExecContext(ctx, q,
			e.Strm, e.CourseID, e.ClassSection, e.CourseTitle, e.FacilityID, e.EnrlTot,
			e.StartDate, e.EndDate, e.MeetingStart, e.MeetingEnd,
			e.Mon, e.Tue, e.Wed, e.Thu, e.Fri, e.Sat, e.Sun, e.ExamFlag)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RawForTermBuilding returns raw events for a term whose facility resolves to
// a room in the given building.
func (r *ScheduleRepo) RawForTermBuilding(ctx context.Context, strm int, buildingID int64, examFlag int) ([]*domain.ScheduleEvent, error) {
	q := `
		SELECT e.event_id, e.strm, e.course_id, e.class_section, e.course_title,
		       e.facility_id, e.enrl_tot, e.start_date, e.end_date,
		       e.meeting_start, e.meeting_end,
		       e.mon, e.tue, e.wed, e.thu, e.fri, e.sat, e.sun, e.exam_flag,
		       r.building_id
		FROM schedule_events e
		JOIN rooms r ON e.facility_id = r.facility_id
		WHERE e.strm = $1 AND r.building_id = $2 AND e.exam_flag = $3
		ORDER BY e.event_id`
	rows, err := r.db.QueryContext(ctx, q, strm, buildingID, examFlag)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.ScheduleEvent{}
	for rows.Next() {
		var e domain.ScheduleEvent
		err := rows.Scan(&e.EventID, &e.Strm, &e.CourseID, &e.ClassSection,
			&e.CourseTitle, &e.FacilityID, &e.EnrlTot, &e.StartDate, &e.EndDate,
			&e.MeetingStart, &e.MeetingEnd,
			&e.Mon, &e.Tue, &e.Wed, &e.Thu, &e.Fri, &e.Sat, &e.Sun, &e.ExamFlag,
			&e.BuildingID)
		if err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// RawForTerm returns every raw event for a term regardless of building.
func (r *ScheduleRepo) RawForTerm(ctx context.Context, strm int) ([]*domain.ScheduleEvent, error) {
	q := `
		SELECT event_id, strm, course_id, class_section, course_title,
		       facility_id, enrl_tot, start_date, end_date,
		       meeting_start, meeting_end,
		       mon, tue, wed, thu, fri, sat, sun, exam_flag,
		       NULL::bigint
		FROM schedule_events
		WHERE strm = $1
		ORDER BY event_id`
	rows, err := r.db.QueryContext(ctx, q, strm)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.ScheduleEvent{}
	for rows.Next() {
		var e domain.ScheduleEvent
		err := rows.Scan(&e.EventID, &e.Strm, &e.CourseID, &e.ClassSection,
			&e.CourseTitle, &e.FacilityID, &e.EnrlTot, &e.StartDate, &e.EndDate,
			&e.MeetingStart, &e.MeetingEnd,
			&e.Mon, &e.Tue, &e.Wed, &e.Thu, &e.Fri, &e.Sat, &e.Sun, &e.ExamFlag,
			&e.BuildingID)
		if err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// ReplaceExpanded makes expansion idempotent against (building, term,
// exam-flag): prior expanded rows for the tuple are dropped before insert,
// all in one transaction.
func (r *ScheduleRepo) ReplaceExpanded(ctx context.Context, buildingID int64, strm int, examFlag int, events []*domain.ExpandedScheduleEvent) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM schedule_events_expanded
		 WHERE building_id = $1 AND strm = $2 AND exam_flag = $3`,
		buildingID, strm, examFlag); err != nil {
		return err
	}

	q := `
		INSERT INTO schedule_events_expanded
			(strm, building_id, course_id, class_section, course_title,
			 facility_id, enrl_tot, event_date, meeting_start, meeting_end, exam_flag)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	for _, e := range events {
		_, err = tx.ExecContext(ctx, q,
			e.Strm, e.BuildingID, e.CourseID, e.ClassSection, e.CourseTitle,
			e.FacilityID, e.EnrlTot, e.EventDate, e.MeetingStart, e.MeetingEnd, e.ExamFlag)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ExpandedForTerm lists expanded daily events for a building and term.
func (r *ScheduleRepo) ExpandedForTerm(ctx context.Context, buildingID int64, strm int) ([]*domain.ExpandedScheduleEvent, error) {
	q := `
		SELECT expanded_id, strm, building_id, course_id, class_section,
		       course_title, facility_id, enrl_tot, event_date,
		       meeting_start, meeting_end, exam_flag
		FROM schedule_events_expanded
		WHERE building_id = $1 AND strm = $2
		ORDER BY event_date, meeting_start, course_title`
	rows, err := r.db.QueryContext(ctx, q, buildingID, strm)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.ExpandedScheduleEvent{}
	for rows.Next() {
		var e domain.ExpandedScheduleEvent
		err := rows.Scan(&e.ExpandedID, &e.Strm, &e.BuildingID, &e.CourseID,
			&e.ClassSection, &e.CourseTitle, &e.FacilityID, &e.EnrlTot,
			&e.EventDate, &e.MeetingStart, &e.MeetingEnd, &e.ExamFlag)
		if err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
