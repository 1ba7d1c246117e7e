package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/RIT-ITS/DCVTool-sub002/internal/domain"
	"github.com/RIT-ITS/DCVTool-sub002/internal/repository"
)

// ScheduleService converts term-long weekly schedules into flat daily
// occupancy events and materializes computed setpoints. Every operation is
// idempotent against its (building, term) pair: re-running replaces prior
// rows instead of duplicating them.
type ScheduleService struct {
	sis       *SISClient
	schedule  *repository.ScheduleRepo
	expanded  *repository.SetpointExpandedRepo
	setpoints *SetpointService
	logger    *zap.Logger
}

func NewScheduleService(
	sis *SISClient,
	schedule *repository.ScheduleRepo,
	expanded *repository.SetpointExpandedRepo,
	setpoints *SetpointService,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		sis:       sis,
		schedule:  schedule,
		expanded:  expanded,
		setpoints: setpoints,
		logger:    logger,
	}
}

// SyncClassSchedule pulls the term's class meeting patterns from the
// source-of-record and replaces the raw schedule slice for the term.
func (s *ScheduleService) SyncClassSchedule(ctx context.Context, strm int) error {
	events, err := s.sis.FetchClassSchedule(ctx, strm)
	if err != nil {
		return err
	}
	if err := s.schedule.ReplaceRawForTerm(ctx, strm, 0, events); err != nil {
		s.logger.Error("raw class schedule replace failed",
			zap.Int("strm", strm), zap.Error(err))
		return err
	}
	s.logger.Info("class schedule synced",
		zap.Int("strm", strm), zap.Int("rows", len(events)))
	return nil
}

// SyncExamSchedule pulls the term's exam schedule and replaces the raw exam
// slice. Exam rows are date-specific, so the weekly day flags are ignored
// during expansion.
func (s *ScheduleService) SyncExamSchedule(ctx context.Context, strm int) error {
	events, err := s.sis.FetchExamSchedule(ctx, strm)
	if err != nil {
		return err
	}
	if err := s.schedule.ReplaceRawForTerm(ctx, strm, 1, events); err != nil {
		s.logger.Error("raw exam schedule replace failed",
			zap.Int("strm", strm), zap.Error(err))
		return err
	}
	s.logger.Info("exam schedule synced",
		zap.Int("strm", strm), zap.Int("rows", len(events)))
	return nil
}

// ExpandClassSchedule turns one building's raw weekly patterns into daily
// events for the term.
func (s *ScheduleService) ExpandClassSchedule(ctx context.Context, buildingID int64, strm int) error {
	return s.expand(ctx, buildingID, strm, 0)
}

// ExpandExamSchedule does the same for the exam slice.
func (s *ScheduleService) ExpandExamSchedule(ctx context.Context, buildingID int64, strm int) error {
	return s.expand(ctx, buildingID, strm, 1)
}

func (s *ScheduleService) expand(ctx context.Context, buildingID int64, strm int, examFlag int) error {
	raw, err := s.schedule.RawForTermBuilding(ctx, strm, buildingID, examFlag)
	if err != nil {
		s.logger.Error("raw schedule read failed",
			zap.Int64("building_id", buildingID),
			zap.Int("strm", strm),
			zap.Error(err))
		return err
	}

	daily := []*domain.ExpandedScheduleEvent{}
	for _, e := range raw {
		daily = append(daily, ExpandEvent(e, buildingID)...)
	}

	if err := s.schedule.ReplaceExpanded(ctx, buildingID, strm, examFlag, daily); err != nil {
		s.logger.Error("expanded schedule replace failed",
			zap.Int64("building_id", buildingID),
			zap.Int("strm", strm),
			zap.Error(err))
		return err
	}
	s.logger.Info("schedule expanded",
		zap.Int64("building_id", buildingID),
		zap.Int("strm", strm),
		zap.Int("exam_flag", examFlag),
		zap.Int("raw", len(raw)),
		zap.Int("daily", len(daily)))
	return nil
}

// PushSetpoints materializes the computed setpoints for a building into the
// expanded-setpoint table using the given transfer mode.
func (s *ScheduleService) PushSetpoints(ctx context.Context, buildingID int64, strm int, mode TransferMode) error {
	recs, err := s.setpoints.ComputeForBuilding(ctx, buildingID, strm, mode)
	if err != nil {
		return err
	}
	if err := s.expanded.ReplaceForBuildingTerm(ctx, buildingID, strm, recs); err != nil {
		s.logger.Error("setpoint materialization failed",
			zap.Int64("building_id", buildingID),
			zap.Int("strm", strm),
			zap.Error(err))
		return err
	}
	s.logger.Info("setpoints pushed",
		zap.Int64("building_id", buildingID),
		zap.Int("strm", strm),
		zap.String("mode", string(mode)),
		zap.Int("rows", len(recs)))
	return nil
}

// ExpandEvent flattens one raw event into per-day rows. Class rows emit one
// row for each date in [StartDate, EndDate] whose weekday flag is set; exam
// rows are date-specific and emit every date in the range.
func ExpandEvent(e *domain.ScheduleEvent, buildingID int64) []*domain.ExpandedScheduleEvent {
	dayOn := map[time.Weekday]bool{
		time.Monday:    e.Mon == 1,
		time.Tuesday:   e.Tue == 1,
		time.Wednesday: e.Wed == 1,
		time.Thursday:  e.Thu == 1,
		time.Friday:    e.Fri == 1,
		time.Saturday:  e.Sat == 1,
		time.Sunday:    e.Sun == 1,
	}

	out := []*domain.ExpandedScheduleEvent{}
	for d := e.StartDate; !d.After(e.EndDate); d = d.AddDate(0, 0, 1) {
		if e.ExamFlag == 0 && !dayOn[d.Weekday()] {
			continue
		}
		out = append(out, &domain.ExpandedScheduleEvent{
			Strm:         e.Strm,
			BuildingID:   buildingID,
			CourseID:     e.CourseID,
			ClassSection: e.ClassSection,
			CourseTitle:  e.CourseTitle,
			FacilityID:   e.FacilityID,
			EnrlTot:      e.EnrlTot,
			EventDate:    d,
			MeetingStart: e.MeetingStart,
			MeetingEnd:   e.MeetingEnd,
			ExamFlag:     e.ExamFlag,
		})
	}
	return out
}
