package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/RIT-ITS/DCVTool-sub002/internal/domain"
)

// sisMeeting is one meeting pattern as the source-of-record returns it.
type sisMeeting struct {
	Strm         int    `json:"strm"`
	CourseID     string `json:"course_id"`
	ClassSection string `json:"class_section"`
	CourseTitle  string `json:"course_title"`
	FacilityID   string `json:"facility_id"`
	EnrlTot      int    `json:"enrl_tot"`
	StartDate    string `json:"start_dt"` // "2006-01-02"
	EndDate      string `json:"end_dt"`
	MeetingStart string `json:"meeting_time_start"` // "15:04"
	MeetingEnd   string `json:"meeting_time_end"`
	Mon          bool   `json:"mon"`
	Tue          bool   `json:"tues"`
	Wed          bool   `json:"wed"`
	Thu          bool   `json:"thurs"`
	Fri          bool   `json:"fri"`
	Sat          bool   `json:"sat"`
	Sun          bool   `json:"sun"`
}

type sisResponse struct {
	Status int             `json:"status"`
	Msg    string          `json:"msg"`
	Data   json.RawMessage `json:"data"`
}

// SISClient pulls term schedules from the academic source-of-record.
type SISClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewSISClient(baseURL, apiKey string, logger *zap.Logger) *SISClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(60 * time.Second). // a term feed can be large
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("Authorization", "Bearer "+apiKey)

	return &SISClient{httpClient: client, logger: logger}
}

// FetchClassSchedule pulls the weekly class meeting patterns for a term.
func (c *SISClient) FetchClassSchedule(ctx context.Context, strm int) ([]*domain.ScheduleEvent, error) {
	return c.fetch(ctx, "/schedule/classes", strm, 0)
}

// FetchExamSchedule pulls the exam schedule for a term. Exam rows are
// date-specific: start and end dates are the single exam day.
func (c *SISClient) FetchExamSchedule(ctx context.Context, strm int) ([]*domain.ScheduleEvent, error) {
	return c.fetch(ctx, "/schedule/exams", strm, 1)
}

func (c *SISClient) fetch(ctx context.Context, path string, strm int, examFlag int) ([]*domain.ScheduleEvent, error) {
	c.logger.Info("Calling SIS schedule API",
		zap.String("path", path),
		zap.Int("strm", strm),
	)

	var response sisResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("strm", fmt.Sprintf("%d", strm)).
		SetResult(&response).
		Get(path)
	if err != nil {
		c.logger.Error("SIS API call failed",
			zap.Error(err),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, fmt.Errorf("failed to call SIS API: %w", err)
	}
	if response.Status != 0 {
		c.logger.Error("SIS API returned error",
			zap.Int("status", response.Status),
			zap.String("msg", response.Msg),
		)
		return nil, fmt.Errorf("SIS API error: %s (status: %d)", response.Msg, response.Status)
	}

	var meetings []sisMeeting
	if err := json.Unmarshal(response.Data, &meetings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal SIS meetings: %w", err)
	}

	events := make([]*domain.ScheduleEvent, 0, len(meetings))
	for _, m := range meetings {
		e, err := meetingToEvent(m, examFlag)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	c.logger.Info("Retrieved schedule rows from SIS",
		zap.Int("strm", strm),
		zap.Int("rows", len(events)),
	)
	return events, nil
}

func meetingToEvent(m sisMeeting, examFlag int) (*domain.ScheduleEvent, error) {
	start, err := time.Parse("2006-01-02", m.StartDate)
	if err != nil {
		return nil, fmt.Errorf("bad start date %q for %s: %w", m.StartDate, m.CourseID, err)
	}
	end, err := time.Parse("2006-01-02", m.EndDate)
	if err != nil {
		return nil, fmt.Errorf("bad end date %q for %s: %w", m.EndDate, m.CourseID, err)
	}

	return &domain.ScheduleEvent{
		Strm:         m.Strm,
		CourseID:     m.CourseID,
		ClassSection: m.ClassSection,
		CourseTitle:  m.CourseTitle,
		FacilityID:   m.FacilityID,
		EnrlTot:      m.EnrlTot,
		StartDate:    start,
		EndDate:      end,
		MeetingStart: m.MeetingStart,
		MeetingEnd:   m.MeetingEnd,
		Mon:          boolToInt(m.Mon),
		Tue:          boolToInt(m.Tue),
		Wed:          boolToInt(m.Wed),
		Thu:          boolToInt(m.Thu),
		Fri:          boolToInt(m.Fri),
		Sat:          boolToInt(m.Sat),
		Sun:          boolToInt(m.Sun),
		ExamFlag:     examFlag,
	}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
