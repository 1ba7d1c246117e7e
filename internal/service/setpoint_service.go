package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/RIT-ITS/DCVTool-sub002/internal/domain"
	"github.com/RIT-ITS/DCVTool-sub002/internal/repository"
)

// ErrBadDate marks malformed caller-supplied dates so the HTTP layer can
// answer 400 instead of 500.
var ErrBadDate = errors.New("invalid date")

// TransferMode selects what value a computed setpoint carries.
type TransferMode string

const (
	// TransferModeAirflow writes the breathing-zone OA requirement (cfm).
	TransferModeAirflow TransferMode = "airflow"
	// TransferModeOccupancy writes the zone's adjusted occupant count.
	TransferModeOccupancy TransferMode = "occupancy"
)

// SetpointService computes expected setpoint records and reconciles them
// against the BAS's setpoint-write log.
type SetpointService struct {
	bas         *repository.BasSetpointsRepo
	expanded    *repository.SetpointExpandedRepo
	xref        *repository.XrefRepo
	uncertainty *repository.UncertaintyRepo
	point       PointNamer
	loc         *time.Location
	logger      *zap.Logger
}

func NewSetpointService(
	bas *repository.BasSetpointsRepo,
	expanded *repository.SetpointExpandedRepo,
	xref *repository.XrefRepo,
	uncertainty *repository.UncertaintyRepo,
	point PointNamer,
	loc *time.Location,
	logger *zap.Logger,
) *SetpointService {
	return &SetpointService{
		bas:         bas,
		expanded:    expanded,
		xref:        xref,
		uncertainty: uncertainty,
		point:       point,
		loc:         loc,
		logger:      logger,
	}
}

// WriteRow is one BAS setpoint write with its zone cross-reference attached.
type WriteRow struct {
	Uname         string    `json:"uname"`
	EffectiveTime string    `json:"effectivetime"`
	Pv            float64   `json:"pv"`
	Dispatched    int       `json:"dispatched"`
	ZoneCode      string    `json:"zone_code"`
	Rooms         []RoomRef `json:"rooms"`
}

func (s *SetpointService) writeRows(ctx context.Context, recs []*domain.SetpointWriteRecord) ([]*WriteRow, error) {
	// The same zone code repeats across effective times; resolve each code
	// once.
	xrefByCode := map[string][]RoomRef{}

	out := make([]*WriteRow, 0, len(recs))
	for _, w := range recs {
		zoneCode := s.point.Strip(w.Uname)
		rooms, seen := xrefByCode[zoneCode]
		if !seen {
			pairs, err := s.xref.PairsForZoneCode(ctx, zoneCode)
			if err != nil {
				s.logger.Error("zone cross-reference lookup failed",
					zap.String("zone_code", zoneCode), zap.Error(err))
				return nil, err
			}
			rooms = []RoomRef{}
			for _, p := range pairs {
				rooms = append(rooms, RoomRef{
					RoomID:     p.Room.RoomID,
					RoomNumber: p.Room.RoomNumber,
					FacilityID: p.Room.FacilityID,
					PrPercent:  p.Xref.PrPercent,
					Active:     p.Room.Active,
				})
			}
			xrefByCode[zoneCode] = rooms
		}

		out = append(out, &WriteRow{
			Uname:         w.Uname,
			EffectiveTime: w.EffectiveTime.In(s.loc).Format("2006-01-02 15:04:05.000000"),
			Pv:            w.Pv,
			Dispatched:    w.Dispatched,
			ZoneCode:      zoneCode,
			Rooms:         rooms,
		})
	}
	return out, nil
}

// AllWrites reads the entire BAS write log, unbounded.
func (s *SetpointService) AllWrites(ctx context.Context) ([]*WriteRow, error) {
	recs, err := s.bas.AllWrites(ctx)
	if err != nil {
		s.logger.Error("setpoint write log read failed", zap.Error(err))
		return nil, err
	}
	return s.writeRows(ctx, recs)
}

// ParseWindow turns the endpoint's two date strings into the exclusive
// window bounds. endStr empty or the "0-0-0" sentinel defaults the window to
// the single named day. A malformed date is a terminal input error.
func (s *SetpointService) ParseWindow(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-1-2", startStr, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad start date %q", ErrBadDate, startStr)
	}
	if endStr == "" || endStr == "0-0-0" {
		return start, start.AddDate(0, 0, 1), nil
	}
	end, err := time.ParseInLocation("2006-1-2", endStr, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad end date %q", ErrBadDate, endStr)
	}
	return start, end, nil
}

// WritesWindow reads BAS writes with effectivetime strictly inside
// (start, end).
func (s *SetpointService) WritesWindow(ctx context.Context, startStr, endStr string) ([]*WriteRow, error) {
	start, end, err := s.ParseWindow(startStr, endStr)
	if err != nil {
		return nil, err
	}
	recs, err := s.bas.WritesBetween(ctx, start, end)
	if err != nil {
		s.logger.Error("setpoint write window read failed",
			zap.Time("start", start), zap.Time("end", end), zap.Error(err))
		return nil, err
	}
	return s.writeRows(ctx, recs)
}

// ExpandedRow is one computed setpoint with its registry context and its
// reconciled dispatch status.
type ExpandedRow struct {
	SetpointID    int64   `json:"setpoint_id"`
	ZoneID        int64   `json:"zone_id"`
	ZoneCode      string  `json:"zone_code"`
	ZoneName      string  `json:"zone_name"`
	Uname         string  `json:"uname"`
	BuildingID    int64   `json:"building_id"`
	FacilityID    string  `json:"facility_id"`
	Strm          int     `json:"strm"`
	EffectiveTime string  `json:"effectivetime"`
	Value         float64 `json:"value"`
	CourseTitle   string  `json:"course_title"`
	EnrlTot       int     `json:"enrl_tot"`
	RoomID        int64   `json:"room_id"`
	RoomNumber    string  `json:"room_number"`
	PrPercent     float64 `json:"pr_percent"`
	Category      string  `json:"category"`
	Dispatched    int     `json:"dispatched"`
}

func (s *SetpointService) expandedRows(ctx context.Context, recs []*repository.ExpandedJoinRow) ([]*ExpandedRow, error) {
	out := make([]*ExpandedRow, 0, len(recs))
	for _, w := range recs {
		// Per-row point lookup against the BAS write table. The output
		// contract allows batching this into one join; the write log is
		// small enough that the simple form has not hurt yet.
		uname := s.point.Compose(w.Setpoint.ZoneCode)
		dispatched, err := s.bas.DispatchedAt(ctx, uname, w.Setpoint.EffectiveTime)
		if err != nil {
			s.logger.Error("dispatch lookup failed",
				zap.String("uname", uname),
				zap.Time("effectivetime", w.Setpoint.EffectiveTime),
				zap.Error(err))
			return nil, err
		}

		out = append(out, &ExpandedRow{
			SetpointID:    w.Setpoint.SetpointID,
			ZoneID:        w.Setpoint.ZoneID,
			ZoneCode:      w.Setpoint.ZoneCode,
			ZoneName:      w.Setpoint.ZoneName,
			Uname:         uname,
			BuildingID:    w.Setpoint.BuildingID,
			FacilityID:    w.Setpoint.FacilityID,
			Strm:          w.Setpoint.Strm,
			EffectiveTime: w.Setpoint.EffectiveTime.In(s.loc).Format("2006-01-02 15:04:05.000000"),
			Value:         w.Setpoint.Value,
			CourseTitle:   w.Setpoint.CourseTitle,
			EnrlTot:       w.Setpoint.EnrlTot,
			RoomID:        w.Room.RoomID,
			RoomNumber:    w.Room.RoomNumber,
			PrPercent:     w.Xref.PrPercent,
			Category:      w.Ashrae.Category,
			Dispatched:    dispatched,
		})
	}
	return out, nil
}

// ExpandedAll reconciles every computed setpoint against the BAS write log.
func (s *SetpointService) ExpandedAll(ctx context.Context) ([]*ExpandedRow, error) {
	recs, err := s.expanded.JoinedAll(ctx)
	if err != nil {
		s.logger.Error("expanded setpoint read failed", zap.Error(err))
		return nil, err
	}
	return s.expandedRows(ctx, recs)
}

// ExpandedWindow reconciles computed setpoints in a date window.
func (s *SetpointService) ExpandedWindow(ctx context.Context, startStr, endStr string) ([]*ExpandedRow, error) {
	start, end, err := s.ParseWindow(startStr, endStr)
	if err != nil {
		return nil, err
	}
	recs, err := s.expanded.JoinedBetween(ctx, start, end)
	if err != nil {
		s.logger.Error("expanded setpoint window read failed",
			zap.Time("start", start), zap.Time("end", end), zap.Error(err))
		return nil, err
	}
	return s.expandedRows(ctx, recs)
}

// ComputeForBuilding produces the expected setpoint records for a building
// and term: one per scheduled occupancy event per zone, timestamped at the
// event start in the fixed zone. strm must already be resolved.
func (s *SetpointService) ComputeForBuilding(ctx context.Context, buildingID int64, strm int, mode TransferMode) ([]*domain.SetpointExpandedRecord, error) {
	rows, err := s.xref.EventRows(ctx, buildingID, strm)
	if err != nil {
		s.logger.Error("setpoint computation query failed",
			zap.Int64("building_id", buildingID),
			zap.Int("strm", strm),
			zap.Error(err))
		return nil, err
	}

	uncertaintyByRoom := map[int64]int{}
	out := make([]*domain.SetpointExpandedRecord, 0, len(rows))
	for _, w := range rows {
		amount, seen := uncertaintyByRoom[w.Room.RoomID]
		if !seen {
			amount, err = s.uncertainty.AmountForRoom(ctx, w.Room.RoomID)
			if err != nil {
				s.logger.Error("uncertainty lookup failed",
					zap.Int64("room_id", w.Room.RoomID), zap.Error(err))
				return nil, err
			}
			uncertaintyByRoom[w.Room.RoomID] = amount
		}

		effective, err := eventStart(w.Event.EventDate, w.Event.MeetingStart, s.loc)
		if err != nil {
			return nil, err
		}

		adjPop := w.Event.EnrlTot + amount
		// The room may cover only part of the zone.
		zonePop := float64(adjPop) * w.Xref.PrPercent / 100.0

		var value float64
		switch mode {
		case TransferModeOccupancy:
			value = zonePop
		default:
			value = w.Ashrae.PplOaRate*zonePop + w.Ashrae.AreaOaRate*w.Xref.XrefArea
		}

		out = append(out, &domain.SetpointExpandedRecord{
			ZoneID:        w.Zone.ZoneID,
			ZoneCode:      w.Zone.ZoneCode,
			ZoneName:      w.Zone.ZoneName,
			BuildingID:    buildingID,
			FacilityID:    w.Room.FacilityID,
			Strm:          strm,
			EffectiveTime: effective,
			Value:         value,
			CourseTitle:   w.Event.CourseTitle,
			EnrlTot:       w.Event.EnrlTot,
		})
	}
	return out, nil
}

// ValidateZoneCodes round-trips every zone code in a building through the
// point-name convention, surfacing codes that would strip ambiguously.
func (s *SetpointService) ValidateZoneCodes(ctx context.Context, rows []*repository.BuildingXrefRow) error {
	seen := map[string]bool{}
	for _, w := range rows {
		if seen[w.Zone.ZoneCode] {
			continue
		}
		seen[w.Zone.ZoneCode] = true
		if err := s.point.Validate(w.Zone.ZoneCode); err != nil {
			return err
		}
	}
	return nil
}

func eventStart(day time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad meeting time %q: %w", hhmm, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}
