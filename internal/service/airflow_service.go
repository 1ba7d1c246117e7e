package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/RIT-ITS/DCVTool-sub002/internal/repository"
)

// AirflowService joins Room x Zone x AHU x AshraeCategory x Uncertainty into
// per-room/zone ventilation requirement snapshots, optionally keyed to the
// expanded academic schedule.
type AirflowService struct {
	xref        *repository.XrefRepo
	uncertainty *repository.UncertaintyRepo
	terms       *repository.TermsRepo
	logger      *zap.Logger
	loc         *time.Location
}

func NewAirflowService(
	xref *repository.XrefRepo,
	uncertainty *repository.UncertaintyRepo,
	terms *repository.TermsRepo,
	loc *time.Location,
	logger *zap.Logger,
) *AirflowService {
	return &AirflowService{
		xref:        xref,
		uncertainty: uncertainty,
		terms:       terms,
		loc:         loc,
		logger:      logger,
	}
}

// RoomRef / ZoneRef / PairRef are the nested cross-reference lists attached
// to every snapshot row; the admin UI renders relationship graphs from them.
type RoomRef struct {
	RoomID     int64   `json:"room_id"`
	RoomNumber string  `json:"room_number"`
	FacilityID string  `json:"facility_id"`
	PrPercent  float64 `json:"pr_percent"`
	Active     int     `json:"active"`
}

type ZoneRef struct {
	ZoneID    int64   `json:"zone_id"`
	ZoneCode  string  `json:"zone_code"`
	ZoneName  string  `json:"zone_name"`
	PrPercent float64 `json:"pr_percent"`
	Active    int     `json:"active"`
}

type PairRef struct {
	RoomID    int64   `json:"room_id"`
	ZoneID    int64   `json:"zone_id"`
	PrPercent float64 `json:"pr_percent"`
}

// XrefSnapshotRow is one row of the building cross-reference snapshot. All
// flag fields are 0/1 integers.
type XrefSnapshotRow struct {
	RoomID            int64     `json:"room_id"`
	FacilityID        string    `json:"facility_id"`
	RoomNumber        string    `json:"room_number"`
	Floor             string    `json:"floor"`
	Area              float64   `json:"area"`
	Population        int       `json:"population"`
	UncertaintyAmount int       `json:"uncertainty_amount"`
	RoomActive        int       `json:"room_active"`
	Reservable        int       `json:"reservable"`
	ZoneID            int64     `json:"zone_id"`
	ZoneCode          string    `json:"zone_code"`
	ZoneName          string    `json:"zone_name"`
	ZoneActive        int       `json:"zone_active"`
	OccSensor         int       `json:"occ_sensor"`
	AutoMode          int       `json:"auto_mode"`
	AhuID             int64     `json:"ahu_id"`
	AhuCode           string    `json:"ahu_code"`
	PrPercent         float64   `json:"pr_percent"`
	XrefArea          float64   `json:"xref_area"`
	XrefPopulation    int       `json:"xref_population"`
	Category          string    `json:"category"`
	AreaOaRate        float64   `json:"area_oa_rate"`
	PplOaRate         float64   `json:"ppl_oa_rate"`
	OccDensity        float64   `json:"occ_density"`
	OccStdbyAllowed   int       `json:"occ_stdby_allowed"`
	RoomsSameZone     []RoomRef `json:"rooms_same_zone"`
	ZonesSameRoom     []ZoneRef `json:"zones_same_room"`
	ZonePairs         []PairRef `json:"zone_pairs"`
}

// BuildingXref assembles the cross-reference snapshot for one building. The
// nested lists are resolved through the shared xref component and memoized
// per zone/room within the call, so repeated zones don't re-query.
func (s *AirflowService) BuildingXref(ctx context.Context, buildingID int64) ([]*XrefSnapshotRow, error) {
	rows, err := s.xref.BuildingRows(ctx, buildingID)
	if err != nil {
		s.logger.Error("building cross-reference query failed",
			zap.Int64("building_id", buildingID),
			zap.Error(err),
		)
		return nil, err
	}

	roomsByZone := map[int64][]RoomRef{}
	zonesByRoom := map[int64][]ZoneRef{}
	pairsByZone := map[int64][]PairRef{}

	out := make([]*XrefSnapshotRow, 0, len(rows))
	for _, w := range rows {
		if _, seen := roomsByZone[w.Zone.ZoneID]; !seen {
			pairs, err := s.xref.RoomsForZone(ctx, w.Zone.ZoneID)
			if err != nil {
				s.logger.Error("rooms-for-zone query failed",
					zap.Int64("zone_id", w.Zone.ZoneID), zap.Error(err))
				return nil, err
			}
			refs := []RoomRef{}
			prs := []PairRef{}
			for _, p := range pairs {
				refs = append(refs, RoomRef{
					RoomID:     p.Room.RoomID,
					RoomNumber: p.Room.RoomNumber,
					FacilityID: p.Room.FacilityID,
					PrPercent:  p.Xref.PrPercent,
					Active:     p.Room.Active,
				})
				prs = append(prs, PairRef{
					RoomID:    p.Xref.RoomID,
					ZoneID:    p.Xref.ZoneID,
					PrPercent: p.Xref.PrPercent,
				})
			}
			roomsByZone[w.Zone.ZoneID] = refs
			pairsByZone[w.Zone.ZoneID] = prs
		}
		if _, seen := zonesByRoom[w.Room.RoomID]; !seen {
			pairs, err := s.xref.ZonesForRoom(ctx, w.Room.RoomID)
			if err != nil {
				s.logger.Error("zones-for-room query failed",
					zap.Int64("room_id", w.Room.RoomID), zap.Error(err))
				return nil, err
			}
			refs := []ZoneRef{}
			for _, p := range pairs {
				refs = append(refs, ZoneRef{
					ZoneID:    p.Zone.ZoneID,
					ZoneCode:  p.Zone.ZoneCode,
					ZoneName:  p.Zone.ZoneName,
					PrPercent: p.Xref.PrPercent,
					Active:    p.Zone.Active,
				})
			}
			zonesByRoom[w.Room.RoomID] = refs
		}

		out = append(out, &XrefSnapshotRow{
			RoomID:            w.Room.RoomID,
			FacilityID:        w.Room.FacilityID,
			RoomNumber:        w.Room.RoomNumber,
			Floor:             w.Room.Floor.String,
			Area:              w.Room.Area,
			Population:        w.Room.Population,
			UncertaintyAmount: w.Room.UncertaintyAmount,
			RoomActive:        w.Room.Active,
			Reservable:        w.Room.Reservable,
			ZoneID:            w.Zone.ZoneID,
			ZoneCode:          w.Zone.ZoneCode,
			ZoneName:          w.Zone.ZoneName,
			ZoneActive:        w.Zone.Active,
			OccSensor:         w.Zone.OccSensor,
			AutoMode:          w.Zone.AutoMode,
			AhuID:             w.Ahu.AhuID,
			AhuCode:           w.Ahu.AhuCode,
			PrPercent:         w.Xref.PrPercent,
			XrefArea:          w.Xref.XrefArea,
			XrefPopulation:    w.Xref.XrefPopulation,
			Category:          w.Ashrae.Category,
			AreaOaRate:        w.Ashrae.AreaOaRate,
			PplOaRate:         w.Ashrae.PplOaRate,
			OccDensity:        w.Ashrae.OccDensity,
			OccStdbyAllowed:   w.Ashrae.OccStdbyAllowed,
			RoomsSameZone:     roomsByZone[w.Zone.ZoneID],
			ZonesSameRoom:     zonesByRoom[w.Room.RoomID],
			ZonePairs:         pairsByZone[w.Zone.ZoneID],
		})
	}
	return out, nil
}

// EventAirflowRow is one scheduled occupancy event with its ventilation
// requirement. Vbz is the breathing-zone outdoor airflow for the event's
// uncertainty-adjusted population: ppl_oa_rate*adjPop + area_oa_rate*area.
type EventAirflowRow struct {
	CourseID     string  `json:"course_id"`
	ClassSection string  `json:"class_section"`
	CourseTitle  string  `json:"course_title"`
	EventDate    string  `json:"event_date"`
	MeetingStart string  `json:"meeting_start"`
	MeetingEnd   string  `json:"meeting_end"`
	ExamFlag     int     `json:"exam_flag"`
	RoomID       int64   `json:"room_id"`
	RoomNumber   string  `json:"room_number"`
	FacilityID   string  `json:"facility_id"`
	ZoneID       int64   `json:"zone_id"`
	ZoneCode     string  `json:"zone_code"`
	AhuID        int64   `json:"ahu_id"`
	AhuCode      string  `json:"ahu_code"`
	EnrlTot      int     `json:"enrl_tot"`
	AdjPop       int     `json:"adj_pop"`
	PrPercent    float64 `json:"pr_percent"`
	AreaOaRate   float64 `json:"area_oa_rate"`
	PplOaRate    float64 `json:"ppl_oa_rate"`
	Vbz          float64 `json:"vbz"`
	OccSensor    int     `json:"occ_sensor"`
	AutoMode     int     `json:"auto_mode"`
}

// EventAirflow joins the expanded schedule for a term onto the building's
// cross-reference graph. strm <= 0 resolves the currently running term. The
// per-room uncertainty adjustment is fetched once per room and reused for
// every row in this result set.
func (s *AirflowService) EventAirflow(ctx context.Context, buildingID int64, strm int) ([]*EventAirflowRow, error) {
	if strm <= 0 {
		active, err := s.terms.ActiveTerm(ctx, time.Now().In(s.loc))
		if err != nil {
			s.logger.Error("active term resolution failed", zap.Error(err))
			return nil, err
		}
		strm = active
	}

	rows, err := s.xref.EventRows(ctx, buildingID, strm)
	if err != nil {
		s.logger.Error("event airflow query failed",
			zap.Int64("building_id", buildingID),
			zap.Int("strm", strm),
			zap.Error(err),
		)
		return nil, err
	}

	uncertaintyByRoom := map[int64]int{}
	out := make([]*EventAirflowRow, 0, len(rows))
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

		adjPop := w.Event.EnrlTot + amount
		vbz := w.Ashrae.PplOaRate*float64(adjPop) + w.Ashrae.AreaOaRate*w.Room.Area

		out = append(out, &EventAirflowRow{
			CourseID:     w.Event.CourseID,
			ClassSection: w.Event.ClassSection,
			CourseTitle:  w.Event.CourseTitle,
			EventDate:    w.Event.EventDate.Format("2006-01-02"),
			MeetingStart: w.Event.MeetingStart,
			MeetingEnd:   w.Event.MeetingEnd,
			ExamFlag:     w.Event.ExamFlag,
			RoomID:       w.Room.RoomID,
			RoomNumber:   w.Room.RoomNumber,
			FacilityID:   w.Room.FacilityID,
			ZoneID:       w.Zone.ZoneID,
			ZoneCode:     w.Zone.ZoneCode,
			AhuID:        w.Ahu.AhuID,
			AhuCode:      w.Ahu.AhuCode,
			EnrlTot:      w.Event.EnrlTot,
			AdjPop:       adjPop,
			PrPercent:    w.Xref.PrPercent,
			AreaOaRate:   w.Ashrae.AreaOaRate,
			PplOaRate:    w.Ashrae.PplOaRate,
			Vbz:          vbz,
			OccSensor:    w.Zone.OccSensor,
			AutoMode:     w.Zone.AutoMode,
		})
	}
	return out, nil
}
