package repository

import (
	"context"
	"database/sql"

	"github.com/RIT-ITS/DCVTool-sub002/internal/domain"
)

// XrefRepo holds every room-zone cross-reference query. The room and zone
// sides both depend on this one dependency-free component, which is what
// keeps the dependency graph acyclic.
type XrefRepo struct {
	db *sql.DB
}

func NewXrefRepo(db *sql.DB) *XrefRepo {
	return &XrefRepo{db: db}
}

// RoomZonePair is one xref row with both endpoints resolved.
type RoomZonePair struct {
	Xref domain.RoomZoneXref
	Room domain.Room
	Zone domain.Zone
}

const pairColumns = `
	x.xref_id, x.room_id, x.zone_id, x.pr_percent, x.xref_area, x.xref_population,
	r.room_id, r.facility_id, r.building_id, r.floor, r.room_number, r.area,
	r.population, r.uncertainty_amount, r.ashrae_category_id, r.reservable, r.active,
	z.zone_id, z.zone_code, z.zone_name, z.ahu_id, z.occ_sensor, z.auto_mode, z.active`

func scanPair(s interface{ Scan(...any) error }) (*RoomZonePair, error) {
	var p RoomZonePair
	err := s.Scan(
		&p.Xref.XrefID, &p.Xref.RoomID, &p.Xref.ZoneID, &p.Xref.PrPercent,
		&p.Xref.XrefArea, &p.Xref.XrefPopulation,
		&p.Room.RoomID, &p.Room.FacilityID, &p.Room.BuildingID, &p.Room.Floor,
		&p.Room.RoomNumber, &p.Room.Area, &p.Room.Population,
		&p.Room.UncertaintyAmount, &p.Room.AshraeCategoryID, &p.Room.Reservable,
		&p.Room.Active,
		&p.Zone.ZoneID, &p.Zone.ZoneCode, &p.Zone.ZoneName, &p.Zone.AhuID,
		&p.Zone.OccSensor, &p.Zone.AutoMode, &p.Zone.Active,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *XrefRepo) queryPairs(ctx context.Context, where string, args ...any) ([]*RoomZonePair, error) {
	q := `
		SELECT` + pairColumns + `
		FROM room_zone_xref x
		JOIN rooms r ON x.room_id = r.room_id
		JOIN zones z ON x.zone_id = z.zone_id
		WHERE ` + where + `
		ORDER BY x.xref_id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*RoomZonePair{}
	for rows.Next() {
		p, err := scanPair(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// RoomsForZone lists every room feeding the given zone.
func (r *XrefRepo) RoomsForZone(ctx context.Context, zoneID int64) ([]*RoomZonePair, error) {
	return r.queryPairs(ctx, `x.zone_id = $1`, zoneID)
}

// ZonesForRoom lists every zone fed by the given room.
func (r *XrefRepo) ZonesForRoom(ctx context.Context, roomID int64) ([]*RoomZonePair, error) {
	return r.queryPairs(ctx, `x.room_id = $1`, roomID)
}

// PairsForZoneCode resolves the cross-reference set for a BAS zone code.
func (r *XrefRepo) PairsForZoneCode(ctx context.Context, zoneCode string) ([]*RoomZonePair, error) {
	return r.queryPairs(ctx, `z.zone_code = $1`, zoneCode)
}

// BuildingXrefRow is one row of the building cross-reference snapshot:
// Room x Zone x Xref x AshraeCategory x AHU for one building.
type BuildingXrefRow struct {
	Room   domain.Room
	Zone   domain.Zone
	Xref   domain.RoomZoneXref
	Ashrae domain.AshraeCategory
	Ahu    domain.Ahu
}

// BuildingRows runs the top-level join for the cross-reference snapshot.
// The nested per-row lists are resolved by the service via RoomsForZone /
// ZonesForRoom.
func (r *XrefRepo) BuildingRows(ctx context.Context, buildingID int64) ([]*BuildingXrefRow, error) {
	q := `
		SELECT
			r.room_id, r.facility_id, r.building_id, r.floor, r.room_number, r.area,
			r.population, r.uncertainty_amount, r.ashrae_category_id, r.reservable, r.active,
			z.zone_id, z.zone_code, z.zone_name, z.ahu_id, z.occ_sensor, z.auto_mode, z.active,
			x.xref_id, x.room_id, x.zone_id, x.pr_percent, x.xref_area, x.xref_population,
			c.category_id, c.category, c.area_oa_rate, c.ppl_oa_rate, c.occ_density, c.occ_stdby_allowed,
			a.ahu_id, a.ahu_code, a.ahu_name, a.building_id, a.active
		FROM rooms r
		JOIN room_zone_xref x ON r.room_id = x.room_id
		JOIN zones z ON x.zone_id = z.zone_id
		JOIN ashrae_categories c ON r.ashrae_category_id = c.category_id
		JOIN ahus a ON z.ahu_id = a.ahu_id
		WHERE r.building_id = $1
		ORDER BY r.room_number, z.zone_code`
	rows, err := r.db.QueryContext(ctx, q, buildingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*BuildingXrefRow{}
	for rows.Next() {
		var w BuildingXrefRow
		err := rows.Scan(
			&w.Room.RoomID, &w.Room.FacilityID, &w.Room.BuildingID, &w.Room.Floor,
			&w.Room.RoomNumber, &w.Room.Area, &w.Room.Population,
			&w.Room.UncertaintyAmount, &w.Room.AshraeCategoryID, &w.Room.Reservable,
			&w.Room.Active,
			&w.Zone.ZoneID, &w.Zone.ZoneCode, &w.Zone.ZoneName, &w.Zone.AhuID,
			&w.Zone.OccSensor, &w.Zone.AutoMode, &w.Zone.Active,
			&w.Xref.XrefID, &w.Xref.RoomID, &w.Xref.ZoneID, &w.Xref.PrPercent,
			&w.Xref.XrefArea, &w.Xref.XrefPopulation,
			&w.Ashrae.CategoryID, &w.Ashrae.Category, &w.Ashrae.AreaOaRate,
			&w.Ashrae.PplOaRate, &w.Ashrae.OccDensity, &w.Ashrae.OccStdbyAllowed,
			&w.Ahu.AhuID, &w.Ahu.AhuCode, &w.Ahu.AhuName, &w.Ahu.BuildingID,
			&w.Ahu.Active,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, &w)
	}
	return out, rows.Err()
}

// EventAirflowRow is one scheduled occupancy event joined onto the
// room/zone/AHU/category graph.
type EventAirflowRow struct {
	Event  domain.ExpandedScheduleEvent
	Room   domain.Room
	Zone   domain.Zone
	Xref   domain.RoomZoneXref
	Ashrae domain.AshraeCategory
	Ahu    domain.Ahu
}

// EventRows joins the expanded schedule for one term onto the building's
// cross-reference graph, ordered by course title for deterministic grouping.
func (r *XrefRepo) EventRows(ctx context.Context, buildingID int64, strm int) ([]*EventAirflowRow, error) {
	q := `
		SELECT
			e.expanded_id, e.strm, e.building_id, e.course_id, e.class_section,
			e.course_title, e.facility_id, e.enrl_tot, e.event_date,
			e.meeting_start, e.meeting_end, e.exam_flag,
			r.room_id, r.facility_id, r.building_id, r.floor, r.room_number, r.area,
			r.population, r.uncertainty_amount, r.ashrae_category_id, r.reservable, r.active,
			z.zone_id, z.zone_code, z.zone_name, z.ahu_id, z.occ_sensor, z.auto_mode, z.active,
			x.xref_id, x.room_id, x.zone_id, x.pr_percent, x.xref_area, x.xref_population,
			c.category_id, c.category, c.area_oa_rate, c.ppl_oa_rate, c.occ_density, c.occ_stdby_allowed,
			a.ahu_id, a.ahu_code, a.ahu_name, a.building_id, a.active
		FROM schedule_events_expanded e
		JOIN rooms r ON e.facility_id = r.facility_id
		JOIN room_zone_xref x ON r.room_id = x.room_id
		JOIN zones z ON x.zone_id = z.zone_id
		JOIN ashrae_categories c ON r.ashrae_category_id = c.category_id
		JOIN ahus a ON z.ahu_id = a.ahu_id
		WHERE e.building_id = $1 AND e.strm = $2
		ORDER BY e.course_title, e.event_date, e.meeting_start`
	rows, err := r.db.QueryContext(ctx, q, buildingID, strm)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*EventAirflowRow{}
	for rows.Next() {
		var w EventAirflowRow
		err := rows.Scan(
			&w.Event.ExpandedID, &w.Event.Strm, &w.Event.BuildingID,
			&w.Event.CourseID, &w.Event.ClassSection, &w.Event.CourseTitle,
			&w.Event.FacilityID, &w.Event.EnrlTot, &w.Event.EventDate,
			&w.Event.MeetingStart, &w.Event.MeetingEnd, &w.Event.ExamFlag,
			&w.Room.RoomID, &w.Room.FacilityID, &w.Room.BuildingID, &w.Room.Floor,
			&w.Room.RoomNumber, &w.Room.Area, &w.Room.Population,
			&w.Room.UncertaintyAmount, &w.Room.AshraeCategoryID, &w.Room.Reservable,
			&w.Room.Active,
			&w.Zone.ZoneID, &w.Zone.ZoneCode, &w.Zone.ZoneName, &w.Zone.AhuID,
			&w.Zone.OccSensor, &w.Zone.AutoMode, &w.Zone.Active,
			&w.Xref.XrefID, &w.Xref.RoomID, &w.Xref.ZoneID, &w.Xref.PrPercent,
			&w.Xref.XrefArea, &w.Xref.XrefPopulation,
			&w.Ashrae.CategoryID, &w.Ashrae.Category, &w.Ashrae.AreaOaRate,
			&w.Ashrae.PplOaRate, &w.Ashrae.OccDensity, &w.Ashrae.OccStdbyAllowed,
			&w.Ahu.AhuID, &w.Ahu.AhuCode, &w.Ahu.AhuName, &w.Ahu.BuildingID,
			&w.Ahu.Active,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, &w)
	}
	return out, rows.Err()
}
