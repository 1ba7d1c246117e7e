package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/RIT-ITS/DCVTool-sub002/internal/domain"
)

// BasSetpointsRepo reads the BAS store's setpoint-write log. Strictly
// read-only: the BAS, not this pipeline, owns the dispatched flag.
type BasSetpointsRepo struct {
	db *sql.DB
}

func NewBasSetpointsRepo(db *sql.DB) *BasSetpointsRepo {
	return &BasSetpointsRepo{db: db}
}

const writeColumns = `uname, effectivetime, pv, dispatched`

func (r *BasSetpointsRepo) scanWrites(rows *sql.Rows) ([]*domain.SetpointWriteRecord, error) {
	defer rows.Close()
	out := []*domain.SetpointWriteRecord{}
	for rows.Next() {
		var w domain.SetpointWriteRecord
		if err := rows.Scan(&w.Uname, &w.EffectiveTime, &w.Pv, &w.Dispatched); err != nil {
			return nil, err
		}
		out = append(out, &w)
	}
	return out, rows.Err()
}

// AllWrites returns the full write log ordered by point name then effective
// time.
func (r *BasSetpointsRepo) AllWrites(ctx context.Context) ([]*domain.SetpointWriteRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+writeColumns+` FROM setpointwrite ORDER BY uname, effectivetime`)
	if err != nil {
		return nil, err
	}
	return r.scanWrites(rows)
}

// WritesBetween applies the strict window predicate: effectivetime > start
// AND effectivetime < end. Bounds are exclusive at the store's microsecond
// resolution.
func (r *BasSetpointsRepo) WritesBetween(ctx context.Context, start, end time.Time) ([]*domain.SetpointWriteRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+writeColumns+` FROM setpointwrite
		 WHERE effectivetime > $1 AND effectivetime < $2
		 ORDER BY uname, effectivetime`, start, end)
	if err != nil {
		return nil, err
	}
	return r.scanWrites(rows)
}

// DispatchedAt looks one point write up by (uname, effectivetime) and
// returns its dispatched flag; a missing row is simply "not dispatched".
func (r *BasSetpointsRepo) DispatchedAt(ctx context.Context, uname string, effectiveTime time.Time) (int, error) {
	var dispatched int
	err := r.db.QueryRowContext(ctx,
		`SELECT dispatched FROM setpointwrite
		 WHERE uname = $1 AND effectivetime = $2
		 LIMIT 1`, uname, effectiveTime).Scan(&dispatched)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	return dispatched, nil
}

// SetpointExpandedRepo owns the computed expanded-setpoint table in the
// Registry store.
type SetpointExpandedRepo struct {
	db *sql.DB
}

func NewSetpointExpandedRepo(db *sql.DB) *SetpointExpandedRepo {
	return &SetpointExpandedRepo{db: db}
}

// ReplaceForBuildingTerm materializes a fresh setpoint computation for one
// (building, term), replacing whatever the previous run produced.
func (r *SetpointExpandedRepo) ReplaceForBuildingTerm(ctx context.Context, buildingID int64, strm int, recs []*domain.SetpointExpandedRecord) (err error) {
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
		`DELETE FROM setpoint_expanded WHERE building_id = $1 AND strm = $2`,
		buildingID, strm); err != nil {
		return err
	}

	q := `
		INSERT INTO setpoint_expanded
			(zone_id, zone_code, zone_name, building_id, facility_id, strm,
			 effectivetime, value, course_title, enrl_tot)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	for _, s := range recs {
		_, err = tx.ExecContext(ctx, q,
			s.ZoneID, s.ZoneCode, s.ZoneName, s.BuildingID, s.FacilityID, s.Strm,
			s.EffectiveTime, s.Value, s.CourseTitle, s.EnrlTot)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ExpandedJoinRow is one computed setpoint joined back onto the registry
// graph, ready for reconciliation against the BAS write log.
type ExpandedJoinRow struct {
	Setpoint domain.SetpointExpandedRecord
	Zone     domain.Zone
	Room     domain.Room
	Xref     domain.RoomZoneXref
	Ashrae   domain.AshraeCategory
}

const expandedJoin = `
	SELECT
		s.setpoint_id, s.zone_id, s.zone_code, s.zone_name, s.building_id,
		s.facility_id, s.strm, s.effectivetime, s.value, s.course_title, s.enrl_tot,
		z.zone_id, z.zone_code, z.zone_name, z.ahu_id, z.occ_sensor, z.auto_mode, z.active,
		r.room_id, r.facility_id, r.building_id, r.floor, r.room_number, r.area,
		r.population, r.uncertainty_amount, r.ashrae_category_id, r.reservable, r.active,
		x.xref_id, x.room_id, x.zone_id, x.pr_percent, x.xref_area, x.xref_population,
		c.category_id, c.category, c.area_oa_rate, c.ppl_oa_rate, c.occ_density, c.occ_stdby_allowed
	FROM setpoint_expanded s
	JOIN zones z ON s.zone_id = z.zone_id
	JOIN room_zone_xref x ON z.zone_id = x.zone_id
	JOIN rooms r ON x.room_id = r.room_id
	JOIN ashrae_categories c ON r.ashrae_category_id = c.category_id`

func (r *SetpointExpandedRepo) scanJoined(rows *sql.Rows) ([]*ExpandedJoinRow, error) {
	defer rows.Close()
	out := []*ExpandedJoinRow{}
	for rows.Next() {
		var w ExpandedJoinRow
		err := rows.Scan(
			&w.Setpoint.SetpointID, &w.Setpoint.ZoneID, &w.Setpoint.ZoneCode,
			&w.Setpoint.ZoneName, &w.Setpoint.BuildingID, &w.Setpoint.FacilityID,
			&w.Setpoint.Strm, &w.Setpoint.EffectiveTime, &w.Setpoint.Value,
			&w.Setpoint.CourseTitle, &w.Setpoint.EnrlTot,
			&w.Zone.ZoneID, &w.Zone.ZoneCode, &w.Zone.ZoneName, &w.Zone.AhuID,
			&w.Zone.OccSensor, &w.Zone.AutoMode, &w.Zone.Active,
			&w.Room.RoomID, &w.Room.FacilityID, &w.Room.BuildingID, &w.Room.Floor,
			&w.Room.RoomNumber, &w.Room.Area, &w.Room.Population,
			&w.Room.UncertaintyAmount, &w.Room.AshraeCategoryID, &w.Room.Reservable,
			&w.Room.Active,
			&w.Xref.XrefID, &w.Xref.RoomID, &w.Xref.ZoneID, &w.Xref.PrPercent,
			&w.Xref.XrefArea, &w.Xref.XrefPopulation,
			&w.Ashrae.CategoryID, &w.Ashrae.Category, &w.Ashrae.AreaOaRate,
			&w.Ashrae.PplOaRate, &w.Ashrae.OccDensity, &w.Ashrae.OccStdbyAllowed,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, &w)
	}
	return out, rows.Err()
}

func (r *SetpointExpandedRepo) JoinedAll(ctx context.Context) ([]*ExpandedJoinRow, error) {
	rows, err := r.db.QueryContext(ctx,
		expandedJoin+` ORDER BY s.zone_code, s.effectivetime`)
	if err != nil {
		return nil, err
	}
	return r.scanJoined(rows)
}

func (r *SetpointExpandedRepo) JoinedBetween(ctx context.Context, start, end time.Time) ([]*ExpandedJoinRow, error) {
	rows, err := r.db.QueryContext(ctx,
		expandedJoin+`
	WHERE s.effectivetime > $1 AND s.effectivetime < $2
	ORDER BY s.zone_code, s.effectivetime`, start, end)
	if err != nil {
		return nil, err
	}
	return r.scanJoined(rows)
}
