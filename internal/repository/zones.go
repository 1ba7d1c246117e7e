package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/RIT-ITS/DCVTool-sub002/internal/domain"
)

type ZonesRepo struct {
	db *sql.DB
}

func NewZonesRepo(db *sql.DB) *ZonesRepo {
	return &ZonesRepo{db: db}
}

const zoneColumns = `
	zone_id, zone_code, zone_name, ahu_id, occ_sensor, auto_mode, active`

func scanZone(s interface{ Scan(...any) error }) (*domain.Zone, error) {
	var z domain.Zone
	err := s.Scan(&z.ZoneID, &z.ZoneCode, &z.ZoneName, &z.AhuID,
		&z.OccSensor, &z.AutoMode, &z.Active)
	if err != nil {
		return nil, err
	}
	return &z, nil
}

func (r *ZonesRepo) GetZone(ctx context.Context, zoneID int64) (*domain.Zone, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT`+zoneColumns+` FROM zones WHERE zone_id = $1`, zoneID)
	z, err := scanZone(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("zone %d: %w", zoneID, ErrNotFound)
		}
		return nil, err
	}
	return z, nil
}

func (r *ZonesRepo) GetZoneByCode(ctx context.Context, zoneCode string) (*domain.Zone, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT`+zoneColumns+` FROM zones WHERE zone_code = $1`, zoneCode)
	z, err := scanZone(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("zone code %s: %w", zoneCode, ErrNotFound)
		}
		return nil, err
	}
	return z, nil
}

// ListZones returns zones for one building (via the AHU that feeds them), or
// all zones when buildingID <= 0.
func (r *ZonesRepo) ListZones(ctx context.Context, buildingID int64) ([]*domain.Zone, error) {
	q := `SELECT` + zoneColumns + ` FROM zones`
	args := []any{}
	if buildingID > 0 {
		q = `
			SELECT z.zone_id, z.zone_code, z.zone_name, z.ahu_id,
			       z.occ_sensor, z.auto_mode, z.active
			FROM zones z
			JOIN ahus a ON z.ahu_id = a.ahu_id
			WHERE a.building_id = $1`
		args = append(args, buildingID)
	}
	q += ` ORDER BY zone_code`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Zone{}
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	return out, rows.Err()
}
