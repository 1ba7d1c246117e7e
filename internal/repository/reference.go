package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/RIT-ITS/DCVTool-sub002/internal/domain"
)

// ReferenceRepo serves the read-only lookup tables: buildings, campuses,
// AHUs and the ASHRAE 62.1 category table. Their admin CRUD lives outside
// this service; the importer in cmd/load-ashrae is the only writer here.
type ReferenceRepo struct {
	db *sql.DB
}

func NewReferenceRepo(db *sql.DB) *ReferenceRepo {
	return &ReferenceRepo{db: db}
}

func (r *ReferenceRepo) ListBuildings(ctx context.Context, campusID int64) ([]*domain.Building, error) {
	q := `SELECT building_id, campus_id, building_code, building_name, active FROM buildings`
	args := []any{}
	if campusID > 0 {
		q += ` WHERE campus_id = $1`
		args = append(args, campusID)
	}
	q += ` ORDER BY building_code`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Building{}
	for rows.Next() {
		var b domain.Building
		if err := rows.Scan(&b.BuildingID, &b.CampusID, &b.BuildingCode, &b.BuildingName, &b.Active); err != nil {
			return nil, err
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

func (r *ReferenceRepo) GetBuilding(ctx context.Context, buildingID int64) (*domain.Building, error) {
	var b domain.Building
	err := r.db.QueryRowContext(ctx,
		`SELECT building_id, campus_id, building_code, building_name, active
		 FROM buildings WHERE building_id = $1`, buildingID).
		Scan(&b.BuildingID, &b.CampusID, &b.BuildingCode, &b.BuildingName, &b.Active)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("building %d: %w", buildingID, ErrNotFound)
		}
		return nil, err
	}
	return &b, nil
}

// ActiveBuildings is what the dispatcher iterates for per-building operations.
func (r *ReferenceRepo) ActiveBuildings(ctx context.Context) ([]*domain.Building, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT building_id, campus_id, building_code, building_name, active
		 FROM buildings WHERE active = 1 ORDER BY building_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Building{}
	for rows.Next() {
		var b domain.Building
		if err := rows.Scan(&b.BuildingID, &b.CampusID, &b.BuildingCode, &b.BuildingName, &b.Active); err != nil {
			return nil, err
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

func (r *ReferenceRepo) ListCampuses(ctx context.Context) ([]*domain.Campus, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT campus_id, campus_name, active FROM campuses ORDER BY campus_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Campus{}
	for rows.Next() {
		var c domain.Campus
		if err := rows.Scan(&c.CampusID, &c.CampusName, &c.Active); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *ReferenceRepo) GetCampus(ctx context.Context, campusID int64) (*domain.Campus, error) {
	var c domain.Campus
	err := r.db.QueryRowContext(ctx,
		`SELECT campus_id, campus_name, active FROM campuses WHERE campus_id = $1`, campusID).
		Scan(&c.CampusID, &c.CampusName, &c.Active)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("campus %d: %w", campusID, ErrNotFound)
		}
		return nil, err
	}
	return &c, nil
}

func (r *ReferenceRepo) ListAhus(ctx context.Context, buildingID int64) ([]*domain.Ahu, error) {
	q := `SELECT ahu_id, ahu_code, ahu_name, building_id, active FROM ahus`
	args := []any{}
	if buildingID > 0 {
		q += ` WHERE building_id = $1`
		args = append(args, buildingID)
	}
	q += ` ORDER BY ahu_code`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Ahu{}
	for rows.Next() {
		var a domain.Ahu
		if err := rows.Scan(&a.AhuID, &a.AhuCode, &a.AhuName, &a.BuildingID, &a.Active); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *ReferenceRepo) GetAhu(ctx context.Context, ahuID int64) (*domain.Ahu, error) {
	var a domain.Ahu
	err := r.db.QueryRowContext(ctx,
		`SELECT ahu_id, ahu_code, ahu_name, building_id, active FROM ahus WHERE ahu_id = $1`, ahuID).
		Scan(&a.AhuID, &a.AhuCode, &a.AhuName, &a.BuildingID, &a.Active)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("ahu %d: %w", ahuID, ErrNotFound)
		}
		return nil, err
	}
	return &a, nil
}

func (r *ReferenceRepo) ListAshraeCategories(ctx context.Context) ([]*domain.AshraeCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category_id, category, area_oa_rate, ppl_oa_rate, occ_density, occ_stdby_allowed
		 FROM ashrae_categories ORDER BY category_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.AshraeCategory{}
	for rows.Next() {
		var c domain.AshraeCategory
		if err := rows.Scan(&c.CategoryID, &c.Category, &c.AreaOaRate, &c.PplOaRate,
			&c.OccDensity, &c.OccStdbyAllowed); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *ReferenceRepo) GetAshraeCategory(ctx context.Context, categoryID int64) (*domain.AshraeCategory, error) {
	var c domain.AshraeCategory
	err := r.db.QueryRowContext(ctx,
		`SELECT category_id, category, area_oa_rate, ppl_oa_rate, occ_density, occ_stdby_allowed
		 FROM ashrae_categories WHERE category_id = $1`, categoryID).
		Scan(&c.CategoryID, &c.Category, &c.AreaOaRate, &c.PplOaRate, &c.OccDensity, &c.OccStdbyAllowed)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("ashrae category %d: %w", categoryID, ErrNotFound)
		}
		return nil, err
	}
	return &c, nil
}

// ReplaceAshraeCategories swaps the whole Table 6-1 snapshot in one
// transaction. Only cmd/load-ashrae calls this.
func (r *ReferenceRepo) ReplaceAshraeCategories(ctx context.Context, cats []*domain.AshraeCategory) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM ashrae_categories`); err != nil {
		return err
	}
	for _, c := range cats {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO ashrae_categories
				(category_id, category, area_oa_rate, ppl_oa_rate, occ_density, occ_stdby_allowed)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			c.CategoryID, c.Category, c.AreaOaRate, c.PplOaRate, c.OccDensity, c.OccStdbyAllowed)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// UncertaintyRepo reads the per-room occupancy-uncertainty adjustment.
type UncertaintyRepo struct {
	db *sql.DB
}

func NewUncertaintyRepo(db *sql.DB) *UncertaintyRepo {
	return &UncertaintyRepo{db: db}
}

// AmountForRoom returns the stored adjustment for a room, zero when none is
// recorded. Called once per output row; callers may memoize per room id
// within one request.
func (r *UncertaintyRepo) AmountForRoom(ctx context.Context, roomID int64) (int, error) {
	var amount int
	err := r.db.QueryRowContext(ctx,
		`SELECT amount FROM uncertainty WHERE room_id = $1`, roomID).Scan(&amount)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	return amount, nil
}

func (r *UncertaintyRepo) GetForRoom(ctx context.Context, roomID int64) (*domain.UncertaintyRecord, error) {
	var u domain.UncertaintyRecord
	err := r.db.QueryRowContext(ctx,
		`SELECT uncertainty_id, room_id, amount FROM uncertainty WHERE room_id = $1`, roomID).
		Scan(&u.UncertaintyID, &u.RoomID, &u.Amount)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("uncertainty for room %d: %w", roomID, ErrNotFound)
		}
		return nil, err
	}
	return &u, nil
}
