package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/RIT-ITS/DCVTool-sub002/internal/domain"
)

type RoomsRepo struct {
	db *sql.DB
}

func NewRoomsRepo(db *sql.DB) *RoomsRepo {
	return &RoomsRepo{db: db}
}

const roomColumns = `
	room_id, facility_id, building_id, floor, room_number, area,
	population, uncertainty_amount, ashrae_category_id, reservable, active`

func scanRoom(s interface{ Scan(...any) error }) (*domain.Room, error) {
	var r domain.Room
	err := s.Scan(&r.RoomID, &r.FacilityID, &r.BuildingID, &r.Floor,
		&r.RoomNumber, &r.Area, &r.Population, &r.UncertaintyAmount,
		&r.AshraeCategoryID, &r.Reservable, &r.Active)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *RoomsRepo) GetRoom(ctx context.Context, roomID int64) (*domain.Room, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT`+roomColumns+` FROM rooms WHERE room_id = $1`, roomID)
	room, err := scanRoom(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("room %d: %w", roomID, ErrNotFound)
		}
		return nil, err
	}
	return room, nil
}

// ListRooms returns rooms for one building, or all rooms when buildingID <= 0.
func (r *RoomsRepo) ListRooms(ctx context.Context, buildingID int64) ([]*domain.Room, error) {
	q := `SELECT` + roomColumns + ` FROM rooms`
	args := []any{}
	if buildingID > 0 {
		q += ` WHERE building_id = $1`
		args = append(args, buildingID)
	}
	q += ` ORDER BY room_id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Room{}
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

// RoomByFacility resolves the scheduling join key back to a room.
func (r *RoomsRepo) RoomByFacility(ctx context.Context, facilityID string) (*domain.Room, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT`+roomColumns+` FROM rooms WHERE facility_id = $1`, facilityID)
	room, err := scanRoom(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("facility %s: %w", facilityID, ErrNotFound)
		}
		return nil, err
	}
	return room, nil
}
