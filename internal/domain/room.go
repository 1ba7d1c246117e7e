package domain

import (
	"database/sql"
)

// Room is a physical space (rooms table, Registry store).
// FacilityID is the source-of-record facility key used to join scheduling
// data back onto rooms.
type Room struct {
	RoomID            int64          `db:"room_id"`
	FacilityID        string         `db:"facility_id"`
	BuildingID        int64          `db:"building_id"`
	Floor             sql.NullString `db:"floor"`
	RoomNumber        string         `db:"room_number"`
	Area              float64        `db:"area"`
	Population        int            `db:"population"`
	UncertaintyAmount int            `db:"uncertainty_amount"`
	AshraeCategoryID  int64          `db:"ashrae_category_id"`
	Reservable        int            `db:"reservable"`
	Active            int            `db:"active"`
}

// Building and Campus are read-only reference rows; their admin CRUD lives
// outside this service.
type Building struct {
	BuildingID   int64  `db:"building_id" json:"building_id"`
	CampusID     int64  `db:"campus_id" json:"campus_id"`
	BuildingCode string `db:"building_code" json:"building_code"`
	BuildingName string `db:"building_name" json:"building_name"`
	Active       int    `db:"active" json:"active"`
}

type Campus struct {
	CampusID   int64  `db:"campus_id" json:"campus_id"`
	CampusName string `db:"campus_name" json:"campus_name"`
	Active     int    `db:"active" json:"active"`
}
