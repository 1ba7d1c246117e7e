package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"xref_id", "x_room_id", "x_zone_id", "pr_percent", "xref_area", "xref_population",
		"room_id", "facility_id", "building_id", "floor", "room_number", "area",
		"population", "uncertainty_amount", "ashrae_category_id", "reservable", "r_active",
		"zone_id", "zone_code", "zone_name", "ahu_id", "occ_sensor", "auto_mode", "z_active",
	})
}

func TestRoomsForZone_ScansBothEndpoints(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewXrefRepo(db)

	rows := pairRows().AddRow(
		int64(1), int64(10), int64(20), 60.0, 450.5, 25,
		int64(10), "GOL-1400", int64(3), "1", "1400", 900.0,
		40, 2, int64(7), 1, 1,
		int64(20), "g1400a", "GOL 1400 A", int64(4), 1, 0, 1,
	)
	mock.ExpectQuery(`FROM room_zone_xref x`).
		WithArgs(int64(20)).
		WillReturnRows(rows)

	pairs, err := repo.RoomsForZone(context.Background(), 20)

	require.NoError(t, err)
	require.Len(t, pairs, 1)
	p := pairs[0]
	assert.Equal(t, int64(10), p.Xref.RoomID)
	assert.Equal(t, int64(20), p.Xref.ZoneID)
	assert.Equal(t, 60.0, p.Xref.PrPercent)
	assert.Equal(t, "GOL-1400", p.Room.FacilityID)
	assert.Equal(t, "1400", p.Room.RoomNumber)
	assert.Equal(t, "g1400a", p.Zone.ZoneCode)
	assert.Equal(t, 1, p.Zone.OccSensor)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPairsForZoneCode_EmptyResultIsNotAnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewXrefRepo(db)

	mock.ExpectQuery(`FROM room_zone_xref x`).
		WithArgs("nosuch").
		WillReturnRows(pairRows())

	pairs, err := repo.PairsForZoneCode(context.Background(), "nosuch")

	require.NoError(t, err)
	assert.Empty(t, pairs)
	require.NoError(t, mock.ExpectationsWereMet())
}
