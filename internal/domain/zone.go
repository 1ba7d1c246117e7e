package domain

// Zone is an HVAC control zone (zones table, Registry store). ZoneCode is the
// join key into BAS point names: the BAS point is prefix + ZoneCode + suffix.
type Zone struct {
	ZoneID    int64  `db:"zone_id" json:"zone_id"`
	ZoneCode  string `db:"zone_code" json:"zone_code"`
	ZoneName  string `db:"zone_name" json:"zone_name"`
	AhuID     int64  `db:"ahu_id" json:"ahu_id"`
	OccSensor int    `db:"occ_sensor" json:"occ_sensor"`
	AutoMode  int    `db:"auto_mode" json:"auto_mode"`
	Active    int    `db:"active" json:"active"`
}

// Ahu is an air-handling unit feeding one or more zones.
type Ahu struct {
	AhuID      int64  `db:"ahu_id" json:"ahu_id"`
	AhuCode    string `db:"ahu_code" json:"ahu_code"`
	AhuName    string `db:"ahu_name" json:"ahu_name"`
	BuildingID int64  `db:"building_id" json:"building_id"`
	Active     int    `db:"active" json:"active"`
}

// RoomZoneXref maps rooms onto zones. PrPercent is the room's percentage
// contribution to the zone; a zone's percentages need not sum to 100.
type RoomZoneXref struct {
	XrefID         int64   `db:"xref_id" json:"xref_id"`
	RoomID         int64   `db:"room_id" json:"room_id"`
	ZoneID         int64   `db:"zone_id" json:"zone_id"`
	PrPercent      float64 `db:"pr_percent" json:"pr_percent"`
	XrefArea       float64 `db:"xref_area" json:"xref_area"`
	XrefPopulation int     `db:"xref_population" json:"xref_population"`
}
