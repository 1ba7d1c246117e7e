package domain

import "time"

// SetpointWriteRecord is the BAS's own record of a dispatched setpoint
// (setpointwrite table, BAS store). Read-only here: the BAS, not this
// pipeline, is authoritative for Dispatched.
type SetpointWriteRecord struct {
	Uname         string    `db:"uname"` // full BAS point name
	EffectiveTime time.Time `db:"effectivetime"`
	Pv            float64   `db:"pv"`
	Dispatched    int       `db:"dispatched"`
}

// SetpointExpandedRecord is one computed setpoint target materialized from
// the expanded schedule (setpoint_expanded table, Registry store).
type SetpointExpandedRecord struct {
	SetpointID    int64     `db:"setpoint_id"`
	ZoneID        int64     `db:"zone_id"`
	ZoneCode      string    `db:"zone_code"`
	ZoneName      string    `db:"zone_name"`
	BuildingID    int64     `db:"building_id"`
	FacilityID    string    `db:"facility_id"`
	Strm          int       `db:"strm"`
	EffectiveTime time.Time `db:"effectivetime"`
	Value         float64   `db:"value"`
	CourseTitle   string    `db:"course_title"`
	EnrlTot       int       `db:"enrl_tot"`
}
