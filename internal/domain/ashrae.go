package domain

// AshraeCategory is one row of the ASHRAE 62.1 Table 6-1 outdoor-air rate
// lookup. Immutable reference data at runtime; seeded by cmd/load-ashrae.
type AshraeCategory struct {
	CategoryID      int64   `db:"category_id" json:"category_id"`
	Category        string  `db:"category" json:"category"`
	AreaOaRate      float64 `db:"area_oa_rate" json:"area_oa_rate"` // cfm per square foot
	PplOaRate       float64 `db:"ppl_oa_rate" json:"ppl_oa_rate"`   // cfm per person
	OccDensity      float64 `db:"occ_density" json:"occ_density"`   // persons per 1000 sq ft
	OccStdbyAllowed int     `db:"occ_stdby_allowed" json:"occ_stdby_allowed"`
}

// UncertaintyRecord is the per-room occupancy measurement adjustment applied
// to populations while assembling airflow and setpoint rows.
type UncertaintyRecord struct {
	UncertaintyID int64 `db:"uncertainty_id" json:"uncertainty_id"`
	RoomID        int64 `db:"room_id" json:"room_id"`
	Amount        int   `db:"amount" json:"amount"`
}
