package repository

// Upsertable table specs. Registered once; the write endpoint routes a
// dcvsection name to one of these plus its sanitizer.

func RoomsTable() TableSpec {
	return TableSpec{
		Table:    "rooms",
		IDColumn: "room_id",
		Columns: []string{
			"facility_id", "building_id", "floor", "room_number", "area",
			"population", "uncertainty_amount", "ashrae_category_id",
			"reservable", "active",
		},
	}
}

func ZonesTable() TableSpec {
	return TableSpec{
		Table:    "zones",
		IDColumn: "zone_id",
		Columns: []string{
			"zone_code", "zone_name", "ahu_id", "occ_sensor", "auto_mode",
			"active",
		},
	}
}

// EquipmentMapTable is the room-zone cross reference.
func EquipmentMapTable() TableSpec {
	return TableSpec{
		Table:    "room_zone_xref",
		IDColumn: "xref_id",
		Columns: []string{
			"room_id", "zone_id", "pr_percent", "xref_area", "xref_population",
		},
	}
}

func UncertaintyTable() TableSpec {
	return TableSpec{
		Table:    "uncertainty",
		IDColumn: "uncertainty_id",
		Columns:  []string{"room_id", "amount"},
	}
}

func TermsTable() TableSpec {
	return TableSpec{
		Table:    "terms",
		IDColumn: "strm",
		Columns:  []string{"term_name", "term_start", "term_end"},
	}
}

func UsersTable() TableSpec {
	return TableSpec{
		Table:    "users",
		IDColumn: "user_id",
		Columns:  []string{"subject", "name", "email", "admin_role", "active"},
	}
}
