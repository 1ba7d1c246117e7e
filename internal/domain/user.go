package domain

import (
	"database/sql"
)

// User maps a federated subject identifier (furnished by the external
// identity provider) to a local display name and role. Kept only for actor
// attribution on audit rows and admin-role checks; authentication itself is
// out of scope.
type User struct {
	UserID    int64          `db:"user_id"`
	Subject   string         `db:"subject"` // verified subject identifier
	Name      sql.NullString `db:"name"`
	Email     sql.NullString `db:"email"`
	AdminRole int            `db:"admin_role"`
	Active    int            `db:"active"`
}
