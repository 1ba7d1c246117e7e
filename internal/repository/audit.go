package repository

import (
	"context"
	"database/sql"

	"github.com/RIT-ITS/DCVTool-sub002/internal/domain"
)

// AuditRepo writes the append-only field-level change log. There are no
// update or delete methods: audit rows are never mutated once written.
type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// InsertTx writes audit entries inside the caller's transaction so the
// change log commits or rolls back with the mutation that produced it.
func (r *AuditRepo) InsertTx(ctx context.Context, tx *sql.Tx, entries []domain.AuditEntry) error {
	q := `
		INSERT INTO audit_log (table_name, record_id, column_name, old_value, new_value, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, q,
			e.TableName, e.RecordID, e.ColumnName, e.OldValue, e.NewValue, e.ActorID,
		); err != nil {
			return err
		}
	}
	return nil
}

// ListForRecord returns the change history of one row, oldest first.
func (r *AuditRepo) ListForRecord(ctx context.Context, table string, recordID int64) ([]*domain.AuditEntry, error) {
	q := `
		SELECT audit_id, table_name, record_id, column_name, old_value, new_value, actor_id, created_at
		FROM audit_log
		WHERE table_name = $1 AND record_id = $2
		ORDER BY audit_id
	`
	rows, err := r.db.QueryContext(ctx, q, table, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.AuditEntry{}
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.AuditID, &e.TableName, &e.RecordID, &e.ColumnName,
			&e.OldValue, &e.NewValue, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
