package repository

import (
	"context"
	"database/sql"

	"github.com/RIT-ITS/DCVTool-sub002/internal/domain"
)

// OpLogRepo is the persisted operational-log sink: one row per dispatcher
// run. The console sink (zap) mirrors the same information.
type OpLogRepo struct {
	db *sql.DB
}

func NewOpLogRepo(db *sql.DB) *OpLogRepo {
	return &OpLogRepo{db: db}
}

func (r *OpLogRepo) Append(ctx context.Context, e *domain.OpLogEntry) error {
	q := `
		INSERT INTO oplog (run_id, op_code, status, message, strm, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.ExecContext(ctx, q, e.RunID, e.OpCode, e.Status, e.Message, e.Strm, e.DurationMs)
	return err
}

func (r *OpLogRepo) Recent(ctx context.Context, limit int) ([]*domain.OpLogEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	q := `
		SELECT oplog_id, run_id, op_code, status, message, strm, duration_ms, created_at
		FROM oplog
		ORDER BY oplog_id DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.OpLogEntry{}
	for rows.Next() {
		var e domain.OpLogEntry
		if err := rows.Scan(&e.OpLogID, &e.RunID, &e.OpCode, &e.Status, &e.Message,
			&e.Strm, &e.DurationMs, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
