package domain

import "time"

// AuditEntry is one field-level change. Append-only: rows are created as a
// side effect of mutating upserts and never touched afterward.
type AuditEntry struct {
	AuditID    int64     `db:"audit_id" json:"audit_id"`
	TableName  string    `db:"table_name" json:"table_name"`
	RecordID   int64     `db:"record_id" json:"record_id"`
	ColumnName string    `db:"column_name" json:"column_name"`
	OldValue   string    `db:"old_value" json:"old_value"`
	NewValue   string    `db:"new_value" json:"new_value"`
	ActorID    string    `db:"actor_id" json:"actor_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// OpLogEntry is the persisted operational-log record for one dispatcher run.
type OpLogEntry struct {
	OpLogID    int64     `db:"oplog_id" json:"oplog_id"`
	RunID      string    `db:"run_id" json:"run_id"` // uuid per invocation
	OpCode     int       `db:"op_code" json:"op_code"`
	Status     string    `db:"status" json:"status"` // "success" | "error"
	Message    string    `db:"message" json:"message"`
	Strm       int       `db:"strm" json:"strm"`
	DurationMs int64     `db:"duration_ms" json:"duration_ms"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
