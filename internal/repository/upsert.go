package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/RIT-ITS/DCVTool-sub002/internal/domain"
)

// TableSpec describes one upsertable table. Specs are registered in code
// (tables.go); table and column names never come from request input.
type TableSpec struct {
	Table    string
	IDColumn string
	Columns  []string
}

// UpsertInput is the pre-validated, already-sanitized mutation request.
// Fields holds column -> scalar for the columns being written.
type UpsertInput struct {
	ID     int64
	Delete bool
	Fields map[string]any
	Actor  string
}

// UpsertEngine implements the shared mutation contract: delete-by-id,
// update-by-id with per-column audit, or insert, each inside one
// transaction. The boolean result means "a row was affected as requested";
// a persistence failure is returned as the error instead.
type UpsertEngine struct {
	db     *sql.DB
	audit  *AuditRepo
	logger *zap.Logger
}

func NewUpsertEngine(db *sql.DB, audit *AuditRepo, logger *zap.Logger) *UpsertEngine {
	return &UpsertEngine{db: db, audit: audit, logger: logger}
}

func (e *UpsertEngine) Apply(ctx context.Context, spec TableSpec, in UpsertInput) (bool, error) {
	switch {
	case in.Delete && in.ID > 0:
		return e.deleteRow(ctx, spec, in)
	case in.Delete:
		// No identifier: nothing to delete.
		return true, nil
	case in.ID > 0:
		return e.updateRow(ctx, spec, in)
	default:
		return e.insertRow(ctx, spec, in)
	}
}

func (e *UpsertEngine) deleteRow(ctx context.Context, spec TableSpec, in UpsertInput) (ok bool, err error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil || !ok {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, spec.Table, spec.IDColumn), in.ID)
	if err != nil {
		return false, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if aff == 0 {
		return false, nil
	}

	entry := domain.AuditEntry{
		TableName:  spec.Table,
		RecordID:   in.ID,
		ColumnName: spec.IDColumn,
		OldValue:   strconv.FormatInt(in.ID, 10),
		NewValue:   "deleted",
		ActorID:    in.Actor,
	}
	if err = e.audit.InsertTx(ctx, tx, []domain.AuditEntry{entry}); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func (e *UpsertEngine) updateRow(ctx context.Context, spec TableSpec, in UpsertInput) (ok bool, err error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil || !ok {
			_ = tx.Rollback()
		}
	}()

	// Fetch the current values first so changed columns can be audited.
	// Everything is cast to text: the diff is a loosely-typed scalar compare.
	sel := make([]string, len(spec.Columns))
	for i, c := range spec.Columns {
		sel[i] = c + "::text"
	}
	row := tx.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
			strings.Join(sel, ", "), spec.Table, spec.IDColumn), in.ID)

	old := make([]sql.NullString, len(spec.Columns))
	dest := make([]any, len(spec.Columns))
	for i := range old {
		dest[i] = &old[i]
	}
	if err = row.Scan(dest...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	oldByCol := make(map[string]string, len(spec.Columns))
	for i, c := range spec.Columns {
		if old[i].Valid {
			oldByCol[c] = old[i].String
		}
	}

	set := []string{}
	args := []any{}
	entries := []domain.AuditEntry{}
	for _, c := range spec.Columns {
		v, present := in.Fields[c]
		if !present {
			continue
		}
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", c, len(args)))

		newVal := fmt.Sprint(v)
		if !looselyEqual(oldByCol[c], newVal) {
			entries = append(entries, domain.AuditEntry{
				TableName:  spec.Table,
				RecordID:   in.ID,
				ColumnName: c,
				OldValue:   oldByCol[c],
				NewValue:   newVal,
				ActorID:    in.Actor,
			})
		}
	}
	if len(set) == 0 {
		// Nothing supplied to write.
		return true, tx.Commit()
	}

	args = append(args, in.ID)
	_, err = tx.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $%d`,
			spec.Table, strings.Join(set, ", "), spec.IDColumn, len(args)), args...)
	if err != nil {
		return false, err
	}

	if len(entries) > 0 {
		if err = e.audit.InsertTx(ctx, tx, entries); err != nil {
			return false, err
		}
	}
	return true, tx.Commit()
}

func (e *UpsertEngine) insertRow(ctx context.Context, spec TableSpec, in UpsertInput) (ok bool, err error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil || !ok {
			_ = tx.Rollback()
		}
	}()

	cols := []string{}
	ph := []string{}
	args := []any{}
	for _, c := range spec.Columns {
		v, present := in.Fields[c]
		if !present {
			continue
		}
		args = append(args, v)
		cols = append(cols, c)
		ph = append(ph, fmt.Sprintf("$%d", len(args)))
	}
	if len(cols) == 0 {
		return false, nil
	}

	var id int64
	err = tx.QueryRowContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
			spec.Table, strings.Join(cols, ", "), strings.Join(ph, ", "), spec.IDColumn),
		args...).Scan(&id)
	if err != nil {
		return false, err
	}

	e.logger.Debug("upsert insert",
		zap.String("table", spec.Table), zap.Int64("id", id))

	// A fresh insert has no prior values to diff against: no audit rows.
	return true, tx.Commit()
}

// looselyEqual compares two stored/supplied scalars the way the audit diff
// requires: "1" equals "1.0", "t" equals "1", "true" equals "1".
func looselyEqual(a, b string) bool {
	if a == b {
		return true
	}
	na, aok := normalizeScalar(a)
	nb, bok := normalizeScalar(b)
	if aok && bok {
		return na == nb
	}
	return false
}

func normalizeScalar(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "true":
		return "1", true
	case "f", "false":
		return "0", true
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return s, false
}
