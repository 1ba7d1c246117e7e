package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupMockUpsertEngine(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *UpsertEngine) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	engine := NewUpsertEngine(db, NewAuditRepo(db), zap.NewNop())
	return db, mock, engine
}

func TestUpsertInsert_NoAuditRows(t *testing.T) {
	db, mock, engine := setupMockUpsertEngine(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO uncertainty`).
		WithArgs(7, 3).
		WillReturnRows(sqlmock.NewRows([]string{"uncertainty_id"}).AddRow(12))
	mock.ExpectCommit()

	ok, err := engine.Apply(context.Background(), UncertaintyTable(), UpsertInput{
		Fields: map[string]any{"room_id": 7, "amount": 3},
		Actor:  "jdoe",
	})

	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertUpdate_AuditsChangedColumnsOnly(t *testing.T) {
	db, mock, engine := setupMockUpsertEngine(t)
	defer db.Close()

	mock.ExpectBegin()
	// room_id unchanged, amount 2 -> 3: exactly one audit row.
	mock.ExpectQuery(`SELECT room_id::text, amount::text FROM uncertainty`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"room_id", "amount"}).AddRow("7", "2"))
	mock.ExpectExec(`UPDATE uncertainty SET`).
		WithArgs(7, 3, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("uncertainty", int64(5), "amount", "2", "3", "jdoe").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	ok, err := engine.Apply(context.Background(), UncertaintyTable(), UpsertInput{
		ID:     5,
		Fields: map[string]any{"room_id": 7, "amount": 3},
		Actor:  "jdoe",
	})

	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertUpdate_IdenticalValuesWriteNoAudit(t *testing.T) {
	db, mock, engine := setupMockUpsertEngine(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT room_id::text, amount::text FROM uncertainty`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"room_id", "amount"}).AddRow("7", "3"))
	mock.ExpectExec(`UPDATE uncertainty SET`).
		WithArgs(7, 3, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// No audit insert expected: the diff is empty.
	mock.ExpectCommit()

	ok, err := engine.Apply(context.Background(), UncertaintyTable(), UpsertInput{
		ID:     5,
		Fields: map[string]any{"room_id": 7, "amount": 3},
		Actor:  "jdoe",
	})

	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertUpdate_MissingRowReportsFalseWithoutError(t *testing.T) {
	db, mock, engine := setupMockUpsertEngine(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT room_id::text, amount::text FROM uncertainty`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	ok, err := engine.Apply(context.Background(), UncertaintyTable(), UpsertInput{
		ID:     404,
		Fields: map[string]any{"amount": 3},
		Actor:  "jdoe",
	})

	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertDelete_ZeroRowsAffectedReportsFalse(t *testing.T) {
	db, mock, engine := setupMockUpsertEngine(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM uncertainty`).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	ok, err := engine.Apply(context.Background(), UncertaintyTable(), UpsertInput{
		ID:     404,
		Delete: true,
		Actor:  "jdoe",
	})

	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertDelete_WritesAuditMarker(t *testing.T) {
	db, mock, engine := setupMockUpsertEngine(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM uncertainty`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("uncertainty", int64(5), "uncertainty_id", "5", "deleted", "jdoe").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	ok, err := engine.Apply(context.Background(), UncertaintyTable(), UpsertInput{
		ID:     5,
		Delete: true,
		Actor:  "jdoe",
	})

	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertDelete_WithoutIDIsNoOp(t *testing.T) {
	db, mock, engine := setupMockUpsertEngine(t)
	defer db.Close()

	ok, err := engine.Apply(context.Background(), UncertaintyTable(), UpsertInput{
		Delete: true,
		Actor:  "jdoe",
	})

	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLooselyEqual(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"1", "1", true},
		{"1", "1.0", true},
		{"1.50", "1.5", true},
		{"t", "1", true},
		{"true", "1", true},
		{"f", "0", true},
		{"false", "0", true},
		{"t", "0", false},
		{"abc", "abc", true},
		{"abc", "abd", false},
		{"", "0", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, looselyEqual(c.a, c.b), "looselyEqual(%q, %q)", c.a, c.b)
	}
}
