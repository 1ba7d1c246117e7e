package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveTerm_ReturnsContainingTerm(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTermsRepo(db)
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT strm FROM terms`).
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows([]string{"strm"}).AddRow(2261))

	strm, err := repo.ActiveTerm(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 2261, strm)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveTerm_NoContainingTermIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTermsRepo(db)
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT strm FROM terms`).
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows([]string{"strm"}))

	_, err = repo.ActiveTerm(context.Background(), now)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
