package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RIT-ITS/DCVTool-sub002/internal/repository"
	"github.com/RIT-ITS/DCVTool-sub002/internal/store"
)

// mapKV is an in-memory stand-in for the redis store.
type mapKV struct {
	values map[string]string
	sets   int
}

func newMapKV() *mapKV { return &mapKV{values: map[string]string{}} }

func (m *mapKV) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", store.ErrMiss
	}
	return v, nil
}

func (m *mapKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.values[key] = value
	m.sets++
	return nil
}

func TestResolveTerm_ExplicitStrmPassesThrough(t *testing.T) {
	d := NewDispatchService(nil, nil, nil, nil, newMapKV(), time.UTC, zap.NewNop())

	strm, err := d.ResolveTerm(context.Background(), 2261)

	require.NoError(t, err)
	assert.Equal(t, 2261, strm)
}

func TestResolveTerm_UsesCachedActiveTerm(t *testing.T) {
	kv := newMapKV()
	kv.values["dcv:active_term"] = "2265"

	// terms repo is nil: a database hit would panic, proving the cache served.
	d := NewDispatchService(nil, nil, nil, nil, kv, time.UTC, zap.NewNop())

	strm, err := d.ResolveTerm(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, 2265, strm)
}

func TestRun_UnknownOpCodeLogsErrorRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	oplog := repository.NewOpLogRepo(db)
	kv := newMapKV()
	d := NewDispatchService(nil, nil, nil, oplog, kv, time.UTC, zap.NewNop())

	mock.ExpectExec(`INSERT INTO oplog`).
		WithArgs(sqlmock.AnyArg(), 99, "error", sqlmock.AnyArg(), 2261, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	resolved, err := d.Run(context.Background(), OpCode(99), 2261)

	require.Error(t, err)
	assert.Equal(t, 2261, resolved)
	// A failed run leaves no last-run marker.
	assert.Zero(t, kv.sets)
	require.NoError(t, mock.ExpectationsWereMet())
}
