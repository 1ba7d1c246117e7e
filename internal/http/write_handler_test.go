package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RIT-ITS/DCVTool-sub002/internal/repository"
)

func newTestWriteHandler(t *testing.T) (*WriteHandler, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	engine := repository.NewUpsertEngine(db, repository.NewAuditRepo(db), zap.NewNop())
	h := NewWriteHandler(engine, zap.NewNop())
	return h, mock, func() { db.Close() }
}

func postWrite(h *WriteHandler, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/dcv/api/v1/reference",
		strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestWriteHandler_UnknownSection(t *testing.T) {
	h, mock, closeDB := newTestWriteHandler(t)
	defer closeDB()

	rec := postWrite(h, `{"dcvsection":"sensors","fields":{}}`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body WriteResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteHandler_MalformedBody(t *testing.T) {
	h, _, closeDB := newTestWriteHandler(t)
	defer closeDB()

	rec := postWrite(h, `{not json`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWriteHandler_InsertUsesActorHeader(t *testing.T) {
	h, mock, closeDB := newTestWriteHandler(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO uncertainty`).
		WithArgs(float64(7), float64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"uncertainty_id"}).AddRow(12))
	mock.ExpectCommit()

	rec := postWrite(h,
		`{"dcvsection":"uncertainty","fields":{"room_id":7,"amount":3}}`,
		map[string]string{"X-Auth-Subject": "jdoe"})

	assert.Equal(t, http.StatusOK, rec.Code)

	var body WriteResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.NotNil(t, body.Data)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteHandler_DeleteMissReportsUnsuccessful(t *testing.T) {
	h, mock, closeDB := newTestWriteHandler(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM rooms`).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	rec := postWrite(h, `{"dcvsection":"rooms","id":404,"delete":true}`, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body WriteResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, "operation unsuccessful", body.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSanitizerDropsUnknownColumnsAndNormalizesFlags(t *testing.T) {
	sanitize := makeSanitizer(repository.ZonesTable(), "occ_sensor", "auto_mode", "active")

	out, err := sanitize(map[string]any{
		"zone_code":  "g1400a",
		"occ_sensor": true,
		"auto_mode":  "0",
		"active":     float64(1),
		"zone_id":    99,   // id column, not writable
		"dropme":     "xx", // unknown
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"zone_code":  "g1400a",
		"occ_sensor": 1,
		"auto_mode":  0,
		"active":     1,
	}, out)
}

func TestToFlag(t *testing.T) {
	for _, c := range []struct {
		in   any
		want int
	}{
		{nil, 0}, {true, 1}, {false, 0},
		{float64(1), 1}, {float64(0), 0}, {float64(2), 1},
		{"1", 1}, {"0", 0}, {"t", 1}, {"false", 0}, {"", 0},
	} {
		got, err := toFlag(c.in)
		require.NoError(t, err, "toFlag(%v)", c.in)
		assert.Equal(t, c.want, got, "toFlag(%v)", c.in)
	}

	_, err := toFlag("banana")
	assert.Error(t, err)
}
