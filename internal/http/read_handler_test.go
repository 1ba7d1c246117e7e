package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestReadHandler() *ReadHandler {
	// Repositories stay nil: these tests only exercise dispatch and the
	// envelope, never a registered operation that touches storage.
	return NewReadHandler(nil, nil, nil, nil, nil, nil, nil, nil, nil,
		nil, nil, time.UTC, zap.NewNop())
}

func getRead(h *ReadHandler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestReadHandler_NonNumericOperation(t *testing.T) {
	h := newTestReadHandler()

	rec := getRead(h, "/dcv/api/v1/reference?q=rooms")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":"No Data."}`, rec.Body.String())
}

func TestReadHandler_UnmappedOperation(t *testing.T) {
	h := newTestReadHandler()

	rec := getRead(h, "/dcv/api/v1/reference?q=999")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":"No Data."}`, rec.Body.String())
}

func TestReadHandler_EnvelopeWrapsRowsInSingleElementArray(t *testing.T) {
	h := newTestReadHandler()
	h.ops[901] = func(ctx context.Context, p readParams) (any, int, error) {
		return []map[string]int{{"a": 1}, {"a": 2}}, 2, nil
	}

	rec := getRead(h, "/dcv/api/v1/reference?q=901")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		ResponseHeader struct {
			Status int `json:"status"`
		} `json:"responseHeader"`
		Response struct {
			NumFound int             `json:"numFound"`
			Start    int             `json:"start"`
			Docs     json.RawMessage `json:"docs"`
		} `json:"response"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 0, body.ResponseHeader.Status)
	assert.Equal(t, 2, body.Response.NumFound)
	assert.Equal(t, 0, body.Response.Start)

	// One outer array wrapping the row list.
	var outer []json.RawMessage
	require.NoError(t, json.Unmarshal(body.Response.Docs, &outer))
	require.Len(t, outer, 1)

	var rows []map[string]int
	require.NoError(t, json.Unmarshal(outer[0], &rows))
	assert.Len(t, rows, 2)
}

func TestReadHandler_OperationParamsAreDecoded(t *testing.T) {
	h := newTestReadHandler()

	var got readParams
	h.ops[902] = func(ctx context.Context, p readParams) (any, int, error) {
		got = p
		return []int{}, 0, nil
	}

	rec := getRead(h,
		"/dcv/api/v1/reference?q=902&i=5&s=2261&n=10&c=2&b=3&f=GOL-1400&d=2026,1,5&t=2026,1,9")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), got.ID)
	assert.Equal(t, 2261, got.Strm)
	assert.Equal(t, 10, got.N)
	assert.Equal(t, int64(2), got.C)
	assert.Equal(t, int64(3), got.B)
	assert.Equal(t, "GOL-1400", got.F)
	assert.Equal(t, "2026-1-5", got.D)
	assert.Equal(t, "2026-1-9", got.T)
}

func TestComposeDate(t *testing.T) {
	assert.Equal(t, "2026-1-5", composeDate("2026,1,5"))
	assert.Equal(t, "2026-1-5", composeDate(" 2026 , 1 , 5 "))
	assert.Equal(t, "2026-1-5", composeDate("2026-1-5"))
	assert.Equal(t, "", composeDate(""))
	assert.Equal(t, "0-0-0", composeDate("0,0,0"))
}

func TestAuditableTable(t *testing.T) {
	assert.True(t, auditableTable("rooms"))
	assert.True(t, auditableTable("room_zone_xref"))
	assert.False(t, auditableTable("audit_log"))
	assert.False(t, auditableTable("rooms; DROP TABLE rooms"))
}
