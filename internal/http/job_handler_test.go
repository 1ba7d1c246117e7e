package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RIT-ITS/DCVTool-sub002/internal/config"
	"github.com/RIT-ITS/DCVTool-sub002/internal/service"
)

type stubDispatcher struct {
	lastCode service.OpCode
	lastStrm int
	calls    int
	err      error
}

func (s *stubDispatcher) Run(ctx context.Context, code service.OpCode, strm int) (int, error) {
	s.calls++
	s.lastCode = code
	s.lastStrm = strm
	if s.err != nil {
		return strm, s.err
	}
	return 2261, nil
}

func testTokens() config.TokenConfig {
	return config.TokenConfig{
		ClassSync:        "tok-class",
		ExamSync:         "tok-exam",
		SetpointTransfer: "tok-setpoint",
		ClassTransfer:    "tok-transfer",
	}
}

func postJob(h *JobHandler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/dcv/api/v1/sync",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestJobHandler_NonPostIsRejectedBeforeTokenCheck(t *testing.T) {
	d := &stubDispatcher{}
	h := NewJobHandler(d, testTokens(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/dcv/api/v1/sync?token=tok-class", nil)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Zero(t, d.calls)
}

func TestJobHandler_UnrecognizedToken(t *testing.T) {
	d := &stubDispatcher{}
	h := NewJobHandler(d, testTokens(), zap.NewNop())

	rec := postJob(h, url.Values{"token": {"nope"}})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, d.calls)

	var body JobResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
}

func TestJobHandler_EmptyTokenIsNeverValid(t *testing.T) {
	d := &stubDispatcher{}
	tokens := testTokens()
	tokens.ExamSync = "" // unset in config
	h := NewJobHandler(d, tokens, zap.NewNop())

	rec := postJob(h, url.Values{"token": {""}})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, d.calls)
}

func TestJobHandler_TokenSelectsExactlyOneOperation(t *testing.T) {
	cases := []struct {
		token string
		code  service.OpCode
	}{
		{"tok-class", service.OpClassSync},
		{"tok-exam", service.OpExamSync},
		{"tok-setpoint", service.OpSetpointTransfer},
		{"tok-transfer", service.OpClassTransfer},
	}
	for _, c := range cases {
		d := &stubDispatcher{}
		h := NewJobHandler(d, testTokens(), zap.NewNop())

		rec := postJob(h, url.Values{"token": {c.token}, "strm": {"2261"}})

		assert.Equal(t, http.StatusOK, rec.Code, "token %s", c.token)
		assert.Equal(t, 1, d.calls)
		assert.Equal(t, c.code, d.lastCode)
		assert.Equal(t, 2261, d.lastStrm)

		var body JobResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "success", body.Status)
		assert.Equal(t, int(c.code), body.Data.Code)
	}
}

func TestJobHandler_MissingStrmPassesZero(t *testing.T) {
	d := &stubDispatcher{}
	h := NewJobHandler(d, testTokens(), zap.NewNop())

	rec := postJob(h, url.Values{"token": {"tok-class"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, d.lastStrm)
}

func TestJobHandler_DispatchFailureKeepsOperationCode(t *testing.T) {
	d := &stubDispatcher{err: errors.New("boom")}
	h := NewJobHandler(d, testTokens(), zap.NewNop())

	rec := postJob(h, url.Values{"token": {"tok-setpoint"}})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body JobResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, int(service.OpSetpointTransfer), body.Data.Code)
	// Internal detail stays in the logs.
	assert.NotContains(t, body.Message, "boom")
}
