package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/RIT-ITS/DCVTool-sub002/internal/config"
	"github.com/RIT-ITS/DCVTool-sub002/internal/service"
)

// Dispatcher is what the job endpoint needs from the dispatch service.
type Dispatcher interface {
	Run(ctx context.Context, code service.OpCode, strm int) (int, error)
}

// JobHandler is the token-gated entry point the external scheduler posts to.
// Each configured token selects exactly one operation; the token's value is
// the only credential.
type JobHandler struct {
	dispatcher Dispatcher
	ops        map[string]service.OpCode
	logger     *zap.Logger
}

func NewJobHandler(dispatcher Dispatcher, tokens config.TokenConfig, logger *zap.Logger) *JobHandler {
	ops := map[string]service.OpCode{}
	add := func(token string, code service.OpCode) {
		// An unset config entry must never become a valid token.
		if token != "" {
			ops[token] = code
		}
	}
	add(tokens.ClassSync, service.OpClassSync)
	add(tokens.ExamSync, service.OpExamSync)
	add(tokens.SetpointTransfer, service.OpSetpointTransfer)
	add(tokens.ClassTransfer, service.OpClassTransfer)

	return &JobHandler{dispatcher: dispatcher, ops: ops, logger: logger}
}

func (h *JobHandler) Handle(w http.ResponseWriter, r *http.Request) {
	// Verb check comes before token inspection.
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, JobFail(0, "method not allowed"))
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, JobFail(0, "malformed request"))
		return
	}

	token := r.FormValue("token")
	code, ok := h.ops[token]
	if !ok {
		h.logger.Warn("job request with unrecognized token",
			zap.String("remote", r.RemoteAddr))
		writeJSON(w, http.StatusUnauthorized, JobFail(0, "unauthorized"))
		return
	}

	strm, _ := strconv.Atoi(r.FormValue("strm"))
	// `min` is accepted for scheduler compatibility but carries no meaning.
	_ = r.FormValue("min")

	resolved, err := h.dispatcher.Run(r.Context(), code, strm)
	if err != nil {
		// Detail went to the operational log; the caller gets the code only.
		writeJSON(w, http.StatusInternalServerError,
			JobFail(int(code), "operation unsuccessful"))
		return
	}
	writeJSON(w, http.StatusOK,
		JobOk(int(code), fmt.Sprintf("operation completed for term %d", resolved)))
}
