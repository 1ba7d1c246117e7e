package httpapi

import (
	"encoding/json"
	"net/http"
)

// JobResult is the scheduled-job response. `data.code` carries the numeric
// operation code even on failure so the external scheduler can correlate.
type JobResult struct {
	Status  string  `json:"status"` // "success" | "error"
	Message string  `json:"message"`
	Data    JobData `json:"data"`
}

type JobData struct {
	Code int `json:"code"`
}

func JobOk(code int, message string) JobResult {
	return JobResult{Status: "success", Message: message, Data: JobData{Code: code}}
}

func JobFail(code int, message string) JobResult {
	return JobResult{Status: "error", Message: message, Data: JobData{Code: code}}
}

// WriteResult is the reference write endpoint's response. data is always
// present, an empty array; legacy consumers index into it unconditionally.
type WriteResult struct {
	Status  string `json:"status"` // "success" | "error"
	Message string `json:"message"`
	Data    []any  `json:"data"`
}

func WriteOk(message string) WriteResult {
	return WriteResult{Status: "success", Message: message, Data: []any{}}
}

func WriteFail(message string) WriteResult {
	return WriteResult{Status: "error", Message: message, Data: []any{}}
}

// readEnvelope mirrors the search-index response shape the reference readers
// were originally built against. docs is a single-element outer array
// wrapping the row list; consumers unwrap one level.
type readEnvelope struct {
	ResponseHeader readHeader `json:"responseHeader"`
	Response       readBody   `json:"response"`
}

type readHeader struct {
	Status int `json:"status"`
}

type readBody struct {
	NumFound int    `json:"numFound"`
	Start    int    `json:"start"`
	Docs     [1]any `json:"docs"`
}

func readOkEnvelope(rows any, numFound int) readEnvelope {
	return readEnvelope{
		ResponseHeader: readHeader{Status: 0},
		Response:       readBody{NumFound: numFound, Start: 0, Docs: [1]any{rows}},
	}
}

// noData is the fixed body for a non-numeric or unmapped read operation.
var noData = map[string]string{"data": "No Data."}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
