package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/RIT-ITS/DCVTool-sub002/internal/repository"
)

// sanitizer filters and normalizes one section's field map before it reaches
// the upsert engine. Unknown keys are dropped, flag columns are coerced to
// 0/1 integers.
type sanitizer func(fields map[string]any) (map[string]any, error)

type sectionSpec struct {
	table    repository.TableSpec
	sanitize sanitizer
}

// WriteHandler routes a dcvsection name to its sanitize-then-upsert pipeline.
// Table and column names come from the registered specs, never from input.
type WriteHandler struct {
	engine   *repository.UpsertEngine
	sections map[string]sectionSpec
	logger   *zap.Logger
}

func NewWriteHandler(engine *repository.UpsertEngine, logger *zap.Logger) *WriteHandler {
	sections := map[string]sectionSpec{
		"rooms": {
			table:    repository.RoomsTable(),
			sanitize: makeSanitizer(repository.RoomsTable(), "reservable", "active"),
		},
		"zones": {
			table:    repository.ZonesTable(),
			sanitize: makeSanitizer(repository.ZonesTable(), "occ_sensor", "auto_mode", "active"),
		},
		"equipment_map": {
			table:    repository.EquipmentMapTable(),
			sanitize: makeSanitizer(repository.EquipmentMapTable()),
		},
		"uncertainty": {
			table:    repository.UncertaintyTable(),
			sanitize: makeSanitizer(repository.UncertaintyTable()),
		},
		"terms": {
			table:    repository.TermsTable(),
			sanitize: makeSanitizer(repository.TermsTable()),
		},
		"users": {
			table:    repository.UsersTable(),
			sanitize: makeSanitizer(repository.UsersTable(), "active"),
		},
	}
	return &WriteHandler{engine: engine, sections: sections, logger: logger}
}

// writeRequest is the reference write body. Delete is loosely typed: legacy
// clients send true, 1 or "1" interchangeably.
type writeRequest struct {
	Section string         `json:"dcvsection"`
	ID      int64          `json:"id"`
	Delete  any            `json:"delete"`
	Fields  map[string]any `json:"fields"`
}

func (h *WriteHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req writeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, WriteFail("malformed request body"))
		return
	}

	section, ok := h.sections[req.Section]
	if !ok {
		writeJSON(w, http.StatusBadRequest, WriteFail("unknown section"))
		return
	}

	fields, err := section.sanitize(req.Fields)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, WriteFail(err.Error()))
		return
	}

	actor := r.Header.Get("X-Auth-Subject")
	if actor == "" {
		actor = "system"
	}

	del, err := toFlag(req.Delete)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, WriteFail("bad delete flag"))
		return
	}

	applied, err := h.engine.Apply(r.Context(), section.table, repository.UpsertInput{
		ID:     req.ID,
		Delete: del == 1,
		Fields: fields,
		Actor:  actor,
	})
	if err != nil {
		h.logger.Error("reference write failed",
			zap.String("section", req.Section),
			zap.Int64("id", req.ID),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, WriteFail("operation unsuccessful"))
		return
	}
	if !applied {
		// Nothing matched or the write was rejected; callers get the same
		// answer either way.
		writeJSON(w, http.StatusInternalServerError, WriteFail("operation unsuccessful"))
		return
	}
	writeJSON(w, http.StatusOK, WriteOk("ok"))
}

// makeSanitizer builds the shared sanitize step: drop keys outside the
// table's column list and normalize the named flag columns to 0/1.
func makeSanitizer(spec repository.TableSpec, flagCols ...string) sanitizer {
	allowed := make(map[string]bool, len(spec.Columns))
	for _, c := range spec.Columns {
		allowed[c] = true
	}
	flags := make(map[string]bool, len(flagCols))
	for _, c := range flagCols {
		flags[c] = true
	}

	return func(fields map[string]any) (map[string]any, error) {
		out := make(map[string]any, len(fields))
		for k, v := range fields {
			if !allowed[k] {
				continue
			}
			if flags[k] {
				f, err := toFlag(v)
				if err != nil {
					return nil, fmt.Errorf("bad value for %s", k)
				}
				out[k] = f
				continue
			}
			out[k] = v
		}
		return out, nil
	}
}

// toFlag normalizes the loosely-typed boolean representations seen in legacy
// payloads. nil counts as unset (0).
func toFlag(v any) (int, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	case float64:
		if t != 0 {
			return 1, nil
		}
		return 0, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "", "0", "f", "false":
			return 0, nil
		case "1", "t", "true":
			return 1, nil
		}
	}
	return 0, fmt.Errorf("not a flag value: %v", v)
}
