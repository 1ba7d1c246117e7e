package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RIT-ITS/DCVTool-sub002/internal/domain"
	"github.com/RIT-ITS/DCVTool-sub002/internal/repository"
	"github.com/RIT-ITS/DCVTool-sub002/internal/store"
)

// OpCode identifies one of the four synchronization operations. The codes
// are part of the wire contract with the external scheduler.
type OpCode int

const (
	OpClassSync        OpCode = 1
	OpExamSync         OpCode = 2
	OpSetpointTransfer OpCode = 3
	OpClassTransfer    OpCode = 4
)

const (
	activeTermKey    = "dcv:active_term"
	activeTermTTL    = time.Hour
	lastRunKeyPrefix = "dcv:last_run:"
)

// DispatchService runs the four named synchronization operations. Each run
// is one request-scoped pipeline: resolve the term, execute, append one
// operational-log row regardless of outcome.
type DispatchService struct {
	schedule  *ScheduleService
	reference *repository.ReferenceRepo
	terms     *repository.TermsRepo
	oplog     *repository.OpLogRepo
	kv        store.KV
	loc       *time.Location
	logger    *zap.Logger
}

func NewDispatchService(
	schedule *ScheduleService,
	reference *repository.ReferenceRepo,
	terms *repository.TermsRepo,
	oplog *repository.OpLogRepo,
	kv store.KV,
	loc *time.Location,
	logger *zap.Logger,
) *DispatchService {
	return &DispatchService{
		schedule:  schedule,
		reference: reference,
		terms:     terms,
		oplog:     oplog,
		kv:        kv,
		loc:       loc,
		logger:    logger,
	}
}

// ResolveTerm returns the explicit strm when positive, otherwise the
// currently running term. The resolved value is cached: term boundaries
// move on an academic calendar, not per request.
func (d *DispatchService) ResolveTerm(ctx context.Context, strm int) (int, error) {
	if strm > 0 {
		return strm, nil
	}
	if cached, err := d.kv.Get(ctx, activeTermKey); err == nil {
		if v, err := strconv.Atoi(cached); err == nil && v > 0 {
			return v, nil
		}
	}
	active, err := d.terms.ActiveTerm(ctx, time.Now().In(d.loc))
	if err != nil {
		return 0, err
	}
	if err := d.kv.Set(ctx, activeTermKey, strconv.Itoa(active), activeTermTTL); err != nil {
		// Cache failure is not a job failure.
		d.logger.Warn("active term cache write failed", zap.Error(err))
	}
	return active, nil
}

// Run executes one operation end to end and reports the resolved term. The
// caller gets either nil or the operation's error; full detail has already
// been written to the operational log by the time Run returns.
func (d *DispatchService) Run(ctx context.Context, code OpCode, strm int) (int, error) {
	runID := uuid.New().String()
	started := time.Now()

	resolved, err := d.ResolveTerm(ctx, strm)
	if err == nil {
		err = d.execute(ctx, code, resolved)
	}

	status := "success"
	message := fmt.Sprintf("operation %d completed", code)
	if err != nil {
		status = "error"
		message = err.Error()
		d.logger.Error("sync operation failed",
			zap.String("run_id", runID),
			zap.Int("op_code", int(code)),
			zap.Int("strm", resolved),
			zap.Error(err))
	} else {
		d.logger.Info("sync operation completed",
			zap.String("run_id", runID),
			zap.Int("op_code", int(code)),
			zap.Int("strm", resolved),
			zap.Duration("elapsed", time.Since(started)))
	}

	entry := &domain.OpLogEntry{
		RunID:      runID,
		OpCode:     int(code),
		Status:     status,
		Message:    message,
		Strm:       resolved,
		DurationMs: time.Since(started).Milliseconds(),
	}
	if logErr := d.oplog.Append(ctx, entry); logErr != nil {
		d.logger.Error("operational log append failed", zap.Error(logErr))
	}
	if err == nil {
		marker := time.Now().In(d.loc).Format(time.RFC3339)
		if kvErr := d.kv.Set(ctx, lastRunKeyPrefix+strconv.Itoa(int(code)), marker, 0); kvErr != nil {
			d.logger.Warn("last-run marker write failed", zap.Error(kvErr))
		}
	}
	return resolved, err
}

func (d *DispatchService) execute(ctx context.Context, code OpCode, strm int) error {
	switch code {
	case OpClassSync:
		return d.schedule.SyncClassSchedule(ctx, strm)
	case OpExamSync:
		// Exam sync includes the transfer into daily events.
		if err := d.schedule.SyncExamSchedule(ctx, strm); err != nil {
			return err
		}
		return d.forEachActiveBuilding(ctx, func(buildingID int64) error {
			return d.schedule.ExpandExamSchedule(ctx, buildingID, strm)
		})
	case OpSetpointTransfer:
		return d.forEachActiveBuilding(ctx, func(buildingID int64) error {
			return d.schedule.PushSetpoints(ctx, buildingID, strm, TransferModeAirflow)
		})
	case OpClassTransfer:
		return d.forEachActiveBuilding(ctx, func(buildingID int64) error {
			return d.schedule.ExpandClassSchedule(ctx, buildingID, strm)
		})
	default:
		return fmt.Errorf("unknown operation code %d", code)
	}
}

func (d *DispatchService) forEachActiveBuilding(ctx context.Context, fn func(buildingID int64) error) error {
	buildings, err := d.reference.ActiveBuildings(ctx)
	if err != nil {
		return err
	}
	for _, b := range buildings {
		if err := fn(b.BuildingID); err != nil {
			return fmt.Errorf("building %s: %w", b.BuildingCode, err)
		}
	}
	return nil
}
