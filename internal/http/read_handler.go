package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/RIT-ITS/DCVTool-sub002/internal/domain"
	"github.com/RIT-ITS/DCVTool-sub002/internal/repository"
	"github.com/RIT-ITS/DCVTool-sub002/internal/service"
)

// readParams carries the decoded query parameters shared by every read
// operation. d/t arrive as comma-joined year,month,day triples and are
// composed into "YYYY-M-D" strings here, before any parsing.
type readParams struct {
	ID   int64  // i
	Strm int    // s
	N    int    // n
	C    int64  // c: campus id
	B    int64  // b: building id
	F    string // f: facility id / zone code / table name, per operation
	D    string // d: window start
	T    string // t: window end
}

type readOp func(ctx context.Context, p readParams) (rows any, n int, err error)

// ReadHandler serves the numbered reference read operations. Every operation
// answers the same envelope; unknown operation numbers answer the fixed
// "No Data." body with HTTP 200, which is what legacy consumers expect.
type ReadHandler struct {
	rooms       *repository.RoomsRepo
	zones       *repository.ZonesRepo
	reference   *repository.ReferenceRepo
	uncertainty *repository.UncertaintyRepo
	terms       *repository.TermsRepo
	xref        *repository.XrefRepo
	schedule    *repository.ScheduleRepo
	audit       *repository.AuditRepo
	oplog       *repository.OpLogRepo
	airflow     *service.AirflowService
	setpoints   *service.SetpointService
	loc         *time.Location
	logger      *zap.Logger

	ops map[int]readOp
}

func NewReadHandler(
	rooms *repository.RoomsRepo,
	zones *repository.ZonesRepo,
	reference *repository.ReferenceRepo,
	uncertainty *repository.UncertaintyRepo,
	terms *repository.TermsRepo,
	xref *repository.XrefRepo,
	schedule *repository.ScheduleRepo,
	audit *repository.AuditRepo,
	oplog *repository.OpLogRepo,
	airflow *service.AirflowService,
	setpoints *service.SetpointService,
	loc *time.Location,
	logger *zap.Logger,
) *ReadHandler {
	h := &ReadHandler{
		rooms:       rooms,
		zones:       zones,
		reference:   reference,
		uncertainty: uncertainty,
		terms:       terms,
		xref:        xref,
		schedule:    schedule,
		audit:       audit,
		oplog:       oplog,
		airflow:     airflow,
		setpoints:   setpoints,
		loc:         loc,
		logger:      logger,
	}
	h.ops = map[int]readOp{
		1:  h.roomByID,
		2:  h.roomsAll,
		3:  h.roomsByBuilding,
		4:  h.roomByFacility,
		5:  h.zoneByID,
		6:  h.zonesAll,
		7:  h.zonesByBuilding,
		8:  h.zoneByCode,
		9:  h.buildingByID,
		10: h.buildingsAll,
		11: h.buildingsByCampus,
		12: h.activeBuildings,
		13: h.campusByID,
		14: h.campusesAll,
		15: h.ahuByID,
		16: h.ahusAll,
		17: h.ahusByBuilding,
		18: h.ashraeByID,
		19: h.ashraeAll,
		20: h.uncertaintyForRoom,
		21: h.termByStrm,
		22: h.termsAll,
		23: h.activeTerm,
		24: h.roomsForZone,
		25: h.zonesForRoom,
		26: h.pairsForZoneCode,
		27: h.buildingXref,
		28: h.eventAirflow,
		29: h.setpointWritesAll,
		30: h.setpointWritesWindow,
		31: h.expandedSetpointsAll,
		32: h.expandedSetpointsWindow,
		33: h.rawScheduleForTerm,
		34: h.expandedScheduleForTerm,
		35: h.auditForRecord,
		36: h.oplogRecent,
	}
	return h
}

func (h *ReadHandler) Handle(w http.ResponseWriter, r *http.Request) {
	qv := r.URL.Query().Get("q")
	opNum, convErr := strconv.Atoi(qv)
	op, ok := h.ops[opNum]
	if convErr != nil || !ok {
		writeJSON(w, http.StatusOK, noData)
		return
	}

	p := parseReadParams(r)
	rows, n, err := op(r.Context(), p)
	if err != nil {
		if errors.Is(err, service.ErrBadDate) {
			writeJSON(w, http.StatusBadRequest, WriteFail("invalid date"))
			return
		}
		h.logger.Error("read operation failed",
			zap.Int("q", opNum), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, WriteFail("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, readOkEnvelope(rows, n))
}

func parseReadParams(r *http.Request) readParams {
	q := r.URL.Query()
	return readParams{
		ID:   parseID(q.Get("i")),
		Strm: int(parseID(q.Get("s"))),
		N:    int(parseID(q.Get("n"))),
		C:    parseID(q.Get("c")),
		B:    parseID(q.Get("b")),
		F:    q.Get("f"),
		D:    composeDate(q.Get("d")),
		T:    composeDate(q.Get("t")),
	}
}

func parseID(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// composeDate joins a "year,month,day" triple into the "YYYY-M-D" form the
// window parser takes. Anything else passes through untouched and fails date
// parsing downstream if it isn't already a date.
func composeDate(s string) string {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return strings.TrimSpace(s)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts[0] + "-" + parts[1] + "-" + parts[2]
}

// listResult / oneResult shape repository output for the envelope. A by-id
// miss is an empty result set, not an error.
func listResult[T any](rows []T, err error) (any, int, error) {
	if err != nil {
		return nil, 0, err
	}
	return rows, len(rows), nil
}

func oneResult[T any](row T, err error) (any, int, error) {
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []T{}, 0, nil
		}
		return nil, 0, err
	}
	return []T{row}, 1, nil
}

// roomDoc flattens domain.Room's nullable floor for output.
type roomDoc struct {
	RoomID            int64   `json:"room_id"`
	FacilityID        string  `json:"facility_id"`
	BuildingID        int64   `json:"building_id"`
	Floor             string  `json:"floor"`
	RoomNumber        string  `json:"room_number"`
	Area              float64 `json:"area"`
	Population        int     `json:"population"`
	UncertaintyAmount int     `json:"uncertainty_amount"`
	AshraeCategoryID  int64   `json:"ashrae_category_id"`
	Reservable        int     `json:"reservable"`
	Active            int     `json:"active"`
}

func toRoomDoc(r *domain.Room) roomDoc {
	return roomDoc{
		RoomID:            r.RoomID,
		FacilityID:        r.FacilityID,
		BuildingID:        r.BuildingID,
		Floor:             r.Floor.String,
		RoomNumber:        r.RoomNumber,
		Area:              r.Area,
		Population:        r.Population,
		UncertaintyAmount: r.UncertaintyAmount,
		AshraeCategoryID:  r.AshraeCategoryID,
		Reservable:        r.Reservable,
		Active:            r.Active,
	}
}

func toRoomDocs(rooms []*domain.Room) []roomDoc {
	out := make([]roomDoc, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, toRoomDoc(r))
	}
	return out
}

// pairDoc is one room-zone cross-reference row with both endpoints inlined.
type pairDoc struct {
	XrefID         int64   `json:"xref_id"`
	RoomID         int64   `json:"room_id"`
	ZoneID         int64   `json:"zone_id"`
	PrPercent      float64 `json:"pr_percent"`
	XrefArea       float64 `json:"xref_area"`
	XrefPopulation int     `json:"xref_population"`
	FacilityID     string  `json:"facility_id"`
	RoomNumber     string  `json:"room_number"`
	RoomActive     int     `json:"room_active"`
	ZoneCode       string  `json:"zone_code"`
	ZoneName       string  `json:"zone_name"`
	ZoneActive     int     `json:"zone_active"`
}

func toPairDocs(pairs []*repository.RoomZonePair) []pairDoc {
	out := make([]pairDoc, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, pairDoc{
			XrefID:         p.Xref.XrefID,
			RoomID:         p.Xref.RoomID,
			ZoneID:         p.Xref.ZoneID,
			PrPercent:      p.Xref.PrPercent,
			XrefArea:       p.Xref.XrefArea,
			XrefPopulation: p.Xref.XrefPopulation,
			FacilityID:     p.Room.FacilityID,
			RoomNumber:     p.Room.RoomNumber,
			RoomActive:     p.Room.Active,
			ZoneCode:       p.Zone.ZoneCode,
			ZoneName:       p.Zone.ZoneName,
			ZoneActive:     p.Zone.Active,
		})
	}
	return out
}

// rawEventDoc is one raw weekly meeting pattern with dates as plain strings.
type rawEventDoc struct {
	EventID      int64  `json:"event_id"`
	Strm         int    `json:"strm"`
	CourseID     string `json:"course_id"`
	ClassSection string `json:"class_section"`
	CourseTitle  string `json:"course_title"`
	FacilityID   string `json:"facility_id"`
	EnrlTot      int    `json:"enrl_tot"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	MeetingStart string `json:"meeting_start"`
	MeetingEnd   string `json:"meeting_end"`
	Mon          int    `json:"mon"`
	Tue          int    `json:"tue"`
	Wed          int    `json:"wed"`
	Thu          int    `json:"thu"`
	Fri          int    `json:"fri"`
	Sat          int    `json:"sat"`
	Sun          int    `json:"sun"`
	ExamFlag     int    `json:"exam_flag"`
}

func toRawEventDocs(events []*domain.ScheduleEvent) []rawEventDoc {
	out := make([]rawEventDoc, 0, len(events))
	for _, e := range events {
		out = append(out, rawEventDoc{
			EventID:      e.EventID,
			Strm:         e.Strm,
			CourseID:     e.CourseID,
			ClassSection: e.ClassSection,
			CourseTitle:  e.CourseTitle,
			FacilityID:   e.FacilityID,
			EnrlTot:      e.EnrlTot,
			StartDate:    e.StartDate.Format("2006-01-02"),
			EndDate:      e.EndDate.Format("2006-01-02"),
			MeetingStart: e.MeetingStart,
			MeetingEnd:   e.MeetingEnd,
			Mon:          e.Mon,
			Tue:          e.Tue,
			Wed:          e.Wed,
			Thu:          e.Thu,
			Fri:          e.Fri,
			Sat:          e.Sat,
			Sun:          e.Sun,
			ExamFlag:     e.ExamFlag,
		})
	}
	return out
}

func (h *ReadHandler) roomByID(ctx context.Context, p readParams) (any, int, error) {
	room, err := h.rooms.GetRoom(ctx, p.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []roomDoc{}, 0, nil
		}
		return nil, 0, err
	}
	return []roomDoc{toRoomDoc(room)}, 1, nil
}

func (h *ReadHandler) roomsAll(ctx context.Context, p readParams) (any, int, error) {
	rooms, err := h.rooms.ListRooms(ctx, 0)
	if err != nil {
		return nil, 0, err
	}
	docs := toRoomDocs(rooms)
	return docs, len(docs), nil
}

func (h *ReadHandler) roomsByBuilding(ctx context.Context, p readParams) (any, int, error) {
	rooms, err := h.rooms.ListRooms(ctx, p.B)
	if err != nil {
		return nil, 0, err
	}
	docs := toRoomDocs(rooms)
	return docs, len(docs), nil
}

func (h *ReadHandler) roomByFacility(ctx context.Context, p readParams) (any, int, error) {
	room, err := h.rooms.RoomByFacility(ctx, p.F)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []roomDoc{}, 0, nil
		}
		return nil, 0, err
	}
	return []roomDoc{toRoomDoc(room)}, 1, nil
}

func (h *ReadHandler) zoneByID(ctx context.Context, p readParams) (any, int, error) {
	return oneResult(h.zones.GetZone(ctx, p.ID))
}

func (h *ReadHandler) zonesAll(ctx context.Context, p readParams) (any, int, error) {
	return listResult(h.zones.ListZones(ctx, 0))
}

func (h *ReadHandler) zonesByBuilding(ctx context.Context, p readParams) (any, int, error) {
	return listResult(h.zones.ListZones(ctx, p.B))
}

func (h *ReadHandler) zoneByCode(ctx context.Context, p readParams) (any, int, error) {
	return oneResult(h.zones.GetZoneByCode(ctx, p.F))
}

func (h *ReadHandler) buildingByID(ctx context.Context, p readParams) (any, int, error) {
	return oneResult(h.reference.GetBuilding(ctx, p.ID))
}

func (h *ReadHandler) buildingsAll(ctx context.Context, p readParams) (any, int, error) {
	return listResult(h.reference.ListBuildings(ctx, 0))
}

func (h *ReadHandler) buildingsByCampus(ctx context.Context, p readParams) (any, int, error) {
	return listResult(h.reference.ListBuildings(ctx, p.C))
}

func (h *ReadHandler) activeBuildings(ctx context.Context, p readParams) (any, int, error) {
	return listResult(h.reference.ActiveBuildings(ctx))
}

func (h *ReadHandler) campusByID(ctx context.Context, p readParams) (any, int, error) {
	return oneResult(h.reference.GetCampus(ctx, p.ID))
}

func (h *ReadHandler) campusesAll(ctx context.Context, p readParams) (any, int, error) {
	return listResult(h.reference.ListCampuses(ctx))
}

func (h *ReadHandler) ahuByID(ctx context.Context, p readParams) (any, int, error) {
	return oneResult(h.reference.GetAhu(ctx, p.ID))
}

func (h *ReadHandler) ahusAll(ctx context.Context, p readParams) (any, int, error) {
	return listResult(h.reference.ListAhus(ctx, 0))
}

func (h *ReadHandler) ahusByBuilding(ctx context.Context, p readParams) (any, int, error) {
	return listResult(h.reference.ListAhus(ctx, p.B))
}

func (h *ReadHandler) ashraeByID(ctx context.Context, p readParams) (any, int, error) {
	return oneResult(h.reference.GetAshraeCategory(ctx, p.ID))
}

func (h *ReadHandler) ashraeAll(ctx context.Context, p readParams) (any, int, error) {
	return listResult(h.reference.ListAshraeCategories(ctx))
}

func (h *ReadHandler) uncertaintyForRoom(ctx context.Context, p readParams) (any, int, error) {
	return oneResult(h.uncertainty.GetForRoom(ctx, p.ID))
}

func (h *ReadHandler) termByStrm(ctx context.Context, p readParams) (any, int, error) {
	return oneResult(h.terms.GetTerm(ctx, p.Strm))
}

func (h *ReadHandler) termsAll(ctx context.Context, p readParams) (any, int, error) {
	return listResult(h.terms.ListTerms(ctx))
}

func (h *ReadHandler) activeTerm(ctx context.Context, p readParams) (any, int, error) {
	strm, err := h.terms.ActiveTerm(ctx, time.Now().In(h.loc))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []*domain.Term{}, 0, nil
		}
		return nil, 0, err
	}
	return oneResult(h.terms.GetTerm(ctx, strm))
}

func (h *ReadHandler) roomsForZone(ctx context.Context, p readParams) (any, int, error) {
	pairs, err := h.xref.RoomsForZone(ctx, p.ID)
	if err != nil {
		return nil, 0, err
	}
	docs := toPairDocs(pairs)
	return docs, len(docs), nil
}

func (h *ReadHandler) zonesForRoom(ctx context.Context, p readParams) (any, int, error) {
	pairs, err := h.xref.ZonesForRoom(ctx, p.ID)
	if err != nil {
		return nil, 0, err
	}
	docs := toPairDocs(pairs)
	return docs, len(docs), nil
}

func (h *ReadHandler) pairsForZoneCode(ctx context.Context, p readParams) (any, int, error) {
	pairs, err := h.xref.PairsForZoneCode(ctx, p.F)
	if err != nil {
		return nil, 0, err
	}
	docs := toPairDocs(pairs)
	return docs, len(docs), nil
}

func (h *ReadHandler) buildingXref(ctx context.Context, p readParams) (any, int, error) {
	return listResult(h.airflow.BuildingXref(ctx, p.B))
}

func (h *ReadHandler) eventAirflow(ctx context.Context, p readParams) (any, int, error) {
	return listResult(h.airflow.EventAirflow(ctx, p.B, p.Strm))
}

func (h *ReadHandler) setpointWritesAll(ctx context.Context, p readParams) (any, int, error) {
	return listResult(h.setpoints.AllWrites(ctx))
}

func (h *ReadHandler) setpointWritesWindow(ctx context.Context, p readParams) (any, int, error) {
	return listResult(h.setpoints.WritesWindow(ctx, p.D, p.T))
}

func (h *ReadHandler) expandedSetpointsAll(ctx context.Context, p readParams) (any, int, error) {
	return listResult(h.setpoints.ExpandedAll(ctx))
}

func (h *ReadHandler) expandedSetpointsWindow(ctx context.Context, p readParams) (any, int, error) {
	return listResult(h.setpoints.ExpandedWindow(ctx, p.D, p.T))
}

func (h *ReadHandler) rawScheduleForTerm(ctx context.Context, p readParams) (any, int, error) {
	events, err := h.schedule.RawForTerm(ctx, p.Strm)
	if err != nil {
		return nil, 0, err
	}
	docs := toRawEventDocs(events)
	return docs, len(docs), nil
}

func (h *ReadHandler) expandedScheduleForTerm(ctx context.Context, p readParams) (any, int, error) {
	return listResult(h.schedule.ExpandedForTerm(ctx, p.B, p.Strm))
}

// auditForRecord takes the table name in f and the row id in i. Table names
// are validated against the registered upsert specs; arbitrary names never
// reach the query.
func (h *ReadHandler) auditForRecord(ctx context.Context, p readParams) (any, int, error) {
	if !auditableTable(p.F) {
		return []*domain.AuditEntry{}, 0, nil
	}
	return listResult(h.audit.ListForRecord(ctx, p.F, p.ID))
}

func auditableTable(name string) bool {
	for _, spec := range []repository.TableSpec{
		repository.RoomsTable(), repository.ZonesTable(),
		repository.EquipmentMapTable(), repository.UncertaintyTable(),
		repository.TermsTable(), repository.UsersTable(),
	} {
		if spec.Table == name {
			return true
		}
	}
	return false
}

func (h *ReadHandler) oplogRecent(ctx context.Context, p readParams) (any, int, error) {
	return listResult(h.oplog.Recent(ctx, p.N))
}
