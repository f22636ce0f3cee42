package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/attendance-tracker/internal/application"
	"github.com/example/attendance-tracker/internal/calendar"
)

type attendanceService interface {
	MarkAttendance(ctx context.Context, input application.MarkAttendanceInput) (application.AttendanceRecord, error)
	ListAttendance(ctx context.Context, query application.AttendanceQuery) ([]application.AttendanceRecord, error)
	ListEmployeeAttendance(ctx context.Context, query application.EmployeeAttendanceQuery) ([]application.AttendanceRecord, error)
	SummarizeAttendance(ctx context.Context, employeeID string) (application.AttendanceSummary, error)
}

type markAttendanceRequest struct {
	EmployeeID identifier `json:"employee_id"`
	Date       string     `json:"date"`
	IsPresent  *bool      `json:"is_present"`
}

type attendanceDTO struct {
	ID         int64         `json:"id"`
	EmployeeID string        `json:"employee_id"`
	Date       calendar.Date `json:"date"`
	IsPresent  bool          `json:"is_present"`
	CreatedAt  time.Time     `json:"created_at"`
}

func toAttendanceDTO(r application.AttendanceRecord) attendanceDTO {
	return attendanceDTO{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		Date:       r.Date,
		IsPresent:  r.IsPresent,
		CreatedAt:  r.CreatedAt.UTC(),
	}
}

func toAttendanceDTOs(records []application.AttendanceRecord) []attendanceDTO {
	out := make([]attendanceDTO, 0, len(records))
	for _, r := range records {
		out = append(out, toAttendanceDTO(r))
	}
	return out
}

type summaryDTO struct {
	EmployeeID       string `json:"employee_id"`
	TotalPresentDays int    `json:"total_present_days"`
	TotalAbsentDays  int    `json:"total_absent_days"`
}

// AttendanceHandler serves attendance marking, filtering and summaries.
type AttendanceHandler struct {
	service   attendanceService
	responder responder
	logger    *slog.Logger
}

func NewAttendanceHandler(service attendanceService, logger *slog.Logger) *AttendanceHandler {
	base := defaultLogger(logger)
	return &AttendanceHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AttendanceHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "AttendanceHandler", operation, attrs...)
}

func (h *AttendanceHandler) Mark(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req markAttendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(ctx, "Mark", "error_kind", "bad_request").WarnContext(ctx, "failed to decode attendance request", "error", err)
		writeDecodeError(ctx, h.responder, w, err)
		return
	}

	record, err := h.service.MarkAttendance(ctx, application.MarkAttendanceInput{
		EmployeeID: string(req.EmployeeID),
		Date:       req.Date,
		IsPresent:  req.IsPresent,
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusCreated, toAttendanceDTO(record))
}

func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	records, err := h.service.ListAttendance(ctx, application.AttendanceQuery{
		EmployeeID: q.Get("employee_id"),
		Date:       q.Get("date"),
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, toAttendanceDTOs(records))
}

func (h *AttendanceHandler) ListForEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	records, err := h.service.ListEmployeeAttendance(ctx, application.EmployeeAttendanceQuery{
		EmployeeID: employeeIDParam(r),
		StartDate:  q.Get("start_date"),
		EndDate:    q.Get("end_date"),
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, toAttendanceDTOs(records))
}

func (h *AttendanceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.service.SummarizeAttendance(ctx, employeeIDParam(r))
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, summaryDTO{
		EmployeeID:       summary.EmployeeID,
		TotalPresentDays: summary.PresentDays,
		TotalAbsentDays:  summary.AbsentDays,
	})
}
