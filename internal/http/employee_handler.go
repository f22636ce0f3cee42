package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/attendance-tracker/internal/application"
)

type employeeService interface {
	CreateEmployee(ctx context.Context, input application.EmployeeInput) (application.Employee, error)
	GetEmployee(ctx context.Context, employeeID string) (application.Employee, error)
	ListEmployees(ctx context.Context) ([]application.Employee, error)
	DeleteEmployee(ctx context.Context, employeeID string) error
}

type employeeRequest struct {
	EmployeeID identifier `json:"employee_id"`
	FullName   string     `json:"full_name"`
	Email      string     `json:"email"`
	Department string     `json:"department"`
}

func (r employeeRequest) toInput() application.EmployeeInput {
	return application.EmployeeInput{
		EmployeeID: string(r.EmployeeID),
		FullName:   r.FullName,
		Email:      r.Email,
		Department: r.Department,
	}
}

type employeeDTO struct {
	ID         int64     `json:"id"`
	EmployeeID string    `json:"employee_id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
}

func toEmployeeDTO(e application.Employee) employeeDTO {
	return employeeDTO{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		FullName:   e.FullName,
		Email:      e.Email,
		Department: e.Department,
		CreatedAt:  e.CreatedAt.UTC(),
	}
}

// EmployeeHandler serves the employee registry routes.
type EmployeeHandler struct {
	service   employeeService
	responder responder
	logger    *slog.Logger
}

func NewEmployeeHandler(service employeeService, logger *slog.Logger) *EmployeeHandler {
	base := defaultLogger(logger)
	return &EmployeeHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *EmployeeHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "EmployeeHandler", operation, attrs...)
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req employeeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log(ctx, "Create", "error_kind", "bad_request").WarnContext(ctx, "failed to decode employee request", "error", err)
		writeDecodeError(ctx, h.responder, w, err)
		return
	}

	employee, err := h.service.CreateEmployee(ctx, req.toInput())
	if err != nil {
		h.log(ctx, "Create").DebugContext(ctx, "employee creation rejected", "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusCreated, toEmployeeDTO(employee))
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	employees, err := h.service.ListEmployees(ctx)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	payload := make([]employeeDTO, 0, len(employees))
	for _, e := range employees {
		payload = append(payload, toEmployeeDTO(e))
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, payload)
}

func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	employee, err := h.service.GetEmployee(ctx, employeeIDParam(r))
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, toEmployeeDTO(employee))
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.service.DeleteEmployee(ctx, employeeIDParam(r)); err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusNoContent, nil)
}
