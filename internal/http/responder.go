package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/example/attendance-tracker/internal/application"
)

// Error codes carried in the error envelope.
const (
	codeInvalidInput    = "INVALID_INPUT"
	codeNotFound        = "NOT_FOUND"
	codeDuplicateKey    = "DUPLICATE_KEY"
	codeDuplicateRecord = "DUPLICATE_RECORD"
	codeBadRequest      = "BAD_REQUEST"
	codeInternal        = "INTERNAL"
)

const (
	msgEmployeeNotFound = "Employee not found"
	msgDuplicateKey     = "Employee with this ID already exists"
	msgDuplicateRecord  = "Attendance already marked for this employee on this date"
	msgBadRequestBody   = "Request body must be a valid JSON object"
	msgInternal         = "Internal server error"
)

type errorResponse struct {
	Detail    string            `json:"detail"`
	ErrorCode string            `json:"error_code"`
	Errors    map[string]string `json:"errors,omitempty"`
}

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	return responder{logger: defaultLogger(logger)}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, code, detail string, fields map[string]string) {
	r.writeJSON(ctx, w, status, errorResponse{Detail: detail, ErrorCode: code, Errors: fields})
}

func (r responder) badRequest(ctx context.Context, w http.ResponseWriter, detail string) {
	r.writeError(ctx, w, http.StatusBadRequest, codeBadRequest, detail, nil)
}

// handleServiceError translates service errors into the error envelope.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		r.writeError(ctx, w, http.StatusInternalServerError, codeInternal, msgInternal, nil)
	case errors.Is(err, application.ErrNotFound):
		r.writeError(ctx, w, http.StatusNotFound, codeNotFound, msgEmployeeNotFound, nil)
	case errors.Is(err, application.ErrDuplicateKey):
		r.writeError(ctx, w, http.StatusConflict, codeDuplicateKey, msgDuplicateKey, nil)
	case errors.Is(err, application.ErrDuplicateRecord):
		r.writeError(ctx, w, http.StatusConflict, codeDuplicateRecord, msgDuplicateRecord, nil)
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeError(ctx, w, http.StatusUnprocessableEntity, codeInvalidInput, validationDetail(vErr), vErr.FieldErrors)
			return
		}

		r.loggerFor(ctx).ErrorContext(ctx, "unexpected service error", "error", err)
		r.writeError(ctx, w, http.StatusInternalServerError, codeInternal, msgInternal, nil)
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	return handlerLogger(ctx, r.logger, "responder", "")
}

// validationDetail joins field messages in field order so the detail is stable.
func validationDetail(vErr *application.ValidationError) string {
	if !vErr.HasErrors() {
		return "Invalid input"
	}
	fields := make([]string, 0, len(vErr.FieldErrors))
	for field := range vErr.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		messages = append(messages, vErr.FieldErrors[field])
	}
	return "Invalid input: " + strings.Join(messages, "; ")
}
