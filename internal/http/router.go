package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig wires handlers and cross-cutting concerns into the router.
// Nil handlers leave their routes unregistered.
type RouterConfig struct {
	Employees      *EmployeeHandler
	Attendance     *AttendanceHandler
	Health         *HealthHandler
	Metrics        http.Handler
	Observer       RequestObserver
	AllowedOrigins []string
	Logger         *slog.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	responder := newResponder(cfg.Logger)
	r := chi.NewRouter()

	r.Use(RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(RequestMetrics(cfg.Observer))
	r.Use(CORS(cfg.AllowedOrigins))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responder.writeError(req.Context(), w, http.StatusNotFound, codeNotFound, "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		responder.writeError(req.Context(), w, http.StatusMethodNotAllowed, codeBadRequest, "Method not allowed", nil)
	})

	if cfg.Health != nil {
		r.Get("/healthz", cfg.Health.Check)
	}
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.Employees != nil {
			api.Get("/employees", cfg.Employees.List)
			api.Post("/employees", cfg.Employees.Create)
			api.Get("/employees/{employeeID}", cfg.Employees.Get)
			api.Delete("/employees/{employeeID}", cfg.Employees.Delete)
		}
		if cfg.Attendance != nil {
			api.Get("/attendance", cfg.Attendance.List)
			api.Post("/attendance", cfg.Attendance.Mark)
			api.Get("/employees/{employeeID}/attendance", cfg.Attendance.ListForEmployee)
			api.Get("/employees/{employeeID}/attendance/summary", cfg.Attendance.Summary)
		}
	})

	return r
}
