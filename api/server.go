/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. CORS:        Cross-origin requests for frontends
  2. RequestID:   Unique ID per request for tracing
  3. httplog:     Structured request logging (slog, ECS schema)
  4. CleanPath:   Normalizes double slashes
  5. Recoverer:   Panic recovery (500 instead of crash)
  6. Heartbeat:   GET /health for load balancers

ROUTE GROUPS:
  /api/organizations/*  Policies and holidays
  /api/employees/*      Employees, balances, overrides, adjustments, absences
  /api/absences/*       Absence workflow
  /api/calendar/*       Business days and proration helpers
  /api/admin/*          Year-end rollover
  /api/scenarios/*      Demo scenarios
  /api/reports/*        Spreadsheet export
  /api/reset            Database reset (dev only)

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"io"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// RouterOptions configures the middleware stack.
type RouterOptions struct {
	CORSOrigins []string
	LogLevel    slog.Level
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:8080"}
	}

	// Middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RequestID)
	r.Use(httplog.RequestLogger(h.Logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))
	r.Use(middleware.CleanPath)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))

	r.Route("/api", func(r chi.Router) {
		// Organization routes
		r.Route("/organizations/{orgID}", func(r chi.Router) {
			r.Get("/policy", h.GetPolicy)
			r.Put("/policy", h.PutPolicy)
			r.Get("/holidays", h.ListHolidays)
			r.Post("/holidays", h.CreateHoliday)
			r.Post("/holidays/import", h.ImportHolidays)
			r.Delete("/holidays/{holidayID}", h.DeleteHoliday)
		})

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Get("/{id}/balance", h.GetBalance)
			r.Post("/{id}/balance/check", h.CheckBalance)
			r.Get("/{id}/override", h.GetOverride)
			r.Put("/{id}/override", h.PutOverride)
			r.Get("/{id}/adjustments", h.ListAdjustments)
			r.Post("/{id}/adjustments", h.CreateAdjustment)
			r.Get("/{id}/absences", h.ListAbsences)
			r.Post("/{id}/absences", h.CreateAbsence)
		})

		// Absence workflow routes
		r.Route("/absences/{id}", func(r chi.Router) {
			r.Get("/", h.GetAbsence)
			r.Post("/approve", h.ApproveAbsence)
			r.Post("/reject", h.RejectAbsence)
			r.Post("/cancel", h.CancelAbsence)
		})

		// Calendar routes
		r.Route("/calendar", func(r chi.Router) {
			r.Get("/business-days", h.BusinessDays)
			r.Get("/prorate", h.Prorate)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/rollover", h.TriggerRollover)
			r.Get("/rollover/runs", h.ListRolloverRuns)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
		})

		r.Get("/reports/balances.xlsx", h.ExportBalances)
		r.Post("/reset", h.ResetDatabase)
	})

	return r
}

// NewLogger builds the JSON slog logger used by the request logger and
// handlers.
func NewLogger(w io.Writer, level slog.Level, env string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "production")
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "vacation-engine"),
		slog.String("env", env),
	)
}
