package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/tidyops/payroll-backend-go/internal/config"
	"github.com/tidyops/payroll-backend-go/internal/handler/http/middleware"
	"github.com/tidyops/payroll-backend-go/internal/pkg/jwt"
)

func NewRouter(
	cfg config.AppConfig,
	jwtService jwt.Service,
	rateHandler RateHandler,
	timesheetHandler TimesheetHandler,
	payrollRunHandler PayrollRunHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "tidyops-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/rates", func(r chi.Router) {
				r.Get("/resolve", rateHandler.Resolve)
				r.Get("/employee/{employeeID}", rateHandler.ListByEmployee)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", rateHandler.Create)
				})
			})

			r.Route("/timesheets", func(r chi.Router) {
				r.Get("/", timesheetHandler.List)
				r.Get("/{id}", timesheetHandler.Get)
				r.Put("/{id}", timesheetHandler.Update)
				r.Post("/{id}/approve", timesheetHandler.Approve)
				r.Post("/{id}/unapprove", timesheetHandler.Unapprove)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", timesheetHandler.Create)
					r.Post("/generate", timesheetHandler.Generate)
					r.Delete("/{id}", timesheetHandler.Delete)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/period", payrollRunHandler.GetCurrentPeriod)

				r.Route("/cycle", func(r chi.Router) {
					r.Get("/", payrollRunHandler.GetCycle)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Put("/", payrollRunHandler.UpdateCycle)
					})
				})

				r.Route("/runs", func(r chi.Router) {
					// Run history is readable by any employee; the
					// service scopes what each role sees.
					r.Get("/", payrollRunHandler.ListRuns)
					r.Get("/{id}", payrollRunHandler.GetRun)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Post("/", payrollRunHandler.CreateRun)
						r.Get("/{id}/candidates", payrollRunHandler.ListCandidates)
						r.Post("/{id}/approve", payrollRunHandler.ApproveTimesheets)
						r.Post("/{id}/recalculate", payrollRunHandler.RecalculateRun)
						r.Post("/{id}/lock", payrollRunHandler.LockRun)
						r.Delete("/{id}", payrollRunHandler.DeleteRun)
					})
				})
			})
		})
	})
	return r
}
