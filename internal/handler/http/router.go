package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/time/rate"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Auth       AuthHandler
	Shift      ShiftHandler
	Department DepartmentHandler
	Employee   EmployeeHandler
	Attendance AttendanceHandler
	Leave      LeaveHandler
	Dashboard  DashboardHandler
	Salary     SalaryHandler
}

func NewRouter(cfg *config.Config, JWTService jwt.Service, m *metrics.Metrics, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "ems-cmlabs"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.SlogLevel(),
		Schema: httplog.SchemaECS,
	}))
	r.Use(middleware.Metrics(m))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Method("GET", "/metrics", m.Handler())

	checkLimit := middleware.RateLimitByUser(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)

	r.Route("/api", func(r chi.Router) {
		r.With(chiMiddleware.AllowContentEncoding("application/json")).
			Post("/auth/login", h.Auth.Login)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Get("/auth/verify", h.Auth.Verify)
			r.Put("/setting/change-password", h.Auth.ChangePassword)

			r.Route("/attendance", func(r chi.Router) {
				r.With(checkLimit).Post("/check-in", h.Attendance.CheckIn)
				r.With(checkLimit).Post("/check-out", h.Attendance.CheckOut)
				r.Get("/today/{employeeId}", h.Attendance.Today)
				r.Get("/employee/{employeeId}", h.Attendance.EmployeeMonth)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/all", h.Attendance.ListAll)
					r.Get("/statistics", h.Attendance.Statistics)
					r.Get("/today-attendance", h.Attendance.TodaySummary)
					r.Post("/mark", h.Attendance.Mark)
				})
			})

			r.Route("/leave", func(r chi.Router) {
				r.Get("/balance/{employeeId}", h.Leave.Balance)
				r.Post("/add", h.Leave.Submit)
				r.Get("/employee/{employeeId}", h.Leave.ListByEmployee)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/all", h.Leave.ListAll)
					r.Put("/status/{id}", h.Leave.Decide)
				})

				r.Get("/{id}", h.Leave.Get)
			})

			r.Route("/salary", func(r chi.Router) {
				r.Get("/employee/{employeeId}", h.Salary.ListByEmployee)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Salary.List)
					r.Post("/add", h.Salary.Add)
				})

				r.Get("/{id}", h.Salary.Get)
			})

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", h.Shift.List)
				r.Get("/{id}", h.Shift.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/add", h.Shift.Create)
					r.Put("/{id}", h.Shift.Update)
					r.Delete("/{id}", h.Shift.Deactivate)
				})
			})

			r.Route("/department", func(r chi.Router) {
				r.Get("/", h.Department.List)
				r.Get("/{id}", h.Department.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/add", h.Department.Create)
					r.Put("/{id}", h.Department.Update)
					r.Delete("/{id}", h.Department.Delete)
				})
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Route("/employees", func(r chi.Router) {
					r.Get("/", h.Employee.List)
					r.Post("/add", h.Employee.Create)
					r.Get("/department/{departmentId}", h.Employee.ListByDepartment)
					r.Get("/{id}", h.Employee.Get)
					r.Put("/{id}", h.Employee.Update)
					r.Delete("/{id}", h.Employee.Delete)
				})

				r.Get("/dashboard/summary", h.Dashboard.GetDashboard)
				r.Get("/dashboard/employee-detail", h.Dashboard.GetEmployeeDetail)
			})
		})
	})
	return r
}
