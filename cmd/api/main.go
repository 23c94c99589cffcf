package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	appHTTP "github.com/cmlabs-hris/ems-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/ems-backend-go/internal/repository/postgresql"
	redisRepo "github.com/cmlabs-hris/ems-backend-go/internal/repository/redis"
	attendanceService "github.com/cmlabs-hris/ems-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/ems-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/ems-backend-go/internal/service/dashboard"
	departmentService "github.com/cmlabs-hris/ems-backend-go/internal/service/department"
	employeeService "github.com/cmlabs-hris/ems-backend-go/internal/service/employee"
	leaveService "github.com/cmlabs-hris/ems-backend-go/internal/service/leave"
	salaryService "github.com/cmlabs-hris/ems-backend-go/internal/service/salary"
	shiftService "github.com/cmlabs-hris/ems-backend-go/internal/service/shift"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	var balanceCache leave.BalanceCache
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer client.Close()
		balanceCache = redisRepo.NewLeaveBalanceCache(client, cfg.Redis.TTL)
	} else {
		balanceCache = redisRepo.NewNoopLeaveBalanceCache()
	}

	m := metrics.New()
	loc := cfg.Location()

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)
	salaryRepo := postgresql.NewSalaryRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	authSvc := serviceAuth.NewAuthService(userRepo, JWTService)
	shiftSvc := shiftService.NewShiftService(tx, shiftRepo)
	departmentSvc := departmentService.NewDepartmentService(departmentRepo)
	employeeSvc := employeeService.NewEmployeeService(tx, employeeRepo, userRepo, shiftRepo, departmentRepo, balanceCache)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, shiftRepo, loc, m)
	leaveSvc := leaveService.NewLeaveService(tx, leaveRequestRepo, leaveBalanceRepo, employeeRepo, balanceCache, cfg.Leave, loc, m)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, loc)
	salarySvc := salaryService.NewSalaryService(salaryRepo, employeeRepo)

	router := appHTTP.NewRouter(cfg, JWTService, m, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authSvc),
		Shift:      appHTTP.NewShiftHandler(shiftSvc),
		Department: appHTTP.NewDepartmentHandler(departmentSvc),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc),
		Salary:     appHTTP.NewSalaryHandler(salarySvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", server.Addr, "env", cfg.App.Env, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
