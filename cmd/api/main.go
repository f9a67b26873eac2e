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

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/univ-hr-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/keylock"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/kvstore"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/repository/kv"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/repository/sqlite"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/service/directory"
	leaveService "github.com/cmlabs-hris/univ-hr-backend-go/internal/service/leave"
	payrollService "github.com/cmlabs-hris/univ-hr-backend-go/internal/service/payroll"
	"github.com/go-chi/httplog/v3"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "univ-hr"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	employeeRepo := kv.NewEmployeeRepository(store)
	roleRepo := kv.NewRoleRepository(store)
	departmentRepo := kv.NewDepartmentRepository(store)
	roleAssignmentRepo := kv.NewRoleAssignmentRepository(store)
	leaveRequestRepo := kv.NewLeaveRequestRepository(store)
	payloadRepo := kv.NewPayloadRepository(store)
	approvalRepo := kv.NewApprovalRepository(store)
	attendanceRepo := kv.NewAttendanceRepository(store)
	deductionRepo := kv.NewDeductionRepository(store)
	payrollRepo := kv.NewPayrollRepository(store)

	dir := directory.NewDirectory(employeeRepo, roleRepo, departmentRepo, roleAssignmentRepo)
	if cfg.Seed.Defaults {
		if err := dir.SeedDefaults(ctx); err != nil {
			return fmt.Errorf("failed to seed defaults: %w", err)
		}
	}

	// Leave decisions and payroll runs share one lock table.
	locks := keylock.New()
	rates := payrollService.NewRateCalculator()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	leaveSvc := leaveService.NewLeaveService(
		leaveRequestRepo,
		payloadRepo,
		approvalRepo,
		attendanceRepo,
		dir,
		leaveService.NewApprovalRouter(dir),
		locks,
		nil,
	)
	deductionSvc := payrollService.NewDeductionService(dir, rates, attendanceRepo, deductionRepo, leaveRequestRepo, locks, nil)
	payrollSvc := payrollService.NewPayrollService(dir, rates, attendanceRepo, deductionRepo, payrollRepo, locks, nil)

	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	payrollHandler := appHTTP.NewPayrollHandler(deductionSvc, payrollSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         logger,
			LogLevel:       cfg.SlogLevel(),
			AllowedOrigins: cfg.CORS.AllowedOrigins,
		},
		JWTService,
		leaveHandler,
		payrollHandler,
	)

	scheduler := cron.NewScheduler(ctx, logger)
	scheduler.Register(cron.NewDeductionJobs(deductionSvc, cfg.Jobs.DeductionSweepInterval, nil))
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server running", "addr", server.Addr, "store", cfg.Store.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openStore returns the configured record store and a function releasing it.
func openStore(ctx context.Context, cfg *config.Config) (kvstore.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		store, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("error opening sqlite store: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	case config.StoreDriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, nil, fmt.Errorf("error connecting to database: %w", err)
		}
		if err := postgresql.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("error preparing records table: %w", err)
		}
		return postgresql.NewRecordStore(db), db.Close, nil
	default:
		return kvstore.NewMemory(), func() {}, nil
	}
}
