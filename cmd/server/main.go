package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ramit8508/Teacher-managment-system-sub000/internal/config"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/database"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/handler"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/logger"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/repository"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/router"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/rules"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/service"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/validator"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting school administration backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	assignmentRepo := repository.NewClassAssignmentRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)
	feeRepo := repository.NewFeeRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	// ─── Initialize Rule Engine ────────────────────────────────────────
	// The cached registry fronts assignment lookups for every scope
	// resolution; the guard shares it so grants stay consistent.
	registry := service.NewCachedAssignmentRegistry(assignmentRepo, rdb, cfg.AssignmentCacheTTL, log)
	scope := rules.NewScopeResolver(registry)
	guard := rules.NewMutationGuard(scope, attendanceRepo)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	auditService := service.NewAuditService(rdb, log)
	userService := service.NewUserService(userRepo, authService, registry, auditService, log)
	studentService := service.NewStudentService(studentRepo, guard, auditService)
	assignmentService := service.NewClassAssignmentService(assignmentRepo, userRepo, registry, auditService)
	attendanceService := service.NewAttendanceService(attendanceRepo, studentRepo, guard, registry, auditService, rdb, log)
	feeService := service.NewFeeService(feeRepo, studentRepo, guard, auditService)
	examService := service.NewExamService(examRepo, studentRepo, guard, auditService)
	dashboardService := service.NewDashboardService(dashboardRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(userService),
		User:       handler.NewUserHandler(userService),
		Student:    handler.NewStudentHandler(studentService),
		Assignment: handler.NewClassAssignmentHandler(assignmentService),
		Attendance: handler.NewAttendanceHandler(attendanceService),
		Fee:        handler.NewFeeHandler(feeService),
		Exam:       handler.NewExamHandler(examService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
		WS:         handler.NewWSHandler(rdb, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Worker ──────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	auditWorker := worker.NewAuditWorker(pool, rdb, log)
	go auditWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the audit worker and wait for the queue to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow the worker to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
