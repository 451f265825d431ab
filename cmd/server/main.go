package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/school-records/internal/config"
	"github.com/stemsi/school-records/internal/database"
	"github.com/stemsi/school-records/internal/handler"
	"github.com/stemsi/school-records/internal/logger"
	"github.com/stemsi/school-records/internal/middleware"
	"github.com/stemsi/school-records/internal/repository"
	"github.com/stemsi/school-records/internal/repository/memory"
	"github.com/stemsi/school-records/internal/router"
	"github.com/stemsi/school-records/internal/service"
	"github.com/stemsi/school-records/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("storage", cfg.StorageDriver).
		Str("log_level", cfg.LogLevel).
		Msg("Starting school-records backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Open Storage ──────────────────────────────────────────────────
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer closeStore()

	// ─── Connect to Redis (rate limiting only) ─────────────────────────
	var rdb *redis.Client
	var limiter *middleware.RateLimiter
	if cfg.RateLimitPerMinute > 0 {
		rdb, err = database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		limiter = middleware.NewRateLimiter(middleware.NewRedisCounter(rdb), cfg.RateLimitPerMinute, time.Minute, log)
	}

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(store.Users(), cfg.BcryptCost, log)
	studentService := service.NewStudentService(store, log)
	teacherService := service.NewTeacherService(store, log)
	courseService := service.NewCourseService(store, log)

	if cfg.BootstrapUser != "" && cfg.BootstrapPassword != "" {
		created, err := authService.EnsureUser(ctx, cfg.BootstrapUser, cfg.BootstrapPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to bootstrap API user")
		}
		if created {
			log.Info().Str("username", cfg.BootstrapUser).Msg("Bootstrap API user created")
		}
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Student: handler.NewStudentHandler(studentService),
		Teacher: handler.NewTeacherHandler(teacherService),
		Course:  handler.NewCourseHandler(courseService),
		Health:  handler.NewHealthHandler(store, rdb, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, limiter, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// openStore selects the storage backend named by STORAGE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repository.Database, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		log.Warn().Msg("Using in-memory storage; records are lost on exit")
		return memory.NewInMemory(), func() {}, nil
	case config.StoragePostgres:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgres(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
