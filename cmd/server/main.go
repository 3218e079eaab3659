package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/college-registration/internal/config"
	"github.com/stemsi/college-registration/internal/database"
	"github.com/stemsi/college-registration/internal/handler"
	"github.com/stemsi/college-registration/internal/logger"
	"github.com/stemsi/college-registration/internal/repository"
	"github.com/stemsi/college-registration/internal/router"
	"github.com/stemsi/college-registration/internal/service"
	"github.com/stemsi/college-registration/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("addr", cfg.Addr()).
		Str("mode", cfg.GinMode).
		Str("database", cfg.DatabasePath).
		Msg("Starting student registration server")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Initialize Schema ─────────────────────────────────────────────
	if err := database.Initialize(cfg.DatabasePath, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	// ─── Open SQLite Pool ──────────────────────────────────────────────
	db, err := database.NewSQLitePool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to SQLite")
	}
	defer db.Close()

	// ─── Wire Layers ───────────────────────────────────────────────────
	studentRepo := repository.NewStudentRepository()
	studentService := service.NewStudentService(studentRepo, log)

	handlers := &router.Handlers{
		Student: handler.NewStudentHandler(studentService, log),
		System:  handler.NewSystemHandler(studentService, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r, err := router.SetupRouter(db, handlers, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up router")
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
