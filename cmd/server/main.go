package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orgkit/orgkit/internal/advisory"
	"github.com/orgkit/orgkit/internal/api"
	"github.com/orgkit/orgkit/internal/auth"
	"github.com/orgkit/orgkit/internal/config"
	"github.com/orgkit/orgkit/internal/database"
	"github.com/orgkit/orgkit/internal/organization"
	"github.com/orgkit/orgkit/internal/project"
	"github.com/orgkit/orgkit/internal/review"
	"github.com/orgkit/orgkit/internal/team"
	"github.com/orgkit/orgkit/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx := context.Background()

	if err := database.Migrate(ctx, cfg.DatabaseURL); err != nil {
		slog.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := user.NewRepository(db.Pool())
	orgRepo := organization.NewRepository(db.Pool())

	authService := auth.NewService(userRepo, orgRepo, cfg.BcryptCost)
	if _, err := authService.Bootstrap(ctx); err != nil {
		slog.Error("failed to bootstrap initial executive", "error", err)
		os.Exit(1)
	}

	router := api.NewRouter(api.RouterDeps{
		DBPinger:      db,
		Version:       cfg.Version,
		AuthService:   authService,
		Organizations: orgRepo,
		Users:         userRepo,
		Teams:         team.NewRepository(db.Pool()),
		Projects:      project.NewRepository(db.Pool()),
		Advisories:    advisory.NewRepository(db.Pool()),
		Reviews:       review.NewRepository(db.Pool()),
		Clock:         time.Now,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting orgkit server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
