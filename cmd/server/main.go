package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	webAdapter "fieldops/internal/adapters/web"
	"fieldops/internal/ai"
	"fieldops/internal/app"
	"fieldops/internal/config"
	"fieldops/internal/core"
	"fieldops/internal/db"
	"fieldops/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup()
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := db.OpenStore(ctx, cfg)
	if err != nil {
		slog.Error("store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	engine := core.NewEngine(repo)
	engine.Policy.DefaultTaxRate = cfg.DefaultTaxRate
	engine.WeeklyCapacityHours = cfg.WeeklyCapacityHours

	var drafter ai.DrafterService
	if cfg.OpenAIAPIKey != "" {
		drafter = ai.NewAgent(cfg.OpenAIAPIKey)
	} else {
		slog.Warn("OPENAI_API_KEY is not set, AI quote drafting unavailable")
	}

	svc := app.NewAppService(engine, cfg.Flags, drafter)
	handler := webAdapter.NewHandler(svc, cfg.AllowedOrigins, webAdapter.NewMetrics())

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown", "error", err)
		}
	}()

	slog.Info("server starting", "port", cfg.ServerPort, "store", cfg.StoreDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
