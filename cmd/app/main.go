package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"fieldops/internal/adapters/cli"
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

	ctx := context.Background()
	repo, closeStore, err := db.OpenStore(ctx, cfg)
	if err != nil {
		slog.Error("store", "error", err)
		os.Exit(1)
	}

	engine := core.NewEngine(repo)
	engine.Policy.DefaultTaxRate = cfg.DefaultTaxRate
	engine.WeeklyCapacityHours = cfg.WeeklyCapacityHours

	var drafter ai.DrafterService
	if cfg.OpenAIAPIKey != "" {
		drafter = ai.NewAgent(cfg.OpenAIAPIKey)
	}
	svc := app.NewAppService(engine, cfg.Flags, drafter)

	err = cli.Run(ctx, svc, os.Args[1:], os.Stdout)
	closeStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
