package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/Victor-armando18/azure-connector/internal/config"
	"github.com/Victor-armando18/azure-connector/internal/infrastructure"
	"github.com/Victor-armando18/azure-connector/internal/infrastructure/hooks"
	"github.com/Victor-armando18/azure-connector/internal/infrastructure/transport"
	"github.com/Victor-armando18/azure-connector/internal/interfaces"
	"github.com/Victor-armando18/azure-connector/internal/usecase"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ./config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger()

	sender, err := transport.NewLogicAppClient(cfg.Transport())
	if err != nil {
		logger.Error("transport", "error", err)
		os.Exit(1)
	}

	loader := infrastructure.NewFileRuleLoader(cfg.Validation.RulesPath)
	pack, err := loader.Load(context.Background())
	if err != nil {
		logger.Error("rule pack", "error", err)
		os.Exit(1)
	}
	logger.Info("rule pack loaded", "version", pack.Version, "rules", len(pack.Rules), "strict", cfg.Validation.Strict)

	guards := usecase.NewGuardService(loader, infrastructure.NewJsonLogicExecutor(), cfg.Validation.KnownLicenses, logger)
	svc := usecase.NewForwarderService(sender,
		usecase.WithGuards(guards, cfg.Validation.Strict),
		usecase.WithLogger(logger),
	)

	registry := hooks.NewRegistry(logger)
	interfaces.RegisterForwarderHooks(registry, svc)

	e := newServer(registry, svc, logger)
	logger.Info("forwarder listening", "port", cfg.Server.Port, "events", registry.Events())
	e.Logger.Fatal(e.Start(":" + cfg.Server.Port))
}
