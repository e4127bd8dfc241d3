package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	actionorchestrator "adpilot/contexts/ad-operations/action-orchestrator"
	"adpilot/contexts/ad-operations/action-orchestrator/adapters/gateways"
	postgresadapter "adpilot/contexts/ad-operations/action-orchestrator/adapters/postgres"
	workerapp "adpilot/contexts/ad-operations/action-orchestrator/application/workers"
	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
	"adpilot/contexts/ad-operations/action-orchestrator/ports"
	"adpilot/internal/platform/config"
	"adpilot/internal/platform/db"
	"adpilot/internal/platform/httpserver"
	"adpilot/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  workerapp.OutboxRelay
	relayEnabled bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	clients := platformClients(cfg, logger)
	module := actionorchestrator.NewModule(actionorchestrator.Dependencies{
		Log: repo,
		Gateways: ports.GatewayRegistry{
			entities.PlatformFacebook: gateways.NewFacebookGateway(clients[entities.PlatformFacebook]),
			entities.PlatformTikTok:   gateways.NewTikTokGateway(clients[entities.PlatformTikTok]),
			entities.PlatformGoogle:   gateways.NewGoogleGateway(clients[entities.PlatformGoogle]),
		},
		Entities:    gateways.NewDirectory(clients),
		Outbox:      repo,
		Clock:       postgresadapter.SystemClock{},
		IDGenerator: postgresadapter.UUIDGenerator{},
		Logger:      logger,
	})

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    repo,
			Publisher: kafka,
			Clock:     postgresadapter.SystemClock{},
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		relayEnabled: cfg.EnableOutboxRelay,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func platformClients(cfg config.Config, logger *slog.Logger) map[entities.Platform]*gateways.Client {
	return map[entities.Platform]*gateways.Client{
		entities.PlatformFacebook: gateways.NewClient(cfg.Facebook.BaseURL, cfg.Facebook.AccessToken, cfg.Facebook.RequestsPerSecond, logger),
		entities.PlatformTikTok:   gateways.NewClient(cfg.TikTok.BaseURL, cfg.TikTok.AccessToken, cfg.TikTok.RequestsPerSecond, logger),
		entities.PlatformGoogle:   gateways.NewClient(cfg.Google.BaseURL, cfg.Google.AccessToken, cfg.Google.RequestsPerSecond, logger),
	}
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"relay_enabled", w.relayEnabled,
	)

	for {
		if w.relayEnabled {
			if err := w.outboxRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
