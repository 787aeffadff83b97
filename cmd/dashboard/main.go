package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/blockedby/groupwatch/internal/analytics"
	"github.com/blockedby/groupwatch/internal/api"
	"github.com/blockedby/groupwatch/internal/backend"
	"github.com/blockedby/groupwatch/internal/backend/postgres"
	"github.com/blockedby/groupwatch/internal/backend/rest"
	"github.com/blockedby/groupwatch/internal/config"
	"github.com/blockedby/groupwatch/internal/dashboard"
	"github.com/blockedby/groupwatch/internal/logger"
	"github.com/blockedby/groupwatch/internal/summary"
)

func main() {
	// 1. Load config
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel, cfg.LogFile)
	log := logger.Get()
	log.Info().Msg("starting dashboard service")

	// 3. Setup context with graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("received shutdown signal")
		cancel()
	}()

	// 4. Setup resources
	// Backend client: direct postgres wins when both are configured
	var client backend.Client
	switch {
	case cfg.DirectConfigured():
		pg, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pg.Close()
		client = pg
		log.Info().Msg("connected to database directly")
	case cfg.BackendConfigured():
		client = rest.New(rest.Config{
			BaseURL: cfg.BackendURL,
			APIKey:  cfg.BackendKey,
			RPS:     cfg.BackendRPS,
		}, log)
		log.Info().Str("url", cfg.BackendURL).Msg("using hosted backend")
	default:
		log.Warn().Msg("no backend configured; dashboard will serve empty data")
	}

	svc := analytics.NewService(client, cfg.PageSize, log)

	// Summaries
	var summaries *summary.Service
	if cfg.SummariesConfigured() {
		summaries = summary.NewService(summary.NewClient(summary.Config{
			BaseURL: cfg.OpenAIBaseURL,
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
		}), log)
		log.Info().Str("model", cfg.OpenAIModel).Msg("summaries enabled")
	} else {
		summaries = summary.NewService(nil, log)
	}

	// Live event hub
	hub := api.NewHub()
	go hub.Run()

	// Snapshot loader
	loader := dashboard.NewLoader(svc, time.Duration(cfg.RefreshSec)*time.Second, log)
	loader.OnRefresh(func(snap *dashboard.Snapshot) {
		hub.Broadcast(api.StatsRefreshedEvent(snap))
	})
	if cfg.RefreshSec > 0 {
		go loader.Run(ctx)
	}

	// 5. Start API server
	server := api.NewServer(
		&api.Config{
			Port:        cfg.HTTPPort,
			Title:       "GroupWatch API",
			Description: "Group chat analytics dashboard API",
			Version:     "1.0.0",
		},
		&api.Dependencies{
			Analytics: svc,
			Loader:    loader,
			Summaries: summaries,
			Hub:       hub,
		},
	)

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("api server listening")
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("api server stopped")
			cancel()
		}
	}()

	// Wait for shutdown
	<-ctx.Done()
	log.Info().Msg("shutting down")
	time.Sleep(1 * time.Second)
	log.Info().Msg("shutdown complete")
}
