package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/blockedby/groupwatch/internal/analytics"
	"github.com/blockedby/groupwatch/internal/backend"
	"github.com/blockedby/groupwatch/internal/backend/postgres"
	"github.com/blockedby/groupwatch/internal/backend/rest"
	"github.com/blockedby/groupwatch/internal/config"
	"github.com/blockedby/groupwatch/internal/dashboard"
	"github.com/blockedby/groupwatch/internal/export"
	"github.com/blockedby/groupwatch/internal/logger"
)

func main() {
	planPath := flag.String("plan", "export.yaml", "path to the export plan file")
	pdfPath := flag.String("pdf", "", "also render a dashboard report PDF to this path")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger.Init(cfg.LogLevel, cfg.LogFile)
	log := logger.Get()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	var client backend.Client
	switch {
	case cfg.DirectConfigured():
		pg, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pg.Close()
		client = pg
	case cfg.BackendConfigured():
		client = rest.New(rest.Config{
			BaseURL: cfg.BackendURL,
			APIKey:  cfg.BackendKey,
			RPS:     cfg.BackendRPS,
		}, log)
	default:
		log.Fatal().Msg("no backend configured; set SUPABASE_URL and SUPABASE_ANON_KEY or DATABASE_URL")
	}

	svc := analytics.NewService(client, cfg.PageSize, log)

	plan, err := export.LoadPlan(*planPath)
	if err != nil {
		log.Fatal().Err(err).Str("plan", *planPath).Msg("failed to load export plan")
	}

	runner := export.NewRunner(svc, log)
	if err := runner.Run(ctx, plan); err != nil {
		log.Error().Err(err).Msg("export finished with failures")
	}

	if *pdfPath != "" {
		loader := dashboard.NewLoader(svc, 0, log)
		snap := loader.Refresh(ctx)
		if snap == nil {
			log.Fatal().Msg("snapshot load failed")
		}
		if err := export.ReportPDF(ctx, snap, *pdfPath); err != nil {
			log.Fatal().Err(err).Msg("failed to render report pdf")
		}
		log.Info().Str("path", *pdfPath).Msg("report pdf written")
	}
}
