package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/devstudy/devstudy-backend/config"
	"github.com/devstudy/devstudy-backend/internal/bootstrap"
	contentservice "github.com/devstudy/devstudy-backend/internal/content/service"
	"github.com/devstudy/devstudy-backend/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(logger.Config{Level: "info"})
		logger.Logger.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init(logger.Config{Level: cfg.App.LogLevel, JSONOutput: cfg.IsProduction()})
	log := logger.WithComponent("worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	content, err := bootstrap.OpenContentStore(ctx, cfg, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open content store")
	}
	defer content.Close()

	svc := contentservice.NewContentService(content.Store)

	s, err := NewScheduler(cfg.Worker.SweepSchedule, svc)
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.Worker.SweepSchedule).Msg("invalid sweep schedule")
	}

	s.Start()
	log.Info().Str("schedule", cfg.Worker.SweepSchedule).Msg("worker started")

	<-ctx.Done()
	log.Info().Msg("stopping scheduler")
	<-s.Stop().Done()
}
