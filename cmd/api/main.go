package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devstudy/devstudy-backend/config"
	httpapi "github.com/devstudy/devstudy-backend/internal/api/http"
	"github.com/devstudy/devstudy-backend/internal/auth"
	"github.com/devstudy/devstudy-backend/internal/bootstrap"
	"github.com/devstudy/devstudy-backend/internal/logger"
	profilerepo "github.com/devstudy/devstudy-backend/internal/profiles/repository"
)

const serviceName = "devstudy-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(logger.Config{Level: "info"})
		logger.Logger.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init(logger.Config{Level: cfg.App.LogLevel, JSONOutput: cfg.IsProduction()})
	log := logger.WithComponent("api")
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sqlDB, err := bootstrap.OpenSQL(ctx, bootstrap.DBOptionsFrom(cfg.Database))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open profile database")
	}
	defer sqlDB.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	app, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize firebase")
	}
	provider, err := auth.NewFirebaseProvider(ctx, app, cfg.Firebase.WebAPIKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create auth provider")
	}

	content, err := bootstrap.OpenContentStore(ctx, cfg, app)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open content store")
	}
	defer content.Close()

	profiles := profilerepo.NewProfileRepository(sqlDB)
	svc := bootstrap.NewServices(cfg, bootstrap.ServiceDeps{
		Profiles: profiles,
		Content:  content.Store,
		Redis:    rdb,
		Provider: provider,
	})

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Config:      cfg,
		Services:    svc,
		Health: map[string]httpapi.PingFunc{
			"postgres": profiles.Ping,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
			"content":  content.Ping,
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("content_driver", cfg.Content.Driver).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
