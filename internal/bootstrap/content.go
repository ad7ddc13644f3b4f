package bootstrap

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"

	"github.com/devstudy/devstudy-backend/config"
	"github.com/devstudy/devstudy-backend/internal/auth"
	"github.com/devstudy/devstudy-backend/internal/content/repository"
	"github.com/devstudy/devstudy-backend/internal/logger"
)

// ContentBackend is the selected content store plus its lifecycle hooks.
type ContentBackend struct {
	Store repository.Store
	Ping  func(ctx context.Context) error // nil for the in-memory driver
	Close func()
}

// OpenContentStore builds the driver named by cfg.Content.Driver. app may be
// nil; it is initialized on demand for the firestore driver.
func OpenContentStore(ctx context.Context, cfg *config.Config, app *firebase.App) (*ContentBackend, error) {
	log := logger.WithComponent("bootstrap")

	switch cfg.Content.Driver {
	case "postgres":
		pool, err := OpenDB(ctx, DBOptionsFrom(cfg.Database))
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", "postgres").Msg("content store ready")
		return &ContentBackend{
			Store: repository.NewPostgresStore(pool),
			Ping:  pool.Ping,
			Close: pool.Close,
		}, nil

	case "firestore":
		if app == nil {
			var err error
			if app, err = auth.InitializeFirebase(ctx, &cfg.Firebase); err != nil {
				return nil, err
			}
		}
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("firestore client: %w", err)
		}
		log.Info().Str("driver", "firestore").Str("app_id", cfg.App.AppID).Msg("content store ready")
		return &ContentBackend{
			Store: repository.NewFirestoreStore(client, cfg.App.AppID),
			Close: func() { _ = client.Close() },
		}, nil

	case "memory":
		log.Warn().Str("driver", "memory").Msg("content store is not persistent")
		return &ContentBackend{Store: repository.NewMemoryStore(), Close: func() {}}, nil

	default:
		return nil, fmt.Errorf("unknown content driver %q", cfg.Content.Driver)
	}
}
