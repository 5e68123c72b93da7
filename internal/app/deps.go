package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/VIVEK-27UX/Readers/internal/archive"
	"github.com/VIVEK-27UX/Readers/internal/auth"
	"github.com/VIVEK-27UX/Readers/internal/config"
	"github.com/VIVEK-27UX/Readers/internal/db"
	"github.com/VIVEK-27UX/Readers/internal/handlers"
	"github.com/VIVEK-27UX/Readers/internal/middleware"
	"github.com/VIVEK-27UX/Readers/internal/repositories"
	"github.com/VIVEK-27UX/Readers/internal/social"
	"github.com/VIVEK-27UX/Readers/internal/storage"
)

// buildDependencies wires concrete implementations used by the HTTP
// handlers. The returned cleanup stops any background workers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, func(context.Context) error, error) {
	users := repositories.NewPostgresUserRepository(pool)
	books := repositories.NewPostgresBookRepository(pool)
	bookRequests := repositories.NewPostgresBookRequestRepository(pool)
	friendRequests := repositories.NewPostgresFriendRequestRepository(pool)
	sessionStore := repositories.NewPostgresSessionStore(pool)

	service := social.NewService(users, books, bookRequests, friendRequests)
	service.SuggestionLimit = cfg.SuggestionLimit

	cleanup := func(context.Context) error { return nil }

	if cfg.ObjectStore.Bucket != "" && cfg.SnapshotInterval > 0 {
		store, err := storage.NewSnapshotStore(ctx, cfg.ObjectStore)
		if err != nil {
			return handlers.Dependencies{}, nil, fmt.Errorf("configure snapshot store: %w", err)
		}

		exporter := &archive.Exporter{
			Users:          users,
			Books:          books,
			BookRequests:   bookRequests,
			FriendRequests: friendRequests,
		}
		archiver := archive.NewArchiver(exporter, store, cfg.SnapshotInterval, slog.Default())
		cleanup = archiver.Shutdown
	}

	deps := handlers.Dependencies{
		Users:       service,
		Sessions:    auth.NewManager(cfg.AccessTokenTTL, cfg.RefreshTokenTTL, sessionStore),
		Books:       service,
		Friends:     service,
		Ratings:     service,
		Badges:      service,
		AuthLimiter: middleware.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow, cfg.AuthRateLimit, 10*time.Minute),
	}

	return deps, cleanup, nil
}
