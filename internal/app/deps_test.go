package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/VIVEK-27UX/Readers/internal/config"
)

type fakePool struct{}

func (fakePool) Acquire(context.Context) (*pgxpool.Conn, error) {
	return nil, errors.New("not implemented")
}

func (fakePool) Close() {}

func TestBuildDependencies(t *testing.T) {
	cfg := config.Config{
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		AuthRateLimit:   10,
		AuthRateWindow:  time.Minute,
		SuggestionLimit: 5,
	}

	deps, cleanup, err := buildDependencies(context.Background(), fakePool{}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cleanup == nil {
		t.Fatal("expected cleanup function")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = cleanup(ctx)
	}()

	if deps.Users == nil {
		t.Fatal("expected user service to be configured")
	}
	if deps.Sessions == nil {
		t.Fatal("expected session manager to be configured")
	}
	if deps.Books == nil {
		t.Fatal("expected book service to be configured")
	}
	if deps.Friends == nil {
		t.Fatal("expected friend service to be configured")
	}
	if deps.Ratings == nil {
		t.Fatal("expected rating service to be configured")
	}
	if deps.Badges == nil {
		t.Fatal("expected badge service to be configured")
	}
	if deps.AuthLimiter == nil {
		t.Fatal("expected auth rate limiter to be configured")
	}
}

func TestBuildDependenciesWithSnapshots(t *testing.T) {
	cfg := config.Config{
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  24 * time.Hour,
		AuthRateLimit:    10,
		AuthRateWindow:   time.Minute,
		ObjectStore:      config.ObjectStoreConfig{Bucket: "test-bucket", Endpoint: "http://localhost:9000", Region: "us-east-1"},
		SnapshotInterval: time.Hour,
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	deps, cleanup, err := buildDependencies(context.Background(), fakePool{}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deps.Books == nil {
		t.Fatal("expected book service to be configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := cleanup(ctx); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}
