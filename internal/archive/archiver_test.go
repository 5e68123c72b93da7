package archive

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/VIVEK-27UX/Readers/internal/models"
	"github.com/VIVEK-27UX/Readers/internal/repositories"
)

type signalStorage struct {
	saved chan string
}

func (s *signalStorage) Save(_ context.Context, name string, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	select {
	case s.saved <- name:
	default:
	}
	return name, nil
}

func TestArchiverExportsOnInterval(t *testing.T) {
	ctx := context.Background()

	users := repositories.NewInMemoryUserRepository()
	if err := users.Create(ctx, models.User{Username: "alice", Password: "hash"}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	exporter := &Exporter{
		Users:          users,
		Books:          repositories.NewInMemoryBookRepository(),
		BookRequests:   repositories.NewInMemoryBookRequestRepository(),
		FriendRequests: repositories.NewInMemoryFriendRequestRepository(),
	}

	storage := &signalStorage{saved: make(chan string, 1)}
	archiver := NewArchiver(exporter, storage, 10*time.Millisecond, nil)

	select {
	case name := <-storage.saved:
		if name == "" {
			t.Fatal("expected a non-empty object key")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected a snapshot export within the interval")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := archiver.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestArchiverShutdownIsIdempotent(t *testing.T) {
	exporter := &Exporter{
		Users:          repositories.NewInMemoryUserRepository(),
		Books:          repositories.NewInMemoryBookRepository(),
		BookRequests:   repositories.NewInMemoryBookRequestRepository(),
		FriendRequests: repositories.NewInMemoryFriendRequestRepository(),
	}

	archiver := NewArchiver(exporter, &signalStorage{saved: make(chan string, 1)}, time.Hour, nil)

	for i := 0; i < 2; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		if err := archiver.Shutdown(ctx); err != nil {
			cancel()
			t.Fatalf("shutdown %d: %v", i, err)
		}
		cancel()
	}
}
