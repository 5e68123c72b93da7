package handlers

import (
	"context"
	"testing"

	"github.com/VIVEK-27UX/Readers/internal/models"
	"github.com/VIVEK-27UX/Readers/internal/repositories"
	"github.com/VIVEK-27UX/Readers/internal/social"
)

// newSocialService builds a service over in-memory repositories and registers
// the given usernames.
func newSocialService(t *testing.T, usernames ...string) *social.Service {
	t.Helper()

	svc := social.NewService(
		repositories.NewInMemoryUserRepository(),
		repositories.NewInMemoryBookRepository(),
		repositories.NewInMemoryBookRequestRepository(),
		repositories.NewInMemoryFriendRequestRepository(),
	)

	for _, username := range usernames {
		if _, err := svc.Register(context.Background(), username, "hash"); err != nil {
			t.Fatalf("register %s: %v", username, err)
		}
	}

	return svc
}

func addTestBook(t *testing.T, svc *social.Service, owner, title, author string) models.Book {
	t.Helper()
	book, err := svc.AddBook(context.Background(), owner, title, author)
	if err != nil {
		t.Fatalf("add book %s: %v", title, err)
	}
	return book
}

func befriend(t *testing.T, svc *social.Service, from, to string) {
	t.Helper()
	request, err := svc.SendFriendRequest(context.Background(), from, to)
	if err != nil {
		t.Fatalf("send friend request %s->%s: %v", from, to, err)
	}
	if err := svc.AcceptFriendRequest(context.Background(), request.ID); err != nil {
		t.Fatalf("accept friend request %s->%s: %v", from, to, err)
	}
}

type denyLimiter struct{}

func (denyLimiter) Allow(string) bool { return false }
