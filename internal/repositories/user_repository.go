package repositories

import (
	"context"

	"github.com/VIVEK-27UX/Readers/internal/models"
)

// UserRepository defines the data access contract for users and the
// friendship edges between them.
//
// Find and List do not populate models.User.Friends; callers that need the
// friendship list use Friends, which returns usernames in the order the
// friendships were formed.
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	Find(ctx context.Context, username string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Friends(ctx context.Context, username string) ([]string, error)
	AddFriendship(ctx context.Context, a, b string) error
	AddRating(ctx context.Context, username string, stars int) error
}
