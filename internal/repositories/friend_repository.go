package repositories

import (
	"context"

	"github.com/VIVEK-27UX/Readers/internal/models"
)

// FriendRequestRepository defines data access for the friend invitation
// workflow. Create assigns the request's id.
type FriendRequestRepository interface {
	Create(ctx context.Context, request models.FriendRequest) (models.FriendRequest, error)
	Find(ctx context.Context, id int64) (models.FriendRequest, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	ListIncoming(ctx context.Context, to string) ([]models.FriendRequest, error)
	HasPending(ctx context.Context, from, to string) (bool, error)
}
