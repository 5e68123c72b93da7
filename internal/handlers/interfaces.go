package handlers

import (
	"context"

	"github.com/VIVEK-27UX/Readers/internal/models"
)

// UserService captures the account operations required by the auth handlers.
type UserService interface {
	Register(ctx context.Context, username, passwordHash string) (models.User, error)
	User(ctx context.Context, username string) (models.User, error)
}

// SessionManager issues and refreshes authentication tokens for users.
type SessionManager interface {
	Issue(ctx context.Context, username string) (models.SessionTokens, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
}

// BookService captures the catalog and borrow-request workflows required by
// the book handlers.
type BookService interface {
	AddBook(ctx context.Context, owner, title, author string) (models.Book, error)
	UndoLastAdd(ctx context.Context) (models.Book, error)
	MyBooks(ctx context.Context, user string) ([]models.Book, error)
	CommunityBooks(ctx context.Context, user, search string) ([]models.Book, error)
	RequestBook(ctx context.Context, bookID int64, requester string) error
	OwnerRequests(ctx context.Context, owner string) ([]models.BookRequestQueue, error)
	AcceptBookRequest(ctx context.Context, bookID int64, requester string) error
	RejectBookRequest(ctx context.Context, bookID int64, requester string) error
}

// FriendService captures the friendship workflows required by the friend
// handlers.
type FriendService interface {
	SendFriendRequest(ctx context.Context, from, to string) (models.FriendRequest, error)
	IncomingFriendRequests(ctx context.Context, user string) ([]models.FriendRequest, error)
	AcceptFriendRequest(ctx context.Context, id int64) error
	RejectFriendRequest(ctx context.Context, id int64) error
	FriendsOf(ctx context.Context, user string) ([]models.FriendProfile, error)
	SuggestFriends(ctx context.Context, user string) ([]string, error)
}

// RatingService captures lender rating submission and the leaderboard.
type RatingService interface {
	RecordRating(ctx context.Context, target string, stars int) error
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

// BadgeService recomputes the pending counters shown next to menu entries.
type BadgeService interface {
	Badges(ctx context.Context, user string) (models.BadgeCounts, error)
}
