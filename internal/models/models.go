package models

import "time"

// User represents an account within the Readers community.
//
// Friends holds usernames in the order the friendships were formed; the
// relation is symmetric, so if A lists B then B lists A. RatingSum and
// RatingCount accumulate stars received as a lender.
type User struct {
	Username    string
	Password    string
	Friends     []string
	RatingSum   int
	RatingCount int
	CreatedAt   time.Time
}

// AverageRating returns the user's average lender rating. The second return
// value is false when the user has no reviews yet.
func (u User) AverageRating() (float64, bool) {
	if u.RatingCount <= 0 {
		return 0, false
	}
	return float64(u.RatingSum) / float64(u.RatingCount), true
}

// Book represents a single physical book with exactly one current owner.
type Book struct {
	ID        int64
	Title     string
	Author    string
	Owner     string
	CreatedAt time.Time
}

// BookRequestQueue pairs a book with the users waiting to borrow it, in
// request order (insertion order is priority order).
type BookRequestQueue struct {
	Book       Book
	Requesters []string
}

// FriendRequest represents the invitation workflow between two users.
type FriendRequest struct {
	ID          int64
	From        string
	To          string
	Status      string
	CreatedAt   time.Time
	RespondedAt *time.Time
}

const (
	FriendStatusPending  = "pending"
	FriendStatusAccepted = "accepted"
	FriendStatusRejected = "rejected"
)

// FriendProfile is the view of a friend rendered by the presentation layer.
// AverageRating is nil when the friend has no reviews.
type FriendProfile struct {
	Username      string
	AverageRating *float64
	ReviewCount   int
}

// LeaderboardEntry ranks a user by the average rating received as a lender.
type LeaderboardEntry struct {
	Username      string
	AverageRating float64
	ReviewCount   int
}

// BadgeCounts carries the per-user pending counters shown by the UI. They are
// recomputed from current state on every read, never cached.
type BadgeCounts struct {
	BookRequests   int
	FriendRequests int
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}
