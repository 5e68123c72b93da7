package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/VIVEK-27UX/Readers/internal/models"
)

// SnapshotStorage persists an exported snapshot and returns its location.
type SnapshotStorage interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// UserSource lists accounts and their friendships.
type UserSource interface {
	List(ctx context.Context) ([]models.User, error)
	Friends(ctx context.Context, username string) ([]string, error)
}

// BookSource lists the catalog per owner.
type BookSource interface {
	ListByOwner(ctx context.Context, owner string) ([]models.Book, error)
}

// BookRequestSource lists the pending requesters of a book.
type BookRequestSource interface {
	Requesters(ctx context.Context, bookID int64) ([]string, error)
}

// FriendRequestSource lists the pending invitations addressed to a user.
type FriendRequestSource interface {
	ListIncoming(ctx context.Context, to string) ([]models.FriendRequest, error)
}

// Snapshot is the exported state of the community at a point in time.
type Snapshot struct {
	GeneratedAt time.Time    `json:"generatedAt"`
	Users       []UserRecord `json:"users"`
}

// UserRecord captures one account along with everything it owns.
type UserRecord struct {
	Username       string                `json:"username"`
	Friends        []string              `json:"friends"`
	RatingSum      int                   `json:"ratingSum"`
	RatingCount    int                   `json:"ratingCount"`
	Books          []BookRecord          `json:"books"`
	PendingInvites []FriendRequestRecord `json:"pendingInvites"`
}

// BookRecord captures a book and its waiting requesters.
type BookRecord struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	Author     string   `json:"author"`
	Requesters []string `json:"requesters"`
}

// FriendRequestRecord captures a pending invitation.
type FriendRequestRecord struct {
	ID   int64  `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

// Exporter walks the repositories and assembles snapshots.
type Exporter struct {
	Users          UserSource
	Books          BookSource
	BookRequests   BookRequestSource
	FriendRequests FriendRequestSource

	// NowFunc reports the snapshot timestamp. Defaults to time.Now.
	NowFunc func() time.Time
}

// Build assembles a snapshot of the current state.
func (e *Exporter) Build(ctx context.Context) (Snapshot, error) {
	if e.Users == nil || e.Books == nil || e.BookRequests == nil || e.FriendRequests == nil {
		return Snapshot{}, fmt.Errorf("exporter: missing sources")
	}

	now := time.Now
	if e.NowFunc != nil {
		now = e.NowFunc
	}

	users, err := e.Users.List(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list users: %w", err)
	}

	snapshot := Snapshot{
		GeneratedAt: now().UTC(),
		Users:       make([]UserRecord, 0, len(users)),
	}

	for _, user := range users {
		record, err := e.buildUser(ctx, user)
		if err != nil {
			return Snapshot{}, err
		}
		snapshot.Users = append(snapshot.Users, record)
	}

	return snapshot, nil
}

// Export builds a snapshot, serialises it and hands it to storage. It
// returns the stored location.
func (e *Exporter) Export(ctx context.Context, storage SnapshotStorage) (string, error) {
	if storage == nil {
		return "", fmt.Errorf("exporter: storage is required")
	}

	snapshot, err := e.Build(ctx)
	if err != nil {
		return "", err
	}

	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	name := fmt.Sprintf("snapshots/%s.json", snapshot.GeneratedAt.Format("2006-01-02T15-04-05Z"))
	location, err := storage.Save(ctx, name, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("store snapshot: %w", err)
	}

	return location, nil
}

func (e *Exporter) buildUser(ctx context.Context, user models.User) (UserRecord, error) {
	friends, err := e.Users.Friends(ctx, user.Username)
	if err != nil {
		return UserRecord{}, fmt.Errorf("list friends of %s: %w", user.Username, err)
	}

	books, err := e.Books.ListByOwner(ctx, user.Username)
	if err != nil {
		return UserRecord{}, fmt.Errorf("list books of %s: %w", user.Username, err)
	}

	record := UserRecord{
		Username:       user.Username,
		Friends:        friends,
		RatingSum:      user.RatingSum,
		RatingCount:    user.RatingCount,
		Books:          make([]BookRecord, 0, len(books)),
		PendingInvites: []FriendRequestRecord{},
	}

	for _, book := range books {
		requesters, err := e.BookRequests.Requesters(ctx, book.ID)
		if err != nil {
			return UserRecord{}, fmt.Errorf("list requesters of book %d: %w", book.ID, err)
		}
		record.Books = append(record.Books, BookRecord{
			ID:         book.ID,
			Title:      book.Title,
			Author:     book.Author,
			Requesters: requesters,
		})
	}

	invites, err := e.FriendRequests.ListIncoming(ctx, user.Username)
	if err != nil {
		return UserRecord{}, fmt.Errorf("list invites of %s: %w", user.Username, err)
	}
	for _, invite := range invites {
		record.PendingInvites = append(record.PendingInvites, FriendRequestRecord{
			ID:   invite.ID,
			From: invite.From,
			To:   invite.To,
		})
	}

	return record, nil
}
