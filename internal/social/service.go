package social

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/VIVEK-27UX/Readers/internal/models"
	"github.com/VIVEK-27UX/Readers/internal/repositories"
)

// Service orchestrates the book-sharing workflows: the catalog, the request
// ledger, the friend-request state machine, ratings, and suggestions.
//
// The original application ran as a single session; served to many clients,
// the multi-entity transitions (accept/reject, undo) need mutual exclusion,
// so every mutating command runs under one service-level lock. Queries read
// the repositories directly.
type Service struct {
	mu sync.Mutex

	users          repositories.UserRepository
	books          repositories.BookRepository
	bookRequests   repositories.BookRequestRepository
	friendRequests repositories.FriendRequestRepository

	undo undoStack

	// SuggestionLimit caps friend suggestions; zero means DefaultSuggestionLimit.
	SuggestionLimit int
	// NowFunc overrides the timestamp source, for tests.
	NowFunc func() time.Time
}

// NewService wires the workflow controller over the provided repositories.
func NewService(
	users repositories.UserRepository,
	books repositories.BookRepository,
	bookRequests repositories.BookRequestRepository,
	friendRequests repositories.FriendRequestRepository,
) *Service {
	return &Service{
		users:          users,
		books:          books,
		bookRequests:   bookRequests,
		friendRequests: friendRequests,
	}
}

func (s *Service) now() time.Time {
	if s.NowFunc != nil {
		return s.NowFunc()
	}
	return time.Now().UTC()
}

// undoStack tracks ids of books added by this process. Only ever pushed by
// AddBook; the most recent addition is the only one that can be reverted.
type undoStack struct {
	ids []int64
}

func (u *undoStack) push(id int64) {
	u.ids = append(u.ids, id)
}

func (u *undoStack) pop() (int64, bool) {
	if len(u.ids) == 0 {
		return 0, false
	}
	id := u.ids[len(u.ids)-1]
	u.ids = u.ids[:len(u.ids)-1]
	return id, true
}

// Register creates a new user. The password must already be hashed by the
// caller.
func (s *Service) Register(ctx context.Context, username, passwordHash string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || passwordHash == "" {
		return models.User{}, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	user := models.User{
		Username:  username,
		Password:  passwordHash,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return models.User{}, fmt.Errorf("%w: username already taken", ErrDuplicate)
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// User fetches a single user record.
func (s *Service) User(ctx context.Context, username string) (models.User, error) {
	user, err := s.users.Find(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.User{}, fmt.Errorf("%w: unknown user %q", ErrNotFound, username)
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// AddBook lists a new book under the owner and remembers it for undo.
func (s *Service) AddBook(ctx context.Context, owner, title, author string) (models.Book, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" || author == "" {
		return models.Book{}, fmt.Errorf("%w: title and author are required", ErrValidation)
	}

	if _, err := s.User(ctx, owner); err != nil {
		return models.Book{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	book, err := s.books.Create(ctx, models.Book{
		Title:     title,
		Author:    author,
		Owner:     owner,
		CreatedAt: s.now(),
	})
	if err != nil {
		return models.Book{}, fmt.Errorf("create book: %w", err)
	}

	s.undo.push(book.ID)
	return book, nil
}

// UndoLastAdd reverts the most recent AddBook performed by this process and
// returns the removed book.
func (s *Service) UndoLastAdd(ctx context.Context) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.undo.pop()
	if !ok {
		return models.Book{}, fmt.Errorf("%w: nothing to undo", ErrEmptyState)
	}

	book, err := s.books.Find(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Book{}, fmt.Errorf("%w: book %d no longer exists", ErrNotFound, id)
		}
		return models.Book{}, fmt.Errorf("find book: %w", err)
	}

	if err := s.books.Delete(ctx, id); err != nil {
		return models.Book{}, fmt.Errorf("delete book: %w", err)
	}

	return book, nil
}

// MyBooks returns the books owned by the user.
func (s *Service) MyBooks(ctx context.Context, user string) ([]models.Book, error) {
	books, err := s.books.ListByOwner(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// CommunityBooks returns books owned by other users, optionally filtered by a
// case-insensitive substring match on title or author.
func (s *Service) CommunityBooks(ctx context.Context, user, search string) ([]models.Book, error) {
	books, err := s.books.ListCommunity(ctx, user, search)
	if err != nil {
		return nil, fmt.Errorf("list community books: %w", err)
	}
	return books, nil
}

// RequestBook queues the requester for the book. Owners cannot request their
// own books and a user appears at most once per queue.
func (s *Service) RequestBook(ctx context.Context, bookID int64, requester string) error {
	book, err := s.findBook(ctx, bookID)
	if err != nil {
		return err
	}
	if _, err := s.User(ctx, requester); err != nil {
		return err
	}
	if book.Owner == requester {
		return fmt.Errorf("%w: you already own this book", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.bookRequests.Add(ctx, bookID, requester); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return fmt.Errorf("%w: you already requested this book", ErrDuplicate)
		}
		return fmt.Errorf("queue book request: %w", err)
	}

	return nil
}

// OwnerRequests returns, for each of the owner's books with at least one
// requester, the book and its full requester queue.
func (s *Service) OwnerRequests(ctx context.Context, owner string) ([]models.BookRequestQueue, error) {
	books, err := s.books.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	var queues []models.BookRequestQueue
	for _, book := range books {
		requesters, err := s.bookRequests.Requesters(ctx, book.ID)
		if err != nil {
			return nil, fmt.Errorf("list requesters for book %d: %w", book.ID, err)
		}
		if len(requesters) == 0 {
			continue
		}
		queues = append(queues, models.BookRequestQueue{Book: book, Requesters: requesters})
	}

	return queues, nil
}

// AcceptBookRequest transfers ownership of the book to the requester and
// removes that requester's entry from the queue. Competing requesters stay
// queued against the new owner; the original application behaves the same
// way, so they are deliberately not cleared.
func (s *Service) AcceptBookRequest(ctx context.Context, bookID int64, requester string) error {
	if _, err := s.findBook(ctx, bookID); err != nil {
		return err
	}
	if _, err := s.User(ctx, requester); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.books.TransferOwner(ctx, bookID, requester); err != nil {
		return fmt.Errorf("transfer book %d: %w", bookID, err)
	}

	if err := s.bookRequests.Remove(ctx, bookID, requester); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("dequeue book request: %w", err)
	}

	return nil
}

// RejectBookRequest removes the requester from the book's queue; ownership is
// unchanged.
func (s *Service) RejectBookRequest(ctx context.Context, bookID int64, requester string) error {
	if _, err := s.findBook(ctx, bookID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.bookRequests.Remove(ctx, bookID, requester); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: no request from %q for book %d", ErrNotFound, requester, bookID)
		}
		return fmt.Errorf("dequeue book request: %w", err)
	}

	return nil
}

// SendFriendRequest opens a pending friend request from one user to another.
// A pending request in the opposite direction is not a duplicate; mutual
// sends are allowed and each can be accepted independently.
func (s *Service) SendFriendRequest(ctx context.Context, from, to string) (models.FriendRequest, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" {
		return models.FriendRequest{}, fmt.Errorf("%w: both usernames are required", ErrValidation)
	}
	if from == to {
		return models.FriendRequest{}, fmt.Errorf("%w: you cannot friend yourself", ErrValidation)
	}

	if _, err := s.User(ctx, from); err != nil {
		return models.FriendRequest{}, err
	}
	if _, err := s.User(ctx, to); err != nil {
		return models.FriendRequest{}, err
	}

	friends, err := s.users.Friends(ctx, from)
	if err != nil {
		return models.FriendRequest{}, fmt.Errorf("list friends: %w", err)
	}
	for _, friend := range friends {
		if friend == to {
			return models.FriendRequest{}, fmt.Errorf("%w: already friends with %s", ErrDuplicate, to)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.friendRequests.HasPending(ctx, from, to)
	if err != nil {
		return models.FriendRequest{}, fmt.Errorf("check pending friend request: %w", err)
	}
	if pending {
		return models.FriendRequest{}, fmt.Errorf("%w: request already sent", ErrDuplicate)
	}

	request, err := s.friendRequests.Create(ctx, models.FriendRequest{
		From:      from,
		To:        to,
		Status:    models.FriendStatusPending,
		CreatedAt: s.now(),
	})
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return models.FriendRequest{}, fmt.Errorf("%w: request already sent", ErrDuplicate)
		}
		return models.FriendRequest{}, fmt.Errorf("create friend request: %w", err)
	}

	return request, nil
}

// IncomingFriendRequests returns pending requests addressed to the user.
func (s *Service) IncomingFriendRequests(ctx context.Context, user string) ([]models.FriendRequest, error) {
	requests, err := s.friendRequests.ListIncoming(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("list friend requests: %w", err)
	}
	return requests, nil
}

// AcceptFriendRequest moves the request to its accepted terminal state and
// links both users. Linking is idempotent, so accepting the second of two
// mutual requests is a no-op on the graph.
func (s *Service) AcceptFriendRequest(ctx context.Context, id int64) error {
	return s.resolveFriendRequest(ctx, id, models.FriendStatusAccepted)
}

// RejectFriendRequest moves the request to its rejected terminal state. The
// friendship graph is unchanged.
func (s *Service) RejectFriendRequest(ctx context.Context, id int64) error {
	return s.resolveFriendRequest(ctx, id, models.FriendStatusRejected)
}

func (s *Service) resolveFriendRequest(ctx context.Context, id int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, err := s.friendRequests.Find(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: unknown friend request %d", ErrNotFound, id)
		}
		return fmt.Errorf("find friend request: %w", err)
	}

	// pending is the only state with outgoing transitions
	if request.Status != models.FriendStatusPending {
		return fmt.Errorf("%w: request already %s", ErrValidation, request.Status)
	}

	if err := s.friendRequests.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update friend request: %w", err)
	}

	if status == models.FriendStatusAccepted {
		if err := s.users.AddFriendship(ctx, request.From, request.To); err != nil {
			return fmt.Errorf("link friends: %w", err)
		}
	}

	return nil
}

// FriendsOf returns the user's friends with their lender ratings.
func (s *Service) FriendsOf(ctx context.Context, user string) ([]models.FriendProfile, error) {
	if _, err := s.User(ctx, user); err != nil {
		return nil, err
	}

	names, err := s.users.Friends(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}

	profiles := make([]models.FriendProfile, 0, len(names))
	for _, name := range names {
		friend, err := s.users.Find(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("find friend %s: %w", name, err)
		}
		profile := models.FriendProfile{Username: name, ReviewCount: friend.RatingCount}
		if avg, ok := friend.AverageRating(); ok {
			profile.AverageRating = &avg
		}
		profiles = append(profiles, profile)
	}

	return profiles, nil
}

// SuggestFriends proposes users reachable through the friendship graph who
// are not yet friends of the user.
func (s *Service) SuggestFriends(ctx context.Context, user string) ([]string, error) {
	if _, err := s.User(ctx, user); err != nil {
		return nil, err
	}
	return SuggestFriends(ctx, s.users, user, s.SuggestionLimit)
}

// RecordRating adds a 1..5 star rating to the target user's lender totals.
func (s *Service) RecordRating(ctx context.Context, target string, stars int) error {
	if !ValidStars(stars) {
		return fmt.Errorf("%w: rating must be between %d and %d stars", ErrValidation, MinStars, MaxStars)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.users.AddRating(ctx, target, stars); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: unknown user %q", ErrNotFound, target)
		}
		return fmt.Errorf("record rating: %w", err)
	}

	return nil
}

// Leaderboard ranks all users by average lender rating.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return Leaderboard(users, limit), nil
}

// Badges recomputes the user's pending counters from current state.
func (s *Service) Badges(ctx context.Context, user string) (models.BadgeCounts, error) {
	if _, err := s.User(ctx, user); err != nil {
		return models.BadgeCounts{}, err
	}

	queues, err := s.OwnerRequests(ctx, user)
	if err != nil {
		return models.BadgeCounts{}, err
	}

	incoming, err := s.IncomingFriendRequests(ctx, user)
	if err != nil {
		return models.BadgeCounts{}, err
	}

	return models.BadgeCounts{
		BookRequests:   len(queues),
		FriendRequests: len(incoming),
	}, nil
}

func (s *Service) findBook(ctx context.Context, id int64) (models.Book, error) {
	book, err := s.books.Find(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Book{}, fmt.Errorf("%w: unknown book %d", ErrNotFound, id)
		}
		return models.Book{}, fmt.Errorf("find book: %w", err)
	}
	return book, nil
}
