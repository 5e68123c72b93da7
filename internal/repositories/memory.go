package repositories

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/VIVEK-27UX/Readers/internal/models"
)

// InMemoryUserRepository implements UserRepository for tests and local
// development.
type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
	order []string
}

// NewInMemoryUserRepository returns an empty in-memory user repository.
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{users: make(map[string]*models.User)}
}

// Create stores the user, rejecting duplicate usernames.
func (r *InMemoryUserRepository) Create(_ context.Context, user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; ok {
		return ErrConflict
	}
	u := user
	u.Friends = slices.Clone(user.Friends)
	r.users[user.Username] = &u
	r.order = append(r.order, user.Username)
	return nil
}

// Find returns the named user without the Friends field populated.
func (r *InMemoryUserRepository) Find(_ context.Context, username string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok {
		return models.User{}, ErrNotFound
	}
	out := *u
	out.Friends = nil
	return out, nil
}

// List returns all users in registration order.
func (r *InMemoryUserRepository) List(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]models.User, 0, len(r.order))
	for _, username := range r.order {
		u := *r.users[username]
		u.Friends = nil
		users = append(users, u)
	}
	return users, nil
}

// Friends returns the user's friends in insertion order.
func (r *InMemoryUserRepository) Friends(_ context.Context, username string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(u.Friends), nil
}

// AddFriendship links both users, skipping edges that already exist.
func (r *InMemoryUserRepository) AddFriendship(_ context.Context, a, b string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ua, ok := r.users[a]
	if !ok {
		return ErrNotFound
	}
	ub, ok := r.users[b]
	if !ok {
		return ErrNotFound
	}

	if !slices.Contains(ua.Friends, b) {
		ua.Friends = append(ua.Friends, b)
	}
	if !slices.Contains(ub.Friends, a) {
		ub.Friends = append(ub.Friends, a)
	}
	return nil
}

// AddRating accumulates a lender rating onto the user's totals.
func (r *InMemoryUserRepository) AddRating(_ context.Context, username string, stars int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return ErrNotFound
	}
	u.RatingSum += stars
	u.RatingCount++
	return nil
}

// InMemoryBookRepository implements BookRepository for tests and local
// development. Ids are assigned monotonically and never reused.
type InMemoryBookRepository struct {
	mu     sync.RWMutex
	books  []models.Book
	nextID int64
}

// NewInMemoryBookRepository returns an empty in-memory book repository.
func NewInMemoryBookRepository() *InMemoryBookRepository {
	return &InMemoryBookRepository{nextID: 1}
}

// Create stores the book and assigns its id.
func (r *InMemoryBookRepository) Create(_ context.Context, book models.Book) (models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	book.ID = r.nextID
	r.nextID++
	r.books = append(r.books, book)
	return book, nil
}

// Find returns the book with the provided id.
func (r *InMemoryBookRepository) Find(_ context.Context, id int64) (models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, book := range r.books {
		if book.ID == id {
			return book, nil
		}
	}
	return models.Book{}, ErrNotFound
}

// Delete removes the book with the provided id.
func (r *InMemoryBookRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, book := range r.books {
		if book.ID == id {
			r.books = append(r.books[:i], r.books[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// ListByOwner returns the owner's books in catalog order.
func (r *InMemoryBookRepository) ListByOwner(_ context.Context, owner string) ([]models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Book
	for _, book := range r.books {
		if book.Owner == owner {
			out = append(out, book)
		}
	}
	return out, nil
}

// ListCommunity returns books owned by other users, optionally filtered by a
// case-insensitive substring match on title or author.
func (r *InMemoryBookRepository) ListCommunity(_ context.Context, excludeOwner, search string) ([]models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	term := strings.ToLower(strings.TrimSpace(search))

	var out []models.Book
	for _, book := range r.books {
		if book.Owner == excludeOwner {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(book.Title), term) &&
			!strings.Contains(strings.ToLower(book.Author), term) {
			continue
		}
		out = append(out, book)
	}
	return out, nil
}

// TransferOwner reassigns the book to a new owner.
func (r *InMemoryBookRepository) TransferOwner(_ context.Context, id int64, newOwner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.books {
		if r.books[i].ID == id {
			r.books[i].Owner = newOwner
			return nil
		}
	}
	return ErrNotFound
}

// InMemoryBookRequestRepository implements BookRequestRepository for tests and
// local development.
type InMemoryBookRequestRepository struct {
	mu     sync.RWMutex
	queues map[int64][]string
}

// NewInMemoryBookRequestRepository returns an empty in-memory request ledger.
func NewInMemoryBookRequestRepository() *InMemoryBookRequestRepository {
	return &InMemoryBookRequestRepository{queues: make(map[int64][]string)}
}

// Add appends the requester to the book's queue, rejecting duplicates.
func (r *InMemoryBookRequestRepository) Add(_ context.Context, bookID int64, requester string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Contains(r.queues[bookID], requester) {
		return ErrConflict
	}
	r.queues[bookID] = append(r.queues[bookID], requester)
	return nil
}

// Requesters returns the book's queue in request order.
func (r *InMemoryBookRequestRepository) Requesters(_ context.Context, bookID int64) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.queues[bookID]), nil
}

// Remove deletes the requester's entry from the book's queue.
func (r *InMemoryBookRequestRepository) Remove(_ context.Context, bookID int64, requester string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	queue := r.queues[bookID]
	for i, name := range queue {
		if name == requester {
			r.queues[bookID] = append(queue[:i], queue[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// InMemoryFriendRequestRepository implements FriendRequestRepository for tests
// and local development.
type InMemoryFriendRequestRepository struct {
	mu       sync.RWMutex
	requests []models.FriendRequest
	nextID   int64
}

// NewInMemoryFriendRequestRepository returns an empty in-memory friend request
// repository.
func NewInMemoryFriendRequestRepository() *InMemoryFriendRequestRepository {
	return &InMemoryFriendRequestRepository{nextID: 1}
}

// Create stores the request and assigns its id.
func (r *InMemoryFriendRequestRepository) Create(_ context.Context, request models.FriendRequest) (models.FriendRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.requests {
		if existing.From == request.From && existing.To == request.To && existing.Status == models.FriendStatusPending {
			return models.FriendRequest{}, ErrConflict
		}
	}

	request.ID = r.nextID
	r.nextID++
	r.requests = append(r.requests, request)
	return request, nil
}

// Find returns the request with the provided id.
func (r *InMemoryFriendRequestRepository) Find(_ context.Context, id int64) (models.FriendRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, request := range r.requests {
		if request.ID == id {
			return request, nil
		}
	}
	return models.FriendRequest{}, ErrNotFound
}

// UpdateStatus updates the status and responded-at timestamp of a request.
func (r *InMemoryFriendRequestRepository) UpdateStatus(_ context.Context, id int64, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.requests {
		if r.requests[i].ID == id {
			r.requests[i].Status = status
			if status != models.FriendStatusPending {
				now := nowUTC()
				r.requests[i].RespondedAt = &now
			}
			return nil
		}
	}
	return ErrNotFound
}

// ListIncoming returns pending requests addressed to the user, oldest first.
func (r *InMemoryFriendRequestRepository) ListIncoming(_ context.Context, to string) ([]models.FriendRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.FriendRequest
	for _, request := range r.requests {
		if request.To == to && request.Status == models.FriendStatusPending {
			out = append(out, request)
		}
	}
	return out, nil
}

// HasPending reports whether a pending request exists for the ordered pair.
func (r *InMemoryFriendRequestRepository) HasPending(_ context.Context, from, to string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, request := range r.requests {
		if request.From == from && request.To == to && request.Status == models.FriendStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func nowUTC() time.Time { return time.Now().UTC() }

var _ UserRepository = (*InMemoryUserRepository)(nil)
var _ BookRepository = (*InMemoryBookRepository)(nil)
var _ BookRequestRepository = (*InMemoryBookRequestRepository)(nil)
var _ FriendRequestRepository = (*InMemoryFriendRequestRepository)(nil)
