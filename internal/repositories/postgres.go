package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/VIVEK-27UX/Readers/internal/db"
	"github.com/VIVEK-27UX/Readers/internal/models"
)

// PostgresUserRepository provides PostgreSQL-backed persistence for users and
// friendships.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new user record.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO users (username, password_hash, rating_sum, rating_count, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `, user.Username, user.Password, user.RatingSum, user.RatingCount, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// Find fetches a user by username. The Friends field is not populated.
func (r *PostgresUserRepository) Find(ctx context.Context, username string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT username, password_hash, rating_sum, rating_count, created_at
        FROM users
        WHERE username = $1
    `, username)

	var user models.User
	if err := row.Scan(&user.Username, &user.Password, &user.RatingSum, &user.RatingCount, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user: %w", err)
	}

	return user, nil
}

// List returns all users in registration order.
func (r *PostgresUserRepository) List(ctx context.Context) ([]models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT username, password_hash, rating_sum, rating_count, created_at
        FROM users
        ORDER BY created_at, username
    `)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.Username, &user.Password, &user.RatingSum, &user.RatingCount, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// Friends returns the user's friends in the order the friendships were formed.
func (r *PostgresUserRepository) Friends(ctx context.Context, username string) ([]string, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT friend
        FROM friendships
        WHERE username = $1
        ORDER BY position
    `, username)
	if err != nil {
		return nil, fmt.Errorf("query friendships: %w", err)
	}
	defer rows.Close()

	var friends []string
	for rows.Next() {
		var friend string
		if err := rows.Scan(&friend); err != nil {
			return nil, fmt.Errorf("scan friendship: %w", err)
		}
		friends = append(friends, friend)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate friendships: %w", err)
	}

	return friends, nil
}

// AddFriendship records the symmetric friendship between two users. It is
// idempotent: existing edges are left untouched.
func (r *PostgresUserRepository) AddFriendship(ctx context.Context, a, b string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO friendships (username, friend)
        VALUES ($1, $2), ($2, $1)
        ON CONFLICT (username, friend) DO NOTHING
    `, a, b)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("insert friendship: %w", err)
	}

	return nil
}

// AddRating accumulates a lender rating onto the user's running totals.
func (r *PostgresUserRepository) AddRating(ctx context.Context, username string, stars int) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET rating_sum = rating_sum + $2, rating_count = rating_count + 1
        WHERE username = $1
    `, username, stars)
	if err != nil {
		return fmt.Errorf("update rating: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// PostgresBookRepository provides PostgreSQL-backed persistence for the book
// catalog.
type PostgresBookRepository struct {
	pool db.Pool
}

// NewPostgresBookRepository constructs a book repository backed by PostgreSQL.
func NewPostgresBookRepository(pool db.Pool) *PostgresBookRepository {
	return &PostgresBookRepository{pool: pool}
}

// Create stores a new book and returns it with its assigned id.
func (r *PostgresBookRepository) Create(ctx context.Context, book models.Book) (models.Book, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Book{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        INSERT INTO books (title, author, owner, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, book.Title, book.Author, book.Owner, book.CreatedAt)

	if err := row.Scan(&book.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return models.Book{}, ErrNotFound
		}
		return models.Book{}, fmt.Errorf("insert book: %w", err)
	}

	return book, nil
}

// Find fetches a book by id.
func (r *PostgresBookRepository) Find(ctx context.Context, id int64) (models.Book, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Book{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, title, author, owner, created_at
        FROM books
        WHERE id = $1
    `, id)

	var book models.Book
	if err := row.Scan(&book.ID, &book.Title, &book.Author, &book.Owner, &book.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Book{}, ErrNotFound
		}
		return models.Book{}, fmt.Errorf("select book: %w", err)
	}

	return book, nil
}

// Delete removes a book and any queued requests for it.
func (r *PostgresBookRepository) Delete(ctx context.Context, id int64) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM books
        WHERE id = $1
    `, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListByOwner returns the books owned by the provided user in catalog order.
func (r *PostgresBookRepository) ListByOwner(ctx context.Context, owner string) ([]models.Book, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT id, title, author, owner, created_at
        FROM books
        WHERE owner = $1
        ORDER BY id
    `, owner)
	if err != nil {
		return nil, fmt.Errorf("query books by owner: %w", err)
	}
	defer rows.Close()

	return scanBooks(rows)
}

// ListCommunity returns books not owned by excludeOwner, optionally filtered
// by a case-insensitive substring match on title or author.
func (r *PostgresBookRepository) ListCommunity(ctx context.Context, excludeOwner, search string) ([]models.Book, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	query := `
        SELECT id, title, author, owner, created_at
        FROM books
        WHERE owner <> $1
    `
	args := []any{excludeOwner}
	if strings.TrimSpace(search) != "" {
		query += ` AND (title ILIKE '%' || $2 || '%' OR author ILIKE '%' || $2 || '%')`
		args = append(args, search)
	}
	query += ` ORDER BY id`

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query community books: %w", err)
	}
	defer rows.Close()

	return scanBooks(rows)
}

// TransferOwner reassigns the book to a new owner.
func (r *PostgresBookRepository) TransferOwner(ctx context.Context, id int64, newOwner string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE books
        SET owner = $2
        WHERE id = $1
    `, id, newOwner)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("transfer book owner: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanBooks(rows pgx.Rows) ([]models.Book, error) {
	var books []models.Book
	for rows.Next() {
		var book models.Book
		if err := rows.Scan(&book.ID, &book.Title, &book.Author, &book.Owner, &book.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}

	return books, nil
}

// PostgresBookRequestRepository provides PostgreSQL-backed persistence for the
// per-book requester queues.
type PostgresBookRequestRepository struct {
	pool db.Pool
}

// NewPostgresBookRequestRepository constructs a book request repository backed
// by PostgreSQL.
func NewPostgresBookRequestRepository(pool db.Pool) *PostgresBookRequestRepository {
	return &PostgresBookRequestRepository{pool: pool}
}

// Add appends the requester to the book's queue. Duplicate entries for the
// same book map to ErrConflict.
func (r *PostgresBookRequestRepository) Add(ctx context.Context, bookID int64, requester string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO book_requests (book_id, requester)
        VALUES ($1, $2)
    `, bookID, requester)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert book request: %w", err)
	}

	return nil
}

// Requesters returns the book's queue in request order.
func (r *PostgresBookRequestRepository) Requesters(ctx context.Context, bookID int64) ([]string, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT requester
        FROM book_requests
        WHERE book_id = $1
        ORDER BY position
    `, bookID)
	if err != nil {
		return nil, fmt.Errorf("query book requests: %w", err)
	}
	defer rows.Close()

	var requesters []string
	for rows.Next() {
		var requester string
		if err := rows.Scan(&requester); err != nil {
			return nil, fmt.Errorf("scan book request: %w", err)
		}
		requesters = append(requesters, requester)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate book requests: %w", err)
	}

	return requesters, nil
}

// Remove deletes the requester's entry from the book's queue.
func (r *PostgresBookRequestRepository) Remove(ctx context.Context, bookID int64, requester string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM book_requests
        WHERE book_id = $1 AND requester = $2
    `, bookID, requester)
	if err != nil {
		return fmt.Errorf("delete book request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// PostgresFriendRequestRepository provides PostgreSQL-backed persistence for
// friend requests.
type PostgresFriendRequestRepository struct {
	pool db.Pool
}

// NewPostgresFriendRequestRepository constructs a friend request repository
// backed by PostgreSQL.
func NewPostgresFriendRequestRepository(pool db.Pool) *PostgresFriendRequestRepository {
	return &PostgresFriendRequestRepository{pool: pool}
}

// Create persists a new friend request and returns it with its assigned id.
// A pending request for the same ordered pair maps to ErrConflict.
func (r *PostgresFriendRequestRepository) Create(ctx context.Context, request models.FriendRequest) (models.FriendRequest, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.FriendRequest{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        INSERT INTO friend_requests (from_user, to_user, status, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, request.From, request.To, request.Status, request.CreatedAt)

	if err := row.Scan(&request.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return models.FriendRequest{}, ErrConflict
			case "23503":
				return models.FriendRequest{}, ErrNotFound
			}
		}
		return models.FriendRequest{}, fmt.Errorf("insert friend request: %w", err)
	}

	return request, nil
}

// Find fetches a friend request by id.
func (r *PostgresFriendRequestRepository) Find(ctx context.Context, id int64) (models.FriendRequest, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.FriendRequest{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, from_user, to_user, status, created_at, responded_at
        FROM friend_requests
        WHERE id = $1
    `, id)

	return scanFriendRequest(row)
}

// UpdateStatus updates the status (and responded_at) for a friend request.
func (r *PostgresFriendRequestRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	respondedAt := sql.NullTime{}
	if status != models.FriendStatusPending {
		respondedAt = sql.NullTime{Valid: true, Time: time.Now().UTC()}
	}

	tag, err := conn.Exec(ctx, `
        UPDATE friend_requests
        SET status = $2, responded_at = $3
        WHERE id = $1
    `, id, status, respondedAt)
	if err != nil {
		return fmt.Errorf("update friend request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListIncoming returns pending requests addressed to the user, oldest first.
func (r *PostgresFriendRequestRepository) ListIncoming(ctx context.Context, to string) ([]models.FriendRequest, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT id, from_user, to_user, status, created_at, responded_at
        FROM friend_requests
        WHERE to_user = $1 AND status = $2
        ORDER BY id
    `, to, models.FriendStatusPending)
	if err != nil {
		return nil, fmt.Errorf("query friend requests: %w", err)
	}
	defer rows.Close()

	var requests []models.FriendRequest
	for rows.Next() {
		request, err := scanFriendRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate friend requests: %w", err)
	}

	return requests, nil
}

// HasPending reports whether a pending request exists for the ordered pair.
func (r *PostgresFriendRequestRepository) HasPending(ctx context.Context, from, to string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM friend_requests
            WHERE from_user = $1 AND to_user = $2 AND status = $3
        )
    `, from, to, models.FriendStatusPending)

	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("select pending friend request: %w", err)
	}

	return exists, nil
}

func scanFriendRequest(row pgx.Row) (models.FriendRequest, error) {
	var (
		request     models.FriendRequest
		respondedAt sql.NullTime
	)

	if err := row.Scan(&request.ID, &request.From, &request.To, &request.Status, &request.CreatedAt, &respondedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.FriendRequest{}, ErrNotFound
		}
		return models.FriendRequest{}, fmt.Errorf("scan friend request: %w", err)
	}

	if respondedAt.Valid {
		t := respondedAt.Time.UTC()
		request.RespondedAt = &t
	}

	return request, nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
var _ BookRepository = (*PostgresBookRepository)(nil)
var _ BookRequestRepository = (*PostgresBookRequestRepository)(nil)
var _ FriendRequestRepository = (*PostgresFriendRequestRepository)(nil)
