package repositories

import (
	"context"

	"github.com/VIVEK-27UX/Readers/internal/models"
)

// BookRepository exposes data access for the book catalog. Create assigns the
// book's id; ids are monotonically increasing and never reused.
type BookRepository interface {
	Create(ctx context.Context, book models.Book) (models.Book, error)
	Find(ctx context.Context, id int64) (models.Book, error)
	Delete(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, owner string) ([]models.Book, error)
	ListCommunity(ctx context.Context, excludeOwner, search string) ([]models.Book, error)
	TransferOwner(ctx context.Context, id int64, newOwner string) error
}

// BookRequestRepository tracks the requester queue for each book. The queue
// preserves insertion order and holds each requester at most once.
type BookRequestRepository interface {
	Add(ctx context.Context, bookID int64, requester string) error
	Requesters(ctx context.Context, bookID int64) ([]string, error)
	Remove(ctx context.Context, bookID int64, requester string) error
}
