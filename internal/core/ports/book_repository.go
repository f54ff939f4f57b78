package ports

import (
	"context"

	"github.com/readquest/library-system/internal/core/domain"
)

// BookRepository defines persistence operations for books.
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) (*domain.Book, error)
	FindByID(ctx context.Context, id string) (*domain.Book, error)
	// FindApproved retrieves a book only if it is approved; an unapproved or
	// absent book yields the same domain.ErrBookNotFound.
	FindApproved(ctx context.Context, id string) (*domain.Book, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Book, error)
	ListApproved(ctx context.Context) ([]*domain.Book, error)
	ListAll(ctx context.Context) ([]*domain.Book, error)
	ListByContributor(ctx context.Context, userID string) ([]*domain.Book, error)
	Approve(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
