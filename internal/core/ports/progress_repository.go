package ports

import (
	"context"

	"github.com/readquest/library-system/internal/core/domain"
)

// ProgressRepository defines persistence for per-(user, book) reading state.
type ProgressRepository interface {
	Find(ctx context.Context, userID, bookID string) (*domain.ReadingProgress, error)
	// SavePage upserts the current page, creating the record with
	// completed=false when absent.
	SavePage(ctx context.Context, userID, bookID string, page int) error
	// Complete flips the completion flag from false to true as a single conditional
	// write. Exactly one of two concurrent attempts can succeed; the loser
	// gets domain.ErrAlreadyFinished, a missing record domain.ErrNoProgress.
	Complete(ctx context.Context, userID, bookID string) error
	ListCompletedBookIDs(ctx context.Context, userID string) ([]string, error)
	DeleteByBook(ctx context.Context, bookID string) error
}
