package ports

import (
	"context"

	"github.com/readquest/library-system/internal/core/domain"
)

// ProgressStatus is the (page, completed) pair reported for a user-book pair.
// When no record exists it is a synthesized default, not a stored row.
type ProgressStatus struct {
	CurrentPage int
	Completed   bool
}

// ProgressService defines reading-progress use cases.
type ProgressService interface {
	Save(ctx context.Context, userID, bookID string, page int) error
	Get(ctx context.Context, userID, bookID string) (*ProgressStatus, error)
	// Finish marks the book completed and credits +50 xp. It is not
	// idempotent: a second attempt fails with domain.ErrAlreadyFinished.
	Finish(ctx context.Context, userID, bookID string) (*domain.User, error)
}
