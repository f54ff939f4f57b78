package ports

import (
	"context"
	"io"

	"github.com/readquest/library-system/internal/core/domain"
)

// ContributeInput carries everything needed to contribute a new book.
type ContributeInput struct {
	Title           string
	Author          string
	DifficultyLevel int
	TotalPages      int
	ContributorID   string
	Filename        string
	File            io.Reader
}

// AccessResult is returned by a successful access check.
type AccessResult struct {
	PDFPath    string
	TotalPages int
}

// LibraryService defines the catalog use cases.
type LibraryService interface {
	// Contribute stores the file, creates the book unapproved, and credits
	// the contributor +20 xp. The xp credit is best-effort: if it fails the
	// book still exists pending approval.
	Contribute(ctx context.Context, input ContributeInput) (*domain.Book, error)
	ListApproved(ctx context.Context) ([]*domain.Book, error)
	ListAll(ctx context.Context) ([]*domain.Book, error)
	Approve(ctx context.Context, bookID string) error
	Delete(ctx context.Context, bookID string) error
	// Access grants the pdf reference iff the book is approved and the user's
	// level is at least the book's difficulty.
	Access(ctx context.Context, userID, bookID string) (*AccessResult, error)
}
