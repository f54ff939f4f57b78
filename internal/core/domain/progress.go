package domain

import (
	"errors"
	"time"
)

var ErrProgressNotFound = errors.New("reading progress not found")
var ErrNoProgress = errors.New("no progress for this book, start reading first")
var ErrAlreadyFinished = errors.New("book already marked as finished")

// ReadingProgress tracks one user's position in one book. Created lazily on
// the first page save; Completed flips to true exactly once.
type ReadingProgress struct {
	UserID      string    `json:"user_id"`
	BookID      string    `json:"book_id"`
	CurrentPage int       `json:"current_page"`
	Completed   bool      `json:"completed"`
	UpdatedAt   time.Time `json:"updated_at"`
}
