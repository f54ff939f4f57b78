package domain

import (
	"errors"
	"time"
)

// ErrBookNotFound covers both an absent book and an unapproved one. The two
// cases are deliberately indistinguishable so the pending catalog does not
// leak through the read endpoints.
var ErrBookNotFound = errors.New("book not found")

var ErrLevelTooLow = errors.New("level too low for this book")

// Book is a contributed title. Approval starts false and is one-directional:
// an admin sets it true and it never reverts. Only approved books are visible
// or readable.
type Book struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	DifficultyLevel int       `json:"difficulty_level"`
	AddedBy         string    `json:"added_by"`
	Approved        bool      `json:"approved"`
	PDFPath         string    `json:"pdf_path"`
	TotalPages      int       `json:"total_pages"`
	CreatedAt       time.Time `json:"created_at"`
}
