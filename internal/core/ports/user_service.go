package ports

import (
	"context"

	"github.com/readquest/library-system/internal/core/domain"
)

// ProfileInput identifies the requested profile and the caller, so the
// service can enforce the self-or-admin rule.
type ProfileInput struct {
	UserID     string
	CallerID   string
	CallerRole string
}

// Profile is the aggregated user view: account state plus the books the user
// finished and the books they contributed.
type Profile struct {
	User       *domain.User
	ReadBooks  []*domain.Book
	AddedBooks []*domain.Book
}

type UserService interface {
	Profile(ctx context.Context, input ProfileInput) (*Profile, error)
}
