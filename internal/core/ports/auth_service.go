package ports

import (
	"context"

	"github.com/readquest/library-system/internal/core/domain"
)

type AuthService interface {
	// Signup creates a regular user account; the role is always "user".
	Signup(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
