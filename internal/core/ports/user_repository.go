package ports

import (
	"context"

	"github.com/readquest/library-system/internal/core/domain"
)

// UserRepository defines persistence operations for users.
//
// AddXP and PromoteLevel carry the store-side atomicity the progression engine
// relies on: AddXP must be a true atomic increment (never read-modify-write in
// application code), and PromoteLevel must only write when the stored level is
// still below the new one.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// AddXP atomically increments the user's xp by delta and returns the
	// post-increment user.
	AddXP(ctx context.Context, id string, delta int) (*domain.User, error)
	// PromoteLevel raises the stored level to level, guarded so a concurrent
	// or stale recomputation can never lower it.
	PromoteLevel(ctx context.Context, id string, level int) error
}
