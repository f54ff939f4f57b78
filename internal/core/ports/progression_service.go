package ports

import (
	"context"

	"github.com/readquest/library-system/internal/core/domain"
)

// XPAward describes a single xp-increasing event.
type XPAward struct {
	UserID string
	BookID string
	Delta  int
	Reason string
}

// ProgressionService is the engine boundary: one atomic
// award-xp-and-maybe-level-up operation per event, so callers cannot
// reintroduce the lost-update race between the increment and the level write.
type ProgressionService interface {
	// AwardXP atomically adds the delta, recomputes the level from the new
	// total, persists the level only if it strictly increased, and returns
	// the user as of after the event.
	AwardXP(ctx context.Context, award XPAward) (*domain.User, error)
}
