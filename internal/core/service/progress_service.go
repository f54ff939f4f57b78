package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/readquest/library-system/internal/core/domain"
	"github.com/readquest/library-system/internal/core/ports"
	"github.com/readquest/library-system/internal/metrics"
)

type progressService struct {
	progress    ports.ProgressRepository
	users       ports.UserRepository
	progression ports.ProgressionService
	log         zerolog.Logger
}

// NewProgressService returns the ProgressService implementation.
func NewProgressService(
	progress ports.ProgressRepository,
	users ports.UserRepository,
	progression ports.ProgressionService,
	log zerolog.Logger,
) ports.ProgressService {
	return &progressService{
		progress:    progress,
		users:       users,
		progression: progression,
		log:         log,
	}
}

// Save upserts the current page for the (user, book) pair, creating the
// record lazily with completed=false. The page is not bounded against the
// book's total page count.
func (s *progressService) Save(ctx context.Context, userID, bookID string, page int) error {
	if page < 1 {
		page = 1
	}
	if err := s.progress.SavePage(ctx, userID, bookID, page); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// Get reports the stored progress, or the synthesized default of page 1 / not
// completed when no record exists. The default is never written back.
func (s *progressService) Get(ctx context.Context, userID, bookID string) (*ports.ProgressStatus, error) {
	progress, err := s.progress.Find(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, domain.ErrProgressNotFound) {
			return &ports.ProgressStatus{CurrentPage: 1, Completed: false}, nil
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return &ports.ProgressStatus{
		CurrentPage: progress.CurrentPage,
		Completed:   progress.Completed,
	}, nil
}

// Finish marks the book completed and credits +50 xp. The completion flip is
// a conditional write on completed=false, so concurrent attempts cannot
// double-credit: exactly one proceeds to the xp award.
func (s *progressService) Finish(ctx context.Context, userID, bookID string) (*domain.User, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("finish: %w", err)
	}

	if err := s.progress.Complete(ctx, userID, bookID); err != nil {
		return nil, fmt.Errorf("finish: %w", err)
	}

	user, err := s.progression.AwardXP(ctx, ports.XPAward{
		UserID: userID,
		BookID: bookID,
		Delta:  domain.XPRewardCompletion,
		Reason: domain.XPReasonCompletion,
	})
	if err != nil {
		// The completion flag is already set; the reward is lost, not
		// retried. Same accepted window as the contribution path.
		s.log.Warn().Err(err).
			Str("user_id", userID).
			Str("book_id", bookID).
			Msg("xp credit failed after completion")
		return nil, fmt.Errorf("finish: %w", err)
	}

	metrics.BooksFinishedTotal.Inc()
	s.log.Info().
		Str("user_id", userID).
		Str("book_id", bookID).
		Int("xp", user.XP).
		Int("level", user.Level).
		Msg("book finished")

	return user, nil
}
