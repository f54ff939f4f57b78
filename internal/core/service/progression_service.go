package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/readquest/library-system/internal/core/domain"
	"github.com/readquest/library-system/internal/core/ports"
	"github.com/readquest/library-system/internal/metrics"
)

// XPLedger abstracts the asynchronous audit trail (worker queue). Record must
// not block the caller beyond enqueueing.
type XPLedger interface {
	Record(event domain.XPEvent)
}

type progressionService struct {
	users  ports.UserRepository
	ledger XPLedger // optional
	log    zerolog.Logger
}

// NewProgressionService returns the ProgressionService implementation. ledger
// may be nil, in which case no audit events are emitted.
func NewProgressionService(users ports.UserRepository, ledger XPLedger, log zerolog.Logger) ports.ProgressionService {
	return &progressionService{users: users, ledger: ledger, log: log}
}

// AwardXP is the single engine-boundary mutation: atomic increment, level
// recomputation from the fresh total, and a guarded level write that only
// lands when the level strictly increased.
func (s *progressionService) AwardXP(ctx context.Context, award ports.XPAward) (*domain.User, error) {
	if award.Delta <= 0 {
		return nil, fmt.Errorf("award xp: non-positive delta %d", award.Delta)
	}

	user, err := s.users.AddXP(ctx, award.UserID, award.Delta)
	if err != nil {
		return nil, fmt.Errorf("award xp: %w", err)
	}

	newLevel := domain.CalculateLevel(user.XP)
	if newLevel > user.Level {
		// The xp increment is already durable. A failed promote leaves the
		// stored level stale, and the level is recomputed from xp on the next
		// event, so the event itself still succeeds.
		if err := s.users.PromoteLevel(ctx, award.UserID, newLevel); err != nil {
			s.log.Warn().Err(err).
				Str("user_id", award.UserID).
				Int("level", newLevel).
				Msg("level promote failed, will self-correct on next award")
		} else {
			s.log.Info().
				Str("user_id", award.UserID).
				Int("xp", user.XP).
				Int("level", newLevel).
				Msg("level up")
			metrics.LevelUpsTotal.Inc()
			user.Level = newLevel
		}
	}

	metrics.XPAwardedTotal.WithLabelValues(award.Reason).Add(float64(award.Delta))

	if s.ledger != nil {
		s.ledger.Record(domain.XPEvent{
			UserID:     award.UserID,
			BookID:     award.BookID,
			Delta:      award.Delta,
			Reason:     award.Reason,
			OccurredAt: time.Now().UTC(),
		})
	}

	return user, nil
}
