package ports

import (
	"context"

	"github.com/readquest/library-system/internal/core/domain"
)

// LedgerRepository persists XP audit events. Writes are best-effort; a failed
// insert never affects the progression state itself.
type LedgerRepository interface {
	Insert(ctx context.Context, event *domain.XPEvent) error
}
