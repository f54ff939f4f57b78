package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/readquest/library-system/internal/core/domain"
	"github.com/readquest/library-system/internal/core/ports"
)

const ledgerCollection = "xp_events"

// LedgerRepository appends xp audit events to the xp_events collection.
type LedgerRepository struct {
	coll *mongo.Collection
}

func NewLedgerRepository(db *mongo.Database) ports.LedgerRepository {
	return &LedgerRepository{coll: db.Collection(ledgerCollection)}
}

func (r *LedgerRepository) Insert(ctx context.Context, event *domain.XPEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"user_id":      event.UserID,
		"delta":        event.Delta,
		"reason":       event.Reason,
		"occurred_at":  event.OccurredAt,
		"processed_at": time.Now().UTC(),
	}
	if event.BookID != "" {
		doc["book_id"] = event.BookID
	}

	_, err := r.coll.InsertOne(ctx, doc)
	return err
}
