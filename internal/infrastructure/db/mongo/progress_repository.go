package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/readquest/library-system/internal/core/domain"
)

const progressCollection = "user_book_progress"

type ProgressRepository struct {
	coll *mongo.Collection
}

func NewProgressRepository(db *mongo.Database) *ProgressRepository {
	return &ProgressRepository{coll: db.Collection(progressCollection)}
}

type mongoProgress struct {
	UserID      string `bson:"user_id"`
	BookID      string `bson:"book_id"`
	CurrentPage int    `bson:"current_page"`
	Completed   bool   `bson:"completed"`
	UpdatedAt   int64  `bson:"updated_at"`
}

func (r *ProgressRepository) Find(ctx context.Context, userID, bookID string) (*domain.ReadingProgress, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoProgress
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID, "book_id": bookID}).Decode(&mp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProgressNotFound
		}
		return nil, fmt.Errorf("find progress: %w", err)
	}

	return &domain.ReadingProgress{
		UserID:      mp.UserID,
		BookID:      mp.BookID,
		CurrentPage: mp.CurrentPage,
		Completed:   mp.Completed,
		UpdatedAt:   unixToTime(mp.UpdatedAt),
	}, nil
}

// SavePage upserts the current page; the completion flag is only seeded on
// insert and never touched on update.
func (r *ProgressRepository) SavePage(ctx context.Context, userID, bookID string, page int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID, "book_id": bookID}
	update := bson.M{
		"$set": bson.M{
			"current_page": page,
			"updated_at":   time.Now().UTC().Unix(),
		},
		"$setOnInsert": bson.M{"completed": false},
	}

	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// Complete is the compare-and-swap on the completion flag: the filter matches
// only while completed is still false, so of two concurrent attempts exactly
// one modifies the row. When nothing matched, a follow-up read distinguishes
// a missing record from an already finished one.
func (r *ProgressRepository) Complete(ctx context.Context, userID, bookID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID, "book_id": bookID, "completed": false}
	update := bson.M{"$set": bson.M{
		"completed":  true,
		"updated_at": time.Now().UTC().Unix(),
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("complete progress: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	err = r.coll.FindOne(ctx, bson.M{"user_id": userID, "book_id": bookID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNoProgress
	}
	if err != nil {
		return fmt.Errorf("complete progress: %w", err)
	}
	return domain.ErrAlreadyFinished
}

func (r *ProgressRepository) ListCompletedBookIDs(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"book_id": 1})
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID, "completed": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("list completed: %w", err)
	}
	defer cur.Close(ctx)

	ids := []string{}
	for cur.Next(ctx) {
		var mp mongoProgress
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode progress: %w", err)
		}
		ids = append(ids, mp.BookID)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list completed: %w", err)
	}
	return ids, nil
}

func (r *ProgressRepository) DeleteByBook(ctx context.Context, bookID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"book_id": bookID}); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique (user, book) pair index.
func (r *ProgressRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "book_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
