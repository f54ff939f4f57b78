package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/readquest/library-system/internal/core/domain"
)

const booksCollection = "books"

type BookRepository struct {
	coll *mongo.Collection
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{coll: db.Collection(booksCollection)}
}

type mongoBook struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Title           string             `bson:"title"`
	Author          string             `bson:"author"`
	DifficultyLevel int                `bson:"difficulty_level"`
	AddedBy         string             `bson:"added_by"`
	Approved        bool               `bson:"approved"`
	PDFPath         string             `bson:"pdf_path"`
	TotalPages      int                `bson:"total_pages"`
	CreatedAt       int64              `bson:"created_at"`
}

func (r *BookRepository) Create(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoBook{
		Title:           book.Title,
		Author:          book.Author,
		DifficultyLevel: book.DifficultyLevel,
		AddedBy:         book.AddedBy,
		Approved:        book.Approved,
		PDFPath:         book.PDFPath,
		TotalPages:      book.TotalPages,
		CreatedAt:       book.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}

	created := *book
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *BookRepository) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	return r.findOne(ctx, id, false)
}

// FindApproved filters on approved=true so absent and unapproved books are
// indistinguishable to the caller.
func (r *BookRepository) FindApproved(ctx context.Context, id string) (*domain.Book, error) {
	return r.findOne(ctx, id, true)
}

func (r *BookRepository) findOne(ctx context.Context, id string, approvedOnly bool) (*domain.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBookNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid}
	if approvedOnly {
		filter["approved"] = true
	}

	var mb mongoBook
	if err := r.coll.FindOne(ctx, filter).Decode(&mb); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return mb.toDomain(), nil
}

func (r *BookRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Book, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	return r.list(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *BookRepository) ListApproved(ctx context.Context) ([]*domain.Book, error) {
	return r.list(ctx, bson.M{"approved": true})
}

func (r *BookRepository) ListAll(ctx context.Context) ([]*domain.Book, error) {
	return r.list(ctx, bson.M{})
}

func (r *BookRepository) ListByContributor(ctx context.Context, userID string) ([]*domain.Book, error) {
	return r.list(ctx, bson.M{"added_by": userID})
}

func (r *BookRepository) list(ctx context.Context, filter bson.M) ([]*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer cur.Close(ctx)

	books := []*domain.Book{}
	for cur.Next(ctx) {
		var mb mongoBook
		if err := cur.Decode(&mb); err != nil {
			return nil, fmt.Errorf("decode book: %w", err)
		}
		books = append(books, mb.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// Approve is one-directional: it only ever sets the flag to true.
func (r *BookRepository) Approve(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrBookNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"approved": true}})
	if err != nil {
		return fmt.Errorf("approve book: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrBookNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// EnsureIndexes creates the catalog query indexes.
func (r *BookRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "approved", Value: 1}}},
		{Keys: bson.D{{Key: "added_by", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (mb *mongoBook) toDomain() *domain.Book {
	return &domain.Book{
		ID:              mb.ID.Hex(),
		Title:           mb.Title,
		Author:          mb.Author,
		DifficultyLevel: mb.DifficultyLevel,
		AddedBy:         mb.AddedBy,
		Approved:        mb.Approved,
		PDFPath:         mb.PDFPath,
		TotalPages:      mb.TotalPages,
		CreatedAt:       unixToTime(mb.CreatedAt),
	}
}
