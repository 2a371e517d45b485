package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"summarizer-backend/internal/summary/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoDoc struct {
	ID           string    `bson:"_id"`
	OwnerID      string    `bson:"owner_id"`
	OriginalText string    `bson:"original_text"`
	Summary      string    `bson:"summary"`
	Timestamp    time.Time `bson:"timestamp"`
}

type mongoSummaryRepository struct {
	coll *mongo.Collection
}

// NewMongoSummaryRepository stores records in the "summaries" collection and
// ensures the owner index exists.
func NewMongoSummaryRepository(ctx context.Context, db *mongo.Database) (SummaryRepository, error) {
	coll := db.Collection("summaries")
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create summaries index: %w", err)
	}
	return &mongoSummaryRepository{coll: coll}, nil
}

func (r *mongoSummaryRepository) Create(ctx context.Context, s *domain.Summary) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now()
	}

	_, err := r.coll.InsertOne(ctx, mongoDoc{
		ID:           s.ID,
		OwnerID:      s.OwnerID,
		OriginalText: s.OriginalText,
		Summary:      s.Summary,
		Timestamp:    s.Timestamp.UTC(),
	})
	return err
}

func (r *mongoSummaryRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Summary, error) {
	cur, err := r.coll.Find(ctx, bson.M{"owner_id": ownerID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []mongoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]*domain.Summary, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *mongoSummaryRepository) FindByID(ctx context.Context, ownerID, id string) (*domain.Summary, error) {
	var doc mongoDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "owner_id": ownerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *mongoSummaryRepository) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (d mongoDoc) toDomain() *domain.Summary {
	return &domain.Summary{
		ID:           d.ID,
		OwnerID:      d.OwnerID,
		OriginalText: d.OriginalText,
		Summary:      d.Summary,
		Timestamp:    d.Timestamp,
	}
}
