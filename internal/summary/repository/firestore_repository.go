package repository

import (
	"context"
	"fmt"
	"time"

	"summarizer-backend/internal/summary/domain"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// firestoreDoc mirrors the document shape written by the web client.
type firestoreDoc struct {
	UserID       string    `firestore:"userId"`
	OriginalText string    `firestore:"originalText"`
	Summary      string    `firestore:"summary"`
	Timestamp    time.Time `firestore:"timestamp"`
}

type firestoreSummaryRepository struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreSummaryRepository stores records in a Firestore collection.
func NewFirestoreSummaryRepository(client *firestore.Client, collection string) SummaryRepository {
	if collection == "" {
		collection = "summaries"
	}
	return &firestoreSummaryRepository{client: client, collection: collection}
}

func (r *firestoreSummaryRepository) Create(ctx context.Context, s *domain.Summary) error {
	ref, _, err := r.client.Collection(r.collection).Add(ctx, map[string]interface{}{
		"userId":       s.OwnerID,
		"originalText": s.OriginalText,
		"summary":      s.Summary,
		"timestamp":    firestore.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("firestore add: %w", err)
	}

	s.ID = ref.ID
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now()
	}
	return nil
}

func (r *firestoreSummaryRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Summary, error) {
	docs, err := r.client.Collection(r.collection).Where("userId", "==", ownerID).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("firestore query: %w", err)
	}

	out := make([]*domain.Summary, 0, len(docs))
	for _, snap := range docs {
		s, err := fromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *firestoreSummaryRepository) FindByID(ctx context.Context, ownerID, id string) (*domain.Summary, error) {
	snap, err := r.client.Collection(r.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("firestore get: %w", err)
	}

	s, err := fromSnapshot(snap)
	if err != nil {
		return nil, err
	}
	if s.OwnerID != ownerID {
		return nil, nil
	}
	return s, nil
}

func (r *firestoreSummaryRepository) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	s, err := r.FindByID(ctx, ownerID, id)
	if err != nil || s == nil {
		return false, err
	}
	if _, err := r.client.Collection(r.collection).Doc(id).Delete(ctx); err != nil {
		return false, fmt.Errorf("firestore delete: %w", err)
	}
	return true, nil
}

// fromSnapshot converts a document. Documents whose server timestamp has not
// resolved yet read as "now".
func fromSnapshot(snap *firestore.DocumentSnapshot) (*domain.Summary, error) {
	var doc firestoreDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore decode %s: %w", snap.Ref.ID, err)
	}

	ts := doc.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return &domain.Summary{
		ID:           snap.Ref.ID,
		OwnerID:      doc.UserID,
		OriginalText: doc.OriginalText,
		Summary:      doc.Summary,
		Timestamp:    ts,
	}, nil
}
