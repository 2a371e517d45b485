package repository

import (
	"context"

	"summarizer-backend/internal/summary/domain"
)

// SummaryRepository is the document store for summary records. Every read and
// delete is filtered by owner.
type SummaryRepository interface {
	// Create assigns ID (and Timestamp when zero) and persists s.
	Create(ctx context.Context, s *domain.Summary) error

	// FindByOwner returns all records of ownerID in no particular order.
	FindByOwner(ctx context.Context, ownerID string) ([]*domain.Summary, error)

	// FindByID returns (nil, nil) when id does not exist or belongs to someone else.
	FindByID(ctx context.Context, ownerID, id string) (*domain.Summary, error)

	// Delete removes id if ownerID owns it and reports whether anything was deleted.
	Delete(ctx context.Context, ownerID, id string) (bool, error)
}
