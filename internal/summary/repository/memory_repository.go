package repository

import (
	"context"
	"sync"
	"time"

	"summarizer-backend/internal/summary/domain"

	"github.com/google/uuid"
)

type memorySummaryRepository struct {
	mu      sync.RWMutex
	records map[string]domain.Summary
}

// NewMemorySummaryRepository keeps records in process memory.
func NewMemorySummaryRepository() SummaryRepository {
	return &memorySummaryRepository{records: make(map[string]domain.Summary)}
}

func (r *memorySummaryRepository) Create(_ context.Context, s *domain.Summary) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[s.ID] = *s
	return nil
}

func (r *memorySummaryRepository) FindByOwner(_ context.Context, ownerID string) ([]*domain.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Summary
	for _, rec := range r.records {
		if rec.OwnerID == ownerID {
			rec := rec
			out = append(out, &rec)
		}
	}
	return out, nil
}

func (r *memorySummaryRepository) FindByID(_ context.Context, ownerID, id string) (*domain.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok || rec.OwnerID != ownerID {
		return nil, nil
	}
	return &rec, nil
}

func (r *memorySummaryRepository) Delete(_ context.Context, ownerID, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok || rec.OwnerID != ownerID {
		return false, nil
	}
	delete(r.records, id)
	return true, nil
}
