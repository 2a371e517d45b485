package repository

import (
	"context"
	"errors"
	"time"

	"summarizer-backend/internal/summary/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormSummaryRepository implements SummaryRepository using GORM
type gormSummaryRepository struct {
	db *gorm.DB
}

// NewGormSummaryRepository creates a new GORM-based SummaryRepository
func NewGormSummaryRepository(db *gorm.DB) SummaryRepository {
	return &gormSummaryRepository{db: db}
}

func (r *gormSummaryRepository) Create(ctx context.Context, s *domain.Summary) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now()
	}
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *gormSummaryRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Summary, error) {
	var summaries []*domain.Summary
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&summaries).Error
	return summaries, err
}

func (r *gormSummaryRepository) FindByID(ctx context.Context, ownerID, id string) (*domain.Summary, error) {
	var s domain.Summary
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *gormSummaryRepository) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&domain.Summary{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
