package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"folio/internal/models"

	"gorm.io/gorm"
)

// ViewFilter selects page views of one owner. From is inclusive, To exclusive;
// zero values leave that side unbounded. An empty TargetType matches every type.
type ViewFilter struct {
	OwnerID    uint
	TargetType models.TargetType
	From       time.Time
	To         time.Time
}

// PageViewRepository is the append-only store of accepted views.
type PageViewRepository interface {
	Create(ctx context.Context, view *models.PageView) error
	FindRecent(ctx context.Context, targetID, visitorID string, since time.Time) (*models.PageView, error)
	Count(ctx context.Context, filter ViewFilter) (int64, error)
}

type pageViewRepository struct {
	db *gorm.DB
}

// NewPageViewRepository creates a new page view repository
func NewPageViewRepository(db *gorm.DB) PageViewRepository {
	return &pageViewRepository{db: db}
}

func (r *pageViewRepository) Create(ctx context.Context, view *models.PageView) error {
	if err := r.db.WithContext(ctx).Create(view).Error; err != nil {
		return fmt.Errorf("create page view: %w", err)
	}
	return nil
}

// FindRecent returns the latest view of targetID by visitorID at or after since,
// or nil, nil when there is none.
func (r *pageViewRepository) FindRecent(ctx context.Context, targetID, visitorID string, since time.Time) (*models.PageView, error) {
	var view models.PageView
	err := r.db.WithContext(ctx).
		Where("target_id = ? AND visitor_id = ? AND viewed_at >= ?", targetID, visitorID, since).
		Order("viewed_at DESC").
		Take(&view).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find recent page view: %w", err)
	}
	return &view, nil
}

func (r *pageViewRepository) Count(ctx context.Context, filter ViewFilter) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.PageView{}).Where("user_id = ?", filter.OwnerID)
	if filter.TargetType != "" {
		q = q.Where("target_type = ?", filter.TargetType)
	}
	if !filter.From.IsZero() {
		q = q.Where("viewed_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("viewed_at < ?", filter.To)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count page views: %w", err)
	}
	return n, nil
}
