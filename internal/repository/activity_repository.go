package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bygglink/quote-api/internal/domain"
)

// ActivityRepository handles database operations for the activity log.
// Entries are written by the services alongside their own mutations and are
// read-only afterwards.
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// ListByTarget returns activities for one entity, newest first
func (r *ActivityRepository) ListByTarget(ctx context.Context, targetType domain.ActivityTargetType, targetID uuid.UUID, limit int) ([]domain.Activity, error) {
	if limit < 1 || limit > MaxPageSize {
		limit = 50
	}
	var activities []domain.Activity
	err := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}

// ListRecent returns the most recent activities across all entities
func (r *ActivityRepository) ListRecent(ctx context.Context, limit int) ([]domain.Activity, error) {
	if limit < 1 || limit > MaxPageSize {
		limit = 50
	}
	var activities []domain.Activity
	err := r.db.WithContext(ctx).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}
