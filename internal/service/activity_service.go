package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bygglink/quote-api/internal/domain"
	"github.com/bygglink/quote-api/internal/mapper"
	"github.com/bygglink/quote-api/internal/repository"
)

// ActivityService exposes the read side of the activity log. Entries are
// written by the owning services, not through this service.
type ActivityService struct {
	activityRepo *repository.ActivityRepository
	logger       *zap.Logger
}

func NewActivityService(activityRepo *repository.ActivityRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// ListByTarget returns the activity trail of one entity, newest first
func (s *ActivityService) ListByTarget(ctx context.Context, targetType domain.ActivityTargetType, targetID uuid.UUID, limit int) ([]domain.ActivityDTO, error) {
	activities, err := s.activityRepo.ListByTarget(ctx, targetType, targetID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return toActivityDTOs(activities), nil
}

// ListRecent returns the most recent activities across all entities
func (s *ActivityService) ListRecent(ctx context.Context, limit int) ([]domain.ActivityDTO, error) {
	activities, err := s.activityRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent activities: %w", err)
	}
	return toActivityDTOs(activities), nil
}

func toActivityDTOs(activities []domain.Activity) []domain.ActivityDTO {
	dtos := make([]domain.ActivityDTO, len(activities))
	for i := range activities {
		dtos[i] = mapper.ToActivityDTO(&activities[i])
	}
	return dtos
}
