package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bygglink/quote-api/internal/diff"
	"github.com/bygglink/quote-api/internal/domain"
	"github.com/bygglink/quote-api/internal/mapper"
	"github.com/bygglink/quote-api/internal/pricing"
	"github.com/bygglink/quote-api/internal/repository"
)

// RevisionService reads quotation revision history and runs version
// comparisons. It never writes: snapshots are produced by QuotationService
// as a side effect of saves.
type RevisionService struct {
	revisionRepo *repository.RevisionRepository
	logger       *zap.Logger
}

func NewRevisionService(revisionRepo *repository.RevisionRepository, logger *zap.Logger) *RevisionService {
	return &RevisionService{
		revisionRepo: revisionRepo,
		logger:       logger,
	}
}

// List returns the revision history of a quotation, newest first
func (s *RevisionService) List(ctx context.Context, quotationID uuid.UUID) ([]domain.RevisionDTO, error) {
	revisions, err := s.revisionRepo.ListByQuotation(ctx, quotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}

	dtos := make([]domain.RevisionDTO, len(revisions))
	for i := range revisions {
		dtos[i] = mapper.ToRevisionDTO(&revisions[i])
	}
	return dtos, nil
}

// GetSnapshot returns the full document snapshot at one version
func (s *RevisionService) GetSnapshot(ctx context.Context, quotationID uuid.UUID, version int) (*pricing.Document, error) {
	doc, err := s.loadSnapshot(ctx, quotationID, version)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Compare diffs two stored versions of a quotation. The lower version is
// always treated as the older side regardless of argument order.
func (s *RevisionService) Compare(ctx context.Context, quotationID uuid.UUID, versionA, versionB int) (*diff.DocumentDiff, error) {
	if versionA == versionB {
		return nil, fmt.Errorf("%w: cannot compare a version with itself", ErrInvalidInput)
	}
	if versionA > versionB {
		versionA, versionB = versionB, versionA
	}

	older, err := s.loadSnapshot(ctx, quotationID, versionA)
	if err != nil {
		return nil, err
	}
	newer, err := s.loadSnapshot(ctx, quotationID, versionB)
	if err != nil {
		return nil, err
	}

	result, err := diff.Compare(older, newer)
	if err != nil {
		return nil, fmt.Errorf("failed to compare revisions: %w", err)
	}

	s.logger.Debug("compared quotation revisions",
		zap.String("quotationID", quotationID.String()),
		zap.Int("olderVersion", versionA),
		zap.Int("newerVersion", versionB))

	return &result, nil
}

func (s *RevisionService) loadSnapshot(ctx context.Context, quotationID uuid.UUID, version int) (pricing.Document, error) {
	revision, err := s.revisionRepo.GetByVersion(ctx, quotationID, version)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pricing.Document{}, fmt.Errorf("%w: revision %d", ErrNotFound, version)
		}
		return pricing.Document{}, fmt.Errorf("failed to get revision: %w", err)
	}

	var doc pricing.Document
	if err := json.Unmarshal(revision.Snapshot, &doc); err != nil {
		s.logger.Error("corrupt revision snapshot",
			zap.String("quotationID", quotationID.String()),
			zap.Int("version", version),
			zap.Error(err))
		return pricing.Document{}, fmt.Errorf("failed to decode revision snapshot: %w", err)
	}
	return doc, nil
}
