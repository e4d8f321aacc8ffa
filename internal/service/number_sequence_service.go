package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bygglink/quote-api/internal/domain"
	"github.com/bygglink/quote-api/internal/repository"
)

// NumberSequenceService hands out unique, formatted document numbers.
// Quotations and sales orders each have their own sequence per year.
//
// Format: {PREFIX}-{YEAR}-{SEQUENCE}
// Example: Q-2026-001, SO-2026-042
type NumberSequenceService struct {
	repo   *repository.NumberSequenceRepository
	logger *zap.Logger
}

// NewNumberSequenceService creates a new NumberSequenceService
func NewNumberSequenceService(
	repo *repository.NumberSequenceRepository,
	logger *zap.Logger,
) *NumberSequenceService {
	return &NumberSequenceService{
		repo:   repo,
		logger: logger,
	}
}

// GenerateQuotationNumber generates a unique quotation number. Called when a
// quotation leaves draft; drafts stay unnumbered so abandoned ones never
// burn a sequence slot.
func (s *NumberSequenceService) GenerateQuotationNumber(ctx context.Context) (string, error) {
	return s.generateNumber(ctx, domain.DocumentTypeQuotation)
}

// GenerateSalesOrderNumber generates a unique sales order number. Called at
// quotation conversion time.
func (s *NumberSequenceService) GenerateSalesOrderNumber(ctx context.Context) (string, error) {
	return s.generateNumber(ctx, domain.DocumentTypeSalesOrder)
}

func (s *NumberSequenceService) generateNumber(ctx context.Context, docType domain.DocumentType) (string, error) {
	year := time.Now().Year()
	prefix := domain.GetDocumentPrefix(docType)

	nextSeq, err := s.repo.GetNextNumber(ctx, docType, year)
	if err != nil {
		s.logger.Error("failed to get next sequence number",
			zap.String("docType", string(docType)),
			zap.Int("year", year),
			zap.Error(err))
		return "", fmt.Errorf("failed to generate %s number: %w", docType, err)
	}

	number := domain.FormatDocumentNumber(prefix, year, nextSeq)

	s.logger.Info("generated document number",
		zap.String("number", number),
		zap.String("docType", string(docType)),
		zap.Int("year", year),
		zap.Int("sequence", nextSeq))

	return number, nil
}

// GetCurrentSequence returns the current sequence value for a type/year
// without incrementing it. Returns 0 if no sequence exists.
func (s *NumberSequenceService) GetCurrentSequence(ctx context.Context, docType domain.DocumentType, year int) (int, error) {
	return s.repo.GetCurrentSequence(ctx, docType, year)
}

// InitializeSequence sets the sequence to a specific value so migrations can
// account for pre-existing numbered documents. The value should be the LAST
// USED sequence number.
func (s *NumberSequenceService) InitializeSequence(ctx context.Context, docType domain.DocumentType, year int, value int) error {
	return s.repo.SetSequence(ctx, docType, year, value)
}
