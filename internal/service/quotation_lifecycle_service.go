package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bygglink/quote-api/internal/domain"
	"github.com/bygglink/quote-api/internal/mapper"
)

// defaultValidityDays is how long a sent quotation stays valid when no
// explicit validity date has been set.
const defaultValidityDays = 30

// ChangePhase moves a quotation through its lifecycle. Leaving draft assigns
// the document number; moving to sent stamps the sent date and defaults the
// validity window.
func (s *QuotationService) ChangePhase(ctx context.Context, id uuid.UUID, target domain.QuotationPhase) (*domain.QuotationDTO, error) {
	if !target.IsValid() {
		return nil, fmt.Errorf("%w: unknown phase '%s'", ErrInvalidInput, target)
	}

	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	if quotation.Phase == target {
		dto := mapper.ToQuotationDTO(quotation)
		return &dto, nil
	}

	if !quotation.Phase.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidPhaseTransition, quotation.Phase, target)
	}

	previous := quotation.Phase

	if previous == domain.QuotationPhaseDraft && quotation.Number == "" {
		number, err := s.numberSeqService.GenerateQuotationNumber(ctx)
		if err != nil {
			return nil, err
		}
		quotation.Number = number
	}

	if target == domain.QuotationPhaseSent {
		now := time.Now()
		quotation.SentDate = &now
		if quotation.ValidUntil == nil {
			validUntil := now.AddDate(0, 0, defaultValidityDays)
			quotation.ValidUntil = &validUntil
		}
	}

	quotation.Phase = target

	if err := s.quotationRepo.Update(ctx, quotation); err != nil {
		s.logger.Error("failed to change quotation phase",
			zap.String("quotationID", id.String()),
			zap.String("target", string(target)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to change phase: %w", err)
	}

	s.logActivity(ctx, quotation.ID, quotation.Title, "Phase changed",
		fmt.Sprintf("Quotation moved from %s to %s", previous, target))

	s.logger.Info("quotation phase changed",
		zap.String("quotationID", id.String()),
		zap.String("number", quotation.Number),
		zap.String("from", string(previous)),
		zap.String("to", string(target)))

	dto := mapper.ToQuotationDTO(quotation)
	return &dto, nil
}

// ExpireOverdue marks open and sent quotations whose validity date has
// passed as expired. Returns the number of quotations expired. Called by
// the scheduled expiry job and safe to run repeatedly.
func (s *QuotationService) ExpireOverdue(ctx context.Context) (int, error) {
	overdue, err := s.quotationRepo.ListExpiring(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to list expiring quotations: %w", err)
	}

	expired := 0
	for i := range overdue {
		quotation := &overdue[i]
		quotation.Phase = domain.QuotationPhaseExpired
		if err := s.quotationRepo.Update(ctx, quotation); err != nil {
			s.logger.Error("failed to expire quotation",
				zap.String("quotationID", quotation.ID.String()),
				zap.Error(err))
			continue
		}
		expired++

		s.logActivity(ctx, quotation.ID, quotation.Title, "Quotation expired",
			fmt.Sprintf("Validity date %s passed", quotation.ValidUntil.Format("2006-01-02")))
	}

	if expired > 0 {
		s.logger.Info("expired overdue quotations", zap.Int("count", expired))
	}
	return expired, nil
}
