package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bygglink/quote-api/internal/domain"
	"github.com/bygglink/quote-api/internal/mapper"
	"github.com/bygglink/quote-api/internal/pricing"
	"github.com/bygglink/quote-api/internal/repository"
)

// TaxRateService manages the named tax rates line items can reference
type TaxRateService struct {
	taxRateRepo *repository.TaxRateRepository
	logger      *zap.Logger
}

func NewTaxRateService(taxRateRepo *repository.TaxRateRepository, logger *zap.Logger) *TaxRateService {
	return &TaxRateService{
		taxRateRepo: taxRateRepo,
		logger:      logger,
	}
}

// Create adds a tax rate. Promoting a new default demotes the old one.
func (s *TaxRateService) Create(ctx context.Context, req *domain.CreateTaxRateRequest) (*domain.TaxRateDTO, error) {
	ratePercent := decimal.NewFromFloat(req.RatePercent).Round(2)
	if err := pricing.ValidateTaxPercent(ratePercent); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	rate := &domain.TaxRate{
		Name:        req.Name,
		RatePercent: ratePercent,
		IsDefault:   req.IsDefault,
		IsActive:    true,
	}

	if err := s.taxRateRepo.Create(ctx, rate); err != nil {
		s.logger.Error("failed to create tax rate", zap.Error(err))
		return nil, fmt.Errorf("failed to create tax rate: %w", err)
	}

	if rate.IsDefault {
		if err := s.taxRateRepo.ClearDefault(ctx, rate.ID); err != nil {
			return nil, fmt.Errorf("failed to clear previous default: %w", err)
		}
	}

	dto := mapper.ToTaxRateDTO(rate)
	return &dto, nil
}

// Update edits a tax rate. Changing the percent does not touch existing
// line items; they resolved the percent at edit time.
func (s *TaxRateService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateTaxRateRequest) (*domain.TaxRateDTO, error) {
	rate, err := s.taxRateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tax rate: %w", err)
	}

	ratePercent := decimal.NewFromFloat(req.RatePercent).Round(2)
	if err := pricing.ValidateTaxPercent(ratePercent); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	rate.Name = req.Name
	rate.RatePercent = ratePercent
	if req.IsDefault != nil {
		rate.IsDefault = *req.IsDefault
	}
	if req.IsActive != nil {
		rate.IsActive = *req.IsActive
	}

	if err := s.taxRateRepo.Update(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to update tax rate: %w", err)
	}

	if rate.IsDefault {
		if err := s.taxRateRepo.ClearDefault(ctx, rate.ID); err != nil {
			return nil, fmt.Errorf("failed to clear previous default: %w", err)
		}
	}

	dto := mapper.ToTaxRateDTO(rate)
	return &dto, nil
}

// List returns all tax rates, cheapest first
func (s *TaxRateService) List(ctx context.Context, activeOnly bool) ([]domain.TaxRateDTO, error) {
	rates, err := s.taxRateRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax rates: %w", err)
	}

	dtos := make([]domain.TaxRateDTO, len(rates))
	for i := range rates {
		dtos[i] = mapper.ToTaxRateDTO(&rates[i])
	}
	return dtos, nil
}

// GetDefault returns the configured default rate, or nil when none is set
func (s *TaxRateService) GetDefault(ctx context.Context) (*domain.TaxRateDTO, error) {
	rate, err := s.taxRateRepo.GetDefault(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get default tax rate: %w", err)
	}
	dto := mapper.ToTaxRateDTO(rate)
	return &dto, nil
}
