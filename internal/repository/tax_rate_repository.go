package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bygglink/quote-api/internal/domain"
)

type TaxRateRepository struct {
	db *gorm.DB
}

func NewTaxRateRepository(db *gorm.DB) *TaxRateRepository {
	return &TaxRateRepository{db: db}
}

func (r *TaxRateRepository) Create(ctx context.Context, rate *domain.TaxRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

func (r *TaxRateRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaxRate, error) {
	var rate domain.TaxRate
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// GetDefault returns the active default rate, if one is configured
func (r *TaxRateRepository) GetDefault(ctx context.Context) (*domain.TaxRate, error) {
	var rate domain.TaxRate
	err := r.db.WithContext(ctx).
		Where("is_default = ? AND is_active = ?", true, true).
		First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *TaxRateRepository) Update(ctx context.Context, rate *domain.TaxRate) error {
	return r.db.WithContext(ctx).Save(rate).Error
}

// ClearDefault unsets the default flag on every rate except the given one.
// Called in the same request that promotes a new default.
func (r *TaxRateRepository) ClearDefault(ctx context.Context, exceptID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.TaxRate{}).
		Where("id <> ?", exceptID).
		Update("is_default", false).Error
}

func (r *TaxRateRepository) List(ctx context.Context, activeOnly bool) ([]domain.TaxRate, error) {
	var rates []domain.TaxRate
	query := r.db.WithContext(ctx).Model(&domain.TaxRate{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("rate_percent ASC").Find(&rates).Error
	return rates, err
}
