package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bygglink/quote-api/internal/domain"
)

// RevisionRepository handles database operations for quotation revisions.
// Revisions are append-only: they are created and read, never updated.
type RevisionRepository struct {
	db *gorm.DB
}

func NewRevisionRepository(db *gorm.DB) *RevisionRepository {
	return &RevisionRepository{db: db}
}

func (r *RevisionRepository) Create(ctx context.Context, revision *domain.QuotationRevision) error {
	return r.db.WithContext(ctx).Create(revision).Error
}

// GetByVersion returns the snapshot of one quotation at a specific version
func (r *RevisionRepository) GetByVersion(ctx context.Context, quotationID uuid.UUID, version int) (*domain.QuotationRevision, error) {
	var revision domain.QuotationRevision
	err := r.db.WithContext(ctx).
		Where("quotation_id = ? AND version = ?", quotationID, version).
		First(&revision).Error
	if err != nil {
		return nil, err
	}
	return &revision, nil
}

// ListByQuotation returns all revisions of a quotation, newest first
func (r *RevisionRepository) ListByQuotation(ctx context.Context, quotationID uuid.UUID) ([]domain.QuotationRevision, error) {
	var revisions []domain.QuotationRevision
	err := r.db.WithContext(ctx).
		Where("quotation_id = ?", quotationID).
		Order("version DESC").
		Find(&revisions).Error
	return revisions, err
}

// DeleteByQuotation removes all revisions of a quotation, used when the
// quotation itself is deleted
func (r *RevisionRepository) DeleteByQuotation(ctx context.Context, quotationID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&domain.QuotationRevision{}, "quotation_id = ?", quotationID).Error
}
