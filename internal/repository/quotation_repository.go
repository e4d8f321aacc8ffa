package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bygglink/quote-api/internal/domain"
)

// quotationSortFields whitelists API sort fields to database columns
var quotationSortFields = map[string]string{
	"number":     "number",
	"title":      "title",
	"phase":      "phase",
	"total":      "total",
	"validUntil": "valid_until",
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
}

// QuotationFilter narrows List queries
type QuotationFilter struct {
	Phase      *domain.QuotationPhase
	CustomerID *uuid.UUID
	Tag        string
	Search     string
}

type QuotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

func (r *QuotationRepository) Create(ctx context.Context, quotation *domain.Quotation) error {
	return r.db.WithContext(ctx).Create(quotation).Error
}

// GetByID loads a quotation with its lines and items in display order
func (r *QuotationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	var quotation domain.Quotation
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		Preload("Lines.Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&quotation).Error
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

func (r *QuotationRepository) Update(ctx context.Context, quotation *domain.Quotation) error {
	return r.db.WithContext(ctx).Save(quotation).Error
}

// Delete removes a quotation and its lines
func (r *QuotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteDocumentLines(tx, domain.DocumentTypeQuotation, id); err != nil {
			return err
		}
		return tx.Delete(&domain.Quotation{}, "id = ?", id).Error
	})
}

// List returns quotations without lines, paginated and sorted
func (r *QuotationRepository) List(ctx context.Context, page, pageSize int, filter QuotationFilter, sort SortConfig) ([]domain.Quotation, int64, error) {
	var quotations []domain.Quotation
	var total int64

	page, pageSize = NormalizePagination(page, pageSize)

	query := r.db.WithContext(ctx).Model(&domain.Quotation{})

	if filter.Phase != nil {
		query = query.Where("phase = ?", *filter.Phase)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Tag != "" {
		query = query.Where("? = ANY(tags)", filter.Tag)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(number) LIKE ? OR LOWER(customer_name) LIKE ?",
			pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order(BuildOrderClause(sort, quotationSortFields, "updated_at DESC")).
		Offset(offset).Limit(pageSize).
		Find(&quotations).Error

	return quotations, total, err
}

// SaveWithLines persists the quotation header and replaces its full line set
// in one transaction. Lines are replaced wholesale because every edit goes
// through a full recompute anyway.
func (r *QuotationRepository) SaveWithLines(ctx context.Context, quotation *domain.Quotation, lines []domain.DocumentLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(quotation).Error; err != nil {
			return err
		}
		if err := deleteDocumentLines(tx, domain.DocumentTypeQuotation, quotation.ID); err != nil {
			return err
		}
		for i := range lines {
			lines[i].DocumentType = domain.DocumentTypeQuotation
			lines[i].DocumentID = quotation.ID
			if err := tx.Create(&lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListExpiring returns open or sent quotations whose validity date has passed
func (r *QuotationRepository) ListExpiring(ctx context.Context, asOf time.Time) ([]domain.Quotation, error) {
	var quotations []domain.Quotation
	err := r.db.WithContext(ctx).
		Where("phase IN ?", []domain.QuotationPhase{domain.QuotationPhaseOpen, domain.QuotationPhaseSent}).
		Where("valid_until IS NOT NULL AND valid_until < ?", asOf).
		Find(&quotations).Error
	return quotations, err
}

// deleteDocumentLines removes all lines (and via FK cascade their items) for a document
func deleteDocumentLines(tx *gorm.DB, docType domain.DocumentType, docID uuid.UUID) error {
	var lineIDs []uuid.UUID
	if err := tx.Model(&domain.DocumentLine{}).
		Where("document_type = ? AND document_id = ?", docType, docID).
		Pluck("id", &lineIDs).Error; err != nil {
		return err
	}
	if len(lineIDs) == 0 {
		return nil
	}
	if err := tx.Delete(&domain.DocumentLineItem{}, "line_id IN ?", lineIDs).Error; err != nil {
		return err
	}
	return tx.Delete(&domain.DocumentLine{}, "id IN ?", lineIDs).Error
}
