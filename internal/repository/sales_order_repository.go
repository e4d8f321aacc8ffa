package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bygglink/quote-api/internal/domain"
)

var salesOrderSortFields = map[string]string{
	"number":    "number",
	"title":     "title",
	"status":    "status",
	"total":     "total",
	"orderDate": "order_date",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// SalesOrderFilter narrows List queries
type SalesOrderFilter struct {
	Status     *domain.SalesOrderStatus
	CustomerID *uuid.UUID
	Search     string
}

type SalesOrderRepository struct {
	db *gorm.DB
}

func NewSalesOrderRepository(db *gorm.DB) *SalesOrderRepository {
	return &SalesOrderRepository{db: db}
}

// CreateWithLines persists a new sales order and its copied line set in one
// transaction. Used by quotation conversion, which is the only way orders
// come into existence.
func (r *SalesOrderRepository) CreateWithLines(ctx context.Context, order *domain.SalesOrder, lines []domain.DocumentLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].DocumentType = domain.DocumentTypeSalesOrder
			lines[i].DocumentID = order.ID
			if err := tx.Create(&lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID loads a sales order with its lines and items in display order
func (r *SalesOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SalesOrder, error) {
	var order domain.SalesOrder
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		Preload("Lines.Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByQuotationID returns the order created from a quotation, if any
func (r *SalesOrderRepository) GetByQuotationID(ctx context.Context, quotationID uuid.UUID) (*domain.SalesOrder, error) {
	var order domain.SalesOrder
	err := r.db.WithContext(ctx).
		Where("quotation_id = ?", quotationID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *SalesOrderRepository) Update(ctx context.Context, order *domain.SalesOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// List returns sales orders without lines, paginated and sorted
func (r *SalesOrderRepository) List(ctx context.Context, page, pageSize int, filter SalesOrderFilter, sort SortConfig) ([]domain.SalesOrder, int64, error) {
	var orders []domain.SalesOrder
	var total int64

	page, pageSize = NormalizePagination(page, pageSize)

	query := r.db.WithContext(ctx).Model(&domain.SalesOrder{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
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
		Order(BuildOrderClause(sort, salesOrderSortFields, "created_at DESC")).
		Offset(offset).Limit(pageSize).
		Find(&orders).Error

	return orders, total, err
}
