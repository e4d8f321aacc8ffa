package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bygglink/quote-api/internal/domain"
)

var customerSortFields = map[string]string{
	"name":      "name",
	"orgNumber": "org_number",
	"city":      "city",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *CustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Customer{}, "id = ?", id).Error
}

// List returns customers, paginated and sorted, optionally filtered by a
// search pattern on name and org number
func (r *CustomerRepository) List(ctx context.Context, page, pageSize int, activeOnly bool, search string, sort SortConfig) ([]domain.Customer, int64, error) {
	var customers []domain.Customer
	var total int64

	page, pageSize = NormalizePagination(page, pageSize)

	query := r.db.WithContext(ctx).Model(&domain.Customer{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR org_number LIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order(BuildOrderClause(sort, customerSortFields, "name ASC")).
		Offset(offset).Limit(pageSize).
		Find(&customers).Error

	return customers, total, err
}

// CountQuotations returns the number of quotations issued to a customer
func (r *CustomerRepository) CountQuotations(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Quotation{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error
	return count, err
}
