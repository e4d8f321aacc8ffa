package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bygglink/quote-api/internal/domain"
)

var productSortFields = map[string]string{
	"code":      "code",
	"name":      "name",
	"unitPrice": "unit_price",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Product{}, "id = ?", id).Error
}

// List returns products, paginated and sorted, optionally filtered to active
// ones or by a search pattern on code and name
func (r *ProductRepository) List(ctx context.Context, page, pageSize int, activeOnly bool, search string, sort SortConfig) ([]domain.Product, int64, error) {
	var products []domain.Product
	var total int64

	page, pageSize = NormalizePagination(page, pageSize)

	query := r.db.WithContext(ctx).Model(&domain.Product{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order(BuildOrderClause(sort, productSortFields, "code ASC")).
		Offset(offset).Limit(pageSize).
		Find(&products).Error

	return products, total, err
}

// UpsertFromFeed inserts or updates a feed-sourced product by code and stamps
// the sync time. Manually created products with the same code are taken over
// by the feed on first sync.
func (r *ProductRepository) UpsertFromFeed(ctx context.Context, product *domain.Product, syncedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Product
		result := tx.Where("code = ?", product.Code).First(&existing)

		if result.Error == gorm.ErrRecordNotFound {
			product.Source = domain.ProductSourceFeed
			product.LastSyncedAt = &syncedAt
			return tx.Create(product).Error
		}
		if result.Error != nil {
			return result.Error
		}

		return tx.Model(&existing).Updates(map[string]interface{}{
			"name":           product.Name,
			"description":    product.Description,
			"unit":           product.Unit,
			"unit_price":     product.UnitPrice,
			"cost":           product.Cost,
			"source":         domain.ProductSourceFeed,
			"last_synced_at": syncedAt,
			"updated_at":     time.Now(),
		}).Error
	})
}
