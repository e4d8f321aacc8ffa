package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bygglink/quote-api/internal/domain"
	"github.com/bygglink/quote-api/internal/inventory"
	"github.com/bygglink/quote-api/internal/mapper"
	"github.com/bygglink/quote-api/internal/repository"
)

// ProductService manages the product catalog and its synchronization with
// the external inventory feed.
type ProductService struct {
	productRepo     *repository.ProductRepository
	inventoryClient *inventory.Client
	logger          *zap.Logger
}

func NewProductService(
	productRepo *repository.ProductRepository,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// SetInventoryClient sets the inventory feed client. Called after
// construction because the feed is optional.
func (s *ProductService) SetInventoryClient(client *inventory.Client) {
	s.inventoryClient = client
}

// Create adds a manually maintained product
func (s *ProductService) Create(ctx context.Context, req *domain.CreateProductRequest) (*domain.ProductDTO, error) {
	if _, err := s.productRepo.GetByCode(ctx, req.Code); err == nil {
		return nil, fmt.Errorf("%w: '%s'", ErrProductCodeTaken, req.Code)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check product code: %w", err)
	}

	unit := req.Unit
	if unit == "" {
		unit = "pcs"
	}

	product := &domain.Product{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Unit:        unit,
		UnitPrice:   decimal.NewFromFloat(req.UnitPrice).Round(2),
		Cost:        decimal.NewFromFloat(req.Cost).Round(2),
		IsActive:    true,
		Source:      domain.ProductSourceManual,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error("failed to create product", zap.String("code", req.Code), zap.Error(err))
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("product created", zap.String("code", product.Code))
	dto := mapper.ToProductDTO(product)
	return &dto, nil
}

// GetByID retrieves a product
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProductDTO, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	dto := mapper.ToProductDTO(product)
	return &dto, nil
}

// GetByCode retrieves a product by its code, used when seeding line items
func (s *ProductService) GetByCode(ctx context.Context, code string) (*domain.ProductDTO, error) {
	product, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	dto := mapper.ToProductDTO(product)
	return &dto, nil
}

// Update edits a product. The code is immutable; line items and revision
// snapshots reference it.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateProductRequest) (*domain.ProductDTO, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	product.Name = req.Name
	product.Description = req.Description
	if req.Unit != "" {
		product.Unit = req.Unit
	}
	product.UnitPrice = decimal.NewFromFloat(req.UnitPrice).Round(2)
	product.Cost = decimal.NewFromFloat(req.Cost).Round(2)
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	dto := mapper.ToProductDTO(product)
	return &dto, nil
}

// Delete removes a product from the catalog. Existing line items are
// unaffected; they carry their own copy of code, price and description.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get product: %w", err)
	}
	return s.productRepo.Delete(ctx, id)
}

// List returns paginated products
func (s *ProductService) List(ctx context.Context, page, pageSize int, activeOnly bool, search string, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	products, total, err := s.productRepo.List(ctx, page, pageSize, activeOnly, search, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	dtos := make([]domain.ProductDTO, len(products))
	for i := range products {
		dtos[i] = mapper.ToProductDTO(&products[i])
	}

	page, pageSize = repository.NormalizePagination(page, pageSize)
	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// SyncPrices pulls the article list from the inventory feed and upserts
// feed-sourced products. Returns the number of products written. Called by
// the scheduled price sync job and available as a manual trigger.
func (s *ProductService) SyncPrices(ctx context.Context) (int, error) {
	if !s.inventoryClient.IsEnabled() {
		return 0, ErrInventoryDisabled
	}

	feedProducts, err := s.inventoryClient.FetchProducts(ctx)
	if err != nil {
		s.logger.Error("price sync fetch failed", zap.Error(err))
		return 0, fmt.Errorf("failed to fetch inventory products: %w", err)
	}

	syncedAt := time.Now()
	synced := 0
	for _, fp := range feedProducts {
		unit := fp.Unit
		if unit == "" {
			unit = "pcs"
		}
		product := &domain.Product{
			Code:        fp.Code,
			Name:        fp.Name,
			Description: fp.Description,
			Unit:        unit,
			UnitPrice:   decimal.NewFromFloat(fp.UnitPrice).Round(2),
			Cost:        decimal.NewFromFloat(fp.Cost).Round(2),
			IsActive:    true,
		}
		if err := s.productRepo.UpsertFromFeed(ctx, product, syncedAt); err != nil {
			s.logger.Warn("failed to upsert feed product",
				zap.String("code", fp.Code), zap.Error(err))
			continue
		}
		synced++
	}

	s.logger.Info("price sync completed",
		zap.Int("feedProducts", len(feedProducts)),
		zap.Int("synced", synced))
	return synced, nil
}
