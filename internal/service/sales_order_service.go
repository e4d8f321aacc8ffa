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
	"github.com/bygglink/quote-api/internal/repository"
)

// SalesOrderService handles quotation conversion and order fulfilment
// status. Orders are never edited line by line; they carry a frozen copy of
// the accepted quotation.
type SalesOrderService struct {
	orderRepo        *repository.SalesOrderRepository
	quotationRepo    *repository.QuotationRepository
	activityRepo     *repository.ActivityRepository
	numberSeqService *NumberSequenceService
	logger           *zap.Logger
}

func NewSalesOrderService(
	orderRepo *repository.SalesOrderRepository,
	quotationRepo *repository.QuotationRepository,
	activityRepo *repository.ActivityRepository,
	numberSeqService *NumberSequenceService,
	logger *zap.Logger,
) *SalesOrderService {
	return &SalesOrderService{
		orderRepo:        orderRepo,
		quotationRepo:    quotationRepo,
		activityRepo:     activityRepo,
		numberSeqService: numberSeqService,
		logger:           logger,
	}
}

// ConvertQuotation turns an accepted quotation into a sales order. Lines and
// totals are deep-copied at this moment; the order gets its own SO- number.
// A quotation can be converted at most once.
func (s *SalesOrderService) ConvertQuotation(ctx context.Context, quotationID uuid.UUID, req *domain.ConvertQuotationRequest) (*domain.SalesOrderDTO, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, quotationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	if quotation.Phase != domain.QuotationPhaseAccepted {
		return nil, ErrQuotationNotAccepted
	}

	if _, err := s.orderRepo.GetByQuotationID(ctx, quotationID); err == nil {
		return nil, ErrAlreadyConverted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing order: %w", err)
	}

	orderDate := time.Now()
	if req != nil && req.OrderDate != nil {
		parsed, err := parseDatePtr(req.OrderDate)
		if err != nil {
			return nil, fmt.Errorf("%w: orderDate: %v", ErrInvalidInput, err)
		}
		orderDate = *parsed
	}
	var deliveryDate *time.Time
	if req != nil {
		deliveryDate, err = parseDatePtr(req.DeliveryDate)
		if err != nil {
			return nil, fmt.Errorf("%w: deliveryDate: %v", ErrInvalidInput, err)
		}
	}

	number, err := s.numberSeqService.GenerateSalesOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	order := &domain.SalesOrder{
		Number:        number,
		QuotationID:   &quotation.ID,
		Title:         quotation.Title,
		CustomerID:    quotation.CustomerID,
		CustomerName:  quotation.CustomerName,
		Status:        domain.SalesOrderStatusOpen,
		Currency:      quotation.Currency,
		OrderDate:     orderDate,
		DeliveryDate:  deliveryDate,
		Subtotal:      quotation.Subtotal,
		DiscountTotal: quotation.DiscountTotal,
		TaxTotal:      quotation.TaxTotal,
		Total:         quotation.Total,
	}

	// Rebuild the line set through the pricing core so the copy is a
	// recomputed document, not a row-by-row clone of stored values.
	doc := mapper.ToPricingDocument(domain.DocumentTypeSalesOrder,
		number, 1, quotation.Currency, quotation.Lines)
	lines := mapper.FromPricingLines(domain.DocumentTypeSalesOrder, uuid.Nil, doc)
	mapper.ApplyOrderTotals(order, doc)

	if err := s.orderRepo.CreateWithLines(ctx, order, lines); err != nil {
		s.logger.Error("failed to create sales order",
			zap.String("quotationID", quotationID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to create sales order: %w", err)
	}

	s.logActivity(ctx, order.ID, order.Title, "Sales order created",
		fmt.Sprintf("Converted from quotation %s", quotation.Number))

	s.logger.Info("quotation converted to sales order",
		zap.String("quotationID", quotationID.String()),
		zap.String("quotationNumber", quotation.Number),
		zap.String("orderNumber", order.Number))

	saved, err := s.orderRepo.GetByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload sales order: %w", err)
	}
	dto := mapper.ToSalesOrderDTO(saved)
	return &dto, nil
}

// GetByID retrieves a sales order with its lines
func (s *SalesOrderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.SalesOrderDTO, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get sales order: %w", err)
	}
	dto := mapper.ToSalesOrderDTO(order)
	return &dto, nil
}

// List returns paginated sales orders without lines
func (s *SalesOrderService) List(ctx context.Context, page, pageSize int, filter repository.SalesOrderFilter, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	orders, total, err := s.orderRepo.List(ctx, page, pageSize, filter, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales orders: %w", err)
	}

	dtos := make([]domain.SalesOrderDTO, len(orders))
	for i := range orders {
		dtos[i] = mapper.ToSalesOrderDTO(&orders[i])
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

// UpdateStatus changes the fulfilment status of an order. Any forward move
// is allowed except out of cancelled.
func (s *SalesOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SalesOrderStatus) (*domain.SalesOrderDTO, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status '%s'", ErrInvalidInput, status)
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get sales order: %w", err)
	}

	if order.Status == domain.SalesOrderStatusCancelled && status != domain.SalesOrderStatusCancelled {
		return nil, fmt.Errorf("%w: cancelled orders cannot be reopened", ErrInvalidPhaseTransition)
	}

	previous := order.Status
	order.Status = status

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update sales order: %w", err)
	}

	s.logActivity(ctx, order.ID, order.Title, "Order status changed",
		fmt.Sprintf("Sales order moved from %s to %s", previous, status))

	dto := mapper.ToSalesOrderDTO(order)
	return &dto, nil
}

func (s *SalesOrderService) logActivity(ctx context.Context, orderID uuid.UUID, orderTitle, title, body string) {
	activity := &domain.Activity{
		TargetType: domain.ActivityTargetSalesOrder,
		TargetID:   orderID,
		TargetName: orderTitle,
		Title:      title,
		Body:       body,
		OccurredAt: time.Now(),
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		s.logger.Warn("failed to log activity", zap.Error(err))
	}
}
