package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bygglink/quote-api/internal/domain"
	"github.com/bygglink/quote-api/internal/repository"
	"github.com/bygglink/quote-api/internal/service"
)

type SalesOrderHandler struct {
	salesOrderService *service.SalesOrderService
	activityService   *service.ActivityService
	logger            *zap.Logger
}

func NewSalesOrderHandler(salesOrderService *service.SalesOrderService, activityService *service.ActivityService, logger *zap.Logger) *SalesOrderHandler {
	return &SalesOrderHandler{
		salesOrderService: salesOrderService,
		activityService:   activityService,
		logger:            logger,
	}
}

// ConvertQuotation godoc
// @Summary Convert quotation to sales order
// @Description Convert an accepted quotation into a sales order. A quotation can only be converted once; the order lines are copied from the quotation and repriced.
// @Tags Sales Orders
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Param request body domain.ConvertQuotationRequest false "Order and delivery dates"
// @Success 201 {object} domain.SalesOrderDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Quotation not accepted or already converted"
// @Failure 500 {object} domain.ErrorResponse
// @Router /quotations/{id}/convert [post]
func (h *SalesOrderHandler) ConvertQuotation(w http.ResponseWriter, r *http.Request) {
	quotationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID format")
		return
	}

	req := &domain.ConvertQuotationRequest{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	order, err := h.salesOrderService.ConvertQuotation(r.Context(), quotationID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Quotation not found")
		case errors.Is(err, service.ErrQuotationNotAccepted):
			respondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrAlreadyConverted):
			respondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to convert quotation", zap.Error(err),
				zap.String("quotation_id", quotationID.String()))
			respondWithError(w, http.StatusInternalServerError, "Failed to convert quotation")
		}
		return
	}

	w.Header().Set("Location", "/api/v1/sales-orders/"+order.ID.String())
	respondJSON(w, http.StatusCreated, order)
}

// List godoc
// @Summary List sales orders
// @Tags Sales Orders
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Filter by status" Enums(open, delivered, invoiced, cancelled)
// @Param customerId query string false "Filter by customer" format(uuid)
// @Param search query string false "Search title, number or customer name"
// @Param sortBy query string false "Sort field" Enums(createdAt, updatedAt, number, title, status, total, orderDate)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.SalesOrderDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /sales-orders [get]
func (h *SalesOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	filter := repository.SalesOrderFilter{
		Search: r.URL.Query().Get("search"),
	}

	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status := domain.SalesOrderStatus(statusStr)
		if !status.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		filter.Status = &status
	}

	if customerStr := r.URL.Query().Get("customerId"); customerStr != "" {
		customerID, err := uuid.Parse(customerStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid customer ID format")
			return
		}
		filter.CustomerID = &customerID
	}

	sort := repository.DefaultSortConfig()
	if s := r.URL.Query().Get("sortBy"); s != "" {
		sort.Field = s
	}
	if s := r.URL.Query().Get("sortOrder"); s != "" {
		sort.Order = repository.ParseSortOrder(s)
	}

	result, err := h.salesOrderService.List(r.Context(), page, pageSize, filter, sort)
	if err != nil {
		h.logger.Error("failed to list sales orders", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list sales orders")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get sales order by ID
// @Tags Sales Orders
// @Accept json
// @Produce json
// @Param id path string true "Sales order ID" format(uuid)
// @Success 200 {object} domain.SalesOrderDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /sales-orders/{id} [get]
func (h *SalesOrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid sales order ID format")
		return
	}

	order, err := h.salesOrderService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Sales order not found")
			return
		}
		h.logger.Error("failed to get sales order", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get sales order")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// UpdateStatus godoc
// @Summary Update sales order status
// @Description Move a sales order between open, delivered, invoiced and cancelled. Cancelled orders cannot be reopened.
// @Tags Sales Orders
// @Accept json
// @Produce json
// @Param id path string true "Sales order ID" format(uuid)
// @Param request body domain.UpdateSalesOrderStatusRequest true "Target status"
// @Success 200 {object} domain.SalesOrderDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /sales-orders/{id}/status [post]
func (h *SalesOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid sales order ID format")
		return
	}

	var req domain.UpdateSalesOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.salesOrderService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Sales order not found")
		case errors.Is(err, service.ErrConflict):
			respondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to update sales order status", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to update sales order status")
		}
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// GetActivities godoc
// @Summary List sales order activity
// @Tags Sales Orders
// @Accept json
// @Produce json
// @Param id path string true "Sales order ID" format(uuid)
// @Param limit query int false "Maximum entries" default(50)
// @Success 200 {array} domain.ActivityDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /sales-orders/{id}/activities [get]
func (h *SalesOrderHandler) GetActivities(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid sales order ID format")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	activities, err := h.activityService.ListByTarget(r.Context(), domain.ActivityTargetSalesOrder, id, limit)
	if err != nil {
		h.logger.Error("failed to list sales order activities", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list activities")
		return
	}

	respondJSON(w, http.StatusOK, activities)
}
