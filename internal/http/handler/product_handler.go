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

type ProductHandler struct {
	productService *service.ProductService
	logger         *zap.Logger
}

func NewProductHandler(productService *service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// List godoc
// @Summary List products
// @Tags Products
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by code or name"
// @Param activeOnly query bool false "Only active products"
// @Param sortBy query string false "Sort field" Enums(createdAt, updatedAt, code, name, unitPrice)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ProductDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("activeOnly"))
	search := r.URL.Query().Get("search")

	sort := repository.DefaultSortConfig()
	if s := r.URL.Query().Get("sortBy"); s != "" {
		sort.Field = s
	}
	if s := r.URL.Query().Get("sortOrder"); s != "" {
		sort.Order = repository.ParseSortOrder(s)
	}

	result, err := h.productService.List(r.Context(), page, pageSize, activeOnly, search, sort)
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get product by ID
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID" format(uuid)
// @Success 200 {object} domain.ProductDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	product, err := h.productService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("failed to get product", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// GetByCode godoc
// @Summary Get product by code
// @Description Look up a product by its article code, used when seeding line items
// @Tags Products
// @Accept json
// @Produce json
// @Param code path string true "Product code"
// @Success 200 {object} domain.ProductDTO
// @Failure 404 {object} domain.ErrorResponse
// @Router /products/code/{code} [get]
func (h *ProductHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "Product code is required")
		return
	}

	product, err := h.productService.GetByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("failed to get product by code", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// Create godoc
// @Summary Create product
// @Description Create a manually maintained catalog product
// @Tags Products
// @Accept json
// @Produce json
// @Param request body domain.CreateProductRequest true "Product data"
// @Success 201 {object} domain.ProductDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Product code already exists"
// @Failure 500 {object} domain.ErrorResponse
// @Router /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	product, err := h.productService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrProductCodeTaken) {
			respondWithError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("failed to create product", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	w.Header().Set("Location", "/api/v1/products/"+product.ID.String())
	respondJSON(w, http.StatusCreated, product)
}

// Update godoc
// @Summary Update product
// @Description Update a product. The code is immutable.
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID" format(uuid)
// @Param request body domain.UpdateProductRequest true "Product data"
// @Success 200 {object} domain.ProductDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /products/{id} [put]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var req domain.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	product, err := h.productService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("failed to update product", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// Delete godoc
// @Summary Delete product
// @Description Delete a catalog product. Line items referencing it keep their own copy of the data.
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("failed to delete product", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SyncPrices godoc
// @Summary Trigger inventory price sync
// @Description Pull the article list from the inventory feed and upsert feed-sourced products. Runs synchronously and returns the number of products written.
// @Tags Products
// @Accept json
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 409 {object} domain.ErrorResponse "Inventory feed disabled"
// @Failure 500 {object} domain.ErrorResponse
// @Router /products/sync [post]
func (h *ProductHandler) SyncPrices(w http.ResponseWriter, r *http.Request) {
	synced, err := h.productService.SyncPrices(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrInventoryDisabled) {
			respondWithError(w, http.StatusConflict, "Inventory feed is not enabled")
			return
		}
		h.logger.Error("manual price sync failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Price sync failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"synced": synced})
}
