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
	"github.com/bygglink/quote-api/internal/service"
)

type TaxRateHandler struct {
	taxRateService *service.TaxRateService
	logger         *zap.Logger
}

func NewTaxRateHandler(taxRateService *service.TaxRateService, logger *zap.Logger) *TaxRateHandler {
	return &TaxRateHandler{
		taxRateService: taxRateService,
		logger:         logger,
	}
}

// List godoc
// @Summary List tax rates
// @Tags Tax Rates
// @Accept json
// @Produce json
// @Param activeOnly query bool false "Only active rates"
// @Success 200 {array} domain.TaxRateDTO
// @Failure 500 {object} domain.ErrorResponse
// @Router /tax-rates [get]
func (h *TaxRateHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("activeOnly"))

	rates, err := h.taxRateService.List(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("failed to list tax rates", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list tax rates")
		return
	}

	respondJSON(w, http.StatusOK, rates)
}

// GetDefault godoc
// @Summary Get default tax rate
// @Description Get the rate applied to new line items when none is specified. Returns 404 when no default is configured.
// @Tags Tax Rates
// @Accept json
// @Produce json
// @Success 200 {object} domain.TaxRateDTO
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /tax-rates/default [get]
func (h *TaxRateHandler) GetDefault(w http.ResponseWriter, r *http.Request) {
	rate, err := h.taxRateService.GetDefault(r.Context())
	if err != nil {
		h.logger.Error("failed to get default tax rate", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get default tax rate")
		return
	}
	if rate == nil {
		respondWithError(w, http.StatusNotFound, "No default tax rate configured")
		return
	}

	respondJSON(w, http.StatusOK, rate)
}

// Create godoc
// @Summary Create tax rate
// @Tags Tax Rates
// @Accept json
// @Produce json
// @Param request body domain.CreateTaxRateRequest true "Tax rate data"
// @Success 201 {object} domain.TaxRateDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /tax-rates [post]
func (h *TaxRateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTaxRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	rate, err := h.taxRateService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create tax rate", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create tax rate")
		return
	}

	respondJSON(w, http.StatusCreated, rate)
}

// Update godoc
// @Summary Update tax rate
// @Description Update a tax rate. Existing line items keep the percent they resolved at edit time.
// @Tags Tax Rates
// @Accept json
// @Produce json
// @Param id path string true "Tax rate ID" format(uuid)
// @Param request body domain.UpdateTaxRateRequest true "Tax rate data"
// @Success 200 {object} domain.TaxRateDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /tax-rates/{id} [put]
func (h *TaxRateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tax rate ID format")
		return
	}

	var req domain.UpdateTaxRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	rate, err := h.taxRateService.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Tax rate not found")
		case errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to update tax rate", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to update tax rate")
		}
		return
	}

	respondJSON(w, http.StatusOK, rate)
}
