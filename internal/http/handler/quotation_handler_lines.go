package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bygglink/quote-api/internal/domain"
)

// AddLine godoc
// @Summary Add line
// @Description Add a line with optional heading and items to a quotation. Every line edit recomputes totals and writes a new revision.
// @Tags Quotation Lines
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Param request body domain.AddLineRequest true "Line data"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Line number taken, duplicate item code, or quotation not editable"
// @Failure 500 {object} domain.ErrorResponse
// @Router /quotations/{id}/lines [post]
func (h *QuotationHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID format")
		return
	}

	var req domain.AddLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.quotationService.AddLine(r.Context(), id, &req)
	if err != nil {
		h.respondQuotationError(w, err, "add line")
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// UpdateLine godoc
// @Summary Update line heading
// @Tags Quotation Lines
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Param lineNumber path int true "Line number"
// @Param request body domain.UpdateLineRequest true "Line data"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /quotations/{id}/lines/{lineNumber} [put]
func (h *QuotationHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	id, lineNumber, ok := h.parseLineParams(w, r)
	if !ok {
		return
	}

	var req domain.UpdateLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.quotationService.UpdateLineHeading(r.Context(), id, lineNumber, &req)
	if err != nil {
		h.respondQuotationError(w, err, "update line")
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// RemoveLine godoc
// @Summary Remove line
// @Description Remove a line and its items from a quotation
// @Tags Quotation Lines
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Param lineNumber path int true "Line number"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /quotations/{id}/lines/{lineNumber} [delete]
func (h *QuotationHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	id, lineNumber, ok := h.parseLineParams(w, r)
	if !ok {
		return
	}

	quotation, err := h.quotationService.RemoveLine(r.Context(), id, lineNumber)
	if err != nil {
		h.respondQuotationError(w, err, "remove line")
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// AddItem godoc
// @Summary Add line item
// @Description Add an item to a line. The item code must be unique within the quotation.
// @Tags Quotation Lines
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Param lineNumber path int true "Line number"
// @Param request body domain.LineItemEditRequest true "Item data"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /quotations/{id}/lines/{lineNumber}/items [post]
func (h *QuotationHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, lineNumber, ok := h.parseLineParams(w, r)
	if !ok {
		return
	}

	var req domain.LineItemEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.quotationService.AddItem(r.Context(), id, lineNumber, &req)
	if err != nil {
		h.respondQuotationError(w, err, "add item")
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// UpdateItem godoc
// @Summary Update line item
// @Description Patch an item's fields. Only provided fields change; derived amounts are recomputed.
// @Tags Quotation Lines
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Param lineNumber path int true "Line number"
// @Param itemCode path string true "Item code"
// @Param request body domain.UpdateLineItemRequest true "Item patch"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /quotations/{id}/lines/{lineNumber}/items/{itemCode} [put]
func (h *QuotationHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, lineNumber, ok := h.parseLineParams(w, r)
	if !ok {
		return
	}

	itemCode := chi.URLParam(r, "itemCode")
	if itemCode == "" {
		respondWithError(w, http.StatusBadRequest, "Item code is required")
		return
	}

	var req domain.UpdateLineItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.quotationService.UpdateItem(r.Context(), id, lineNumber, itemCode, &req)
	if err != nil {
		h.respondQuotationError(w, err, "update item")
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// RemoveItem godoc
// @Summary Remove line item
// @Description Remove an item from a line. The line itself survives, even when empty.
// @Tags Quotation Lines
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Param lineNumber path int true "Line number"
// @Param itemCode path string true "Item code"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /quotations/{id}/lines/{lineNumber}/items/{itemCode} [delete]
func (h *QuotationHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, lineNumber, ok := h.parseLineParams(w, r)
	if !ok {
		return
	}

	itemCode := chi.URLParam(r, "itemCode")
	if itemCode == "" {
		respondWithError(w, http.StatusBadRequest, "Item code is required")
		return
	}

	quotation, err := h.quotationService.RemoveItem(r.Context(), id, lineNumber, itemCode)
	if err != nil {
		h.respondQuotationError(w, err, "remove item")
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// parseLineParams parses the quotation ID and line number path parameters,
// writing the error response itself when either is malformed.
func (h *QuotationHandler) parseLineParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, int, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID format")
		return uuid.Nil, 0, false
	}

	lineNumber, err := strconv.Atoi(chi.URLParam(r, "lineNumber"))
	if err != nil || lineNumber < 1 {
		respondWithError(w, http.StatusBadRequest, "Invalid line number")
		return uuid.Nil, 0, false
	}

	return id, lineNumber, true
}
