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

type QuotationHandler struct {
	quotationService *service.QuotationService
	revisionService  *service.RevisionService
	activityService  *service.ActivityService
	logger           *zap.Logger
}

func NewQuotationHandler(
	quotationService *service.QuotationService,
	revisionService *service.RevisionService,
	activityService *service.ActivityService,
	logger *zap.Logger,
) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
		revisionService:  revisionService,
		activityService:  activityService,
		logger:           logger,
	}
}

// List godoc
// @Summary List quotations
// @Description Get paginated list of quotations with optional filters
// @Tags Quotations
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param phase query string false "Filter by phase" Enums(draft, open, sent, accepted, declined, expired)
// @Param customerId query string false "Filter by customer" format(uuid)
// @Param tag query string false "Filter by tag"
// @Param search query string false "Search title, number or customer name"
// @Param sortBy query string false "Sort field" Enums(createdAt, updatedAt, number, title, phase, total, validUntil, customerName)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.QuotationListItemDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /quotations [get]
func (h *QuotationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	filter := repository.QuotationFilter{
		Tag:    r.URL.Query().Get("tag"),
		Search: r.URL.Query().Get("search"),
	}

	if phaseStr := r.URL.Query().Get("phase"); phaseStr != "" {
		phase := domain.QuotationPhase(phaseStr)
		if !phase.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid phase filter")
			return
		}
		filter.Phase = &phase
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

	result, err := h.quotationService.List(r.Context(), page, pageSize, filter, sort)
	if err != nil {
		h.logger.Error("failed to list quotations", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list quotations")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get quotation by ID
// @Description Get a quotation with its full line structure
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /quotations/{id} [get]
func (h *QuotationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID format")
		return
	}

	quotation, err := h.quotationService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Quotation not found")
			return
		}
		h.logger.Error("failed to get quotation", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get quotation")
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// Create godoc
// @Summary Create quotation
// @Description Create a new quotation in draft phase
// @Tags Quotations
// @Accept json
// @Produce json
// @Param request body domain.CreateQuotationRequest true "Quotation data"
// @Success 201 {object} domain.QuotationDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /quotations [post]
func (h *QuotationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateQuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.quotationService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusBadRequest, "Customer not found")
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create quotation", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create quotation")
		return
	}

	w.Header().Set("Location", "/api/v1/quotations/"+quotation.ID.String())
	respondJSON(w, http.StatusCreated, quotation)
}

// Update godoc
// @Summary Update quotation header
// @Description Update title, customer, tags and validity. Header edits do not create a new revision.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Param request body domain.UpdateQuotationRequest true "Quotation data"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Quotation is not editable"
// @Failure 500 {object} domain.ErrorResponse
// @Router /quotations/{id} [put]
func (h *QuotationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID format")
		return
	}

	var req domain.UpdateQuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.quotationService.Update(r.Context(), id, &req)
	if err != nil {
		h.respondQuotationError(w, err, "update quotation")
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// Delete godoc
// @Summary Delete quotation
// @Description Delete a quotation. Only drafts can be deleted.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Quotation is not a draft"
// @Failure 500 {object} domain.ErrorResponse
// @Router /quotations/{id} [delete]
func (h *QuotationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID format")
		return
	}

	if err := h.quotationService.Delete(r.Context(), id); err != nil {
		h.respondQuotationError(w, err, "delete quotation")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ChangePhase godoc
// @Summary Change quotation phase
// @Description Move a quotation through its lifecycle. Opening a draft assigns the quotation number; sending stamps the sent date and defaults the validity window.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Param request body domain.ChangePhaseRequest true "Target phase"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Transition not allowed"
// @Failure 500 {object} domain.ErrorResponse
// @Router /quotations/{id}/phase [post]
func (h *QuotationHandler) ChangePhase(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID format")
		return
	}

	var req domain.ChangePhaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.quotationService.ChangePhase(r.Context(), id, req.Phase)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPhaseTransition) {
			respondWithError(w, http.StatusConflict, err.Error())
			return
		}
		h.respondQuotationError(w, err, "change quotation phase")
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// ListRevisions godoc
// @Summary List quotation revisions
// @Description Get the revision history of a quotation, newest first
// @Tags Revisions
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Success 200 {array} domain.RevisionDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /quotations/{id}/revisions [get]
func (h *QuotationHandler) ListRevisions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID format")
		return
	}

	revisions, err := h.revisionService.List(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to list revisions", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list revisions")
		return
	}

	respondJSON(w, http.StatusOK, revisions)
}

// GetRevision godoc
// @Summary Get revision snapshot
// @Description Get the full priced document as it looked at one revision
// @Tags Revisions
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Param version path int true "Revision version"
// @Success 200 {object} pricing.Document
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /quotations/{id}/revisions/{version} [get]
func (h *QuotationHandler) GetRevision(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID format")
		return
	}

	version, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil || version < 1 {
		respondWithError(w, http.StatusBadRequest, "Invalid revision version")
		return
	}

	snapshot, err := h.revisionService.GetSnapshot(r.Context(), id, version)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Revision not found")
			return
		}
		h.logger.Error("failed to get revision", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get revision")
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// CompareRevisions godoc
// @Summary Compare two revisions
// @Description Diff two revisions of a quotation. Lines are matched by line number, items by item code.
// @Tags Revisions
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Param from query int true "Older version"
// @Param to query int true "Newer version"
// @Success 200 {object} diff.DocumentDiff
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /quotations/{id}/revisions/compare [get]
func (h *QuotationHandler) CompareRevisions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID format")
		return
	}

	from, err := strconv.Atoi(r.URL.Query().Get("from"))
	if err != nil || from < 1 {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'from' must be a positive version number")
		return
	}
	to, err := strconv.Atoi(r.URL.Query().Get("to"))
	if err != nil || to < 1 {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'to' must be a positive version number")
		return
	}

	result, err := h.revisionService.Compare(r.Context(), id, from, to)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Revision not found")
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to compare revisions", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to compare revisions")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetActivities godoc
// @Summary List quotation activity
// @Description Get the activity trail for a quotation, newest first
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Param limit query int false "Maximum entries" default(50)
// @Success 200 {array} domain.ActivityDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /quotations/{id}/activities [get]
func (h *QuotationHandler) GetActivities(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID format")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	activities, err := h.activityService.ListByTarget(r.Context(), domain.ActivityTargetQuotation, id, limit)
	if err != nil {
		h.logger.Error("failed to list quotation activities", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list activities")
		return
	}

	respondJSON(w, http.StatusOK, activities)
}

// respondQuotationError maps quotation service errors onto HTTP responses.
// Unknown errors are logged and become a 500.
func (h *QuotationHandler) respondQuotationError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Quotation not found")
	case errors.Is(err, service.ErrQuotationNotEditable):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrDuplicateItemCode):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrConflict):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrTaxRateNotFound):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("failed to "+action, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}
