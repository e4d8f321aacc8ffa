package handler

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/bygglink/quote-api/internal/service"
)

// ActivityHandler handles HTTP requests for the activity log. Entries are
// written by the owning services; this surface is read-only.
type ActivityHandler struct {
	activityService *service.ActivityService
	logger          *zap.Logger
}

// NewActivityHandler creates a new ActivityHandler instance
func NewActivityHandler(activityService *service.ActivityService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

// ListRecent godoc
// @Summary List recent activity
// @Description Get the most recent activity entries across all quotations, sales orders, customers and products
// @Tags Activities
// @Accept json
// @Produce json
// @Param limit query int false "Maximum entries" default(50)
// @Success 200 {array} domain.ActivityDTO
// @Failure 500 {object} domain.ErrorResponse
// @Router /activities [get]
func (h *ActivityHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	activities, err := h.activityService.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list recent activities", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list activities")
		return
	}

	respondJSON(w, http.StatusOK, activities)
}
