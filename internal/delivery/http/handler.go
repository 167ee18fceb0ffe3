package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nutriscan/backend/internal/domain"
)

// NutritionService is the core's outbound contract consumed by the HTTP layer.
type NutritionService interface {
	Search(ctx context.Context, query string) (*domain.AggregatedSearchResult, error)
	Expand(ctx context.Context, query, cursor string) (*domain.SearchResultGroup, error)
	LookupBarcode(ctx context.Context, code string, quantity float64, unit string) ([]domain.FoodCandidate, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service NutritionService
}

// NewHandler creates a new HTTP handler
func NewHandler(service NutritionService) *Handler {
	return &Handler{service: service}
}

// searchBody is the request body for POST /food/search
type searchBody struct {
	Query string `json:"query" binding:"required"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "nutriscan-backend",
		"version": "1.0.0",
	})
}

// SearchFoods handles text-search requests
func (h *Handler) SearchFoods(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search service not configured"})
		return
	}

	var body searchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.writeError(c, "validation", domain.ErrInvalidInput)
		return
	}

	result, err := h.service.Search(c.Request.Context(), body.Query)
	if err != nil {
		h.writeError(c, "search", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExpandGroup handles load-more requests for one result group
func (h *Handler) ExpandGroup(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search service not configured"})
		return
	}

	query := c.Query("query")
	cursor := c.Query("cursor")

	group, err := h.service.Expand(c.Request.Context(), query, cursor)
	if err != nil {
		h.writeError(c, "expand", err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// LookupBarcode handles scanned-barcode lookups
func (h *Handler) LookupBarcode(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search service not configured"})
		return
	}

	code := c.Param("code")

	quantity := 1.0
	if raw := c.Query("quantity"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			h.writeError(c, "validation", domain.ErrInvalidInput)
			return
		}
		quantity = parsed
	}

	unit := c.DefaultQuery("unit", "serving")

	candidates, err := h.service.LookupBarcode(c.Request.Context(), code, quantity, unit)
	if err != nil {
		h.writeError(c, "barcode", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"foods": candidates})
}

// writeError maps domain errors to HTTP statuses and emits the error envelope.
func (h *Handler) writeError(c *gin.Context, stage string, err error) {
	status := http.StatusBadGateway

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrStaleCursor):
		status = http.StatusGone
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, domain.ErrCanceled):
		// Client closed or superseded the request; nothing to render
		status = 499
	}

	c.JSON(status, domain.ErrorEnvelope{
		Stage:     stage,
		Error:     err.Error(),
		RequestID: RequestIDFromContext(c),
	})
}
