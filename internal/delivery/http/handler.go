package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/takato23/acomerlahechopormi-sub001/internal/domain"
)

const (
	serviceName    = "pantry-interpreter"
	serviceVersion = "1.0.0"
)

// PantryService is what the handlers need from the usecase layer
type PantryService interface {
	Parse(text string) (*domain.ParsedEntry, error)
	Classify(name string) (string, bool)
	Interpret(ctx context.Context, text string) (*domain.Suggestion, error)
	NormalizeUnit(raw string) string
	ReloadKeywords(ctx context.Context) (domain.IndexStatus, error)
	IndexStatus() domain.IndexStatus
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	pantryService PantryService
	logger        *zap.Logger
}

// NewHandler creates a new HTTP handler. A nil service makes every pantry
// endpoint answer 501.
func NewHandler(pantryService PantryService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		pantryService: pantryService,
		logger:        logger,
	}
}

// HealthCheck returns the health status of the API.
// An unloaded keyword index reports "degraded" but still answers 200.
func (h *Handler) HealthCheck(c *gin.Context) {
	response := gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	}

	if h.pantryService != nil {
		status := h.pantryService.IndexStatus()
		response["keywords"] = status
		if !status.Loaded {
			response["status"] = "degraded"
		}
	}

	c.JSON(http.StatusOK, response)
}

// ParsePantryInput handles POST /api/v1/pantry/parse
func (h *Handler) ParsePantryInput(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var req domain.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	entry, err := h.pantryService.Parse(req.Text)
	if err != nil {
		h.handleParseError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// ClassifyIngredient handles POST /api/v1/pantry/classify
func (h *Handler) ClassifyIngredient(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var req domain.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	var categoryID *string
	if id, ok := h.pantryService.Classify(req.Name); ok {
		categoryID = &id
	}

	c.JSON(http.StatusOK, gin.H{
		"name":       req.Name,
		"categoryId": categoryID,
	})
}

// InterpretPantryInput handles POST /api/v1/pantry/interpret
func (h *Handler) InterpretPantryInput(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var req domain.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	suggestion, err := h.pantryService.Interpret(c.Request.Context(), req.Text)
	if err != nil {
		h.handleParseError(c, err)
		return
	}

	c.JSON(http.StatusOK, suggestion)
}

// NormalizeUnit handles GET /api/v1/units/normalize?unit=
func (h *Handler) NormalizeUnit(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	raw := c.Query("unit")
	var unit *string
	if normalized := h.pantryService.NormalizeUnit(raw); normalized != "" {
		unit = &normalized
	}

	c.JSON(http.StatusOK, gin.H{
		"input": raw,
		"unit":  unit,
	})
}

// ReloadKeywords handles POST /api/v1/keywords/reload
func (h *Handler) ReloadKeywords(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	status, err := h.pantryService.ReloadKeywords(c.Request.Context())
	if err != nil {
		h.logger.Warn("keyword reload failed", zap.Error(err), zap.String("request_id", c.GetString(requestIDKey)))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":    "keyword source unavailable",
			"keywords": status,
		})
		return
	}

	c.JSON(http.StatusOK, status)
}

// KeywordStatus handles GET /api/v1/keywords/status
func (h *Handler) KeywordStatus(c *gin.Context) {
	if !h.configured(c) {
		return
	}
	c.JSON(http.StatusOK, h.pantryService.IndexStatus())
}

func (h *Handler) configured(c *gin.Context) bool {
	if h.pantryService == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Pantry service not configured",
		})
		return false
	}
	return true
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   domain.ErrInvalidRequest.Error(),
		"details": err.Error(),
	})
}

// handleParseError maps usecase errors to HTTP status codes
func (h *Handler) handleParseError(c *gin.Context, err error) {
	var perr *domain.ParseError
	switch {
	case errors.As(err, &perr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": perr.Error(),
			"code":  perr.Kind,
			"input": perr.Input,
		})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusRequestTimeout, gin.H{
			"error": "request canceled",
		})
	default:
		h.logger.Error("unexpected pantry error", zap.Error(err), zap.String("request_id", c.GetString(requestIDKey)))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal server error",
		})
	}
}
