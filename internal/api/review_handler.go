package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reviewpilot-backend-go/internal/core"
	"reviewpilot-backend-go/internal/models"
)

// ReviewRequestHandler handles review request CRUD endpoints.
type ReviewRequestHandler struct {
	reviewService core.ReviewRequestService
	logger        *zap.Logger
}

// NewReviewRequestHandler creates a new ReviewRequestHandler.
func NewReviewRequestHandler(rs core.ReviewRequestService, logger *zap.Logger) *ReviewRequestHandler {
	return &ReviewRequestHandler{reviewService: rs, logger: logger}
}

func (h *ReviewRequestHandler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Review request not found"})
	case errors.Is(err, core.ErrNotRequestOwner):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "You do not own this review request"})
	default:
		h.logger.Error("Review request operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// Create handles POST /api/review-requests.
func (h *ReviewRequestHandler) Create(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req models.CreateReviewRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	request, err := h.reviewService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.mapError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

// List handles GET /api/review-requests.
func (h *ReviewRequestHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	requests, err := h.reviewService.List(c.Request.Context(), userID, limit)
	if err != nil {
		h.mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// Get handles GET /api/review-requests/:requestId.
func (h *ReviewRequestHandler) Get(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	request, err := h.reviewService.GetByID(c.Request.Context(), userID, c.Param("requestId"))
	if err != nil {
		h.mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// Delete handles DELETE /api/review-requests/:requestId.
func (h *ReviewRequestHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), userID, c.Param("requestId")); err != nil {
		h.mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Review request deleted"})
}
