package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reviewpilot-backend-go/internal/core"
	"reviewpilot-backend-go/internal/models"
)

// DispatchHandler handles the direct review-link dispatch and welcome email
// endpoints.
type DispatchHandler struct {
	dispatchService core.DispatchService
	emailService    core.EmailService
	reviewService   core.ReviewRequestService
	logger          *zap.Logger
}

// NewDispatchHandler creates a new DispatchHandler.
func NewDispatchHandler(ds core.DispatchService, es core.EmailService, rs core.ReviewRequestService, logger *zap.Logger) *DispatchHandler {
	return &DispatchHandler{
		dispatchService: ds,
		emailService:    es,
		reviewService:   rs,
		logger:          logger,
	}
}

// SendReviewLink handles POST /api/send-review-link. The caller must own the
// review request; the payment webhook path performs the same dispatch
// automatically.
func (h *DispatchHandler) SendReviewLink(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req models.SendReviewLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	// Ownership check doubles as existence check.
	if _, err := h.reviewService.GetByID(c.Request.Context(), userID, req.RequestID); err != nil {
		switch {
		case errors.Is(err, core.ErrRequestNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Review request not found"})
		case errors.Is(err, core.ErrNotRequestOwner):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "You do not own this review request"})
		default:
			h.logger.Error("Failed to load review request for dispatch", zap.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
		}
		return
	}

	invite, err := h.dispatchService.SendReviewLink(c.Request.Context(), req.RequestID, "", req.BusinessName, req.Recipient)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrPlaceNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "No matching place found", Details: err.Error()})
		case errors.Is(err, core.ErrEmailSend):
			h.logger.Error("Review link email failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Email provider error"})
		default:
			h.logger.Error("Review link dispatch failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
		}
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Review link sent", Data: invite})
}

// SendWelcomeEmail handles POST /api/send-welcome-email.
func (h *DispatchHandler) SendWelcomeEmail(c *gin.Context) {
	if _, ok := callerID(c); !ok {
		return
	}

	var req models.SendWelcomeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.emailService.SendWelcome(c.Request.Context(), req.Recipient, req.Name); err != nil {
		h.logger.Error("Welcome email failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Email provider error"})
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Welcome email sent"})
}
