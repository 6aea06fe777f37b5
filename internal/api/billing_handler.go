package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reviewpilot-backend-go/internal/core"
	"reviewpilot-backend-go/internal/models"
)

// Stripe recommends capping webhook bodies at ~64KiB.
const maxWebhookBodySize = int64(65536)

// BillingHandler handles billing endpoints and the two Stripe webhooks.
type BillingHandler struct {
	billingService core.BillingService
	logger         *zap.Logger
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(bs core.BillingService, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{billingService: bs, logger: logger}
}

// mapBillingErrorToStatus maps errors from core.BillingService to HTTP
// status codes.
func (h *BillingHandler) mapBillingErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found"})
	case errors.Is(err, core.ErrNoStripeCustomer):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "No billing account", Details: "Complete a checkout before opening the billing portal."})
	case errors.Is(err, core.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Review request not found"})
	case errors.Is(err, core.ErrNotRequestOwner):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "You do not own this review request"})
	case errors.Is(err, core.ErrStripeClient):
		h.logger.Error("Stripe client error", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Payment provider error", Details: "Could not complete the operation with the payment provider."})
	case errors.Is(err, core.ErrWebhookSignature):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Webhook signature verification failed"})
	default:
		h.logger.Error("Internal error in BillingHandler", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// CreateCheckoutSession handles POST /api/create-checkout-session.
func (h *BillingHandler) CreateCheckoutSession(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req models.CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	url, err := h.billingService.CreateCheckoutSession(c.Request.Context(), userID, req.PriceID)
	if err != nil {
		h.mapBillingErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionURLResponse{URL: url})
}

// CreatePortalSession handles POST /api/create-portal-session.
func (h *BillingHandler) CreatePortalSession(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	url, err := h.billingService.CreatePortalSession(c.Request.Context(), userID)
	if err != nil {
		h.mapBillingErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionURLResponse{URL: url})
}

// CreatePaymentIntent handles POST /api/create-payment-intent.
func (h *BillingHandler) CreatePaymentIntent(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req models.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount must be positive"})
		return
	}

	record, err := h.billingService.CreatePaymentIntent(c.Request.Context(), userID, req)
	if err != nil {
		h.mapBillingErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, PaymentIntentResponse{
		PaymentIntentID: record.ID,
		ClientSecret:    record.ClientSecret,
		Status:          record.Status,
	})
}

// readWebhookBody reads the raw, size-capped payload plus the signature
// header. The raw bytes must reach signature verification untouched, so no
// JSON binding happens here.
func (h *BillingHandler) readWebhookBody(c *gin.Context) (string, []byte, bool) {
	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing Stripe-Signature header"})
		return "", nil, false
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodySize)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error("Failed to read webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Cannot read request body"})
		return "", nil, false
	}
	return signature, payload, true
}

// HandlePaymentWebhook handles POST /api/stripe-webhook. Public; Stripe
// authenticates via the signature header.
func (h *BillingHandler) HandlePaymentWebhook(c *gin.Context) {
	signature, payload, ok := h.readWebhookBody(c)
	if !ok {
		return
	}

	if err := h.billingService.HandlePaymentWebhook(c.Request.Context(), signature, payload); err != nil {
		h.mapBillingErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Webhook received"})
}

// HandleSubscriptionWebhook handles POST /api/stripe-subscription-webhook.
// Verified with a distinct signing secret from the payment webhook.
func (h *BillingHandler) HandleSubscriptionWebhook(c *gin.Context) {
	signature, payload, ok := h.readWebhookBody(c)
	if !ok {
		return
	}

	if err := h.billingService.HandleSubscriptionWebhook(c.Request.Context(), signature, payload); err != nil {
		h.mapBillingErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Webhook received"})
}
