package api_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"reviewpilot-backend-go/internal/api"
	"reviewpilot-backend-go/internal/core"
	"reviewpilot-backend-go/internal/models"
)

type stubBillingService struct {
	subscriptionErr error
	paymentErr      error

	subscriptionCalls int
	paymentCalls      int
	lastSignature     string
	lastPayload       []byte
}

func (s *stubBillingService) CreateCheckoutSession(context.Context, string, string) (string, error) {
	return "", nil
}

func (s *stubBillingService) CreatePortalSession(context.Context, string) (string, error) {
	return "", nil
}

func (s *stubBillingService) CreatePaymentIntent(context.Context, string, models.CreatePaymentIntentRequest) (*models.PaymentRecord, error) {
	return nil, nil
}

func (s *stubBillingService) HandleSubscriptionWebhook(_ context.Context, signature string, payload []byte) error {
	s.subscriptionCalls++
	s.lastSignature = signature
	s.lastPayload = payload
	return s.subscriptionErr
}

func (s *stubBillingService) HandlePaymentWebhook(_ context.Context, signature string, payload []byte) error {
	s.paymentCalls++
	s.lastSignature = signature
	s.lastPayload = payload
	return s.paymentErr
}

func newWebhookRouter(svc core.BillingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := api.NewBillingHandler(svc, zap.NewNop())

	router := gin.New()
	router.POST("/api/stripe-webhook", handler.HandlePaymentWebhook)
	router.POST("/api/stripe-subscription-webhook", handler.HandleSubscriptionWebhook)
	return router
}

func postWebhook(router *gin.Engine, path, signature string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestWebhookEndpoints_MissingSignatureHeader(t *testing.T) {
	svc := &stubBillingService{}
	router := newWebhookRouter(svc)

	for _, path := range []string{"/api/stripe-webhook", "/api/stripe-subscription-webhook"} {
		rec := postWebhook(router, path, "", []byte(`{}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
	// The service is never reached without a signature header.
	assert.Zero(t, svc.subscriptionCalls)
	assert.Zero(t, svc.paymentCalls)
}

func TestWebhookEndpoints_SignatureFailureIs400(t *testing.T) {
	svc := &stubBillingService{
		subscriptionErr: fmt.Errorf("%w: bad signature", core.ErrWebhookSignature),
		paymentErr:      fmt.Errorf("%w: bad signature", core.ErrWebhookSignature),
	}
	router := newWebhookRouter(svc)

	rec := postWebhook(router, "/api/stripe-subscription-webhook", "t=1,v1=bad", []byte(`{}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postWebhook(router, "/api/stripe-webhook", "t=1,v1=bad", []byte(`{}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookEndpoints_VerifiedPayloadGets200(t *testing.T) {
	svc := &stubBillingService{}
	router := newWebhookRouter(svc)
	body := []byte(`{"type":"customer.subscription.updated"}`)

	rec := postWebhook(router, "/api/stripe-subscription-webhook", "t=1,v1=good", body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.subscriptionCalls)
	assert.Equal(t, "t=1,v1=good", svc.lastSignature)
	// The raw bytes reach the service untouched.
	assert.Equal(t, body, svc.lastPayload)

	rec = postWebhook(router, "/api/stripe-webhook", "t=1,v1=good", body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.paymentCalls)
}

func TestWebhookEndpoints_OversizedBodyRejected(t *testing.T) {
	svc := &stubBillingService{}
	router := newWebhookRouter(svc)

	big := bytes.Repeat([]byte("a"), 70*1024)
	rec := postWebhook(router, "/api/stripe-webhook", "t=1,v1=good", big)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.paymentCalls)
}
