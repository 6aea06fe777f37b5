package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	stripeapi "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"
	"go.uber.org/zap"

	"reviewpilot-backend-go/internal/db"
	"reviewpilot-backend-go/internal/models"
	stripeclient "reviewpilot-backend-go/internal/stripe"
)

var (
	// ErrStripeClient wraps failures talking to the Stripe API.
	ErrStripeClient = errors.New("stripe client operation failed")
	// ErrWebhookSignature is returned when a webhook payload fails signature
	// verification.
	ErrWebhookSignature = errors.New("webhook signature verification failed")
	// ErrNoStripeCustomer is returned when a portal session is requested for
	// a user with no stored Stripe customer ID.
	ErrNoStripeCustomer = errors.New("user has no Stripe customer ID")
)

const webhookActor = "stripe-webhook"

// billingService implements the BillingService interface.
type billingService struct {
	userRepo    db.UserRepository
	requestRepo db.ReviewRequestRepository
	stripe      stripeclient.Client
	dispatcher  DispatchService
	audit       AuditService
	logger      *zap.Logger

	// Distinct signing secrets, one per webhook endpoint.
	paymentWebhookSecret      string
	subscriptionWebhookSecret string

	checkoutSuccessURL string
	checkoutCancelURL  string
	portalReturnURL    string
}

// BillingConfig carries the endpoint secrets and redirect URLs.
type BillingConfig struct {
	PaymentWebhookSecret      string
	SubscriptionWebhookSecret string
	CheckoutSuccessURL        string
	CheckoutCancelURL         string
	PortalReturnURL           string
}

// NewBillingService creates a new BillingService instance.
func NewBillingService(
	userRepo db.UserRepository,
	requestRepo db.ReviewRequestRepository,
	stripeClient stripeclient.Client,
	dispatcher DispatchService,
	audit AuditService,
	cfg BillingConfig,
	logger *zap.Logger,
) (BillingService, error) {
	if cfg.PaymentWebhookSecret == "" || cfg.SubscriptionWebhookSecret == "" {
		return nil, errors.New("both webhook secrets must be configured")
	}
	return &billingService{
		userRepo:                  userRepo,
		requestRepo:               requestRepo,
		stripe:                    stripeClient,
		dispatcher:                dispatcher,
		audit:                     audit,
		logger:                    logger,
		paymentWebhookSecret:      cfg.PaymentWebhookSecret,
		subscriptionWebhookSecret: cfg.SubscriptionWebhookSecret,
		checkoutSuccessURL:        cfg.CheckoutSuccessURL,
		checkoutCancelURL:         cfg.CheckoutCancelURL,
		portalReturnURL:           cfg.PortalReturnURL,
	}, nil
}

// CreateCheckoutSession mints a subscription Checkout session for the caller.
// A Stripe customer is created and stored on the profile the first time
// through; the session carries the UID as client_reference_id so the
// subscription webhook can route the completion back to this profile.
func (s *billingService) CreateCheckoutSession(ctx context.Context, userID, priceID string) (string, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return "", err
	}

	customerID := user.StripeCustomerID
	if customerID == "" {
		customerID, err = s.stripe.CreateCustomer(ctx, userID, user.Email)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrStripeClient, err)
		}
		if mergeErr := s.userRepo.MergeBillingFields(ctx, userID, models.BillingFields{StripeCustomerID: customerID}); mergeErr != nil {
			s.logger.Error("Created Stripe customer but failed to store its ID",
				zap.String("userID", userID),
				zap.String("customerID", customerID),
				zap.Error(mergeErr))
		}
	}

	url, err := s.stripe.CreateCheckoutSession(ctx, userID, customerID, priceID, s.checkoutSuccessURL, s.checkoutCancelURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStripeClient, err)
	}
	return url, nil
}

// CreatePortalSession mints a billing portal session. Callers without a
// stored customer ID have never checked out and get ErrNoStripeCustomer.
func (s *billingService) CreatePortalSession(ctx context.Context, userID string) (string, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.StripeCustomerID == "" {
		return "", fmt.Errorf("%w: user '%s'", ErrNoStripeCustomer, userID)
	}

	url, err := s.stripe.CreatePortalSession(ctx, user.StripeCustomerID, s.portalReturnURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStripeClient, err)
	}
	return url, nil
}

// CreatePaymentIntent creates a payment intent tied to one of the caller's
// review requests and records it in the payments subcollection.
func (s *billingService) CreatePaymentIntent(ctx context.Context, userID string, req models.CreatePaymentIntentRequest) (*models.PaymentRecord, error) {
	request, err := s.requestRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrRequestNotFound, req.RequestID)
		}
		return nil, fmt.Errorf("failed to load review request '%s': %w", req.RequestID, err)
	}
	if request.OwnerID != userID {
		return nil, fmt.Errorf("%w: '%s'", ErrNotRequestOwner, req.RequestID)
	}

	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = "usd"
	}

	intent, err := s.stripe.CreatePaymentIntent(ctx, stripeclient.PaymentIntentParams{
		Amount:         req.Amount,
		Currency:       currency,
		ReceiptEmail:   req.ReceiptEmail,
		RequestID:      request.ID,
		BusinessName:   request.BusinessName,
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStripeClient, err)
	}

	record := &models.PaymentRecord{
		ID:           intent.ID,
		RequestID:    request.ID,
		Amount:       req.Amount,
		Currency:     currency,
		ClientSecret: intent.ClientSecret,
		Status:       models.PaymentStatusPending,
	}
	if err := s.requestRepo.CreatePayment(ctx, request.ID, record); err != nil {
		// The intent exists at Stripe either way; surface the bookkeeping
		// failure so the client retries instead of losing track of it.
		return nil, fmt.Errorf("payment intent '%s' created but not recorded: %w", intent.ID, err)
	}
	return record, nil
}

// verifyEvent checks the payload against the endpoint's signing secret. The
// SDK's API-version match is disabled: Stripe delivers events pinned to the
// account's API version, and an older event must still verify. Only the HMAC
// decides whether a payload is trusted.
func (s *billingService) verifyEvent(payload []byte, signature, secret string) (stripeapi.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return stripeapi.Event{}, fmt.Errorf("%w: %v", ErrWebhookSignature, err)
	}
	return event, nil
}

// HandleSubscriptionWebhook keeps user profiles in sync with subscription
// lifecycle events. Only signature failures propagate as errors; once a
// payload verifies, processing problems are logged and swallowed so the
// provider receives its acknowledgement and does not redeliver a payload we
// cannot act on.
func (s *billingService) HandleSubscriptionWebhook(ctx context.Context, signature string, payload []byte) error {
	event, err := s.verifyEvent(payload, signature, s.subscriptionWebhookSecret)
	if err != nil {
		return err
	}

	switch string(event.Type) {
	case "checkout.session.completed":
		s.applyCheckoutCompleted(ctx, event.Data.Raw)
	case "customer.subscription.updated", "customer.subscription.deleted":
		s.applySubscriptionStatus(ctx, event.Data.Raw, string(event.Type))
	default:
		s.logger.Debug("Ignoring subscription webhook event",
			zap.String("eventType", string(event.Type)))
	}
	return nil
}

// applyCheckoutCompleted merges the newly created customer and subscription
// IDs onto the profile referenced by client_reference_id. A session created
// without a reference is skipped silently.
func (s *billingService) applyCheckoutCompleted(ctx context.Context, raw json.RawMessage) {
	var session stripeapi.CheckoutSession
	if err := json.Unmarshal(raw, &session); err != nil {
		s.logger.Error("Failed to decode checkout.session.completed payload", zap.Error(err))
		return
	}

	userID := session.ClientReferenceID
	var customerID, subscriptionID string
	if session.Customer != nil {
		customerID = session.Customer.ID
	}
	if session.Subscription != nil {
		subscriptionID = session.Subscription.ID
	}

	if userID == "" || customerID == "" || subscriptionID == "" {
		s.logger.Debug("checkout.session.completed missing reference fields, skipping",
			zap.String("clientReferenceID", userID),
			zap.String("customerID", customerID),
			zap.String("subscriptionID", subscriptionID))
		return
	}

	err := s.userRepo.MergeBillingFields(ctx, userID, models.BillingFields{
		StripeCustomerID:     customerID,
		StripeSubscriptionID: subscriptionID,
	})
	if err != nil {
		s.logger.Error("Failed to merge checkout billing fields onto profile",
			zap.String("userID", userID),
			zap.Error(err))
		return
	}

	s.audit.Record(ctx, models.AuditLog{
		Actor:      webhookActor,
		Action:     "SUBSCRIPTION_SYNC",
		TargetType: "USER",
		TargetID:   userID,
		Details: map[string]interface{}{
			"event":          "checkout.session.completed",
			"customerId":     customerID,
			"subscriptionId": subscriptionID,
		},
	})
	s.logger.Info("Linked Stripe customer to profile",
		zap.String("userID", userID),
		zap.String("customerID", customerID))
}

// applySubscriptionStatus looks up the profile by stored customer ID and
// overwrites its status with the provider's subscription status string. Zero
// matches are skipped silently; when duplicates exist only the first query
// result is updated. Redelivered events reapply the same write, which is a
// state no-op under last-write-wins.
func (s *billingService) applySubscriptionStatus(ctx context.Context, raw json.RawMessage, eventType string) {
	var sub stripeapi.Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		s.logger.Error("Failed to decode subscription payload",
			zap.String("eventType", eventType),
			zap.Error(err))
		return
	}

	var customerID string
	if sub.Customer != nil {
		customerID = sub.Customer.ID
	}
	if customerID == "" {
		s.logger.Debug("Subscription event without customer ID, skipping",
			zap.String("eventType", eventType))
		return
	}

	user, err := s.userRepo.FindByStripeCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.logger.Debug("No profile for Stripe customer, skipping",
				zap.String("customerID", customerID),
				zap.String("eventType", eventType))
			return
		}
		s.logger.Error("Failed profile lookup by Stripe customer",
			zap.String("customerID", customerID),
			zap.Error(err))
		return
	}

	status := string(sub.Status)
	if eventType == "customer.subscription.deleted" {
		status = models.SubscriptionStatusCanceled
	}

	if err := s.userRepo.SetSubscriptionStatus(ctx, user.ID, status); err != nil {
		s.logger.Error("Failed to write subscription status",
			zap.String("userID", user.ID),
			zap.String("status", status),
			zap.Error(err))
		return
	}

	s.audit.Record(ctx, models.AuditLog{
		Actor:      webhookActor,
		Action:     "SUBSCRIPTION_SYNC",
		TargetType: "USER",
		TargetID:   user.ID,
		Details: map[string]interface{}{
			"event":  eventType,
			"status": status,
		},
	})
	s.logger.Info("Subscription status synchronized",
		zap.String("userID", user.ID),
		zap.String("status", status))
}

// HandlePaymentWebhook processes payment intent events. On success the
// payment record and its review request are marked and the review link is
// dispatched to the receipt email.
func (s *billingService) HandlePaymentWebhook(ctx context.Context, signature string, payload []byte) error {
	event, err := s.verifyEvent(payload, signature, s.paymentWebhookSecret)
	if err != nil {
		return err
	}

	switch string(event.Type) {
	case "payment_intent.succeeded":
		s.applyPaymentSucceeded(ctx, event.Data.Raw)
	case "payment_intent.payment_failed":
		s.applyPaymentFailed(ctx, event.Data.Raw)
	default:
		s.logger.Debug("Ignoring payment webhook event",
			zap.String("eventType", string(event.Type)))
	}
	return nil
}

func (s *billingService) applyPaymentSucceeded(ctx context.Context, raw json.RawMessage) {
	var intent stripeapi.PaymentIntent
	if err := json.Unmarshal(raw, &intent); err != nil {
		s.logger.Error("Failed to decode payment_intent.succeeded payload", zap.Error(err))
		return
	}

	requestID := intent.Metadata[stripeclient.MetadataRequestIDKey]
	if requestID == "" {
		s.logger.Debug("payment_intent.succeeded without request metadata, skipping",
			zap.String("intentID", intent.ID))
		return
	}

	if err := s.requestRepo.SetPaymentStatus(ctx, requestID, intent.ID, models.PaymentStatusSucceeded); err != nil {
		s.logger.Error("Failed to mark payment succeeded",
			zap.String("requestID", requestID),
			zap.String("intentID", intent.ID),
			zap.Error(err))
	}
	if err := s.requestRepo.SetStatus(ctx, requestID, models.ReviewRequestStatusCompleted); err != nil {
		s.logger.Error("Failed to mark review request completed",
			zap.String("requestID", requestID),
			zap.Error(err))
	}

	businessName := intent.Metadata[stripeclient.MetadataBusinessNameKey]
	recipient := intent.ReceiptEmail
	if businessName == "" || recipient == "" {
		s.logger.Debug("payment_intent.succeeded without dispatch fields, skipping review link",
			zap.String("intentID", intent.ID),
			zap.String("businessName", businessName))
		return
	}

	if _, err := s.dispatcher.SendReviewLink(ctx, requestID, intent.ID, businessName, recipient); err != nil {
		s.logger.Error("Review link dispatch failed",
			zap.String("requestID", requestID),
			zap.String("intentID", intent.ID),
			zap.Error(err))
	}
}

func (s *billingService) applyPaymentFailed(ctx context.Context, raw json.RawMessage) {
	var intent stripeapi.PaymentIntent
	if err := json.Unmarshal(raw, &intent); err != nil {
		s.logger.Error("Failed to decode payment_intent.payment_failed payload", zap.Error(err))
		return
	}

	requestID := intent.Metadata[stripeclient.MetadataRequestIDKey]
	if requestID == "" {
		return
	}
	if err := s.requestRepo.SetPaymentStatus(ctx, requestID, intent.ID, models.PaymentStatusFailed); err != nil {
		s.logger.Error("Failed to mark payment failed",
			zap.String("requestID", requestID),
			zap.String("intentID", intent.ID),
			zap.Error(err))
	}
}

func (s *billingService) getUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: user with ID '%s'", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}
	return user, nil
}
