// Package stripe wraps the Stripe SDK behind a small interface so core
// services can be exercised in tests without touching the Stripe API.
package stripe

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"go.uber.org/zap"
)

// Metadata keys attached to Stripe objects so webhook events can be routed
// back to application records.
const (
	MetadataUserIDKey       = "user_id"
	MetadataRequestIDKey    = "reviewpilot_request_id"
	MetadataBusinessNameKey = "reviewpilot_business_name"
)

// PaymentIntentParams carries the inputs for creating a payment intent.
type PaymentIntentParams struct {
	Amount         int64
	Currency       string
	ReceiptEmail   string
	RequestID      string
	BusinessName   string
	IdempotencyKey string
}

// PaymentIntent is the subset of the created intent the application records.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
}

// Client defines the Stripe operations the application performs.
type Client interface {
	// CreateCustomer creates a Stripe customer for a user and returns its ID.
	CreateCustomer(ctx context.Context, userID, email string) (string, error)

	// CreateCheckoutSession creates a subscription-mode Checkout session
	// carrying the user ID as client_reference_id and returns the redirect URL.
	CreateCheckoutSession(ctx context.Context, userID, customerID, priceID, successURL, cancelURL string) (string, error)

	// CreatePortalSession creates a billing portal session for an existing
	// customer and returns the redirect URL.
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)

	// CreatePaymentIntent creates a payment intent tagged with the review
	// request metadata.
	CreatePaymentIntent(ctx context.Context, params PaymentIntentParams) (*PaymentIntent, error)
}

type stripeClient struct {
	api    *client.API
	logger *zap.Logger
}

// NewClient creates a Stripe client bound to the given secret key.
func NewClient(apiKey string, logger *zap.Logger) Client {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &stripeClient{api: api, logger: logger}
}

func (c *stripeClient) CreateCustomer(ctx context.Context, userID, email string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.Context = ctx
	params.AddMetadata(MetadataUserIDKey, userID)

	cust, err := c.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create customer for user '%s': %w", userID, err)
	}
	c.logger.Info("Created Stripe customer",
		zap.String("userID", userID),
		zap.String("customerID", cust.ID))
	return cust.ID, nil
}

func (c *stripeClient) CreateCheckoutSession(ctx context.Context, userID, customerID, priceID, successURL, cancelURL string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:          stripe.String(customerID),
		ClientReferenceID: stripe.String(userID),
		SuccessURL:        stripe.String(successURL),
		CancelURL:         stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create checkout session for user '%s': %w", userID, err)
	}
	return sess.URL, nil
}

func (c *stripeClient) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	sess, err := c.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create portal session for customer '%s': %w", customerID, err)
	}
	return sess.URL, nil
}

func (c *stripeClient) CreatePaymentIntent(ctx context.Context, p PaymentIntentParams) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(p.Amount),
		Currency: stripe.String(p.Currency),
	}
	params.Context = ctx
	if p.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(p.ReceiptEmail)
	}
	if p.IdempotencyKey != "" {
		params.SetIdempotencyKey(p.IdempotencyKey)
	}
	params.AddMetadata(MetadataRequestIDKey, p.RequestID)
	params.AddMetadata(MetadataBusinessNameKey, p.BusinessName)

	intent, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create payment intent for request '%s': %w", p.RequestID, err)
	}
	return &PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       string(intent.Status),
	}, nil
}
