package core

import (
	"context"

	"reviewpilot-backend-go/internal/models"
	"reviewpilot-backend-go/internal/places"
)

// UserService defines the interface for user profile operations.
type UserService interface {
	// GetOrCreate ensures a profile exists for the authenticated user.
	// Returns the profile and whether it was newly created.
	GetOrCreate(ctx context.Context, userID, email, displayName string, emailVerified bool) (*models.User, bool, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	List(ctx context.Context, limit int) ([]*models.User, error)
	SetSubscriptionStatus(ctx context.Context, adminID, userID, status string) error
}

// ReviewRequestService defines the interface for review request operations.
type ReviewRequestService interface {
	Create(ctx context.Context, ownerID string, req models.CreateReviewRequestRequest) (*models.ReviewRequest, error)
	GetByID(ctx context.Context, ownerID, requestID string) (*models.ReviewRequest, error)
	List(ctx context.Context, ownerID string, limit int) ([]*models.ReviewRequest, error)
	Delete(ctx context.Context, ownerID, requestID string) error
}

// BillingService defines the interface for Stripe-facing operations and the
// two webhook endpoints.
type BillingService interface {
	CreateCheckoutSession(ctx context.Context, userID, priceID string) (string, error)
	CreatePortalSession(ctx context.Context, userID string) (string, error)
	CreatePaymentIntent(ctx context.Context, userID string, req models.CreatePaymentIntentRequest) (*models.PaymentRecord, error)

	// HandleSubscriptionWebhook verifies and processes subscription lifecycle
	// events (checkout.session.completed, customer.subscription.updated/deleted).
	HandleSubscriptionWebhook(ctx context.Context, signature string, payload []byte) error

	// HandlePaymentWebhook verifies and processes payment intent events,
	// triggering the review-link dispatch on success.
	HandlePaymentWebhook(ctx context.Context, signature string, payload []byte) error
}

// DispatchService sends a review link for a paid request: places lookup,
// email, and invite bookkeeping on the payment record.
type DispatchService interface {
	SendReviewLink(ctx context.Context, requestID, paymentID, businessName, recipient string) (*models.Invite, error)
}

// EmailService sends the application's transactional mails.
type EmailService interface {
	SendWelcome(ctx context.Context, recipient, name string) error
}

// AuditService defines the interface for audit logging operations.
type AuditService interface {
	Record(ctx context.Context, logEntry models.AuditLog)
}

// PlacesSearcher is the slice of the places client that core services use.
// *places.Client satisfies it.
type PlacesSearcher interface {
	TextSearch(ctx context.Context, query string) (*places.Place, error)
}
