package db

import (
	"context"

	"reviewpilot-backend-go/internal/models"
)

// UserRepository defines the interface for user profile storage operations.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	// CreateIfAbsent performs a conditional create keyed on the document ID.
	// It returns the stored profile and whether a new document was written,
	// so two concurrent first loads cannot race a duplicate create.
	CreateIfAbsent(ctx context.Context, user *models.User) (*models.User, bool, error)
	// MergeBillingFields merges only the Stripe billing fields onto an
	// existing profile, leaving every other field untouched. Empty fields in
	// the mask are skipped.
	MergeBillingFields(ctx context.Context, userID string, fields models.BillingFields) error
	SetSubscriptionStatus(ctx context.Context, userID, status string) error
	// FindByStripeCustomerID is the reverse lookup used by subscription
	// webhooks. Returns ErrNotFound when no profile matches; when duplicates
	// exist only the first query result is returned.
	FindByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error)
	List(ctx context.Context, limit int) ([]*models.User, error)
}

// ReviewRequestRepository defines the interface for review request storage
// operations, including the payments subcollection.
type ReviewRequestRepository interface {
	Create(ctx context.Context, req *models.ReviewRequest) (string, error)
	GetByID(ctx context.Context, requestID string) (*models.ReviewRequest, error)
	GetByOwnerID(ctx context.Context, ownerID string, limit int) ([]*models.ReviewRequest, error)
	SetStatus(ctx context.Context, requestID, status string) error
	Delete(ctx context.Context, requestID string) error

	CreatePayment(ctx context.Context, requestID string, payment *models.PaymentRecord) error
	GetPayment(ctx context.Context, requestID, paymentID string) (*models.PaymentRecord, error)
	SetPaymentStatus(ctx context.Context, requestID, paymentID, status string) error
	AttachInvite(ctx context.Context, requestID, paymentID string, invite *models.Invite) error
}

// AuditRepository defines the interface for audit log storage operations.
type AuditRepository interface {
	Create(ctx context.Context, logEntry models.AuditLog) error
}
