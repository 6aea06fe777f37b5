package models

import "time"

// Subscription status values written to user profiles. Stripe's own status
// strings (e.g. "past_due") are stored verbatim on webhook writes, so these
// constants cover the values our own code writes rather than an enforced enum.
const (
	SubscriptionStatusFree     = "free"
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusPastDue  = "past_due"
)

// User represents a user profile document. The Firebase Auth UID is the
// Firestore document ID.
type User struct {
	ID                   string    `json:"id" firestore:"-"`
	Email                string    `json:"email" firestore:"email"`
	BusinessName         string    `json:"businessName,omitempty" firestore:"businessName,omitempty"`
	DisplayName          string    `json:"displayName,omitempty" firestore:"displayName,omitempty"`
	EmailVerified        bool      `json:"emailVerified" firestore:"emailVerified"`
	SubscriptionStatus   string    `json:"subscriptionStatus" firestore:"subscriptionStatus"`
	StripeCustomerID     string    `json:"stripeCustomerId,omitempty" firestore:"stripeCustomerId,omitempty"`
	StripeSubscriptionID string    `json:"stripeSubscriptionId,omitempty" firestore:"stripeSubscriptionId,omitempty"`
	CreatedAt            time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt            time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// BillingFields is the subset of a user profile owned by the subscription
// webhook. It is merged onto the profile with an explicit field mask so a
// webhook write can never clobber unrelated profile fields.
type BillingFields struct {
	StripeCustomerID     string
	StripeSubscriptionID string
	SubscriptionStatus   string
}
