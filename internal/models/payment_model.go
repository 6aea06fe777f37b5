package models

import "time"

// Payment status values mirror the Stripe payment intent lifecycle strings we
// care about; anything else Stripe sends is stored verbatim.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

// PaymentRecord is stored in the "payments" subcollection under a review
// request. The Stripe payment intent ID is the document ID.
type PaymentRecord struct {
	ID           string    `json:"id" firestore:"-"`
	RequestID    string    `json:"requestId" firestore:"-"`
	Amount       int64     `json:"amount" firestore:"amount"` // smallest currency unit
	Currency     string    `json:"currency" firestore:"currency"`
	ClientSecret string    `json:"clientSecret,omitempty" firestore:"clientSecret,omitempty"`
	Status       string    `json:"status" firestore:"status"`
	Invite       *Invite   `json:"invite,omitempty" firestore:"invite,omitempty"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt    time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// Invite records the review link sent for a paid request. It is appended to
// the payment record after the review-link dispatch succeeds.
type Invite struct {
	ID        string    `json:"id" firestore:"id"`
	ReviewURL string    `json:"reviewUrl" firestore:"reviewUrl"`
	PlaceID   string    `json:"placeId" firestore:"placeId"`
	Recipient string    `json:"recipient" firestore:"recipient"`
	SentAt    time.Time `json:"sentAt" firestore:"sentAt"`
}
