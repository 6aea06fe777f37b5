package models

import (
	"errors"
	"strings"
	"time"
)

// Review request status values.
const (
	ReviewRequestStatusPending   = "pending"
	ReviewRequestStatusCompleted = "completed"
)

// ReviewRequest represents one outstanding ask for a customer to leave a
// public review. Document ID is auto-generated by Firestore.
type ReviewRequest struct {
	ID            string    `json:"id" firestore:"-"`
	OwnerID       string    `json:"ownerId" firestore:"ownerId"`
	BusinessName  string    `json:"businessName" firestore:"businessName"`
	CustomerName  string    `json:"customerName,omitempty" firestore:"customerName,omitempty"`
	CustomerEmail string    `json:"customerEmail,omitempty" firestore:"customerEmail,omitempty"`
	Status        string    `json:"status" firestore:"status"`
	CreatedAt     time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt     time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// NewReviewRequest is the single constructor every creation flow must go
// through, so the field set written to the collection cannot silently diverge
// between call sites.
func NewReviewRequest(ownerID, businessName, customerName, customerEmail string) (*ReviewRequest, error) {
	if ownerID == "" {
		return nil, errors.New("review request: ownerID is required")
	}
	businessName = strings.TrimSpace(businessName)
	if businessName == "" {
		return nil, errors.New("review request: businessName is required")
	}
	return &ReviewRequest{
		OwnerID:       ownerID,
		BusinessName:  businessName,
		CustomerName:  strings.TrimSpace(customerName),
		CustomerEmail: strings.TrimSpace(customerEmail),
		Status:        ReviewRequestStatusPending,
	}, nil
}
