package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"reviewpilot-backend-go/internal/models"
)

const (
	reviewRequestsCollection = "review_requests"
	paymentsSubcollection    = "payments"
)

// firestoreReviewRequestRepository implements ReviewRequestRepository using
// Firestore, with payment records as a subcollection under each request.
type firestoreReviewRequestRepository struct {
	client *firestore.Client
}

// NewFirestoreReviewRequestRepository creates a new instance of firestoreReviewRequestRepository.
func NewFirestoreReviewRequestRepository(client *firestore.Client) ReviewRequestRepository {
	return &firestoreReviewRequestRepository{client: client}
}

// Create adds a new review request document with an auto-generated ID and
// sets req.ID before saving.
func (r *firestoreReviewRequestRepository) Create(ctx context.Context, req *models.ReviewRequest) (string, error) {
	docRef := r.client.Collection(reviewRequestsCollection).NewDoc()
	req.ID = docRef.ID

	_, err := docRef.Create(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create review request: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a review request document by its ID.
func (r *firestoreReviewRequestRepository) GetByID(ctx context.Context, requestID string) (*models.ReviewRequest, error) {
	if requestID == "" {
		return nil, errors.New("requestID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(reviewRequestsCollection).Doc(requestID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("review request '%s' not found: %w", requestID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get review request '%s': %w", requestID, err)
	}

	var req models.ReviewRequest
	if err := docSnap.DataTo(&req); err != nil {
		return nil, fmt.Errorf("failed to decode review request '%s': %w", requestID, err)
	}
	req.ID = docSnap.Ref.ID
	return &req, nil
}

// GetByOwnerID retrieves review requests owned by a user, newest first.
func (r *firestoreReviewRequestRepository) GetByOwnerID(ctx context.Context, ownerID string, limit int) ([]*models.ReviewRequest, error) {
	if ownerID == "" {
		return nil, errors.New("ownerID cannot be empty for GetByOwnerID operation")
	}

	query := r.client.Collection(reviewRequestsCollection).
		Where("ownerId", "==", ownerID).
		OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var requests []*models.ReviewRequest
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate review requests for owner '%s': %w", ownerID, err)
		}
		var req models.ReviewRequest
		if err := doc.DataTo(&req); err != nil {
			return nil, fmt.Errorf("failed to decode review request (ID: %s): %w", doc.Ref.ID, err)
		}
		req.ID = doc.Ref.ID
		requests = append(requests, &req)
	}
	return requests, nil
}

// SetStatus overwrites the status field of a review request.
func (r *firestoreReviewRequestRepository) SetStatus(ctx context.Context, requestID, requestStatus string) error {
	if requestID == "" {
		return errors.New("requestID cannot be empty for SetStatus operation")
	}
	_, err := r.client.Collection(reviewRequestsCollection).Doc(requestID).Update(ctx, []firestore.Update{
		{Path: "status", Value: requestStatus},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("review request '%s' not found: %w", requestID, ErrNotFound)
		}
		return fmt.Errorf("failed to set status on review request '%s': %w", requestID, err)
	}
	return nil
}

// Delete removes a review request document. Payment records in the
// subcollection are not cascaded; Firestore leaves subcollections in place.
func (r *firestoreReviewRequestRepository) Delete(ctx context.Context, requestID string) error {
	if requestID == "" {
		return errors.New("requestID cannot be empty for Delete operation")
	}
	_, err := r.client.Collection(reviewRequestsCollection).Doc(requestID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete review request '%s': %w", requestID, err)
	}
	return nil
}

func (r *firestoreReviewRequestRepository) paymentDoc(requestID, paymentID string) *firestore.DocumentRef {
	return r.client.Collection(reviewRequestsCollection).
		Doc(requestID).
		Collection(paymentsSubcollection).
		Doc(paymentID)
}

// CreatePayment stores a payment record keyed by the Stripe payment intent ID.
func (r *firestoreReviewRequestRepository) CreatePayment(ctx context.Context, requestID string, payment *models.PaymentRecord) error {
	if requestID == "" || payment.ID == "" {
		return errors.New("requestID and payment ID are required for CreatePayment operation")
	}
	_, err := r.paymentDoc(requestID, payment.ID).Create(ctx, payment)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("payment '%s' already recorded under request '%s': %w", payment.ID, requestID, err)
		}
		return fmt.Errorf("failed to create payment '%s' under request '%s': %w", payment.ID, requestID, err)
	}
	return nil
}

// GetPayment retrieves a payment record.
func (r *firestoreReviewRequestRepository) GetPayment(ctx context.Context, requestID, paymentID string) (*models.PaymentRecord, error) {
	if requestID == "" || paymentID == "" {
		return nil, errors.New("requestID and paymentID are required for GetPayment operation")
	}
	docSnap, err := r.paymentDoc(requestID, paymentID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("payment '%s' not found under request '%s': %w", paymentID, requestID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get payment '%s' under request '%s': %w", paymentID, requestID, err)
	}

	var payment models.PaymentRecord
	if err := docSnap.DataTo(&payment); err != nil {
		return nil, fmt.Errorf("failed to decode payment '%s': %w", paymentID, err)
	}
	payment.ID = docSnap.Ref.ID
	payment.RequestID = requestID
	return &payment, nil
}

// SetPaymentStatus overwrites the status of a payment record. The same status
// can be rewritten on webhook redelivery; the write is last-write-wins.
func (r *firestoreReviewRequestRepository) SetPaymentStatus(ctx context.Context, requestID, paymentID, paymentStatus string) error {
	if requestID == "" || paymentID == "" {
		return errors.New("requestID and paymentID are required for SetPaymentStatus operation")
	}
	_, err := r.paymentDoc(requestID, paymentID).Set(ctx, map[string]interface{}{
		"status":    paymentStatus,
		"updatedAt": firestore.ServerTimestamp,
	}, firestore.Merge(firestore.FieldPath{"status"}, firestore.FieldPath{"updatedAt"}))
	if err != nil {
		return fmt.Errorf("failed to set status on payment '%s' under request '%s': %w", paymentID, requestID, err)
	}
	return nil
}

// AttachInvite appends the invite sub-object to a payment record.
func (r *firestoreReviewRequestRepository) AttachInvite(ctx context.Context, requestID, paymentID string, invite *models.Invite) error {
	if requestID == "" || paymentID == "" {
		return errors.New("requestID and paymentID are required for AttachInvite operation")
	}
	_, err := r.paymentDoc(requestID, paymentID).Set(ctx, map[string]interface{}{
		"invite":    invite,
		"updatedAt": firestore.ServerTimestamp,
	}, firestore.Merge(firestore.FieldPath{"invite"}, firestore.FieldPath{"updatedAt"}))
	if err != nil {
		return fmt.Errorf("failed to attach invite to payment '%s' under request '%s': %w", paymentID, requestID, err)
	}
	return nil
}
