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

const usersCollection = "users"

// ErrNotFound is returned when a document is not found in Firestore.
var ErrNotFound = errors.New("document not found")

// firestoreUserRepository implements the UserRepository interface using Firestore.
type firestoreUserRepository struct {
	client *firestore.Client
}

// NewFirestoreUserRepository creates a new instance of firestoreUserRepository.
func NewFirestoreUserRepository(client *firestore.Client) UserRepository {
	return &firestoreUserRepository{client: client}
}

// GetByID retrieves a user profile by its ID (Firebase Auth UID).
func (r *firestoreUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user with ID '%s' not found: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user with ID '%s': %w", userID, err)
	}

	var user models.User
	if err := docSnap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user data for ID '%s': %w", userID, err)
	}
	user.ID = docSnap.Ref.ID
	return &user, nil
}

// CreateIfAbsent writes the profile with a conditional create. Firestore's
// Create fails with AlreadyExists when the document is present, which turns
// the old check-then-act race into a single atomic operation; the loser of a
// concurrent create simply reads back the winner's document.
func (r *firestoreUserRepository) CreateIfAbsent(ctx context.Context, user *models.User) (*models.User, bool, error) {
	if user.ID == "" {
		return nil, false, errors.New("user ID cannot be empty for CreateIfAbsent operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(user.ID).Create(ctx, user)
	if err == nil {
		return user, true, nil
	}
	if status.Code(err) != codes.AlreadyExists {
		return nil, false, fmt.Errorf("failed to create user with ID '%s': %w", user.ID, err)
	}
	existing, getErr := r.GetByID(ctx, user.ID)
	if getErr != nil {
		return nil, false, fmt.Errorf("user '%s' exists but could not be read back: %w", user.ID, getErr)
	}
	return existing, false, nil
}

// MergeBillingFields merges the Stripe billing fields onto the profile using
// an explicit merge path list, so unrelated fields cannot be overwritten.
func (r *firestoreUserRepository) MergeBillingFields(ctx context.Context, userID string, fields models.BillingFields) error {
	if userID == "" {
		return errors.New("userID cannot be empty for MergeBillingFields operation")
	}

	data := map[string]interface{}{
		"updatedAt": firestore.ServerTimestamp,
	}
	paths := []firestore.FieldPath{{"updatedAt"}}
	if fields.StripeCustomerID != "" {
		data["stripeCustomerId"] = fields.StripeCustomerID
		paths = append(paths, firestore.FieldPath{"stripeCustomerId"})
	}
	if fields.StripeSubscriptionID != "" {
		data["stripeSubscriptionId"] = fields.StripeSubscriptionID
		paths = append(paths, firestore.FieldPath{"stripeSubscriptionId"})
	}
	if fields.SubscriptionStatus != "" {
		data["subscriptionStatus"] = fields.SubscriptionStatus
		paths = append(paths, firestore.FieldPath{"subscriptionStatus"})
	}

	_, err := r.client.Collection(usersCollection).Doc(userID).Set(ctx, data, firestore.Merge(paths...))
	if err != nil {
		return fmt.Errorf("failed to merge billing fields onto user '%s': %w", userID, err)
	}
	return nil
}

// SetSubscriptionStatus overwrites the subscription status field.
func (r *firestoreUserRepository) SetSubscriptionStatus(ctx context.Context, userID, status string) error {
	return r.MergeBillingFields(ctx, userID, models.BillingFields{SubscriptionStatus: status})
}

// FindByStripeCustomerID queries profiles by stored Stripe customer ID. The
// query is limited to one document; if duplicates exist only the first result
// is ever touched.
func (r *firestoreUserRepository) FindByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error) {
	if customerID == "" {
		return nil, errors.New("customerID cannot be empty for FindByStripeCustomerID operation")
	}

	iter := r.client.Collection(usersCollection).
		Where("stripeCustomerId", "==", customerID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, fmt.Errorf("no user with Stripe customer '%s': %w", customerID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by Stripe customer '%s': %w", customerID, err)
	}

	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user data for Stripe customer '%s': %w", customerID, err)
	}
	user.ID = doc.Ref.ID
	return &user, nil
}

// List returns user profiles ordered by creation time, newest first.
func (r *firestoreUserRepository) List(ctx context.Context, limit int) ([]*models.User, error) {
	query := r.client.Collection(usersCollection).OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var users []*models.User
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate users: %w", err)
		}
		var user models.User
		if err := doc.DataTo(&user); err != nil {
			return nil, fmt.Errorf("failed to decode user data (ID: %s): %w", doc.Ref.ID, err)
		}
		user.ID = doc.Ref.ID
		users = append(users, &user)
	}
	return users, nil
}
