package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"reviewpilot-backend-go/internal/db"
	"reviewpilot-backend-go/internal/models"
)

var (
	// ErrRequestNotFound is returned when a review request does not exist.
	ErrRequestNotFound = errors.New("review request not found")
	// ErrNotRequestOwner is returned when a caller touches a request they do
	// not own.
	ErrNotRequestOwner = errors.New("caller does not own this review request")
)

// reviewRequestService implements the ReviewRequestService interface.
type reviewRequestService struct {
	requestRepo db.ReviewRequestRepository
	logger      *zap.Logger
}

// NewReviewRequestService creates a new ReviewRequestService instance.
func NewReviewRequestService(requestRepo db.ReviewRequestRepository, logger *zap.Logger) ReviewRequestService {
	return &reviewRequestService{
		requestRepo: requestRepo,
		logger:      logger,
	}
}

// Create builds a review request through the shared constructor and stores it.
// Every creation flow funnels through here.
func (s *reviewRequestService) Create(ctx context.Context, ownerID string, req models.CreateReviewRequestRequest) (*models.ReviewRequest, error) {
	request, err := models.NewReviewRequest(ownerID, req.BusinessName, req.CustomerName, req.CustomerEmail)
	if err != nil {
		return nil, err
	}
	id, err := s.requestRepo.Create(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("failed to create review request: %w", err)
	}
	s.logger.Info("Review request created",
		zap.String("requestID", id),
		zap.String("ownerID", ownerID))
	return request, nil
}

// GetByID retrieves a review request, enforcing ownership.
func (s *reviewRequestService) GetByID(ctx context.Context, ownerID, requestID string) (*models.ReviewRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrRequestNotFound, requestID)
		}
		return nil, fmt.Errorf("failed to get review request '%s': %w", requestID, err)
	}
	if request.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: '%s'", ErrNotRequestOwner, requestID)
	}
	return request, nil
}

// List returns the caller's review requests, newest first.
func (s *reviewRequestService) List(ctx context.Context, ownerID string, limit int) ([]*models.ReviewRequest, error) {
	requests, err := s.requestRepo.GetByOwnerID(ctx, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list review requests for owner '%s': %w", ownerID, err)
	}
	return requests, nil
}

// Delete removes a review request after verifying ownership.
func (s *reviewRequestService) Delete(ctx context.Context, ownerID, requestID string) error {
	if _, err := s.GetByID(ctx, ownerID, requestID); err != nil {
		return err
	}
	if err := s.requestRepo.Delete(ctx, requestID); err != nil {
		return fmt.Errorf("failed to delete review request '%s': %w", requestID, err)
	}
	s.logger.Info("Review request deleted",
		zap.String("requestID", requestID),
		zap.String("ownerID", ownerID))
	return nil
}
