package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"reviewpilot-backend-go/internal/db"
	"reviewpilot-backend-go/internal/email"
	"reviewpilot-backend-go/internal/models"
	"reviewpilot-backend-go/internal/places"
)

var (
	// ErrPlaceNotFound is returned when the places lookup matches nothing.
	ErrPlaceNotFound = errors.New("no place found for business name")
	// ErrEmailSend is returned when the mail relay rejects the dispatch.
	ErrEmailSend = errors.New("failed to send email")
)

// dispatchService implements DispatchService: resolve the business to a
// public place, email the review link, and append the invite to the payment
// record.
type dispatchService struct {
	requestRepo db.ReviewRequestRepository
	searcher    PlacesSearcher
	sender      email.Sender
	logger      *zap.Logger
}

// NewDispatchService creates a new DispatchService instance.
func NewDispatchService(requestRepo db.ReviewRequestRepository, searcher PlacesSearcher, sender email.Sender, logger *zap.Logger) DispatchService {
	return &dispatchService{
		requestRepo: requestRepo,
		searcher:    searcher,
		sender:      sender,
		logger:      logger,
	}
}

// SendReviewLink resolves the business name with a text search, takes the
// first result as-is, emails the review URL to the recipient, and, when a
// payment ID is given, records the invite on the payment document.
func (s *dispatchService) SendReviewLink(ctx context.Context, requestID, paymentID, businessName, recipient string) (*models.Invite, error) {
	if businessName == "" || recipient == "" {
		return nil, errors.New("businessName and recipient are required")
	}

	place, err := s.searcher.TextSearch(ctx, businessName)
	if err != nil {
		if errors.Is(err, places.ErrNoResults) {
			return nil, fmt.Errorf("%w: %q", ErrPlaceNotFound, businessName)
		}
		return nil, fmt.Errorf("places lookup failed for %q: %w", businessName, err)
	}

	reviewURL := places.ReviewURL(place.PlaceID)
	subject := email.ReviewInviteSubject(businessName)
	body := email.ReviewInviteBody(businessName, reviewURL)
	if err := s.sender.Send(recipient, subject, body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmailSend, err)
	}

	invite := &models.Invite{
		ID:        uuid.NewString(),
		ReviewURL: reviewURL,
		PlaceID:   place.PlaceID,
		Recipient: recipient,
		SentAt:    time.Now().UTC(),
	}

	if paymentID != "" {
		if err := s.requestRepo.AttachInvite(ctx, requestID, paymentID, invite); err != nil {
			// The mail is already out; record-keeping failure is logged but
			// does not undo the dispatch.
			s.logger.Error("Review link sent but invite could not be recorded",
				zap.String("requestID", requestID),
				zap.String("paymentID", paymentID),
				zap.Error(err))
		}
	}

	s.logger.Info("Review link dispatched",
		zap.String("requestID", requestID),
		zap.String("placeID", place.PlaceID),
		zap.String("recipient", recipient))
	return invite, nil
}
