package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"reviewpilot-backend-go/internal/db"
	"reviewpilot-backend-go/internal/models"
)

// ErrUserNotFound is returned when a user profile does not exist.
var ErrUserNotFound = errors.New("user not found")

// userService implements the UserService interface.
type userService struct {
	userRepo db.UserRepository
	audit    AuditService
	logger   *zap.Logger
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo db.UserRepository, audit AuditService, logger *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		audit:    audit,
		logger:   logger,
	}
}

// GetOrCreate ensures a profile document exists for the authenticated user.
// Creation is a conditional write in the repository, so two concurrent first
// loads converge on a single document instead of racing.
func (s *userService) GetOrCreate(ctx context.Context, userID, email, displayName string, emailVerified bool) (*models.User, bool, error) {
	newUser := &models.User{
		ID:                 userID,
		Email:              email,
		DisplayName:        displayName,
		EmailVerified:      emailVerified,
		SubscriptionStatus: models.SubscriptionStatusFree,
	}
	user, created, err := s.userRepo.CreateIfAbsent(ctx, newUser)
	if err != nil {
		return nil, false, fmt.Errorf("failed to initialize profile for user '%s': %w", userID, err)
	}
	if created {
		s.logger.Info("User profile created", zap.String("userID", userID))
	}
	return user, created, nil
}

// GetByID retrieves a user profile by Firebase UID.
func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: user with ID '%s'", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}
	return user, nil
}

// List returns user profiles, newest first. Admin-only at the handler level.
func (s *userService) List(ctx context.Context, limit int) ([]*models.User, error) {
	users, err := s.userRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SetSubscriptionStatus overwrites a user's subscription status on behalf of
// an admin and records the action in the audit trail.
func (s *userService) SetSubscriptionStatus(ctx context.Context, adminID, userID, status string) error {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepo.SetSubscriptionStatus(ctx, userID, status); err != nil {
		return fmt.Errorf("failed to set status on user '%s': %w", userID, err)
	}
	s.audit.Record(ctx, models.AuditLog{
		Actor:      adminID,
		Action:     "ADMIN_SET_STATUS",
		TargetType: "USER",
		TargetID:   userID,
		Details:    map[string]interface{}{"status": status},
	})
	return nil
}
