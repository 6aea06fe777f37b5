package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"reviewpilot-backend-go/internal/email"
)

// emailService implements the EmailService interface.
type emailService struct {
	sender email.Sender
	logger *zap.Logger
}

// NewEmailService creates a new EmailService instance.
func NewEmailService(sender email.Sender, logger *zap.Logger) EmailService {
	return &emailService{
		sender: sender,
		logger: logger,
	}
}

// SendWelcome sends the welcome email to a newly registered user.
func (s *emailService) SendWelcome(ctx context.Context, recipient, name string) error {
	if err := s.sender.Send(recipient, email.WelcomeSubject(), email.WelcomeBody(name)); err != nil {
		return fmt.Errorf("%w: %v", ErrEmailSend, err)
	}
	s.logger.Info("Welcome email sent", zap.String("recipient", recipient))
	return nil
}
