package interfaces

import (
	"context"

	"github.com/signalist/notifier/internal/models"
)

// MailerService sends notification emails over SMTP
type MailerService interface {
	// SendWelcomeEmail delivers the personalized sign-up email
	SendWelcomeEmail(ctx context.Context, email models.WelcomeEmail) (*models.SendResult, error)

	// SendNewsSummaryEmail delivers one daily market summary
	SendNewsSummaryEmail(ctx context.Context, email models.NewsSummaryEmail) (*models.SendResult, error)

	// IsConfigured reports whether SMTP settings are complete enough to send
	IsConfigured() bool
}
