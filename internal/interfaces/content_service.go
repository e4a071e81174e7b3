package interfaces

import (
	"context"

	"github.com/signalist/notifier/internal/models"
)

// ContentService generates email content with an AI provider.
// Methods return the normalized ModelResponse; an error means the provider
// could not be reached at all, while HasText=false on a nil error means the
// provider answered with no usable text.
type ContentService interface {
	// GenerateWelcomeIntro produces a personalized welcome paragraph
	// from the profile captured at sign-up
	GenerateWelcomeIntro(ctx context.Context, profile models.UserCreatedPayload) (models.ModelResponse, error)

	// SummarizeNews turns a batch of articles into an HTML digest
	SummarizeNews(ctx context.Context, articles []models.NewsArticle) (models.ModelResponse, error)
}
