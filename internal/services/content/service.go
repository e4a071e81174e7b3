package content

import (
	"context"
	"time"

	"github.com/signalist/notifier/internal/common"
	"github.com/signalist/notifier/internal/interfaces"
	"github.com/signalist/notifier/internal/models"
	"github.com/signalist/notifier/internal/services/llm"
	"github.com/ternarybob/arbor"
)

const defaultGenerateTimeout = 2 * time.Minute

// Service generates email content through the configured AI provider
type Service struct {
	factory *llm.ProviderFactory
	timeout time.Duration
	logger  arbor.ILogger
}

// NewService creates a new content service
func NewService(factory *llm.ProviderFactory, geminiConfig *common.GeminiConfig, logger arbor.ILogger) interfaces.ContentService {
	timeout := defaultGenerateTimeout
	if d, err := time.ParseDuration(geminiConfig.Timeout); err == nil && d > 0 {
		timeout = d
	}

	return &Service{
		factory: factory,
		timeout: timeout,
		logger:  logger,
	}
}

// GenerateWelcomeIntro produces a personalized welcome paragraph from the
// profile captured at sign-up
func (s *Service) GenerateWelcomeIntro(ctx context.Context, profile models.UserCreatedPayload) (models.ModelResponse, error) {
	prompt := BuildWelcomePrompt(profile)

	return s.generate(ctx, prompt)
}

// SummarizeNews turns a batch of articles into an HTML digest
func (s *Service) SummarizeNews(ctx context.Context, articles []models.NewsArticle) (models.ModelResponse, error) {
	prompt, err := BuildNewsSummaryPrompt(articles)
	if err != nil {
		return models.ModelResponse{}, err
	}

	return s.generate(ctx, prompt)
}

func (s *Service) generate(ctx context.Context, prompt string) (models.ModelResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.factory.GenerateContent(ctx, &llm.ContentRequest{
		Messages: []interfaces.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return models.ModelResponse{}, err
	}

	s.logger.Debug().
		Str("provider", string(resp.Provider)).
		Str("model", resp.Model).
		Bool("has_text", resp.Response.HasText).
		Msg("Content generated")

	return resp.Response, nil
}
