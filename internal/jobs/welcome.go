package jobs

import (
	"context"

	"github.com/signalist/notifier/internal/jobs/step"
	"github.com/signalist/notifier/internal/models"
	"github.com/signalist/notifier/internal/services/content"
)

// SendSignUpEmail runs the welcome pipeline for one new user: generate a
// personalized intro with the model, then send the welcome email. Both
// steps are durable; a retried run will not regenerate an intro it already
// has, nor resend an email it already sent.
func (s *Service) SendSignUpEmail(ctx context.Context, payload models.UserCreatedPayload) (*models.JobResult, error) {
	return s.runWithRetry(ctx, JobIDSignUpEmail, func(ctx context.Context, r *step.Runner) (*models.JobResult, error) {
		// Model failures propagate so the run is retried; only a
		// successful call with no text falls back to the stock greeting.
		resp, err := step.Do(ctx, r, "generate-welcome-intro", func(ctx context.Context) (models.ModelResponse, error) {
			return s.content.GenerateWelcomeIntro(ctx, payload)
		})
		if err != nil {
			return nil, err
		}

		intro := content.FallbackWelcomeIntro
		if resp.HasText {
			intro = resp.Text
		}

		_, err = step.Do(ctx, r, "send-welcome-email", func(ctx context.Context) (*models.SendResult, error) {
			return s.mailer.SendWelcomeEmail(ctx, models.WelcomeEmail{
				Email: payload.Email,
				Name:  payload.Name,
				Intro: intro,
			})
		})
		if err != nil {
			return nil, err
		}

		return &models.JobResult{
			Success: true,
			Message: "Welcome email sent successfully",
		}, nil
	})
}
