// -----------------------------------------------------------------------
// Jobs Service - Notification job handlers with durable, retried runs
// -----------------------------------------------------------------------

package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/signalist/notifier/internal/common"
	"github.com/signalist/notifier/internal/interfaces"
	"github.com/signalist/notifier/internal/jobs/step"
	"github.com/signalist/notifier/internal/market"
	"github.com/signalist/notifier/internal/models"
	"github.com/ternarybob/arbor"
)

// Handler ids, stable across runs and visible in run records
const (
	JobIDSignUpEmail      = "sign-up-email"
	JobIDDailyNewsSummary = "daily-news-summary"
)

// NewsClient fetches market news articles
type NewsClient interface {
	GetNews(ctx context.Context, symbols []string, limit int) ([]models.NewsArticle, error)
	GetGeneralNews(ctx context.Context, limit int) ([]models.NewsArticle, error)
}

var _ NewsClient = (*market.Client)(nil)

// Service owns the notification job handlers and their durable runs
type Service struct {
	config    *common.Config
	storage   interfaces.StorageManager
	events    interfaces.EventService
	scheduler interfaces.SchedulerService
	content   interfaces.ContentService
	mailer    interfaces.MailerService
	news      NewsClient
	logger    arbor.ILogger
}

// NewService creates the jobs service
func NewService(
	config *common.Config,
	storage interfaces.StorageManager,
	events interfaces.EventService,
	scheduler interfaces.SchedulerService,
	content interfaces.ContentService,
	mailer interfaces.MailerService,
	news NewsClient,
	logger arbor.ILogger,
) *Service {
	return &Service{
		config:    config,
		storage:   storage,
		events:    events,
		scheduler: scheduler,
		content:   content,
		mailer:    mailer,
		news:      news,
		logger:    logger,
	}
}

// Start wires the handlers to their triggers: the sign-up event, the manual
// broadcast event, and the daily cron schedule.
func (s *Service) Start() error {
	if err := s.events.Subscribe(interfaces.EventUserCreated, s.handleUserCreated); err != nil {
		return fmt.Errorf("failed to subscribe to user created events: %w", err)
	}

	if err := s.events.Subscribe(interfaces.EventDailyNewsRequested, s.handleDailyNewsRequested); err != nil {
		return fmt.Errorf("failed to subscribe to daily news events: %w", err)
	}

	if err := s.scheduler.RegisterJob(
		JobIDDailyNewsSummary,
		s.config.Jobs.DailySchedule,
		"Daily market news summary email",
		func() error {
			_, err := s.SendDailyNewsSummary(context.Background())
			return err
		},
	); err != nil {
		return fmt.Errorf("failed to register daily news job: %w", err)
	}

	s.logger.Info().
		Str("daily_schedule", s.config.Jobs.DailySchedule).
		Msg("Notification jobs started")

	return nil
}

// handleUserCreated runs the welcome pipeline for a new sign-up
func (s *Service) handleUserCreated(ctx context.Context, event interfaces.Event) error {
	payload, err := decodeUserCreatedPayload(event.Payload)
	if err != nil {
		return fmt.Errorf("invalid user created payload: %w", err)
	}

	_, err = s.SendSignUpEmail(ctx, payload)
	return err
}

// handleDailyNewsRequested runs the broadcast pipeline outside the schedule
func (s *Service) handleDailyNewsRequested(ctx context.Context, event interfaces.Event) error {
	_, err := s.SendDailyNewsSummary(ctx)
	return err
}

// decodeUserCreatedPayload accepts either a typed payload or the JSON-ish
// map an external publisher would produce
func decodeUserCreatedPayload(payload interface{}) (models.UserCreatedPayload, error) {
	switch p := payload.(type) {
	case models.UserCreatedPayload:
		return p, nil
	case *models.UserCreatedPayload:
		if p == nil {
			return models.UserCreatedPayload{}, fmt.Errorf("payload is nil")
		}
		return *p, nil
	default:
		data, err := json.Marshal(payload)
		if err != nil {
			return models.UserCreatedPayload{}, err
		}
		var decoded models.UserCreatedPayload
		if err := json.Unmarshal(data, &decoded); err != nil {
			return models.UserCreatedPayload{}, err
		}
		if decoded.Email == "" {
			return models.UserCreatedPayload{}, fmt.Errorf("payload has no email")
		}
		return decoded, nil
	}
}

// handlerFunc is one durable pipeline bound to a step runner
type handlerFunc func(ctx context.Context, r *step.Runner) (*models.JobResult, error)

// runWithRetry executes a handler under a durable run record. A failed
// attempt is re-invoked with the same run ID so completed steps are skipped;
// after the configured attempts the run is marked failed.
func (s *Service) runWithRetry(ctx context.Context, jobID string, handler handlerFunc) (*models.JobResult, error) {
	runStorage := s.storage.RunStorage()

	run := &models.JobRun{
		ID:        common.NewRunID(),
		JobID:     jobID,
		Status:    models.RunStatusRunning,
		StartedAt: time.Now(),
	}
	if err := runStorage.SaveRun(run); err != nil {
		return nil, fmt.Errorf("failed to create run record: %w", err)
	}

	runner := step.NewRunner(run.ID, runStorage, s.logger)

	maxAttempts := s.config.Jobs.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var result *models.JobResult
	var lastErr error

attempts:
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		run.Attempts = attempt
		if err := runStorage.SaveRun(run); err != nil {
			s.logger.Warn().Err(err).Str("run_id", run.ID).Msg("Failed to update run record")
		}

		result, lastErr = handler(ctx, runner)
		if lastErr == nil {
			break
		}

		s.logger.Warn().
			Str("job_id", jobID).
			Str("run_id", run.ID).
			Int("attempt", attempt).
			Err(lastErr).
			Msg("Job attempt failed")

		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			lastErr = ctx.Err()
			break attempts
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}

	run.FinishedAt = time.Now()
	if lastErr != nil {
		run.Status = models.RunStatusFailed
		run.Error = lastErr.Error()
	} else {
		run.Status = models.RunStatusCompleted
		if err := run.SetResult(result); err != nil {
			s.logger.Warn().Err(err).Str("run_id", run.ID).Msg("Failed to encode run result")
		}
	}
	if err := runStorage.SaveRun(run); err != nil {
		s.logger.Warn().Err(err).Str("run_id", run.ID).Msg("Failed to finalize run record")
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return result, nil
}
