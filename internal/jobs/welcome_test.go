package jobs

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalist/notifier/internal/models"
	"github.com/signalist/notifier/internal/services/content"
)

func TestSignUpEmailHappyPath(t *testing.T) {
	storage := newMockStorageManager()
	contentSvc := &mockContentService{
		introFn: func(profile models.UserCreatedPayload) (models.ModelResponse, error) {
			return models.TextResponse("<p>Hello Alice, welcome aboard.</p>"), nil
		},
	}
	mail := &mockMailer{}

	service := newTestService(storage, contentSvc, mail, &mockNewsClient{}, testConfig())

	result, err := service.SendSignUpEmail(context.Background(), models.UserCreatedPayload{
		Email: "alice@example.com",
		Name:  "Alice",
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Success)
	assert.Equal(t, "Welcome email sent successfully", result.Message)

	require.Len(t, mail.welcomeSent, 1)
	assert.Equal(t, "alice@example.com", mail.welcomeSent[0].Email)
	assert.Equal(t, "Alice", mail.welcomeSent[0].Name)
	assert.Equal(t, "<p>Hello Alice, welcome aboard.</p>", mail.welcomeSent[0].Intro)
}

func TestSignUpEmailFallbackIntro(t *testing.T) {
	storage := newMockStorageManager()
	contentSvc := &mockContentService{
		introFn: func(profile models.UserCreatedPayload) (models.ModelResponse, error) {
			return models.ModelResponse{}, nil
		},
	}
	mail := &mockMailer{}

	service := newTestService(storage, contentSvc, mail, &mockNewsClient{}, testConfig())

	result, err := service.SendSignUpEmail(context.Background(), models.UserCreatedPayload{
		Email: "alice@example.com",
		Name:  "Alice",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)

	require.Len(t, mail.welcomeSent, 1)
	assert.Equal(t, content.FallbackWelcomeIntro, mail.welcomeSent[0].Intro)
}

func TestSignUpEmailModelFailureFailsRun(t *testing.T) {
	storage := newMockStorageManager()
	contentSvc := &mockContentService{
		introFn: func(profile models.UserCreatedPayload) (models.ModelResponse, error) {
			return models.ModelResponse{}, fmt.Errorf("model overloaded")
		},
	}
	mail := &mockMailer{}

	cfg := testConfig()
	cfg.Jobs.MaxAttempts = 2

	service := newTestService(storage, contentSvc, mail, &mockNewsClient{}, cfg)

	result, err := service.SendSignUpEmail(context.Background(), models.UserCreatedPayload{
		Email: "alice@example.com",
		Name:  "Alice",
	})
	require.Error(t, err)
	assert.Nil(t, result)

	assert.Equal(t, 2, contentSvc.introCalls, "a failed intro step re-executes on every attempt")
	assert.Empty(t, mail.welcomeSent, "no email is sent when the intro never materializes")

	runs, err := storage.run.GetRunsByJobID(JobIDSignUpEmail)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, models.RunStatusFailed, runs[0].Status)
	assert.Equal(t, 2, runs[0].Attempts)
	assert.Contains(t, runs[0].Error, "model overloaded")
}

func TestSignUpEmailRetryDoesNotRegenerateIntro(t *testing.T) {
	storage := newMockStorageManager()
	contentSvc := &mockContentService{}

	sendAttempts := 0
	mail := &mockMailer{
		welcomeFn: func(email models.WelcomeEmail) (*models.SendResult, error) {
			sendAttempts++
			if sendAttempts == 1 {
				return nil, fmt.Errorf("connection reset")
			}
			return &models.SendResult{MessageID: "<retry@localhost>", Accepted: true}, nil
		},
	}

	cfg := testConfig()
	cfg.Jobs.MaxAttempts = 2

	service := newTestService(storage, contentSvc, mail, &mockNewsClient{}, cfg)

	result, err := service.SendSignUpEmail(context.Background(), models.UserCreatedPayload{
		Email: "alice@example.com",
		Name:  "Alice",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)

	assert.Equal(t, 1, contentSvc.introCalls, "completed intro step must be skipped on retry")
	assert.Equal(t, 2, sendAttempts)
	require.Len(t, mail.welcomeSent, 1, "second attempt delivers exactly one email")

	runs, err := storage.run.GetRunsByJobID(JobIDSignUpEmail)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, models.RunStatusCompleted, runs[0].Status)
	assert.Equal(t, 2, runs[0].Attempts)
}
