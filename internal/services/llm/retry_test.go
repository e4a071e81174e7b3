package llm

import (
	"errors"
	"testing"
	"time"
)

func TestIsRateLimitError(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"429 status", errors.New("Error 429, Message: too many requests"), true},
		{"resource exhausted", errors.New("Status: RESOURCE_EXHAUSTED"), true},
		{"quota exceeded", errors.New("quota exceeded for model"), true},
		{"unrelated error", errors.New("connection refused"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRateLimitError(tc.err); got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestExtractRetryDelay(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected time.Duration
	}{
		{"nil error", nil, 0},
		{"no delay in message", errors.New("Error 429, Message: too many requests"), 0},
		{
			"gemini style",
			errors.New("Error 429, Message: You exceeded your current quota. Please retry in 45.387061394s., Status: RESOURCE_EXHAUSTED"),
			time.Duration(45.387061394 * float64(time.Second)),
		},
		{
			"retryDelay field",
			errors.New("rpc error: retryDelay: 30s"),
			30 * time.Second,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractRetryDelay(tc.err); got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestCalculateBackoff(t *testing.T) {
	config := NewDefaultRetryConfig()

	if got := config.CalculateBackoff(0, 0); got != DefaultInitialBackoff {
		t.Errorf("Expected initial backoff %v on first attempt, got %v", DefaultInitialBackoff, got)
	}

	// Second attempt multiplies but stays under the cap: 45s * 1.5 = 67.5s
	second := config.CalculateBackoff(1, 0)
	if second <= DefaultInitialBackoff {
		t.Errorf("Expected backoff to grow, got %v", second)
	}
	if second > DefaultMaxBackoff {
		t.Errorf("Expected backoff under cap, got %v", second)
	}

	// Deep attempts are capped
	if got := config.CalculateBackoff(10, 0); got != DefaultMaxBackoff {
		t.Errorf("Expected capped backoff %v, got %v", DefaultMaxBackoff, got)
	}

	// API-provided delay plus buffer is used as the base
	if got := config.CalculateBackoff(0, 20*time.Second); got != 25*time.Second {
		t.Errorf("Expected API delay plus buffer, got %v", got)
	}
}
