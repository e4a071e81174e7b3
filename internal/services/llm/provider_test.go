package llm

import (
	"testing"

	"github.com/signalist/notifier/internal/common"
	"github.com/ternarybob/arbor"
)

func newTestFactory(defaultProvider common.LLMProvider) *ProviderFactory {
	return NewProviderFactory(
		&common.GeminiConfig{Model: "gemini-2.5-flash-lite", RateLimit: "4s", Temperature: 0.7},
		&common.ClaudeConfig{Model: "claude-haiku-3-5-20241022", MaxTokens: 2048, Temperature: 0.7},
		&common.LLMConfig{DefaultProvider: defaultProvider},
		nil,
		arbor.NewLogger(),
	)
}

func TestDetectProvider(t *testing.T) {
	factory := newTestFactory(common.LLMProviderGemini)

	cases := []struct {
		model    string
		expected ProviderType
	}{
		{"claude-haiku-3-5-20241022", ProviderClaude},
		{"claude/claude-haiku-3-5-20241022", ProviderClaude},
		{"anthropic/claude-sonnet-4", ProviderClaude},
		{"Claude-Opus-4", ProviderClaude},
		{"gemini-2.5-flash-lite", ProviderGemini},
		{"gemini/gemini-2.5-flash-lite", ProviderGemini},
		{"google/gemini-2.5-pro", ProviderGemini},
		{"", ProviderGemini},
		{"unknown-model", ProviderGemini},
	}

	for _, tc := range cases {
		if got := factory.DetectProvider(tc.model); got != tc.expected {
			t.Errorf("DetectProvider(%q): expected %s, got %s", tc.model, tc.expected, got)
		}
	}
}

func TestDetectProviderUsesConfiguredDefault(t *testing.T) {
	factory := newTestFactory(common.LLMProviderClaude)

	if got := factory.DetectProvider(""); got != ProviderClaude {
		t.Errorf("Expected configured default claude, got %s", got)
	}
	if got := factory.DetectProvider("unknown-model"); got != ProviderClaude {
		t.Errorf("Expected configured default claude for unknown model, got %s", got)
	}
}

func TestNormalizeModel(t *testing.T) {
	factory := newTestFactory(common.LLMProviderGemini)

	cases := []struct {
		model    string
		expected string
	}{
		{"claude/claude-haiku-3-5-20241022", "claude-haiku-3-5-20241022"},
		{"anthropic/claude-sonnet-4", "claude-sonnet-4"},
		{"gemini/gemini-2.5-flash-lite", "gemini-2.5-flash-lite"},
		{"google/gemini-2.5-pro", "gemini-2.5-pro"},
		{"gemini-2.5-flash-lite", "gemini-2.5-flash-lite"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := factory.NormalizeModel(tc.model); got != tc.expected {
			t.Errorf("NormalizeModel(%q): expected %q, got %q", tc.model, tc.expected, got)
		}
	}
}

func TestGetDefaultModel(t *testing.T) {
	factory := newTestFactory(common.LLMProviderGemini)

	if got := factory.GetDefaultModel(ProviderClaude); got != "claude-haiku-3-5-20241022" {
		t.Errorf("Expected claude default model, got %q", got)
	}
	if got := factory.GetDefaultModel(ProviderGemini); got != "gemini-2.5-flash-lite" {
		t.Errorf("Expected gemini default model, got %q", got)
	}
}
