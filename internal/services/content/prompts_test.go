package content

import (
	"strings"
	"testing"

	"github.com/signalist/notifier/internal/models"
)

func TestBuildUserProfile(t *testing.T) {
	profile := models.UserCreatedPayload{
		Email:             "alice@example.com",
		Name:              "Alice",
		Country:           "Australia",
		InvestmentGoals:   "Growth",
		RiskTolerance:     "Medium",
		PreferredIndustry: "Technology",
	}

	block := BuildUserProfile(profile)

	for _, line := range []string{
		"- Country: Australia",
		"- Investment goals: Growth",
		"- Risk Tolerance: Medium",
		"- Preferred industry: Technology",
	} {
		if !strings.Contains(block, line) {
			t.Errorf("Expected profile block to contain %q, got:\n%s", line, block)
		}
	}
}

func TestBuildUserProfileEmptyFields(t *testing.T) {
	block := BuildUserProfile(models.UserCreatedPayload{Email: "bare@example.com"})

	if !strings.Contains(block, "- Country: \n") {
		t.Errorf("Expected empty country value, got:\n%s", block)
	}
	if !strings.Contains(block, "- Preferred industry: ") {
		t.Errorf("Expected empty industry value, got:\n%s", block)
	}
}

func TestBuildWelcomePrompt(t *testing.T) {
	prompt := BuildWelcomePrompt(models.UserCreatedPayload{Country: "Canada"})

	if strings.Contains(prompt, "{{userProfile}}") {
		t.Error("Expected profile placeholder to be replaced")
	}
	if !strings.Contains(prompt, "- Country: Canada") {
		t.Error("Expected profile block in prompt")
	}
	if !strings.Contains(prompt, "Signalist") {
		t.Error("Expected product name in prompt")
	}
}

func TestBuildNewsSummaryPrompt(t *testing.T) {
	articles := []models.NewsArticle{
		{Headline: "Fed holds rates", Summary: "No change.", Source: "Test Wire", URL: "https://news.example/fed"},
	}

	prompt, err := BuildNewsSummaryPrompt(articles)
	if err != nil {
		t.Fatalf("Failed to build prompt: %v", err)
	}

	if strings.Contains(prompt, "{{newsData}}") {
		t.Error("Expected news placeholder to be replaced")
	}
	if !strings.Contains(prompt, `"headline": "Fed holds rates"`) {
		t.Errorf("Expected serialized article in prompt, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "https://news.example/fed") {
		t.Error("Expected article URL in prompt")
	}
}

func TestBuildNewsSummaryPromptEmptyArticles(t *testing.T) {
	for _, articles := range [][]models.NewsArticle{nil, {}} {
		prompt, err := BuildNewsSummaryPrompt(articles)
		if err != nil {
			t.Fatalf("Failed to build prompt: %v", err)
		}
		if !strings.Contains(prompt, "[]") {
			t.Error("Expected empty article list to serialize as []")
		}
	}
}
