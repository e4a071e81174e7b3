package content

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/signalist/notifier/internal/models"
)

// FallbackWelcomeIntro is used when the model returns no usable text for
// the welcome email
const FallbackWelcomeIntro = "Thanks for joining Signalist. You now have the tools to track the market and make smarter moves."

// NoMarketNewsContent is used when the model returns no usable text for
// the daily summary
const NoMarketNewsContent = "No market news"

// personalizedWelcomePrompt asks the model for a short welcome paragraph
// tailored to the investor profile captured at sign-up
const personalizedWelcomePrompt = `You are writing a short personalized welcome paragraph for a new user of Signalist, a stock market watchlist and alerts app.

User profile:
{{userProfile}}

Write 2-3 sentences welcoming them and connecting Signalist's features to their profile. Plain HTML only: wrap the paragraph in a single <p> tag, no markdown, no headings, no links. Keep it warm and concrete, not salesy. If the profile is mostly empty, write a friendly generic welcome instead of guessing.`

// newsSummaryPrompt asks the model for an HTML digest of the day's articles
const newsSummaryPrompt = `You are a financial newsletter writer for Signalist, a stock market watchlist app.

Summarize the following market news articles into a short daily digest email body.

News data:
{{newsData}}

Rules:
- Output clean HTML fragments only (<h3>, <p>, <ul>, <li>, <a>). No <html> or <body> tags, no markdown.
- Group related stories and lead with the most market-moving news.
- Keep it under 300 words, neutral in tone, no investment advice.
- Link each story to its source URL where one is provided.
- If the news data is empty, say in one sentence that there is no relevant market news today.`

// BuildUserProfile renders the sign-up attributes into the profile block
// the welcome prompt expects. Missing fields render as empty values.
func BuildUserProfile(profile models.UserCreatedPayload) string {
	return fmt.Sprintf(`
        - Country: %s
        - Investment goals: %s
        - Risk Tolerance: %s
        - Preferred industry: %s
    `, profile.Country, profile.InvestmentGoals, profile.RiskTolerance, profile.PreferredIndustry)
}

// BuildWelcomePrompt interpolates the user profile into the welcome prompt
func BuildWelcomePrompt(profile models.UserCreatedPayload) string {
	return strings.Replace(personalizedWelcomePrompt, "{{userProfile}}", BuildUserProfile(profile), 1)
}

// BuildNewsSummaryPrompt interpolates the JSON-serialized articles into the
// summary prompt
func BuildNewsSummaryPrompt(articles []models.NewsArticle) (string, error) {
	if articles == nil {
		articles = []models.NewsArticle{}
	}

	data, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize articles: %w", err)
	}

	return strings.Replace(newsSummaryPrompt, "{{newsData}}", string(data), 1), nil
}
