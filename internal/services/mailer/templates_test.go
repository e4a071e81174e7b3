package mailer

import (
	"strings"
	"testing"

	"github.com/signalist/notifier/internal/models"
)

func TestRenderWelcomeEmail(t *testing.T) {
	body, err := RenderWelcomeEmail(models.WelcomeEmail{
		Email: "alice@example.com",
		Name:  "Alice",
		Intro: "<p>Welcome to your new market toolkit.</p>",
	})
	if err != nil {
		t.Fatalf("Failed to render welcome email: %v", err)
	}

	if !strings.Contains(body, "Welcome aboard, Alice!") {
		t.Error("Expected greeting with user name")
	}
	if !strings.Contains(body, "<p>Welcome to your new market toolkit.</p>") {
		t.Error("Expected intro HTML injected without escaping")
	}
	if !strings.Contains(body, "Signalist") {
		t.Error("Expected brand name in body")
	}
}

func TestRenderWelcomeEmailEscapesName(t *testing.T) {
	body, err := RenderWelcomeEmail(models.WelcomeEmail{
		Name:  "<script>alert(1)</script>",
		Intro: "<p>hi</p>",
	})
	if err != nil {
		t.Fatalf("Failed to render welcome email: %v", err)
	}

	if strings.Contains(body, "<script>") {
		t.Error("Expected user-supplied name to be HTML-escaped")
	}
}

func TestRenderNewsSummaryEmail(t *testing.T) {
	body, err := RenderNewsSummaryEmail(models.NewsSummaryEmail{
		Email:       "alice@example.com",
		Date:        "Monday, August 31, 2026",
		NewsContent: "<h3>Markets rallied</h3><p>Broad gains across tech.</p>",
	})
	if err != nil {
		t.Fatalf("Failed to render news summary email: %v", err)
	}

	if !strings.Contains(body, "Market News Summary - Monday, August 31, 2026") {
		t.Error("Expected dated header line")
	}
	if !strings.Contains(body, "<h3>Markets rallied</h3>") {
		t.Error("Expected summary HTML injected without escaping")
	}
}
