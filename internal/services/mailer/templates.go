package mailer

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/signalist/notifier/internal/models"
)

// The model output embedded in these templates is HTML generated under our
// own prompts, so it is injected unescaped via template.HTML.

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:0;background-color:#0b0e14;font-family:Arial,Helvetica,sans-serif;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="background-color:#0b0e14;padding:32px 0;">
    <tr>
      <td align="center">
        <table role="presentation" width="600" cellpadding="0" cellspacing="0" style="background-color:#141821;border-radius:12px;padding:40px;">
          <tr>
            <td style="padding-bottom:24px;">
              <span style="color:#facc15;font-size:22px;font-weight:bold;">Signalist</span>
            </td>
          </tr>
          <tr>
            <td style="color:#e5e7eb;font-size:22px;font-weight:bold;padding-bottom:16px;">
              Welcome aboard, {{.Name}}!
            </td>
          </tr>
          <tr>
            <td style="color:#9ca3af;font-size:15px;line-height:24px;padding-bottom:24px;">
              {{.Intro}}
            </td>
          </tr>
          <tr>
            <td style="color:#9ca3af;font-size:15px;line-height:24px;padding-bottom:24px;">
              Here's what you can do right now:
              <ul style="margin:12px 0 0;padding-left:20px;color:#9ca3af;">
                <li style="padding-bottom:8px;">Build your watchlist and track the stocks you care about</li>
                <li style="padding-bottom:8px;">Set price alerts so you never miss a move</li>
                <li>Get daily market news summaries tailored to your portfolio</li>
              </ul>
            </td>
          </tr>
          <tr>
            <td style="color:#4b5563;font-size:12px;padding-top:24px;border-top:1px solid #1f2430;">
              You are receiving this email because you signed up for Signalist.
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`))

var newsSummaryTemplate = template.Must(template.New("news_summary").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:0;background-color:#0b0e14;font-family:Arial,Helvetica,sans-serif;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="background-color:#0b0e14;padding:32px 0;">
    <tr>
      <td align="center">
        <table role="presentation" width="600" cellpadding="0" cellspacing="0" style="background-color:#141821;border-radius:12px;padding:40px;">
          <tr>
            <td style="padding-bottom:8px;">
              <span style="color:#facc15;font-size:22px;font-weight:bold;">Signalist</span>
            </td>
          </tr>
          <tr>
            <td style="color:#6b7280;font-size:13px;padding-bottom:24px;">
              Market News Summary - {{.Date}}
            </td>
          </tr>
          <tr>
            <td style="color:#d1d5db;font-size:15px;line-height:24px;padding-bottom:24px;">
              {{.NewsContent}}
            </td>
          </tr>
          <tr>
            <td style="color:#4b5563;font-size:12px;padding-top:24px;border-top:1px solid #1f2430;">
              You are receiving this summary because news emails are enabled on your Signalist account.
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`))

// welcomeData is the template input for the welcome email
type welcomeData struct {
	Name  string
	Intro template.HTML
}

// newsSummaryData is the template input for the daily summary email
type newsSummaryData struct {
	Date        string
	NewsContent template.HTML
}

// RenderWelcomeEmail renders the sign-up email body
func RenderWelcomeEmail(email models.WelcomeEmail) (string, error) {
	var buf strings.Builder
	data := welcomeData{
		Name:  email.Name,
		Intro: template.HTML(email.Intro),
	}
	if err := welcomeTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute welcome template: %w", err)
	}
	return buf.String(), nil
}

// RenderNewsSummaryEmail renders the daily summary email body
func RenderNewsSummaryEmail(email models.NewsSummaryEmail) (string, error) {
	var buf strings.Builder
	data := newsSummaryData{
		Date:        email.Date,
		NewsContent: template.HTML(email.NewsContent),
	}
	if err := newsSummaryTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute news summary template: %w", err)
	}
	return buf.String(), nil
}
