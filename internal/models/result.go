package models

// JobResult is the terminal value of one pipeline run, serializable as JSON
// for the run record and for observability.
type JobResult struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	SendResults *SendReport `json:"sendResults,omitempty"`
}

// SendReport aggregates the per-recipient dispatch outcomes of a broadcast
type SendReport struct {
	Total     int               `json:"total"`
	SentCount int               `json:"sentCount"`
	Details   []DispatchOutcome `json:"details"`
}

// DispatchOutcome records the result of attempting to email one recipient
type DispatchOutcome struct {
	Email  string      `json:"email"`
	Sent   bool        `json:"sent"`
	Reason string      `json:"reason,omitempty"` // "no-content" when no send was attempted
	Error  string      `json:"error,omitempty"`  // Stringified send failure
	Result *SendResult `json:"result,omitempty"` // Provider response on success
}

// SendResult is the mail provider's response for one accepted message
type SendResult struct {
	MessageID string `json:"message_id"`
	Server    string `json:"server"`
	Accepted  bool   `json:"accepted"`
}

// UserNews pairs a recipient with the articles fetched for them in the
// content stage. An empty Articles slice is a valid entry (fetch failed or
// nothing matched) and still flows to summarization.
type UserNews struct {
	User     User          `json:"user"`
	Articles []NewsArticle `json:"articles"`
}

// UserSummary pairs a recipient with their generated news content.
// A nil NewsContent marks a failed summarization; the dispatch stage turns
// it into a skipped outcome and never attempts a send.
type UserSummary struct {
	User        User    `json:"user"`
	NewsContent *string `json:"newsContent"`
}

// WelcomeEmail is the input to the welcome email dispatcher
type WelcomeEmail struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Intro string `json:"intro"`
}

// NewsSummaryEmail is the input to the daily summary email dispatcher
type NewsSummaryEmail struct {
	Email       string `json:"email"`
	Date        string `json:"date"`
	NewsContent string `json:"newsContent"`
}
