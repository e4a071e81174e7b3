package models

import "time"

// User represents a registered watchlist user eligible for notifications.
// Users are provisioned via seed files or the sign-up event; the pipeline
// itself never mutates them.
type User struct {
	ID        string    `json:"id" badgerhold:"key"`
	Email     string    `json:"email" badgerhold:"index"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`

	// Profile attributes captured at sign-up, used to personalize the
	// welcome email. All optional.
	Country           string `json:"country,omitempty"`
	InvestmentGoals   string `json:"investment_goals,omitempty"`
	RiskTolerance     string `json:"risk_tolerance,omitempty"`
	PreferredIndustry string `json:"preferred_industry,omitempty"`

	// NewsEmailOptOut excludes the user from the daily digest
	NewsEmailOptOut bool `json:"news_email_opt_out,omitempty"`
}

// UserCreatedPayload is the payload of the user.created event
type UserCreatedPayload struct {
	Email             string `json:"email"`
	Name              string `json:"name"`
	Country           string `json:"country,omitempty"`
	InvestmentGoals   string `json:"investment_goals,omitempty"`
	RiskTolerance     string `json:"risk_tolerance,omitempty"`
	PreferredIndustry string `json:"preferred_industry,omitempty"`
}

// Watchlist holds the symbols a user tracks, keyed by email
type Watchlist struct {
	Email     string    `json:"email" badgerhold:"key"`
	Symbols   []string  `json:"symbols"`
	UpdatedAt time.Time `json:"updated_at"`
}
