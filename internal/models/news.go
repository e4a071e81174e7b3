package models

import "time"

// NewsArticle is one market news item as returned by the news source.
// Field order matters to nobody but the prompt template, which embeds the
// JSON-serialized article list verbatim.
type NewsArticle struct {
	Headline string    `json:"headline"`
	Summary  string    `json:"summary"`
	Source   string    `json:"source"`
	URL      string    `json:"url"`
	Symbols  []string  `json:"symbols,omitempty"`
	Date     time.Time `json:"date,omitempty"`
}
