package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/signalist/notifier/internal/models"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL      = "https://eodhd.com/api"
	defaultTimeout      = 30 * time.Second
	defaultLookbackDays = 5
)

// Client fetches market news from the EODHD-compatible news endpoint
type Client struct {
	apiKey       string
	baseURL      string
	http         *http.Client
	limiter      *rate.Limiter
	lookbackDays int
	logger       arbor.ILogger
}

// NewClient creates a reusable market data client
func NewClient(apiKey string, logger arbor.ILogger, opts ...Option) *Client {
	c := &Client{
		apiKey:       apiKey,
		baseURL:      defaultBaseURL,
		http:         &http.Client{Timeout: defaultTimeout},
		lookbackDays: defaultLookbackDays,
		logger:       logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// newsItem is the wire format of one news entry
type newsItem struct {
	Date    string   `json:"date"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Link    string   `json:"link"`
	Symbols []string `json:"symbols"`
	Source  string   `json:"source,omitempty"`
}

// GetNews returns recent news for the given symbols, newest first.
// Symbols are queried as a comma-separated list; limit caps the number
// of returned articles.
func (c *Client) GetNews(ctx context.Context, symbols []string, limit int) ([]models.NewsArticle, error) {
	if len(symbols) == 0 {
		return c.GetGeneralNews(ctx, limit)
	}

	params := url.Values{}
	params.Set("s", strings.Join(symbols, ","))

	return c.fetchNews(ctx, params, limit)
}

// GetGeneralNews returns broad market news not tied to specific symbols
func (c *Client) GetGeneralNews(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	params := url.Values{}
	params.Set("t", "general")

	return c.fetchNews(ctx, params, limit)
}

func (c *Client) fetchNews(ctx context.Context, params url.Values, limit int) ([]models.NewsArticle, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("market api key is not configured")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	if limit <= 0 {
		limit = 10
	}

	from := time.Now().AddDate(0, 0, -c.lookbackDays).Format("2006-01-02")
	params.Set("api_token", c.apiKey)
	params.Set("from", from)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fmt", "json")

	endpoint := fmt.Sprintf("%s/news?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build news request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read news response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, &RateLimitError{APIError: apiErr}
		}
		return nil, apiErr
	}

	var items []newsItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to decode news response: %w", err)
	}

	articles := make([]models.NewsArticle, 0, len(items))
	for _, item := range items {
		article := models.NewsArticle{
			Headline: item.Title,
			Summary:  summarizeContent(item.Content),
			Source:   item.Source,
			URL:      item.Link,
			Symbols:  item.Symbols,
		}
		if ts, err := parseNewsDate(item.Date); err == nil {
			article.Date = ts
		}
		articles = append(articles, article)
	}

	c.logger.Debug().
		Int("count", len(articles)).
		Msg("Fetched market news")

	return articles, nil
}

// summarizeContent trims article bodies down to a prompt-friendly excerpt
func summarizeContent(content string) string {
	const maxLen = 500

	content = strings.TrimSpace(content)
	if len(content) <= maxLen {
		return content
	}

	cut := content[:maxLen]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}

// parseNewsDate handles the timestamp formats the news endpoint returns
func parseNewsDate(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", value)
}
