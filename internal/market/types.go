package market

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// APIError represents a non-2xx response from the market data API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("market api error: status %d: %s", e.StatusCode, e.Message)
}

// RateLimitError indicates the API rejected the request for quota reasons
type RateLimitError struct {
	*APIError
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("market api rate limited: status %d: %s", e.StatusCode, e.Message)
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithBaseURL overrides the API base URL, mainly for tests
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithRateLimit caps outgoing requests per second
func WithRateLimit(requestsPerSecond int) Option {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithLookbackDays sets how far back news queries reach
func WithLookbackDays(days int) Option {
	return func(c *Client) {
		if days > 0 {
			c.lookbackDays = days
		}
	}
}
