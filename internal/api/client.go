package api

import (
	"log/slog"
	"net/http"
	"time"
)

// Client provides access to the Polygon reference REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries int
	backoff    Policy
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:     slog.Default(),
		maxRetries: 3,
		backoff:    ExponentialBackoff(time.Second, time.Minute),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry cap and the base delay of the default
// exponential backoff.
func WithRetries(max int, base time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.backoff = ExponentialBackoff(base, time.Minute)
	}
}

// WithBackoffPolicy replaces the retry delay policy.
func WithBackoffPolicy(p Policy) ClientOption {
	return func(c *Client) {
		c.backoff = p
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}
