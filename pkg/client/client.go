package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader is the HTTP header carrying the per-request correlation id
const RequestIDHeader = "X-Request-ID"

// Client is the Mission Control backend API client
type Client struct {
	baseURL       string
	socialBaseURL string
	httpClient    *http.Client
	observer      Observer
}

// Observer is notified after every request that obtained a response.
// status is 0 when no response was obtained.
type Observer func(method, path string, status int, elapsed time.Duration)

// Config holds the client configuration
type Config struct {
	BaseURL       string        // API base URL (e.g., "http://localhost:8000")
	SocialBaseURL string        // Origin used for social login redirects (default: BaseURL)
	Timeout       time.Duration // HTTP client timeout (default: 30s)
	HTTPClient    *http.Client  // Optional custom HTTP client
	Observer      Observer      // Optional request observer (metrics)
}

// NewClient creates a new API client
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
		}
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	social := strings.TrimRight(cfg.SocialBaseURL, "/")
	if social == "" {
		social = base
	}

	return &Client{
		baseURL:       base,
		socialBaseURL: social,
		httpClient:    httpClient,
		observer:      cfg.Observer,
	}
}

// BaseURL returns the configured API origin
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTPClient returns the underlying HTTP client
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// doRequest performs an HTTP request and decodes a JSON response.
// Transport problems come back as *TransportError, non-2xx responses as *APIError.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.New().String())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, path, 0, start)
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()
	c.observe(method, path, resp.StatusCode, start)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		// A body that is not JSON simply leaves Detail empty.
		_ = json.Unmarshal(respBody, apiErr)
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return &TransportError{Method: method, Path: path, Err: fmt.Errorf("failed to parse response: %w", err)}
		}
	}

	return nil
}

func (c *Client) observe(method, path string, status int, start time.Time) {
	if c.observer != nil {
		c.observer(method, path, status, time.Since(start))
	}
}

// Dashboard returns the dashboard service
func (c *Client) Dashboard() *DashboardService {
	return &DashboardService{client: c}
}
