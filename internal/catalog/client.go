package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/litescript/ls-exoplanets/internal/metrics"
)

const (
	// DefaultBaseURL is the public catalog service.
	DefaultBaseURL = "https://peaceful-atoll-81477-9628d63c0d01.herokuapp.com"

	// DefaultTimeout for HTTP requests.
	DefaultTimeout = 30 * time.Second

	// DefaultFilterRate caps filter requests per second.
	DefaultFilterRate = 2.0

	catalogPath = "/api/data"
	filterPath  = "/api/data/filter/combined"
)

// ErrUnexpectedStatus is wrapped into errors for non-200 responses.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// Client talks to the catalog/filter service.
type Client struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
	limiter *rate.Limiter
	metrics *metrics.Metrics
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets the service root URL.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithFilterRate limits filter requests to perSecond, with a burst of one.
// A non-positive rate disables limiting.
func WithFilterRate(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithMetrics records request metrics.
func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a catalog service client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		limiter: rate.NewLimiter(rate.Limit(DefaultFilterRate), 1),
	}

	for _, opt := range opts {
		opt(c)
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")

	if c.client == nil {
		c.client = &http.Client{
			Timeout: c.timeout,
		}
	}

	return c
}

// FetchResult contains the result of a catalog fetch.
type FetchResult struct {
	Rows      []Row
	Dropped   int // rows without a hostname
	FetchedAt time.Time
	Duration  time.Duration
	Error     error
}

// FetchCatalog retrieves and parses the full catalog.
func (c *Client) FetchCatalog(ctx context.Context) FetchResult {
	start := time.Now()
	result := FetchResult{
		FetchedAt: start,
	}

	body, err := c.do(ctx, http.MethodGet, catalogPath, nil)
	result.Duration = time.Since(start)
	if err == nil {
		result.Rows, result.Dropped, err = ParseCatalog(body)
		if err != nil {
			err = fmt.Errorf("parse catalog: %w", err)
		}
	}
	c.metrics.ObserveRequest("catalog", result.Duration, err)
	result.Error = err

	return result
}

// Filter submits criteria to the combined filter endpoint and returns the
// names of matching planets. Criteria are validated before sending.
func (c *Client) Filter(ctx context.Context, criteria Criteria) ([]string, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for filter slot: %w", err)
		}
	}

	payload, err := json.Marshal(criteria.RequestBody())
	if err != nil {
		return nil, fmt.Errorf("encode filter request: %w", err)
	}

	start := time.Now()
	body, err := c.do(ctx, http.MethodPost, filterPath, payload)
	var names []string
	if err == nil {
		names, err = ParseFilterResponse(body)
	}
	c.metrics.ObserveRequest("filter", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", "ls-exoplanets/1.0 (Exoplanet Visualization Tool)")
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s %s: %w: %d", method, path, ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return body, nil
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}
