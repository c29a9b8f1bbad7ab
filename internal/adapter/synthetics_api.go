package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	m "github.com/synthci/synthci/internal/model"
)

const (
	defaultHTTPTimeout = 60 * time.Second
	defaultMaxRetries  = 3
	maxResponseBytes   = 10 << 20
	syntheticsAPIPath  = "/api/v1/synthetics"
)

// SyntheticsAPI abstracts the Datadog Synthetics CI endpoints the executor
// depends on.
type SyntheticsAPI interface {
	// GetTest fetches a test definition. A missing test yields an error for
	// which IsNotFound returns true.
	GetTest(ctx context.Context, publicID string) (m.Test, error)
	// SearchTests returns the public IDs of the tests matching query.
	SearchTests(ctx context.Context, query string) ([]string, error)
	// TriggerTests starts a CI batch and returns its ID.
	TriggerTests(ctx context.Context, req TriggerRequest) (string, error)
	// GetBatch returns the current state of a batch.
	GetBatch(ctx context.Context, batchID string) (Batch, error)
	// GetOrgSettings returns the organization's Synthetics settings.
	GetOrgSettings(ctx context.Context) (m.OrgSettings, error)
}

// TriggerRequest is the payload of a CI trigger.
type TriggerRequest struct {
	Tests    []TriggerTest `json:"tests"`
	Metadata *CIMetadata   `json:"metadata,omitempty"`
}

// TriggerTest is one test to trigger along with its overrides.
type TriggerTest struct {
	PublicID      string            `json:"public_id"`
	ExecutionRule m.ExecutionRule   `json:"executionRule,omitempty"`
	StartURL      string            `json:"startUrl,omitempty"`
	Variables     map[string]string `json:"variables,omitempty"`
	Locations     []string          `json:"locations,omitempty"`
}

// Batch is the state of a triggered batch.
type Batch struct {
	Status  m.ResultStatus `json:"status"`
	Results []BatchResult  `json:"results"`
}

// BatchResult is the state of a single test execution inside a batch.
type BatchResult struct {
	TestPublicID  string          `json:"test_public_id"`
	TestName      string          `json:"test_name"`
	TestType      string          `json:"test_type"`
	ResultID      string          `json:"result_id"`
	Status        m.ResultStatus  `json:"status"`
	ExecutionRule m.ExecutionRule `json:"execution_rule"`
	Location      string          `json:"location"`
	DurationMs    float64         `json:"duration"`
	TimedOut      bool            `json:"timed_out"`
	Unhealthy     bool            `json:"unhealthy"`
	Retries       int             `json:"retries"`
}

// APIError is returned for any non-2xx response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is an API 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}

	return false
}

// SyntheticsClient implements SyntheticsAPI over HTTP.
type SyntheticsClient struct {
	baseURL    string
	apiKey     string
	appKey     string
	userAgent  string
	httpClient *http.Client
	maxRetries uint64
	newBackOff func() backoff.BackOff
}

// SyntheticsClientOption customizes a SyntheticsClient.
type SyntheticsClientOption func(*SyntheticsClient)

// WithBaseURL overrides the API base URL derived from the site.
func WithBaseURL(baseURL string) SyntheticsClientOption {
	return func(c *SyntheticsClient) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) SyntheticsClientOption {
	return func(c *SyntheticsClient) {
		c.httpClient = client
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) SyntheticsClientOption {
	return func(c *SyntheticsClient) {
		c.userAgent = userAgent
	}
}

// WithRetries sets how many times a retryable request is retried and the
// backoff policy between attempts.
func WithRetries(maxRetries uint64, newBackOff func() backoff.BackOff) SyntheticsClientOption {
	return func(c *SyntheticsClient) {
		c.maxRetries = maxRetries
		c.newBackOff = newBackOff
	}
}

// NewSyntheticsClient constructs a client for the given Datadog site.
func NewSyntheticsClient(site, apiKey, appKey string, opts ...SyntheticsClientOption) *SyntheticsClient {
	client := &SyntheticsClient{
		baseURL:    "https://api." + site,
		apiKey:     apiKey,
		appKey:     appKey,
		userAgent:  "synthci",
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		maxRetries: defaultMaxRetries,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// GetTest implements SyntheticsAPI.
func (c *SyntheticsClient) GetTest(ctx context.Context, publicID string) (m.Test, error) {
	var payload struct {
		PublicID string `json:"public_id"`
		Name     string `json:"name"`
		Type     string `json:"type"`
		Options  struct {
			CI struct {
				ExecutionRule m.ExecutionRule `json:"executionRule"`
			} `json:"ci"`
		} `json:"options"`
	}

	if err := c.do(ctx, http.MethodGet, "/tests/"+url.PathEscape(publicID), nil, nil, &payload); err != nil {
		return m.Test{}, err
	}

	return m.Test{
		PublicID:      payload.PublicID,
		Name:          payload.Name,
		Type:          payload.Type,
		ExecutionRule: payload.Options.CI.ExecutionRule,
	}, nil
}

// SearchTests implements SyntheticsAPI.
func (c *SyntheticsClient) SearchTests(ctx context.Context, query string) ([]string, error) {
	var payload struct {
		Tests []struct {
			PublicID string `json:"public_id"`
		} `json:"tests"`
	}

	params := url.Values{}
	params.Set("text", query)

	if err := c.do(ctx, http.MethodGet, "/tests/search", params, nil, &payload); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(payload.Tests))
	for _, test := range payload.Tests {
		ids = append(ids, test.PublicID)
	}

	return ids, nil
}

// TriggerTests implements SyntheticsAPI.
func (c *SyntheticsClient) TriggerTests(ctx context.Context, req TriggerRequest) (string, error) {
	var payload struct {
		BatchID string `json:"batch_id"`
	}

	if err := c.do(ctx, http.MethodPost, "/tests/trigger/ci", nil, req, &payload); err != nil {
		return "", err
	}

	if payload.BatchID == "" {
		return "", fmt.Errorf("trigger response did not contain a batch id")
	}

	return payload.BatchID, nil
}

// GetBatch implements SyntheticsAPI.
func (c *SyntheticsClient) GetBatch(ctx context.Context, batchID string) (Batch, error) {
	var payload struct {
		Data Batch `json:"data"`
	}

	if err := c.do(ctx, http.MethodGet, "/ci/batch/"+url.PathEscape(batchID), nil, nil, &payload); err != nil {
		return Batch{}, err
	}

	return payload.Data, nil
}

// GetOrgSettings implements SyntheticsAPI.
func (c *SyntheticsClient) GetOrgSettings(ctx context.Context) (m.OrgSettings, error) {
	var payload struct {
		OnDemandConcurrencyCap int `json:"onDemandConcurrencyCap"`
	}

	if err := c.do(ctx, http.MethodGet, "/settings", nil, nil, &payload); err != nil {
		return m.OrgSettings{}, err
	}

	return m.OrgSettings{OnDemandConcurrencyCap: payload.OnDemandConcurrencyCap}, nil
}

func (c *SyntheticsClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}

		payload = encoded
	}

	endpoint := c.baseURL + syntheticsAPIPath + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	attempt := 0
	operation := func() error {
		attempt++

		err := c.send(ctx, method, endpoint, path, payload, out)
		if err != nil {
			slog.Debug("Synthetics API request failed", "method", method, "path", path, "attempt", attempt, "error", err)
		}

		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.maxRetries), ctx)

	return backoff.Retry(operation, policy)
}

func (c *SyntheticsClient) send(ctx context.Context, method, endpoint, path string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
	}

	req.Header.Set("DD-API-KEY", c.apiKey)
	req.Header.Set("DD-APPLICATION-KEY", c.appKey)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The request may have reached the server, so a trigger is not resent.
		if ctx.Err() != nil || !isIdempotent(method) {
			return backoff.Permanent(err)
		}

		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(data)}
		if isRetryableStatus(method, resp.StatusCode) {
			return apiErr
		}

		return backoff.Permanent(apiErr)
	}

	if out == nil || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return backoff.Permanent(fmt.Errorf("failed to decode %s response: %w", path, err))
	}

	return nil
}

// isRetryableStatus reports whether a failed request can be sent again. A
// rate-limited request was never processed; a 5xx on a trigger may follow an
// accepted batch, so only idempotent requests retry on server errors.
func isRetryableStatus(method string, status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}

	return isIdempotent(method) && status >= http.StatusInternalServerError
}

func isIdempotent(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}
