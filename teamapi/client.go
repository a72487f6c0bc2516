package teamapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	generatePath    = "/generate"
	simulatePath    = "/simulate"
	maxResponseSize = 8 << 20
	userAgent       = "footbot/1.0"
)

var (
	ErrMalformedResponse = errors.New("remote API returned malformed JSON")
	ErrEmptyBaseURL      = errors.New("remote API base URL is empty")
)

// StatusError is returned for non-2xx answers.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote API responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote API responded with status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the remote team-builder API. The base URL is passed per
// call because each browser session may select its own deployment.
type Client interface {
	Generate(ctx context.Context, baseURL string, req GenerateRequest) (*GenerateResponse, error)
	Simulate(ctx context.Context, baseURL string, req SimulateRequest) (*SimulateResponse, error)
}

type httpClient struct {
	httpClient *http.Client
}

// NewClient wraps hc, or a default client when hc is nil. No timeout or
// retry is applied: cancellation comes from the caller's context.
func NewClient(hc *http.Client) Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &httpClient{httpClient: hc}
}

func (c *httpClient) Generate(ctx context.Context, baseURL string, req GenerateRequest) (*GenerateResponse, error) {
	var resp GenerateResponse
	if err := c.post(ctx, baseURL, generatePath, req, &resp); err != nil {
		return nil, fmt.Errorf("generate teams: %w", err)
	}
	return &resp, nil
}

func (c *httpClient) Simulate(ctx context.Context, baseURL string, req SimulateRequest) (*SimulateResponse, error) {
	var resp SimulateResponse
	if err := c.post(ctx, baseURL, simulatePath, req, &resp); err != nil {
		return nil, fmt.Errorf("simulate match: %w", err)
	}
	return &resp, nil
}

func (c *httpClient) post(ctx context.Context, baseURL, path string, payload, result interface{}) error {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return ErrEmptyBaseURL
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}
