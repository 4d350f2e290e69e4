// Package api talks to the argument analysis backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/f3rmion/pnc/internal/analysis"
)

const (
	// DefaultBaseURL is the production backend.
	DefaultBaseURL = "https://pe-no-chao-backend-production.up.railway.app"

	analysesPath = "/api/v1/analyses"
)

// Client is an analysis API client. It sends exactly one request per call:
// no retries, caching or deduplication of concurrent calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport. Timeouts belong to the transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the timeout of the default transport. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// request is the analyses request body.
type request struct {
	Text string `json:"text"`
}

// NewClient creates a client for baseURL, or DefaultBaseURL when empty.
func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Analyze posts text to the backend and returns the raw JSON body.
//
// Any transport failure or non-2xx status is a KindNetworkOrServer error; the
// body of a failed response is not parsed. A 2xx body that is not JSON is a
// KindMalformedResult error. The shape of the body is not checked here.
func (c *Client) Analyze(ctx context.Context, text string) (json.RawMessage, error) {
	body, err := json.Marshal(request{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+analysesPath, bytes.NewReader(body))
	if err != nil {
		return nil, analysis.NewError(analysis.KindNetworkOrServer, fmt.Errorf("creating request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, analysis.NewError(analysis.KindNetworkOrServer, fmt.Errorf("making request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &analysis.Error{
			Kind:   analysis.KindNetworkOrServer,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &analysis.Error{
			Kind:   analysis.KindNetworkOrServer,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("reading response: %w", err),
		}
	}

	if !json.Valid(respBody) {
		return nil, &analysis.Error{
			Kind:   analysis.KindMalformedResult,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("response body is not JSON"),
		}
	}

	return json.RawMessage(respBody), nil
}
