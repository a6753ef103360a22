// Package client is an HTTP client for the assistant REST API. It wraps
// every endpoint in typed methods and routes requests through a circuit
// breaker so a down or failing server does not cascade into the caller.
//
// Transport errors and 5xx responses count as breaker failures; 4xx
// responses are the caller's problem and leave the breaker closed.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned when the circuit breaker rejects a request
// without attempting it.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to a single assistant API server.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	breaker *gobreaker.CircuitBreaker
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithBreakerSettings replaces the default circuit breaker settings.
func WithBreakerSettings(settings gobreaker.Settings) Option {
	return func(c *Client) { c.breaker = gobreaker.NewCircuitBreaker(settings) }
}

// New creates a client for the API at baseURL, e.g. "http://127.0.0.1:6565".
//
// The default breaker opens after 3 consecutive failures, stays open for
// 30 seconds, and closes again after 2 successful probes.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "assistant-api",
			MaxRequests: 2,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		})
	}
	return c
}

// BreakerState returns the current breaker state: "closed", "open", or
// "half-open".
func (c *Client) BreakerState() string {
	switch c.breaker.State() {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateOpen:
		return "open"
	case gobreaker.StateHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// listEnvelope matches the server's list response wrapper.
type listEnvelope[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// do issues one request through the breaker. A nil out skips body decoding.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	v, err := c.breaker.Execute(func() (interface{}, error) {
		return c.roundTrip(ctx, method, path, query, body, out)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return ErrCircuitOpen
		}
		return err
	}
	if apiErr, ok := v.(*APIError); ok && apiErr != nil {
		return apiErr
	}
	return nil
}

// roundTrip performs the HTTP exchange. It returns an error only for
// failures that should count against the breaker; client-level 4xx errors
// come back as a non-nil *APIError result instead.
func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body, out interface{}) (interface{}, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
		var envelope struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr == nil && envelope.Error != "" {
			apiErr.Message = envelope.Error
			apiErr.Code = envelope.Code
		}
		if resp.StatusCode >= 500 {
			return nil, apiErr
		}
		return apiErr, nil
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return (*APIError)(nil), nil
}
