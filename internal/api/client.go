// Package api implements the HTTP client used by every store to talk to
// the SmartCareer API. It attaches bearer credentials, speaks the JSON
// envelope of the server and maps failures onto a small typed taxonomy
// (NetworkError, HTTPError, ParseError).
//
// The client is deliberately stateless: it reads the current access token
// from a TokenSource at call time and never retries on 401. The refresh
// policy belongs to the session store.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TokenSource yields the access token to attach to outgoing requests.
// An empty string means the request goes out unauthenticated.
type TokenSource interface {
	AccessToken() string
}

// envelope is the uniform response body of the SmartCareer API.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *envelopeError  `json:"error,omitempty"`
}

type envelopeError struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}

// Client issues authenticated JSON requests against one API base URL.
type Client struct {
	http    *http.Client
	baseURL string
	tokens  TokenSource
	log     *zap.Logger
}

// New constructs a Client for the given base URL. tokens may be nil for a
// client that only ever calls public endpoints.
func New(baseURL string, tokens TokenSource, log *zap.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		log:     log,
	}
}

// WithHTTPClient overrides the underlying transport, used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// WithTokenSource binds the token source after construction. The session
// store is both a consumer of the client and its token source, so one of
// the two has to be wired up late.
func (c *Client) WithTokenSource(tokens TokenSource) *Client {
	c.tokens = tokens
	return c
}

// Do performs one request and decodes the envelope's data field into out.
// out may be nil when the caller only cares about success. body is JSON
// encoded when non-nil; query is appended to the path when non-nil.
//
// Failure modes: *NetworkError when no response arrived, *HTTPError for a
// non-2xx status (with the parsed error envelope), *ParseError when a 2xx
// body cannot be decoded.
func (c *Client) Do(ctx context.Context, method, path string, body any, query url.Values, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &HTTPError{Status: resp.StatusCode}
		var env envelope
		if err := json.Unmarshal(raw, &env); err == nil && env.Error != nil {
			httpErr.Code = env.Error.Code
			httpErr.Message = env.Error.Message
			httpErr.Details = env.Error.Details
		}
		c.log.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("code", httpErr.Code),
		)
		return httpErr
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &ParseError{Err: err}
	}
	if len(env.Data) == 0 {
		return &ParseError{Err: fmt.Errorf("missing data field")}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &ParseError{Err: err}
	}
	return nil
}

// Get is shorthand for Do with http.MethodGet and no body.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, query, out)
}

// Post is shorthand for Do with http.MethodPost.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, nil, out)
}

// Put is shorthand for Do with http.MethodPut.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, nil, out)
}

// Delete is shorthand for Do with http.MethodDelete and no body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}
