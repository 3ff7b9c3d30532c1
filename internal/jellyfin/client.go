// SPDX-License-Identifier: MIT

// Package jellyfin implements the upstream protocol: a single request
// executor with credential injection, identity resolution, catalog queries
// and pure deep-link constructors.
package jellyfin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jellygw/jellygw/internal/log"
)

const (
	authHeader = "X-Emby-Token"

	// maxErrorBody bounds how much of an upstream error response is carried
	// into the error for diagnostics.
	maxErrorBody = 2048
)

// Client talks to a Jellyfin server. The unexported get method is the only
// place upstream I/O happens; every operation funnels through it.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every upstream call. A stalled upstream surfaces as a
// transport failure instead of hanging the caller.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client (used in tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a client for the Jellyfin server at base, authenticating every
// call with token.
func New(base, token string, opts ...Option) *Client {
	c := &Client{
		base:  strings.TrimRight(base, "/"),
		token: token,
		http:  &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Base returns the configured upstream base URL.
func (c *Client) Base() string { return c.base }

// Token returns the shared upstream credential.
func (c *Client) Token() string { return c.token }

// get issues an authenticated GET against path and returns the raw JSON body.
// Non-success statuses map to *APIError carrying the upstream status and body
// verbatim; transport failures (timeout, DNS, refused) wrap ErrUnreachable.
func (c *Client) get(ctx context.Context, op, path string, params url.Values) (json.RawMessage, error) {
	u := c.base + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &APIError{Sentinel: ErrUnreachable, Operation: op, Err: err}
	}
	req.Header.Set(authHeader, c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		observeRequest(op, 0, time.Since(start))
		logger := log.WithComponentFromContext(ctx, "jellyfin")
		logger.Error().
			Err(err).
			Str(log.FieldOperation, op).
			Str(log.FieldPath, path).
			Msg("upstream transport failure")
		return nil, &APIError{Sentinel: ErrUnreachable, Operation: op, Err: err}
	}
	defer res.Body.Close()

	observeRequest(op, res.StatusCode, time.Since(start))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		sentinel := ErrUpstream
		if res.StatusCode == http.StatusNotFound {
			sentinel = ErrNotFound
		}
		logger := log.WithComponentFromContext(ctx, "jellyfin")
		logger.Error().
			Str(log.FieldOperation, op).
			Str(log.FieldPath, path).
			Int(log.FieldUpstreamStatus, res.StatusCode).
			Str("upstream_body", string(body)).
			Msg("upstream returned non-success status")
		return nil, &APIError{
			Sentinel:  sentinel,
			Operation: op,
			Status:    res.StatusCode,
			Body:      strings.TrimSpace(string(body)),
		}
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &APIError{Sentinel: ErrUnreachable, Operation: op, Err: err}
	}
	return json.RawMessage(raw), nil
}

// getJSON decodes the response body into v.
func (c *Client) getJSON(ctx context.Context, op, path string, params url.Values, v any) error {
	raw, err := c.get(ctx, op, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &APIError{Sentinel: ErrUpstream, Operation: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// SystemInfo fetches the upstream server identity.
func (c *Client) SystemInfo(ctx context.Context) (SystemInfo, error) {
	var info SystemInfo
	err := c.getJSON(ctx, "system_info", "/System/Info", nil, &info)
	return info, err
}
