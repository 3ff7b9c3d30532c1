// SPDX-License-Identifier: MIT

// Package client is the consumer-side library for the gateway. Stream-URL
// issuance, the highest-contention call, goes through a bounded retry policy;
// every other call fails fast.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jellygw/jellygw/internal/resilience"
)

// ErrRetriesExhausted is returned when stream-URL issuance kept being rate
// limited for the whole attempt budget. Callers should wait and try again.
var ErrRetriesExhausted = resilience.ErrRetriesExhausted

// StatusError reports a non-success gateway response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway returned HTTP %d: %s", e.Code, e.Body)
}

// StreamOptions carries transcoding parameters for stream issuance.
type StreamOptions struct {
	Container    string
	VideoCodec   string
	AudioCodec   string
	MaxWidth     string
	MaxHeight    string
	VideoBitRate string
	AudioBitRate string
}

// Client talks to a jellygw gateway.
type Client struct {
	base    string
	http    *http.Client
	retrier *resilience.Retrier
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetryPolicy sets the attempt budget and base backoff delay for
// stream-URL issuance. Attempt n waits n*baseDelay before the next try.
func WithRetryPolicy(maxAttempts int, baseDelay time.Duration) Option {
	return func(c *Client) { c.retrier = resilience.NewRetrier(maxAttempts, baseDelay) }
}

// New creates a gateway client with the default retry policy (3 attempts,
// linear backoff from one second).
func New(base string, opts ...Option) *Client {
	c := &Client{
		base:    strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		retrier: resilience.NewRetrier(3, time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs one gateway round-trip. A 429 maps to the retryable rejection
// kind; any other non-2xx status fails fast with a StatusError.
func (c *Client) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	u := c.base + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w (HTTP 429)", resilience.ErrRateLimited)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{Code: res.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return json.RawMessage(body), nil
}

// StreamURL requests a playback deep link for itemID, retrying rate-limit
// rejections per the client's retry policy. Safe to retry: issuance is
// idempotent and side-effect-free upstream.
func (c *Client) StreamURL(ctx context.Context, itemID string, o StreamOptions) (string, error) {
	params := url.Values{}
	set := func(k, v string) {
		if v != "" {
			params.Set(k, v)
		}
	}
	set("container", o.Container)
	set("videoCodec", o.VideoCodec)
	set("audioCodec", o.AudioCodec)
	set("maxWidth", o.MaxWidth)
	set("maxHeight", o.MaxHeight)
	set("videoBitRate", o.VideoBitRate)
	set("audioBitRate", o.AudioBitRate)

	var streamURL string
	err := c.retrier.Do(ctx, func(ctx context.Context) error {
		raw, err := c.get(ctx, "/api/catalog/stream/"+url.PathEscape(itemID), params)
		if err != nil {
			return err
		}
		var payload struct {
			StreamURL string `json:"streamUrl"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return fmt.Errorf("decode stream response: %w", err)
		}
		streamURL = payload.StreamURL
		return nil
	})
	if err != nil {
		return "", err
	}
	return streamURL, nil
}

// ImageURL requests an image deep link. Not retried.
func (c *Client) ImageURL(ctx context.Context, itemID, kind, width, height string) (string, error) {
	params := url.Values{}
	if width != "" {
		params.Set("width", width)
	}
	if height != "" {
		params.Set("height", height)
	}
	raw, err := c.get(ctx, "/api/catalog/image/"+url.PathEscape(itemID)+"/"+url.PathEscape(kind), params)
	if err != nil {
		return "", err
	}
	var payload struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("decode image response: %w", err)
	}
	return payload.ImageURL, nil
}

// Search runs a catalog search. Not retried.
func (c *Client) Search(ctx context.Context, query, limit string) (json.RawMessage, error) {
	params := url.Values{"query": {query}}
	if limit != "" {
		params.Set("limit", limit)
	}
	return c.get(ctx, "/api/catalog/search", params)
}

// Recent lists recently added items. Not retried.
func (c *Client) Recent(ctx context.Context, limit string) (json.RawMessage, error) {
	params := url.Values{}
	if limit != "" {
		params.Set("limit", limit)
	}
	return c.get(ctx, "/api/catalog/recent", params)
}
