// SPDX-License-Identifier: MIT

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jellygw/jellygw/internal/resilience"
)

type recordingSleeper struct {
	delays []time.Duration
}

func (s *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return nil
}

// gatewayStub fails n requests with 429 before answering the stream payload.
func gatewayStub(t *testing.T, fail429 int64) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if n <= fail429 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Too many requests, please try again later."})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"streamUrl": "http://jf/Videos/abc/stream.mp4?api_key=tok"})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestStreamURLRetriesAndSucceeds(t *testing.T) {
	srv, calls := gatewayStub(t, 2)

	sleep := &recordingSleeper{}
	c := New(srv.URL)
	c.retrier = resilience.NewRetrier(3, time.Second, resilience.WithSleeper(sleep))

	got, err := c.StreamURL(context.Background(), "abc", StreamOptions{MaxWidth: "1280"})
	require.NoError(t, err)
	assert.Equal(t, "http://jf/Videos/abc/stream.mp4?api_key=tok", got)

	// Two rejections, two linearly growing delays, success on the third try.
	assert.Equal(t, int64(3), calls.Load())
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, sleep.delays)
}

func TestStreamURLExhaustsRetries(t *testing.T) {
	srv, calls := gatewayStub(t, 1000)

	sleep := &recordingSleeper{}
	c := New(srv.URL)
	c.retrier = resilience.NewRetrier(3, time.Second, resilience.WithSleeper(sleep))

	_, err := c.StreamURL(context.Background(), "abc", StreamOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRetriesExhausted), "expected ErrRetriesExhausted, got %v", err)
	assert.Equal(t, int64(3), calls.Load(), "no calls beyond the attempt budget")
}

func TestWithRetryPolicyConfiguresAttemptBudget(t *testing.T) {
	srv, calls := gatewayStub(t, 1000)

	// Only the exported surface: consumers outside the module must be able to
	// pick their own attempt budget and base delay.
	c := New(srv.URL, WithRetryPolicy(5, time.Millisecond))

	_, err := c.StreamURL(context.Background(), "abc", StreamOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRetriesExhausted), "expected ErrRetriesExhausted, got %v", err)
	assert.Equal(t, int64(5), calls.Load(), "attempt budget must follow the option")
}

func TestStreamURLDoesNotRetryOtherFailures(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"upstream exploded"}`))
	}))
	t.Cleanup(srv.Close)

	sleep := &recordingSleeper{}
	c := New(srv.URL)
	c.retrier = resilience.NewRetrier(3, time.Second, resilience.WithSleeper(sleep))

	_, err := c.StreamURL(context.Background(), "abc", StreamOptions{})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	assert.Equal(t, int64(1), calls.Load(), "non-retryable failures fail fast")
	assert.Empty(t, sleep.delays)
}

func TestImageURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/catalog/image/abc/Primary", r.URL.Path)
		assert.Equal(t, "300", r.URL.Query().Get("width"))
		_ = json.NewEncoder(w).Encode(map[string]string{"imageUrl": "http://jf/Items/abc/Images/Primary?quality=90"})
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL)
	got, err := c.ImageURL(context.Background(), "abc", "Primary", "300", "")
	require.NoError(t, err)
	assert.Contains(t, got, "/Items/abc/Images/Primary")
}

func TestSearchPassesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/catalog/search", r.URL.Path)
		assert.Equal(t, "matrix", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"Items":[],"TotalRecordCount":0}`))
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL)
	raw, err := c.Search(context.Background(), "matrix", "5")
	require.NoError(t, err)
	assert.JSONEq(t, `{"Items":[],"TotalRecordCount":0}`, string(raw))
}
