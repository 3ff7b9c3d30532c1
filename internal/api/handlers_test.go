// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jellygw/jellygw/internal/config"
	"github.com/jellygw/jellygw/internal/jellyfin"
	"github.com/jellygw/jellygw/internal/ratelimit"
)

func testConfig() config.AppConfig {
	return config.AppConfig{
		JellyfinURL:    "http://unused",
		JellyfinToken:  "test-token",
		RateLimit:      100,
		RateWindow:     15 * time.Minute,
		AllowedOrigins: []string{"*"},
	}
}

// newTestServer wires a gateway handler to a mock upstream.
func newTestServer(t *testing.T, limit int) (*jellyfin.MockServer, http.Handler) {
	t.Helper()
	mock := jellyfin.NewMockServer()
	t.Cleanup(mock.Close)

	cfg := testConfig()
	upstream := jellyfin.New(mock.URL, cfg.JellyfinToken)
	limiter := ratelimit.New(ratelimit.Config{Limit: limit, Window: 15 * time.Minute})
	return mock, New(cfg, upstream, limiter).Handler()
}

func doGet(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	_, h := newTestServer(t, 100)
	w := doGet(h, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSearchRequiresQuery(t *testing.T) {
	_, h := newTestServer(t, 100)
	w := doGet(h, "/api/catalog/search")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Search query is required", body["error"])
}

func TestSearchRelaysUpstreamBody(t *testing.T) {
	mock, h := newTestServer(t, 100)

	w := doGet(h, "/api/catalog/search?query=matrix")
	require.Equal(t, http.StatusOK, w.Code)

	// Principal resolved, then the normalized query forwarded upstream.
	q := mock.LastQuery("/Users/")
	assert.Equal(t, "matrix", q.Get("SearchTerm"))
	assert.Equal(t, "Movie,Series,Episode", q.Get("IncludeItemTypes"))
	assert.Equal(t, "true", q.Get("Recursive"))

	// The upstream JSON body is relayed unchanged.
	var page jellyfin.ItemsPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 2, page.TotalRecordCount)
	assert.Equal(t, "The Matrix", page.Items[0].Name)
}

func TestItemsForwardsPagination(t *testing.T) {
	mock, h := newTestServer(t, 100)

	w := doGet(h, "/api/catalog/items?limit=5&startIndex=10&sortBy=SortName")
	require.Equal(t, http.StatusOK, w.Code)

	q := mock.LastQuery("/Users/")
	assert.Equal(t, "5", q.Get("Limit"))
	assert.Equal(t, "10", q.Get("StartIndex"))
	assert.Equal(t, "SortName", q.Get("SortBy"))
}

func TestNoUsersIsFatal(t *testing.T) {
	mock, h := newTestServer(t, 100)
	mock.SetUsers([]jellyfin.User{})

	w := doGet(h, "/api/catalog/items")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "No users found", body["error"])
}

func TestUpstreamFailureCarriesDetails(t *testing.T) {
	mock, h := newTestServer(t, 100)
	// Resolver path "/Users" stays up; the items query "/Users/{id}/Items" fails.
	mock.FailWith("/Users/", http.StatusBadGateway)

	w := doGet(h, "/api/catalog/items")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Failed to fetch items", body["error"])
	assert.Contains(t, body["details"], "forced failure")
}

func TestGenresDoesNotResolveUser(t *testing.T) {
	mock, h := newTestServer(t, 100)
	mock.SetUsers([]jellyfin.User{}) // would be fatal for identity-scoped calls

	w := doGet(h, "/api/catalog/genres")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStreamEndpointIssuesDeepLink(t *testing.T) {
	mock, h := newTestServer(t, 100)

	w := doGet(h, "/api/catalog/stream/abc123?maxWidth=1280&container=mkv")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["streamUrl"], mock.URL+"/Videos/abc123/stream.mkv?")
	assert.Contains(t, body["streamUrl"], "MaxWidth=1280")
	assert.Contains(t, body["streamUrl"], "api_key=test-token")
}

func TestImageEndpointIssuesDeepLink(t *testing.T) {
	mock, h := newTestServer(t, 100)

	w := doGet(h, "/api/catalog/image/abc123/Primary?width=300")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["imageUrl"], mock.URL+"/Items/abc123/Images/Primary?")
	assert.Contains(t, body["imageUrl"], "width=300")
	assert.Contains(t, body["imageUrl"], "quality=90")
}

func TestLibrariesRelaysUpstreamBody(t *testing.T) {
	mock, h := newTestServer(t, 100)
	mock.SetUsers([]jellyfin.User{}) // no identity needed for libraries

	w := doGet(h, "/api/libraries")
	require.Equal(t, http.StatusOK, w.Code)

	var libs []map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &libs))
	require.Len(t, libs, 2)
	assert.Equal(t, "Movies", libs[0]["Name"])
}

func TestServerInfo(t *testing.T) {
	_, h := newTestServer(t, 100)

	w := doGet(h, "/api/server/info")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "mock-jellyfin", body["serverName"])
	assert.Equal(t, "online", body["status"])
}

func TestRateLimitGatesTheAPISurface(t *testing.T) {
	_, h := newTestServer(t, 2)

	assert.Equal(t, http.StatusOK, doGet(h, "/api/catalog/genres").Code)
	assert.Equal(t, http.StatusOK, doGet(h, "/api/catalog/genres").Code)

	w := doGet(h, "/api/catalog/genres")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "Too many requests")

	// Health stays reachable outside the gate.
	assert.Equal(t, http.StatusOK, doGet(h, "/healthz").Code)
}

func TestRequestIDEchoed(t *testing.T) {
	_, h := newTestServer(t, 100)
	w := doGet(h, "/healthz")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
