// SPDX-License-Identifier: MIT

package jellyfin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
)

// MockServer is a configurable Jellyfin stub for tests. It records the last
// query each endpoint received so tests can assert on forwarded parameters.
type MockServer struct {
	*httptest.Server
	mu        sync.RWMutex
	users     []User
	items     ItemsPage
	genres    ItemsPage
	libraries []map[string]string
	info      SystemInfo
	failWith  map[string]int // path prefix -> HTTP status to force
	lastQuery map[string]url.Values
}

// NewMockServer creates a Jellyfin mock pre-loaded with default data.
func NewMockServer() *MockServer {
	m := &MockServer{
		failWith:  make(map[string]int),
		lastQuery: make(map[string]url.Values),
	}
	m.SetDefaultData()

	mux := http.NewServeMux()
	mux.HandleFunc("/System/Info", m.handleInfo)
	mux.HandleFunc("/Users", m.handleUsers)
	mux.HandleFunc("/Users/", m.handleUserItems)
	mux.HandleFunc("/Genres", m.handleGenres)
	mux.HandleFunc("/Library/VirtualFolders", m.handleLibraries)
	mux.HandleFunc("/Shows/", m.handleShows)

	m.Server = httptest.NewServer(mux)
	return m
}

// SetDefaultData loads realistic default fixtures.
func (m *MockServer) SetDefaultData() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = []User{
		{ID: "u-1", Name: "primary"},
		{ID: "u-2", Name: "guest"},
	}
	m.items = ItemsPage{
		Items: []Item{
			{ID: "mv-1", Name: "The Matrix", Type: "Movie", ProductionYear: 1999, CommunityRating: 8.7, Genres: []string{"Action", "Sci-Fi"}},
			{ID: "sr-1", Name: "Dark", Type: "Series", ProductionYear: 2017, CommunityRating: 8.8, Genres: []string{"Sci-Fi"}},
		},
		TotalRecordCount: 2,
	}
	m.genres = ItemsPage{
		Items: []Item{
			{ID: "g-1", Name: "Action", Type: "Genre"},
			{ID: "g-2", Name: "Sci-Fi", Type: "Genre"},
		},
		TotalRecordCount: 2,
	}
	m.libraries = []map[string]string{
		{"Name": "Movies", "ItemId": "lib-1", "CollectionType": "movies"},
		{"Name": "Shows", "ItemId": "lib-2", "CollectionType": "tvshows"},
	}
	m.info = SystemInfo{ServerName: "mock-jellyfin", Version: "10.9.0"}
}

// SetUsers replaces the user fixtures.
func (m *MockServer) SetUsers(users []User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = users
}

// SetItems replaces the item fixtures.
func (m *MockServer) SetItems(page ItemsPage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = page
}

// FailWith forces every request whose path starts with prefix to return the
// given status with a small JSON body.
func (m *MockServer) FailWith(prefix string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith[prefix] = status
}

// ClearFailures removes all forced failures.
func (m *MockServer) ClearFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = make(map[string]int)
}

// LastQuery returns the query string the given path prefix last received.
func (m *MockServer) LastQuery(prefix string) url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastQuery[prefix]
}

// observe returns false after writing a forced failure response.
func (m *MockServer) observe(w http.ResponseWriter, r *http.Request, prefix string) bool {
	m.mu.Lock()
	m.lastQuery[prefix] = r.URL.Query()
	status := 0
	for p, s := range m.failWith {
		if strings.HasPrefix(r.URL.Path, p) {
			status = s
			break
		}
	}
	m.mu.Unlock()

	if status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "forced failure"})
		return false
	}
	return true
}

func (m *MockServer) handleInfo(w http.ResponseWriter, r *http.Request) {
	if !m.observe(w, r, "/System/Info") {
		return
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	writeMockJSON(w, m.info)
}

func (m *MockServer) handleUsers(w http.ResponseWriter, r *http.Request) {
	if !m.observe(w, r, "/Users") {
		return
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	writeMockJSON(w, m.users)
}

func (m *MockServer) handleUserItems(w http.ResponseWriter, r *http.Request) {
	if !m.observe(w, r, "/Users/") {
		return
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	// /Users/{id}/Items/{itemId} returns a single item, /Users/{id}/Items a page.
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) == 4 {
		for _, it := range m.items.Items {
			if it.ID == parts[3] {
				writeMockJSON(w, it)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "item not found"})
		return
	}
	writeMockJSON(w, m.items)
}

func (m *MockServer) handleGenres(w http.ResponseWriter, r *http.Request) {
	if !m.observe(w, r, "/Genres") {
		return
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	writeMockJSON(w, m.genres)
}

func (m *MockServer) handleLibraries(w http.ResponseWriter, r *http.Request) {
	if !m.observe(w, r, "/Library/VirtualFolders") {
		return
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	writeMockJSON(w, m.libraries)
}

func (m *MockServer) handleShows(w http.ResponseWriter, r *http.Request) {
	if !m.observe(w, r, "/Shows/") {
		return
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	writeMockJSON(w, m.items)
}

func writeMockJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
