// SPDX-License-Identifier: MIT

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jellygw/jellygw/internal/jellyfin"
)

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz reports readiness by probing upstream reachability.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if _, err := s.upstream.SystemInfo(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"error":  "upstream unreachable",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleServerInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.upstream.SystemInfo(r.Context())
	if err != nil {
		writeUpstreamFailure(r, w, "Failed to fetch server info", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"serverName": info.ServerName,
		"version":    info.Version,
		"status":     "online",
	})
}

// resolveUser runs the principal resolution round-trip required by
// identity-scoped upstream queries. Failure writes the response; callers
// return on !ok.
func (s *Server) resolveUser(w http.ResponseWriter, r *http.Request, msg string) (jellyfin.User, bool) {
	user, err := s.resolver.Resolve(r.Context())
	if err != nil {
		writeUpstreamFailure(r, w, msg, err)
		return jellyfin.User{}, false
	}
	return user, true
}

// queryParams lifts the named query parameters into a Params map. Empty
// values stay in the map; normalization drops them later.
func queryParams(r *http.Request, names ...string) jellyfin.Params {
	q := r.URL.Query()
	p := make(jellyfin.Params, len(names))
	for _, name := range names {
		p[name] = q.Get(name)
	}
	return p
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	user, ok := s.resolveUser(w, r, "Failed to fetch items")
	if !ok {
		return
	}
	params := queryParams(r, "limit", "startIndex", "includeTypes", "recursive", "sortBy", "sortOrder", "parentId")
	raw, err := s.upstream.Items(r.Context(), user.ID, params)
	if err != nil {
		writeUpstreamFailure(r, w, "Failed to fetch items", err)
		return
	}
	writeRaw(w, raw)
}

func (s *Server) handleItemByID(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	user, ok := s.resolveUser(w, r, "Failed to fetch item details")
	if !ok {
		return
	}
	raw, err := s.upstream.ItemByID(r.Context(), user.ID, itemID)
	if err != nil {
		writeUpstreamFailure(r, w, "Failed to fetch item details", err)
		return
	}
	writeRaw(w, raw)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	user, ok := s.resolveUser(w, r, "Failed to fetch recent items")
	if !ok {
		return
	}
	raw, err := s.upstream.Recent(r.Context(), user.ID, queryParams(r, "limit"))
	if err != nil {
		writeUpstreamFailure(r, w, "Failed to fetch recent items", err)
		return
	}
	writeRaw(w, raw)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("query")
	if term == "" {
		writeValidationError(w, "Search query is required")
		return
	}
	user, ok := s.resolveUser(w, r, "Search failed")
	if !ok {
		return
	}
	raw, err := s.upstream.Search(r.Context(), user.ID, term, queryParams(r, "limit"))
	if err != nil {
		writeUpstreamFailure(r, w, "Search failed", err)
		return
	}
	writeRaw(w, raw)
}

func (s *Server) handleLibraries(w http.ResponseWriter, r *http.Request) {
	raw, err := s.upstream.Libraries(r.Context())
	if err != nil {
		writeUpstreamFailure(r, w, "Failed to fetch libraries", err)
		return
	}
	writeRaw(w, raw)
}

func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	raw, err := s.upstream.Genres(r.Context())
	if err != nil {
		writeUpstreamFailure(r, w, "Failed to fetch genres", err)
		return
	}
	writeRaw(w, raw)
}

func (s *Server) handleItemsByGenre(w http.ResponseWriter, r *http.Request) {
	genreID := chi.URLParam(r, "id")
	user, ok := s.resolveUser(w, r, "Failed to fetch items by genre")
	if !ok {
		return
	}
	raw, err := s.upstream.ItemsByGenre(r.Context(), user.ID, genreID, queryParams(r, "limit", "startIndex"))
	if err != nil {
		writeUpstreamFailure(r, w, "Failed to fetch items by genre", err)
		return
	}
	writeRaw(w, raw)
}

func (s *Server) handleSeasons(w http.ResponseWriter, r *http.Request) {
	raw, err := s.upstream.Seasons(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUpstreamFailure(r, w, "Failed to fetch seasons", err)
		return
	}
	writeRaw(w, raw)
}

func (s *Server) handleEpisodes(w http.ResponseWriter, r *http.Request) {
	raw, err := s.upstream.Episodes(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUpstreamFailure(r, w, "Failed to fetch episodes", err)
		return
	}
	writeRaw(w, raw)
}

// handleImage issues an image deep link without contacting the upstream.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	url := jellyfin.ImageURL(s.upstream.Base(), chi.URLParam(r, "itemId"), chi.URLParam(r, "kind"), jellyfin.ImageOptions{
		Width:   q.Get("width"),
		Height:  q.Get("height"),
		Quality: q.Get("quality"),
	})
	writeJSON(w, http.StatusOK, map[string]string{"imageUrl": url})
}

// handleStream issues a time-boxed playback deep link. The media bytes flow
// straight from upstream to the client; the gateway never proxies them.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	url := jellyfin.StreamURL(s.upstream.Base(), s.upstream.Token(), chi.URLParam(r, "itemId"), jellyfin.StreamOptions{
		Container:    q.Get("container"),
		VideoCodec:   q.Get("videoCodec"),
		AudioCodec:   q.Get("audioCodec"),
		MaxWidth:     q.Get("maxWidth"),
		MaxHeight:    q.Get("maxHeight"),
		VideoBitRate: q.Get("videoBitRate"),
		AudioBitRate: q.Get("audioBitRate"),
	})
	writeJSON(w, http.StatusOK, map[string]string{"streamUrl": url})
}
