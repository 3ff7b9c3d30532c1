// SPDX-License-Identifier: MIT

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jellygw/jellygw/internal/api/middleware"
)

// Handler builds the gateway's router. Health and metrics sit outside the
// rate-limit gate; the whole /api surface sits behind it.
func (s *Server) Handler() http.Handler {
	r := middleware.NewRouter(middleware.StackConfig{
		AllowedOrigins: s.cfg.AllowedOrigins,
		EnableLogging:  true,
		EnableMetrics:  true,
	})

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(s.limiter, s.trusted))

		r.Get("/server/info", s.handleServerInfo)
		r.Get("/libraries", s.handleLibraries)

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/items", s.handleItems)
			r.Get("/items/{id}", s.handleItemByID)
			r.Get("/recent", s.handleRecent)
			r.Get("/search", s.handleSearch)
			r.Get("/genres", s.handleGenres)
			r.Get("/genres/{id}/items", s.handleItemsByGenre)
			r.Get("/series/{id}/seasons", s.handleSeasons)
			r.Get("/seasons/{id}/episodes", s.handleEpisodes)
			r.Get("/image/{itemId}/{kind}", s.handleImage)
			r.Get("/stream/{itemId}", s.handleStream)
		})
	})

	return r
}
