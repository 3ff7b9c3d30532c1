// SPDX-License-Identifier: MIT

package middleware

import (
	"github.com/go-chi/chi/v5"
)

// StackConfig configures the canonical HTTP ingress middleware stack. The
// rate-limit gate is mounted per route group, not here, so health and
// metrics endpoints stay reachable when a client is throttled.
type StackConfig struct {
	AllowedOrigins []string

	EnableLogging bool
	EnableMetrics bool
}

// NewRouter constructs a chi router with the canonical middleware stack applied.
func NewRouter(cfg StackConfig) *chi.Mux {
	r := chi.NewRouter()
	ApplyStack(r, cfg)
	return r
}

// ApplyStack applies the canonical middleware stack to r.
func ApplyStack(r chi.Router, cfg StackConfig) {
	// 1. Recoverer (outermost safety net)
	r.Use(Recoverer)
	// 2. RequestID (correlation early)
	r.Use(RequestID)
	// 3. CORS (so OPTIONS and browser clients behave)
	r.Use(CORS(cfg.AllowedOrigins))
	// 4. Metrics (track all requests, including rejected ones)
	if cfg.EnableMetrics {
		r.Use(Metrics())
	}
	// 5. Logging (wraps handlers, captures full latency)
	if cfg.EnableLogging {
		r.Use(Logging)
	}
}
