// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"strings"
)

// CORS returns a middleware that sets Cross-Origin Resource Sharing headers
// from a strict allowed-origins list. A "*" entry allows any origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}
	allowAll := allowed["*"]

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); origin != "" {
				if allowAll || allowed[origin] {
					w.Header().Set("Access-Control-Allow-Origin", origin)
				}
				// Origins outside the list get no header; the browser blocks.
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
			w.Header().Set("Access-Control-Expose-Headers", "Retry-After, Content-Length, Date, X-Request-ID")
			w.Header().Set("Access-Control-Max-Age", "600")

			// Vary: Origin prevents cache confusion across origins.
			if vary := w.Header().Get("Vary"); vary == "" {
				w.Header().Set("Vary", "Origin")
			} else if !strings.Contains(vary, "Origin") {
				w.Header().Set("Vary", vary+", Origin")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Allow", "GET, OPTIONS")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
