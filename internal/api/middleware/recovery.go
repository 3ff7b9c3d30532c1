// SPDX-License-Identifier: MIT

// Package middleware holds the canonical HTTP ingress middleware stack.
package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"

	"github.com/jellygw/jellygw/internal/log"
)

// Recoverer ensures that panics inside any downstream handler do not crash
// the process. It logs the panic with context and returns a 500 JSON body.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				buf := make([]byte, 8192)
				n := runtime.Stack(buf, false)

				reqID := log.RequestIDFromContext(r.Context())
				logger := log.WithComponentFromContext(r.Context(), "panic-recovery")
				logger.Error().
					Str(log.FieldEvent, "panic.recovered").
					Str(log.FieldMethod, r.Method).
					Str(log.FieldPath, r.URL.Path).
					Str("remote_addr", r.RemoteAddr).
					Interface("panic_value", rec).
					Str("stack_trace", string(buf[:n])).
					Msg("panic recovered in HTTP handler")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error":     "Internal server error",
					"requestId": reqID,
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
