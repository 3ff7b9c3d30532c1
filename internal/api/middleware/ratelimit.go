// SPDX-License-Identifier: MIT

package middleware

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/jellygw/jellygw/internal/log"
	"github.com/jellygw/jellygw/internal/ratelimit"
)

// RateLimit gates every request through the fixed-window limiter, keyed by
// client address. Rejections carry HTTP 429 and a Retry-After hint; that
// status alone is what resilient callers key their retry decision on.
func RateLimit(limiter *ratelimit.Limiter, trusted []*net.IPNet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ratelimit.ClientIP(r, trusted)
			decision := limiter.Allow(key)
			if !decision.OK {
				retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}

				logger := log.WithComponentFromContext(r.Context(), "ratelimit")
				logger.Warn().
					Str(log.FieldClientIP, key).
					Str(log.FieldPath, r.URL.Path).
					Int("retry_after_s", retryAfter).
					Msg("request rejected by rate limiter")

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "Too many requests, please try again later.",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
