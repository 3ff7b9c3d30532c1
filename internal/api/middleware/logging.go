// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"time"

	"github.com/jellygw/jellygw/internal/log"
)

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Logging emits one structured access-log entry per request.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger := log.WithComponentFromContext(r.Context(), "http")
		evt := logger.Info()
		if rec.status >= 500 {
			evt = logger.Error()
		} else if rec.status >= 400 {
			evt = logger.Warn()
		}
		evt.
			Str(log.FieldMethod, r.Method).
			Str(log.FieldPath, r.URL.Path).
			Int(log.FieldStatus, rec.status).
			Int64(log.FieldDuration, time.Since(start).Milliseconds()).
			Str("remote_addr", r.RemoteAddr).
			Msg("request completed")
	})
}
