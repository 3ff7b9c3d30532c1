// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jellygw/jellygw/internal/jellyfin"
	"github.com/jellygw/jellygw/internal/log"
)

// errorBody is the JSON error envelope every failure maps to at the edge.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeRaw relays an upstream JSON body unchanged.
func writeRaw(w http.ResponseWriter, raw json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// writeValidationError writes a 400 for missing or malformed client input.
func writeValidationError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

// writeUpstreamFailure maps an error from the upstream package to one public
// status code and logs it with enough context to diagnose. Core logic reports
// error kinds; the conversion to HTTP happens only here at the edge.
func writeUpstreamFailure(r *http.Request, w http.ResponseWriter, msg string, err error) {
	logger := log.WithComponentFromContext(r.Context(), "api")
	logger.Error().
		Err(err).
		Str(log.FieldPath, r.URL.Path).
		Str("params", r.URL.RawQuery).
		Int(log.FieldUpstreamStatus, jellyfin.UpstreamStatus(err)).
		Msg(msg)

	switch {
	case errors.Is(err, jellyfin.ErrNoUsers):
		// Fatal precondition failure: the upstream is misconfigured, nothing
		// to retry.
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "No users found"})
	case errors.Is(err, jellyfin.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: msg, Details: jellyfin.UpstreamBody(err)})
	case errors.Is(err, jellyfin.ErrUpstream):
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: msg, Details: jellyfin.UpstreamBody(err)})
	default:
		// Transport failure: no upstream response to relay.
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: msg, Details: err.Error()})
	}
}
