// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldComponent = "component"
	FieldEvent     = "event"

	// HTTP fields
	FieldMethod   = "method"
	FieldPath     = "path"
	FieldStatus   = "status"
	FieldClientIP = "client_ip"
	FieldDuration = "duration_ms"

	// Upstream fields
	FieldOperation      = "operation"
	FieldUpstreamStatus = "upstream_status"
	FieldUserID         = "user_id"
	FieldItemID         = "item_id"
)
