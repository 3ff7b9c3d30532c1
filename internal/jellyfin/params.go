// SPDX-License-Identifier: MIT

package jellyfin

import "net/url"

// Params is a set of public query parameters, keyed by the gateway's
// lower-camel vocabulary. Values are raw strings as received from the client.
type Params map[string]string

// paramNames maps the gateway's public parameter vocabulary onto the
// upstream's expected names and casing.
var paramNames = map[string]string{
	"limit":        "Limit",
	"startIndex":   "StartIndex",
	"includeTypes": "IncludeItemTypes",
	"recursive":    "Recursive",
	"sortBy":       "SortBy",
	"sortOrder":    "SortOrder",
	"parentId":     "ParentId",
	"genreId":      "GenreIds",
	"query":        "SearchTerm",
	"fields":       "Fields",
}

// Normalize merges defaults under in, translates parameter names to the
// upstream vocabulary and drops entries whose value is empty. Defaults are
// applied before filtering so an omitted-but-required parameter survives.
// The upstream rejects literal empty values, so they must never be forwarded.
func Normalize(in, defaults Params) url.Values {
	merged := make(Params, len(in)+len(defaults))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range in {
		if v == "" {
			continue
		}
		merged[k] = v
	}

	out := url.Values{}
	for k, v := range merged {
		if v == "" {
			continue
		}
		name, ok := paramNames[k]
		if !ok {
			name = k
		}
		out.Set(name, v)
	}
	return out
}
