// SPDX-License-Identifier: MIT

package jellyfin

// User is an upstream-known identity used to scope item queries.
type User struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// Item is a catalog entity (movie, series, episode). Read-only here; the
// gateway never creates or mutates items.
type Item struct {
	ID              string   `json:"Id"`
	Name            string   `json:"Name"`
	Type            string   `json:"Type"`
	ProductionYear  int      `json:"ProductionYear,omitempty"`
	CommunityRating float64  `json:"CommunityRating,omitempty"`
	Overview        string   `json:"Overview,omitempty"`
	Genres          []string `json:"Genres,omitempty"`
}

// ItemsPage is the paged envelope Jellyfin returns for item queries.
type ItemsPage struct {
	Items            []Item `json:"Items"`
	TotalRecordCount int    `json:"TotalRecordCount"`
}

// SystemInfo is the subset of /System/Info the gateway exposes.
type SystemInfo struct {
	ServerName string `json:"ServerName"`
	Version    string `json:"Version"`
}
