// SPDX-License-Identifier: MIT

// Package config loads gateway configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// AppConfig holds the gateway application configuration.
type AppConfig struct {
	// JellyfinURL is the base URL of the upstream Jellyfin server.
	JellyfinURL string
	// JellyfinToken is the shared API credential sent on every upstream call.
	JellyfinToken string

	// UpstreamTimeout bounds every upstream HTTP call.
	UpstreamTimeout time.Duration

	// RateLimit is the per-client request ceiling inside one RateWindow.
	RateLimit int
	// RateWindow is the fixed-window length for rate limiting.
	RateWindow time.Duration

	// TrustedProxies lists CIDRs allowed to set forwarding headers.
	TrustedProxies []string
	// AllowedOrigins controls the CORS allow-list ("*" allows any origin).
	AllowedOrigins []string

	LogLevel string
}

// FromEnv builds an AppConfig from JGW_* environment variables.
func FromEnv() AppConfig {
	return AppConfig{
		JellyfinURL:     strings.TrimRight(ParseString("JGW_JELLYFIN_URL", "http://localhost:8096"), "/"),
		JellyfinToken:   ParseString("JGW_JELLYFIN_TOKEN", ""),
		UpstreamTimeout: ParseDuration("JGW_UPSTREAM_TIMEOUT", 15*time.Second),
		RateLimit:       ParseInt("JGW_RATE_LIMIT", 100),
		RateWindow:      ParseDuration("JGW_RATE_WINDOW", 15*time.Minute),
		TrustedProxies:  splitCSV(ParseString("JGW_TRUSTED_PROXIES", "")),
		AllowedOrigins:  splitCSV(ParseString("JGW_ALLOWED_ORIGINS", "*")),
		LogLevel:        ParseString("JGW_LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration for values the gateway cannot start with.
func (c AppConfig) Validate() error {
	u, err := url.Parse(c.JellyfinURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid JGW_JELLYFIN_URL %q: must be an absolute http(s) URL", c.JellyfinURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid JGW_JELLYFIN_URL scheme %q", u.Scheme)
	}
	if c.JellyfinToken == "" {
		return errors.New("JGW_JELLYFIN_TOKEN must be set")
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("JGW_RATE_LIMIT must be positive, got %d", c.RateLimit)
	}
	if c.RateWindow <= 0 {
		return fmt.Errorf("JGW_RATE_WINDOW must be positive, got %s", c.RateWindow)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("JGW_UPSTREAM_TIMEOUT must be positive, got %s", c.UpstreamTimeout)
	}
	return nil
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		v := strings.TrimSpace(p)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
