// SPDX-License-Identifier: MIT

// Package ratelimit implements a fixed-window request counter keyed by
// client address.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var rateLimitExceeded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "jellygw",
	Name:      "ratelimit_exceeded_total",
	Help:      "Total rate limit rejections",
})

// Config holds rate limiting configuration.
type Config struct {
	// Limit is the maximum number of requests admitted per key per window.
	Limit int
	// Window is the fixed window length.
	Window time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Limit:  100,
		Window: 15 * time.Minute,
	}
}

// clock abstracts time operations for testability.
type clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// window is one per-key counter bucket.
type window struct {
	count int
	start time.Time
}

// Decision is the outcome of an admission check.
type Decision struct {
	OK         bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter maintains one window per distinct client key. Entries are never
// evicted; an expired window is reset in place on the key's next request.
type Limiter struct {
	mu      sync.Mutex
	config  Config
	windows map[string]*window
	clock   clock
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces the time source (used in tests).
func WithClock(c clock) Option {
	return func(l *Limiter) { l.clock = c }
}

// New creates a limiter with the given config.
func New(config Config, opts ...Option) *Limiter {
	if config.Limit <= 0 {
		config.Limit = DefaultConfig().Limit
	}
	if config.Window <= 0 {
		config.Window = DefaultConfig().Window
	}
	l := &Limiter{
		config:  config,
		windows: make(map[string]*window),
		clock:   realClock{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow performs the atomic increment-or-reset for key. The first request of
// a window (or of a key) starts a fresh window with count 1; once the count
// would exceed the limit the request is rejected and the counter stops
// advancing.
func (l *Limiter) Allow(key string) Decision {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.config.Window {
		l.windows[key] = &window{count: 1, start: now}
		return Decision{OK: true, Remaining: l.config.Limit - 1}
	}

	if w.count >= l.config.Limit {
		rateLimitExceeded.Inc()
		return Decision{
			OK:         false,
			RetryAfter: w.start.Add(l.config.Window).Sub(now),
		}
	}

	w.count++
	return Decision{OK: true, Remaining: l.config.Limit - w.count}
}

// Len reports the number of tracked keys. The table has no eviction, so this
// is the operator's handle on memory growth.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// ClientIP determines the originating client address. Forwarding headers are
// honored only when the direct peer is inside one of the trusted networks.
func ClientIP(r *http.Request, trusted []*net.IPNet) string {
	if remoteIsTrusted(r.RemoteAddr, trusted) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			// X-Forwarded-For may contain "client, proxy1, proxy2".
			parts := strings.Split(xff, ",")
			if ip := strings.TrimSpace(parts[0]); ip != "" {
				return ip
			}
		}
		if xr := r.Header.Get("X-Real-IP"); xr != "" {
			return xr
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func remoteIsTrusted(remote string, trusted []*net.IPNet) bool {
	if len(trusted) == 0 {
		return false
	}
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		host = remote
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	for _, n := range trusted {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// ParseCIDRs parses a list of CIDR strings, tolerating bare IPs.
func ParseCIDRs(list []string) []*net.IPNet {
	var out []*net.IPNet
	for _, raw := range list {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if !strings.Contains(s, "/") {
			if ip := net.ParseIP(s); ip != nil {
				if ip.To4() != nil {
					s += "/32"
				} else {
					s += "/128"
				}
			}
		}
		if _, ipnet, err := net.ParseCIDR(s); err == nil {
			out = append(out, ipnet)
		}
	}
	return out
}
