// SPDX-License-Identifier: MIT

// Package api provides the gateway's public HTTP surface.
package api

import (
	"net"

	"github.com/jellygw/jellygw/internal/config"
	"github.com/jellygw/jellygw/internal/jellyfin"
	"github.com/jellygw/jellygw/internal/ratelimit"
)

// Server holds the gateway's request-handling dependencies. The limiter is
// the only cross-request state; everything else is stateless per request.
type Server struct {
	cfg      config.AppConfig
	upstream *jellyfin.Client
	resolver jellyfin.UserResolver
	limiter  *ratelimit.Limiter
	trusted  []*net.IPNet
}

// Option allows functional configuration of the Server.
type Option func(*Server)

// WithResolver overrides the identity selection strategy.
func WithResolver(r jellyfin.UserResolver) Option {
	return func(s *Server) { s.resolver = r }
}

// New creates the API server around an upstream client and a shared limiter.
func New(cfg config.AppConfig, upstream *jellyfin.Client, limiter *ratelimit.Limiter, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		upstream: upstream,
		resolver: jellyfin.FirstUserResolver{Client: upstream},
		limiter:  limiter,
		trusted:  ratelimit.ParseCIDRs(cfg.TrustedProxies),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
