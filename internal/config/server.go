// SPDX-License-Identifier: MIT

package config

import "time"

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	// ListenAddr is the address to listen on (e.g., ":5000")
	ListenAddr string

	// ReadTimeout is the maximum duration for reading the entire request
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response
	WriteTimeout time.Duration

	// IdleTimeout is the maximum amount of time to wait for the next request
	IdleTimeout time.Duration

	// MaxHeaderBytes bounds request header parsing
	MaxHeaderBytes int

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown
	ShutdownTimeout time.Duration
}

const (
	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultMaxHeaderBytes  = 1 << 20
	defaultShutdownTimeout = 10 * time.Second
)

// ParseServerConfig builds a ServerConfig from JGW_* environment variables.
func ParseServerConfig() ServerConfig {
	return ServerConfig{
		ListenAddr:      ParseString("JGW_LISTEN", ":5000"),
		ReadTimeout:     ParseDuration("JGW_READ_TIMEOUT", defaultReadTimeout),
		WriteTimeout:    ParseDuration("JGW_WRITE_TIMEOUT", defaultWriteTimeout),
		IdleTimeout:     ParseDuration("JGW_IDLE_TIMEOUT", defaultIdleTimeout),
		MaxHeaderBytes:  ParseInt("JGW_MAX_HEADER_BYTES", defaultMaxHeaderBytes),
		ShutdownTimeout: ParseDuration("JGW_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}
}
