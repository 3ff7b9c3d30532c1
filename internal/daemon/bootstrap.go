// SPDX-License-Identifier: MIT

// Package daemon owns the HTTP server lifecycle.
package daemon

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jellygw/jellygw/internal/config"
	"github.com/jellygw/jellygw/internal/log"
)

// Daemon runs the gateway's HTTP server with graceful shutdown.
type Daemon struct {
	config config.ServerConfig
	server *http.Server
	logger zerolog.Logger
}

// New creates a daemon for the given server configuration.
func New(cfg config.ServerConfig) *Daemon {
	return &Daemon{
		config: cfg,
		logger: log.WithComponent("daemon"),
	}
}

// Start runs the HTTP server until ctx is cancelled or the listener fails.
func (d *Daemon) Start(ctx context.Context, handler http.Handler) error {
	d.server = &http.Server{
		Addr:           d.config.ListenAddr,
		Handler:        handler,
		ReadTimeout:    d.config.ReadTimeout,
		WriteTimeout:   d.config.WriteTimeout,
		IdleTimeout:    d.config.IdleTimeout,
		MaxHeaderBytes: d.config.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		d.logger.Info().Msgf("HTTP server listening on %s", d.config.ListenAddr)
		if err := d.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return d.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server.
func (d *Daemon) Shutdown(ctx context.Context) error {
	d.logger.Info().Msg("Shutting down daemon...")

	shutdownCtx, cancel := context.WithTimeout(ctx, d.config.ShutdownTimeout)
	defer cancel()

	if d.server != nil {
		if err := d.server.Shutdown(shutdownCtx); err != nil {
			d.logger.Error().Err(err).Msg("HTTP server shutdown error")
			return err
		}
	}

	d.logger.Info().Msg("Daemon stopped")
	return nil
}
