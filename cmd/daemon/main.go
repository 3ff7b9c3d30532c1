// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/jellygw/jellygw/internal/api"
	"github.com/jellygw/jellygw/internal/config"
	"github.com/jellygw/jellygw/internal/daemon"
	"github.com/jellygw/jellygw/internal/jellyfin"
	jglog "github.com/jellygw/jellygw/internal/log"
	"github.com/jellygw/jellygw/internal/ratelimit"
)

var (
	version   = "v1.0.0"
	commit    = "none"
	buildDate = "unknown"
)

// maskURL removes user info from a URL string for safe logging.
func maskURL(rawURL string) string {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url-redacted"
	}
	parsedURL.User = nil
	return parsedURL.String()
}

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	jglog.Configure(jglog.Config{
		Level:   config.ParseString("JGW_LOG_LEVEL", "info"),
		Service: "jellygw",
		Version: version,
	})
	logger := jglog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.invalid").
			Msg("invalid configuration")
	}
	serverCfg := config.ParseServerConfig()

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", serverCfg.ListenAddr).
		Msg("starting jellygw")

	logger.Info().Msgf("→ Upstream: %s", maskURL(cfg.JellyfinURL))
	logger.Info().Msgf("→ Rate limit: %d requests per %s per client", cfg.RateLimit, cfg.RateWindow)
	logger.Info().Msgf("→ Upstream timeout: %s", cfg.UpstreamTimeout)

	upstream := jellyfin.New(cfg.JellyfinURL, cfg.JellyfinToken, jellyfin.WithTimeout(cfg.UpstreamTimeout))
	limiter := ratelimit.New(ratelimit.Config{
		Limit:  cfg.RateLimit,
		Window: cfg.RateWindow,
	})
	server := api.New(cfg, upstream, limiter)

	d := daemon.New(serverCfg)
	if err := d.Start(ctx, server.Handler()); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "daemon.failed").
			Msg("daemon exited with error")
	}
}
