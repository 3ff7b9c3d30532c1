// SPDX-License-Identifier: MIT

package daemon

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jellygw/jellygw/internal/config"
)

func TestDaemonStartsAndShutsDownGracefully(t *testing.T) {
	d := New(config.ServerConfig{
		ListenAddr:      "127.0.0.1:0",
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		IdleTimeout:     5 * time.Second,
		ShutdownTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- d.Start(ctx, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
	}()

	// Give the listener a moment, then trigger shutdown.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not shut down in time")
	}
}

func TestDaemonFailsOnBadListenAddr(t *testing.T) {
	d := New(config.ServerConfig{
		ListenAddr:      "256.256.256.256:99999",
		ShutdownTimeout: time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := d.Start(ctx, http.NewServeMux()); err == nil {
		t.Fatal("expected listener error")
	}
}
