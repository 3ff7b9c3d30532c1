// SPDX-License-Identifier: MIT

package jellyfin

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jellygw_upstream_requests_total",
		Help: "Upstream requests by operation and HTTP status (0 = transport failure)",
	}, []string{"operation", "status"})

	upstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jellygw_upstream_request_duration_seconds",
		Help:    "Upstream request latency by operation",
		Buckets: prometheus.ExponentialBuckets(0.01, 2.0, 10), // 10ms .. ~5s
	}, []string{"operation"})
)

func observeRequest(op string, status int, d time.Duration) {
	upstreamRequestsTotal.WithLabelValues(op, strconv.Itoa(status)).Inc()
	upstreamRequestDuration.WithLabelValues(op).Observe(d.Seconds())
}
