package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamUp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "comment_filter_upstream_up",
		Help: "Whether the last upstream probe succeeded (1) or failed (0)",
	})

	RateLimitedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "comment_filter_rate_limited_clients",
		Help: "Number of clients currently tracked by the rate limiter",
	})

	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "comment_filter_build_info",
		Help: "Build information, value is always 1",
	}, []string{"mode", "env"})
)
