// Package metrics exposes counters for the sign-in flows. Outcomes
// are labeled by provider and flow code so dashboards can separate
// user-declined consent from real exchange failures.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"
)

var (
	CallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_callback_total",
			Help: "OAuth callback outcomes by provider, mode, and result code.",
		},
		[]string{"provider", "mode", "outcome"},
	)

	SessionsEstablished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_sessions_established_total",
			Help: "Sessions minted, labeled by establishment path.",
		},
		[]string{"path"},
	)

	MagicLinkConsume = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_magic_link_consume_total",
			Help: "Magic-link consumption attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register installs the collectors on the default registry.
func Register() {
	prometheus.MustRegister(CallbackTotal, SessionsEstablished, MagicLinkConsume)
}

// Handler serves the prometheus scrape endpoint through gin.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
