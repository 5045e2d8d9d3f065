package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels are a small fixed set (the session verdict taxonomy),
// never raw error strings, to keep cardinality bounded.
var (
	authDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ipbe",
		Name:      "auth_decisions_total",
		Help:      "Session evaluations by verdict",
	}, []string{"outcome"})

	cacheEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ipbe",
		Name:      "cache_events_total",
		Help:      "Cache-aside layer events",
	}, []string{"event"})
)

// AuthDecision records one session evaluation verdict.
func AuthDecision(outcome string) {
	authDecisions.WithLabelValues(outcome).Inc()
}

// CacheEvent records a cache hit, miss, fill, invalidation or error.
func CacheEvent(event string) {
	cacheEvents.WithLabelValues(event).Inc()
}

// Handler exposes the default registry for the /metrics route.
func Handler() http.Handler {
	return promhttp.Handler()
}
