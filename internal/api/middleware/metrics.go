package middleware

import (
	"net/http"
	"sync/atomic"
)

// Counters are the request totals reported by /metrics.
type Counters struct {
	Requests       atomic.Int64
	ClientErrors   atomic.Int64
	ServerErrors   atomic.Int64
	UpstreamErrors atomic.Int64
}

// MetricsCollector counts requests by outcome.
type MetricsCollector struct {
	counters *Counters
}

func NewMetricsCollector(c *Counters) *MetricsCollector {
	return &MetricsCollector{counters: c}
}

// Middleware returns middleware that counts requests and errors. A 502 is
// also counted as an upstream failure.
func (mc *MetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mc.counters.Requests.Add(1)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		switch {
		case rw.statusCode >= 500:
			mc.counters.ServerErrors.Add(1)
			if rw.statusCode == http.StatusBadGateway {
				mc.counters.UpstreamErrors.Add(1)
			}
		case rw.statusCode >= 400:
			mc.counters.ClientErrors.Add(1)
		}
	})
}
