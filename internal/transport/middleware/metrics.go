package middleware

import (
	"net/http"
	"time"

	"github.com/heartmarshall/impact-hub-backend/internal/metrics"
)

// Metrics records request count and latency. A nil collector disables it.
func Metrics(c *metrics.Collector) Middleware {
	return func(next http.Handler) http.Handler {
		if c == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			c.ObserveHTTP(r.Method, sw.status, time.Since(start))
		})
	}
}
