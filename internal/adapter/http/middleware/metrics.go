package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Benbok/friendly-loan/internal/infrastructure/metrics"
)

// Metrics records request counts and latencies per normalized route.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			path := normalizePath(r.URL.Path)
			m.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(recorder.status)).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// normalizePath collapses resource IDs so metric cardinality stays
// bounded.
func normalizePath(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if i == 0 || part == "" {
			continue
		}
		if !isRouteWord(part) {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}

var routeWords = map[string]bool{
	"api": true, "v1": true,
	"health": true, "ready": true, "metrics": true,
	"auth": true, "login": true, "me": true,
	"loans": true, "payments": true, "borrowers": true,
	"calculate": true, "recalculation": true, "progress": true,
}

func isRouteWord(s string) bool {
	return routeWords[s]
}
