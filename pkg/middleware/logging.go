// Package middleware holds http.Handler wrappers shared by the server's
// routes.
package middleware

import (
	"net/http"
	"time"

	"github.com/trazzed/uqimage/pkg/logging"
)

// statusRecorder captures the status code a handler wrote, defaulting to
// 200 since http.ResponseWriter.Write implicitly sends that status if
// WriteHeader was never called.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger wraps next, logging one line per request with method,
// target, status, and latency, tagged with a "component" field the way
// every other package in this module tags its log lines.
func RequestLogger(log logging.Logger, next http.Handler) http.Handler {
	entry := log.WithField("component", "httpapi")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		entry.WithFields(map[string]interface{}{
			"method":   r.Method,
			"target":   r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("handled request")
	})
}
