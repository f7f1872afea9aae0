// Package middleware contains HTTP middleware functions.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"
)

// responseWriter wraps http.ResponseWriter to capture the status code and
// bytes written, which the standard interface does not expose after the
// fact.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Logger returns a middleware that logs each completed request with slog.
//
// Every request gets a fresh xid, echoed in the X-Request-ID response header
// and attached to the log line, so a browser-reported failure can be matched
// to its server-side entry.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := xid.New().String()
			w.Header().Set("X-Request-ID", requestID)

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK, // default if WriteHeader is never called
			}

			next.ServeHTTP(wrapped, r)

			logger.Info("request completed",
				slog.String("requestId", requestID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", wrapped.statusCode),
				slog.Duration("duration", time.Since(start)),
				slog.Int64("bytes", wrapped.written),
			)
		})
	}
}
