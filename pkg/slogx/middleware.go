package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mcitys/mcitys-api/pkg/idx"
)

// HTTPMiddleware assigns every request a correlation id, echoes it back as
// the X-Request-ID response header, attaches a contextual logger to the
// request context and logs the request once served.
func HTTPMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			// Honour a correlation id supplied by an upstream proxy.
			correlationID := r.Header.Get("X-Request-ID")
			if correlationID == "" {
				correlationID = idx.New().String()
			}
			w.Header().Set("X-Request-ID", correlationID)

			logger := base.With(
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)

			ctx := WithContext(r.Context(), logger)
			ctx = WithCorrelationID(ctx, correlationID)
			r = r.WithContext(ctx)

			next.ServeHTTP(rw, r)

			duration := time.Since(start).Milliseconds()
			FromContext(ctx).Info("http_request",
				"status", rw.status,
				"duration_ms", duration,
				"user_agent", r.UserAgent(),
			)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter

	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
