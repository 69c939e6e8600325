package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// MetricsMiddleware wraps HTTP handlers to record Prometheus metrics and a
// debug line per request.
func (s *Server) MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		elapsed := time.Since(start)
		s.metrics.ObserveHTTP(endpoint, r.Method, wrapped.statusCode, elapsed)
		s.logger.Debug("http request",
			zap.String("endpoint", endpoint),
			zap.String("method", r.Method),
			zap.Int("status", wrapped.statusCode),
			zap.Duration("duration", elapsed),
		)
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}
