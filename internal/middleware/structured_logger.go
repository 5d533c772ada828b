package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// slowRequestThreshold is the duration past which a request is logged
// as slow.
const slowRequestThreshold = 1 * time.Second

// loggingResponseWriter captures the status code and response size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status       int
	bytesWritten int64
}

func (w *loggingResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *loggingResponseWriter) Write(data []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	written, err := w.ResponseWriter.Write(data)
	w.bytesWritten += int64(written)
	return written, err
}

// Status returns the HTTP status code.
func (w *loggingResponseWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// StructuredLogging logs every request with the request-scoped logger
// injected by RequestID.
func StructuredLogging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := GetRequestStart(r.Context())
			requestLogger := GetRequestLogger(r.Context())

			writer := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(writer, r)

			duration := time.Since(start)
			fields := []zap.Field{
				zap.String("event", "request_completed"),
				zap.Int("status", writer.Status()),
				zap.Duration("duration", duration),
				zap.Int64("response_size", writer.bytesWritten),
			}

			switch {
			case writer.Status() >= 500:
				requestLogger.Error("request completed", fields...)
			case writer.Status() >= 400:
				requestLogger.Warn("request completed", fields...)
			default:
				requestLogger.Info("request completed", fields...)
			}

			if duration > slowRequestThreshold {
				requestLogger.Warn("slow request",
					zap.String("event", "slow_request"),
					zap.Duration("duration", duration),
					zap.Duration("threshold", slowRequestThreshold),
				)
			}
		})
	}
}
