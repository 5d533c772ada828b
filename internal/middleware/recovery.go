package middleware

import (
	"fmt"
	"net/http"
	"runtime"

	"certidigital/internal/contextutils"
	"certidigital/internal/responseutil"
	"certidigital/internal/services"

	"go.uber.org/zap"
)

// errorWriter is the part of the response builder recovery needs.
type errorWriter interface {
	WriteError(w http.ResponseWriter, r *http.Request, err error)
}

// Recovery converts panics into 500 responses and logs a stack trace.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					stack := make([]byte, 8192)
					stack = stack[:runtime.Stack(stack, false)]

					logger.Error("panic recovered",
						zap.String("event", "panic_recovered"),
						zap.String("request_id", contextutils.GetRequestID(r.Context())),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.Any("panic", rec),
						zap.ByteString("stack", stack),
					)

					err := services.NewInternalError("internal server error", fmt.Errorf("panic: %v", rec))
					if builder, ok := responseutil.GetBuilder(r.Context()).(errorWriter); ok {
						builder.WriteError(w, r, err)
						return
					}

					w.Header().Set("Content-Type", "application/json; charset=utf-8")
					w.WriteHeader(http.StatusInternalServerError)
					fmt.Fprintf(w, `{"success":false,"error":{"type":"INTERNAL_ERROR","message":"internal server error"},"request_id":"%s"}`,
						contextutils.GetRequestID(r.Context()))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
