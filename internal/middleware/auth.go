package middleware

import (
	"net/http"
	"strings"

	"certidigital/internal/contextutils"
	"certidigital/internal/responseutil"
	"certidigital/internal/services"

	"go.uber.org/zap"
)

// RequireAuth guards a route with bearer token authentication. The
// verified subject id lands in the request context.
func RequireAuth(auth services.AuthService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeUnauthorized(w, r, "authentication required")
				return
			}

			subject, err := auth.VerifyToken(token)
			if err != nil {
				logger.Warn("token verification failed",
					zap.String("request_id", contextutils.GetRequestID(r.Context())),
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				writeUnauthorized(w, r, "invalid or expired token")
				return
			}

			ctx := contextutils.WithUserID(r.Context(), subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	err := services.NewUnauthorizedError(message)
	if builder, ok := responseutil.GetBuilder(r.Context()).(errorWriter); ok {
		builder.WriteError(w, r, err)
		return
	}
	http.Error(w, message, http.StatusUnauthorized)
}
