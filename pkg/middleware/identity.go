package middleware

import (
	"net/http"

	"cinema-ticketing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Identity trusts the upstream auth gateway and reads the caller identity
// from the X-User-ID header. Authentication itself is the gateway's job;
// this service only needs to know which user owns a hold.
func Identity(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("X-User-ID")
			if header == "" {
				utils.ResponseUnauthorized(w, "Missing X-User-ID header")
				return
			}

			userID, err := uuid.Parse(header)
			if err != nil {
				logger.Warn("Invalid X-User-ID header", zap.String("value", header))
				utils.ResponseUnauthorized(w, "Invalid X-User-ID header")
				return
			}

			ctx := utils.SetUserContext(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
