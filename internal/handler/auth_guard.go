package handler

import (
	"context"
	"net/http"
	"strings"

	"submission-service/internal/metrics"
	"submission-service/internal/models"
	"submission-service/internal/service"

	"go.uber.org/zap"
)

type principalKey struct{}

// TokenVerifier resolves a bearer token to its admin
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*models.Principal, error)
}

// PrincipalFrom returns the admin attached by AuthGuard
func PrincipalFrom(ctx context.Context) (*models.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*models.Principal)
	return p, ok
}

// AuthGuard admits requests carrying a valid bearer token. Every rejection
// gets the same 401 body; the reason is only logged.
func AuthGuard(verifier TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := verifier.VerifyToken(r.Context(), bearerToken(r))
			if err != nil {
				if service.IsUnauthorized(err) {
					reason := service.RejectionReason(err)
					metrics.AuthRejection(reason)
					logger.Warn("Rejected bearer token",
						zap.String("reason", reason),
						zap.String("path", r.URL.Path),
						zap.String("ip", r.RemoteAddr))
				}
				respondWithError(w, r, logger, err, msgInvalidData, msgInternal)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
