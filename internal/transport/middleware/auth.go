package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/qamqor/screening-bot/internal/auth"
	"github.com/qamqor/screening-bot/pkg/ctxutil"
)

type tokenValidator interface {
	ValidateToken(token string) (auth.Claims, error)
}

// AdminAuth rejects requests without a valid admin bearer token and stores the
// token subject in the context.
func AdminAuth(validator tokenValidator, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				writeAuthError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "admin token rejected",
					slog.String("error", err.Error()),
					slog.String("request_id", ctxutil.RequestIDFromCtx(r.Context())),
				)
				writeAuthError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if !claims.IsAdmin() {
				writeAuthError(w, http.StatusForbidden, "forbidden")
				return
			}
			ctx := ctxutil.WithAdmin(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
	}
	http.Error(w, msg, status)
}
