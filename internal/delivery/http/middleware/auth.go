package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "eventmaster/internal/delivery/http/helpers"
	"eventmaster/internal/domain"
)

type contextKey string

const operatorKey contextKey = "operator"

// SetOperator returns a context carrying the authenticated operator's email. Used by auth middleware.
func SetOperator(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, operatorKey, email)
}

// OperatorFromContext returns the authenticated operator from the context, if present.
func OperatorFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(operatorKey).(string)
	return email, ok
}

// RequireAuth returns a wrapper that validates the Bearer token and sets the operator in the request context.
// Browsers cannot set headers on websocket handshakes, so upgrade requests may pass the token
// in the access_token query parameter instead.
// If the token is missing or invalid, it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, msg := bearerToken(r)
			if msg != "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, msg)
				return
			}
			operator, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "path", r.URL.Path, "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(SetOperator(r.Context(), operator))
			next(w, r)
		}
	}
}

// bearerToken extracts the token, or returns the reason it is missing.
func bearerToken(r *http.Request) (token, problem string) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
			if t := r.URL.Query().Get("access_token"); t != "" {
				return t, ""
			}
		}
		return "", "missing authorization header"
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", "invalid authorization format"
	}
	token = strings.TrimSpace(auth[len(prefix):])
	if token == "" {
		return "", "missing token"
	}
	return token, ""
}
