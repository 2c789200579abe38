package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/leavedesk/pkg/jwtx"
	"github.com/aussiebroadwan/leavedesk/pkg/slogx"
)

type ctxKey string

const ctxKeyClaims ctxKey = "claims"

// BearerToken extracts the raw token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	return raw, raw != ""
}

// RequireBearer verifies the bearer token with v and requires its purpose
// claim to equal purpose. Expired tokens are reported with a message that
// mentions expiry so clients can tell a stale challenge from a bad one.
func RequireBearer(v jwtx.Verifier, purpose string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("bearer verify failed", "err", err)
				if jwtx.IsExpired(err) {
					writeBearerError(w, "OTP session expired")
					return
				}
				writeBearerError(w, "invalid token")
				return
			}

			if claims.Purpose != purpose {
				writeBearerError(w, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, ctxKeyClaims, claims)))
		})
	}
}

// ClaimsFromContext returns the claims stored by RequireBearer.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(ctxKeyClaims).(jwtx.Claims)
	return c, ok
}

// RFC 6750 style challenge header plus the JSON message body.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteMessage(w, http.StatusUnauthorized, desc)
}
