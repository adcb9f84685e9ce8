package middleware

import (
	"context"
	"net/http"
	"strings"

	"pet-adoption/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

const (
	HeaderDebugUserID = "X-Debug-User-ID"
	HeaderDebugRole   = "X-Debug-Role"
)

// AuthContext:
//   - verifier != nil y viene Bearer token => Verify() y setea claims.
//   - verifier == nil => modo dev: X-Debug-User-ID (+ X-Debug-Role opcional).
//   - Si el usuario ya hizo onboarding, manda el rol guardado aunque el token o
//     X-Debug-Role digan otro.
//   - Sin claims el request sigue igual; los servicios deciden 401/403.
func AuthContext(verifier auth.AuthVerifier, roles auth.RoleResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := resolveClaims(r, verifier)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			if roles != nil {
				// Sin onboarding se conserva el rol del token (puede ser vacío).
				if role, err := roles.RoleOf(r.Context(), claims.UserID); err == nil && role != "" {
					claims.Role = role
				}
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func resolveClaims(r *http.Request, verifier auth.AuthVerifier) (auth.Claims, bool) {
	if verifier == nil {
		uid := strings.TrimSpace(r.Header.Get(HeaderDebugUserID))
		if uid == "" {
			return auth.Claims{}, false
		}
		c := auth.Claims{UserID: uid}
		if role, ok := auth.ParseRole(r.Header.Get(HeaderDebugRole)); ok {
			c.Role = role
		}
		return c, true
	}

	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return auth.Claims{}, false
	}
	c, err := verifier.Verify(r.Context(), token)
	if err != nil || !c.Authenticated() {
		return auth.Claims{}, false
	}
	return c, true
}

func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(auth.Claims)
	return c, ok
}

func bearerToken(authHeader string) string {
	parts := strings.SplitN(strings.TrimSpace(authHeader), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
