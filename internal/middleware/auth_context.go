package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"axolotary/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// AuthOptions configura AuthContext.
type AuthOptions struct {
	// Verifier valida Bearer tokens. Puede ser nil.
	Verifier auth.AuthVerifier
	// DevMode acepta X-Debug-User-ID (+ X-Debug-User-Name) sin token.
	DevMode bool
}

// AuthContext:
// - Si viene Bearer token y hay verifier => intenta Verify() y setea claims.
// - En modo dev, si no hubo token válido, X-Debug-User-ID setea claims.
// - Si no hay claims, el request sigue igual; RequireSession o el handler deciden.
func AuthContext(opts AuthOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.Verifier != nil {
				if token := bearerToken(r.Header.Get("Authorization")); token != "" {
					claims, err := opts.Verifier.Verify(r.Context(), token)
					if err == nil {
						next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
						return
					}
					// No cortamos aquí: un token inválido equivale a "sin sesión".
				}
			}

			if opts.DevMode {
				if uid := strings.TrimSpace(r.Header.Get("X-Debug-User-ID")); uid != "" {
					claims := auth.Claims{
						UserID:      uid,
						DisplayName: strings.TrimSpace(r.Header.Get("X-Debug-User-Name")),
					}
					next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession corta con 401 si no hay sesión. Es el equivalente API
// del redirect a /login.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUserID(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithClaims deja claims en el contexto (útil en tests de handlers).
func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

// CurrentUserID devuelve el user id de la sesión, si hay.
func CurrentUserID(ctx context.Context) (string, bool) {
	c, ok := GetClaims(ctx)
	if !ok || strings.TrimSpace(c.UserID) == "" {
		return "", false
	}
	return c.UserID, true
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
