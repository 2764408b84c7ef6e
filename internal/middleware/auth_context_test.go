package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"axolotary/internal/ports/auth"

	"github.com/stretchr/testify/assert"
)

type fakeVerifier struct{}

func (fakeVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if token == "good" {
		return auth.Claims{UserID: "token-user", DisplayName: "Token User"}, nil
	}
	return auth.Claims{}, errors.New("bad token")
}

func serve(t *testing.T, opts AuthOptions, headers map[string]string) (int, auth.Claims, bool) {
	t.Helper()

	var (
		got auth.Claims
		ok  bool
	)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = GetClaims(r.Context())
	})
	h := AuthContext(opts)(RequireSession(inner))

	req := httptest.NewRequest(http.MethodGet, "/api/axolotls", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code, got, ok
}

func TestAuthContext_BearerToken(t *testing.T) {
	code, claims, ok := serve(t, AuthOptions{Verifier: fakeVerifier{}}, map[string]string{
		"Authorization": "Bearer good",
	})
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, ok)
	assert.Equal(t, "token-user", claims.UserID)
}

func TestAuthContext_InvalidTokenIsNoSession(t *testing.T) {
	code, _, ok := serve(t, AuthOptions{Verifier: fakeVerifier{}}, map[string]string{
		"Authorization": "Bearer bad",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, ok)
}

func TestAuthContext_DebugHeaderOnlyInDevMode(t *testing.T) {
	headers := map[string]string{"X-Debug-User-ID": "dev-1", "X-Debug-User-Name": "Dev"}

	code, claims, ok := serve(t, AuthOptions{DevMode: true}, headers)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, ok)
	assert.Equal(t, "Dev", claims.DisplayName)

	code, _, _ = serve(t, AuthOptions{Verifier: fakeVerifier{}}, headers)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("bearer abc"))
	assert.Equal(t, "", bearerToken("Basic abc"))
	assert.Equal(t, "", bearerToken("Bearer"))
	assert.Equal(t, "", bearerToken(""))
}
