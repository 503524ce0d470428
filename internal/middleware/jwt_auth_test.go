package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"operateease/internal/auth"
)

func protected(t *testing.T, issuer *auth.TokenIssuer) http.Handler {
	t.Helper()
	return JWTAuth(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, _ := r.Context().Value(CtxUserID).(string)
		w.Header().Set("X-User-ID", uid)
		w.WriteHeader(http.StatusOK)
	}))
}

func TestJWTAuthMissingHeader(t *testing.T) {
	h := protected(t, auth.NewTokenIssuer("dev", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuthMalformedHeader(t *testing.T) {
	h := protected(t, auth.NewTokenIssuer("dev", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuthInvalidToken(t *testing.T) {
	h := protected(t, auth.NewTokenIssuer("dev", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestJWTAuthValidToken(t *testing.T) {
	issuer := auth.NewTokenIssuer("dev", time.Hour)
	token, _, err := issuer.Issue("u1", "a@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	h := protected(t, issuer)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if got := w.Header().Get("X-User-ID"); got != "u1" {
		t.Fatalf("expected user id u1 in context, got %q", got)
	}
}
