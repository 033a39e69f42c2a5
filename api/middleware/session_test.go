package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shoplane/cartsync-backend/internal/cart"
	pkgAuth "github.com/shoplane/cartsync-backend/pkg/auth"
	"github.com/shoplane/cartsync-backend/pkg/config"
	"github.com/shoplane/cartsync-backend/pkg/enums"
)

func sessionJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "cartsync"}
}

func runSession(t *testing.T, cfg config.JWTConfig, mutate func(*http.Request)) (*httptest.ResponseRecorder, cart.Session, bool) {
	t.Helper()

	var captured cart.Session
	var found bool
	handler := Session(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, found = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, captured, found
}

func TestSessionMintsGuestIDWhenHeaderMissing(t *testing.T) {
	rec, sess, found := runSession(t, sessionJWTConfig(), nil)

	if !found {
		t.Fatalf("expected session in context")
	}
	if sess.Mode != enums.SessionModeGuest {
		t.Fatalf("expected guest mode, got %q", sess.Mode)
	}
	if sess.GuestID == "" {
		t.Fatalf("expected minted guest id")
	}
	if _, err := uuid.Parse(sess.GuestID); err != nil {
		t.Fatalf("minted guest id should be a uuid: %v", err)
	}
	if echo := rec.Header().Get("X-Guest-Id"); echo != sess.GuestID {
		t.Fatalf("guest id should be echoed, got %q", echo)
	}
}

func TestSessionKeepsProvidedGuestID(t *testing.T) {
	rec, sess, _ := runSession(t, sessionJWTConfig(), func(r *http.Request) {
		r.Header.Set("X-Guest-Id", "guest-42")
	})

	if sess.GuestID != "guest-42" {
		t.Fatalf("expected provided guest id, got %q", sess.GuestID)
	}
	if echo := rec.Header().Get("X-Guest-Id"); echo != "guest-42" {
		t.Fatalf("guest id should be echoed, got %q", echo)
	}
}

func TestSessionAcceptsValidBearerToken(t *testing.T) {
	cfg := sessionJWTConfig()
	userID := uuid.New()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), userID, 10*time.Minute)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	_, sess, found := runSession(t, cfg, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
		r.Header.Set("X-Guest-Id", "guest-42")
	})

	if !found {
		t.Fatalf("expected session in context")
	}
	if sess.Mode != enums.SessionModeAuthenticated {
		t.Fatalf("expected authenticated mode, got %q", sess.Mode)
	}
	if sess.UserID != userID {
		t.Fatalf("expected user id %s, got %s", userID, sess.UserID)
	}
	if sess.AccessToken != token {
		t.Fatalf("session should carry the raw token for upstream calls")
	}
	// The guest id survives login so a later reconcile can find the cart.
	if sess.GuestID != "guest-42" {
		t.Fatalf("expected guest id to be preserved, got %q", sess.GuestID)
	}
}

func TestSessionRejectsInvalidToken(t *testing.T) {
	rec, _, found := runSession(t, sessionJWTConfig(), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer not-a-jwt")
	})

	if found {
		t.Fatalf("handler should not run with an invalid token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionRejectsExpiredToken(t *testing.T) {
	cfg := sessionJWTConfig()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now().Add(-time.Hour), uuid.New(), time.Minute)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	rec, _, _ := runSession(t, cfg, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", rec.Code)
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := bearerToken(req); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}

	req.Header.Set("Authorization", "Bearer abc123")
	if got := bearerToken(req); got != "abc123" {
		t.Fatalf("expected abc123, got %q", got)
	}

	req.Header.Set("Authorization", "abc123")
	if got := bearerToken(req); got != "abc123" {
		t.Fatalf("expected raw header fallback, got %q", got)
	}
}
