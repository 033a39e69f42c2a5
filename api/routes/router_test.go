package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shoplane/cartsync-backend/internal/cart"
	"github.com/shoplane/cartsync-backend/internal/upstream"
	"github.com/shoplane/cartsync-backend/pkg/config"
	"github.com/shoplane/cartsync-backend/pkg/logger"
	"github.com/shoplane/cartsync-backend/pkg/metrics"
	"github.com/shoplane/cartsync-backend/pkg/types"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type memoryStore struct {
	carts map[string]*types.Cart
}

func (s *memoryStore) Load(_ context.Context, guestID string) (*types.Cart, error) {
	if cart, ok := s.carts[guestID]; ok {
		return cart, nil
	}
	return types.EmptyCart(), nil
}

func (s *memoryStore) Save(_ context.Context, guestID string, cart *types.Cart) error {
	s.carts[guestID] = cart
	return nil
}

func (s *memoryStore) Delete(_ context.Context, guestID string) error {
	delete(s.carts, guestID)
	return nil
}

type noopGateway struct{}

func (noopGateway) FetchCart(context.Context, string) (*upstream.Cart, error) {
	return &upstream.Cart{}, nil
}

func (noopGateway) AddItem(context.Context, string, upstream.AddItemParams) (*upstream.Cart, error) {
	return &upstream.Cart{}, nil
}

func (noopGateway) UpdateItem(context.Context, string, string, int) (*upstream.Cart, error) {
	return &upstream.Cart{}, nil
}

func (noopGateway) RemoveItem(context.Context, string, string) (*upstream.Cart, error) {
	return &upstream.Cart{}, nil
}

func (noopGateway) ClearCart(context.Context, string) (*upstream.Cart, error) {
	return &upstream.Cart{}, nil
}

func newTestRouter(t *testing.T, redisErr error) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{Secret: "secret", Issuer: "cartsync"}

	logg := logger.New(logger.Options{ServiceName: "cart-api-test"})

	registry := prometheus.NewRegistry()
	svc, err := cart.NewService(noopGateway{}, &memoryStore{carts: map[string]*types.Cart{}}, metrics.NewCartMetrics(registry), logg)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	redisP := pingerFunc(func(context.Context) error { return redisErr })
	return NewRouter(cfg, logg, redisP, nil, nil, svc, registry)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected live 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Cartsync-Env") != "test" {
		t.Fatalf("expected env header")
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected ready 200, got %d", rec.Code)
	}
}

func TestHealthReadyReportsRedisOutage(t *testing.T) {
	router := newTestRouter(t, errors.New("connection refused"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when redis is down, got %d", rec.Code)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected metrics 200, got %d", rec.Code)
	}
}

func TestPublicPing(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/ping", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected ping 200, got %d", rec.Code)
	}
}

func TestGuestCartFlowThroughRouter(t *testing.T) {
	router := newTestRouter(t, nil)

	// First fetch mints a guest id.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected fetch 200, got %d: %s", rec.Code, rec.Body.String())
	}
	guestID := rec.Header().Get("X-Guest-Id")
	if guestID == "" {
		t.Fatalf("expected minted guest id header")
	}

	// Add an item under that guest id.
	body := `{"product_id":"p1","variant_id":"v1","quantity":2,"unit_price":"3.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-Id", guestID)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected add 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// The next fetch for the same guest sees the line.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	req.Header.Set("X-Guest-Id", guestID)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected fetch 200, got %d", rec.Code)
	}

	var envelope struct {
		Data struct {
			SessionMode string      `json:"session_mode"`
			Cart        *types.Cart `json:"cart"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode cart response: %v", err)
	}
	if envelope.Data.SessionMode != "guest" {
		t.Fatalf("expected guest mode, got %q", envelope.Data.SessionMode)
	}
	if envelope.Data.Cart == nil || len(envelope.Data.Cart.Items) != 1 || envelope.Data.Cart.TotalItems != 2 {
		t.Fatalf("expected persisted guest line, got %+v", envelope.Data.Cart)
	}

	// Lookup sees the same pair.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/cart/lookup?product_id=p1&variant_id=v1", nil)
	req.Header.Set("X-Guest-Id", guestID)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected lookup 200, got %d", rec.Code)
	}
}

func TestRouterWithoutMetricsRegistry(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{Secret: "secret", Issuer: "cartsync"}
	logg := logger.New(logger.Options{ServiceName: "cart-api-test", Level: logger.ParseLevel("error")})

	svc, err := cart.NewService(noopGateway{}, &memoryStore{carts: map[string]*types.Cart{}}, nil, logg)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	router := NewRouter(cfg, logg, pingerFunc(func(context.Context) error { return nil }), nil, nil, svc, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without a registry, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/line?quantity=notanumber", nil)
	req.Header.Set("X-Guest-Id", "guest-1")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad quantity, got %d", rec.Code)
	}
}
