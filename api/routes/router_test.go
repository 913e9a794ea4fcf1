package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/storefront-bff/internal/cart"
	"github.com/angelmondragon/storefront-bff/internal/demousers"
	pkgAuth "github.com/angelmondragon/storefront-bff/pkg/auth"
	"github.com/angelmondragon/storefront-bff/pkg/auth/session"
	"github.com/angelmondragon/storefront-bff/pkg/config"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/metrics"
	"github.com/angelmondragon/storefront-bff/pkg/redis"
)

type stubResolver struct {
	records map[string]session.Record
}

func (s stubResolver) Lookup(ctx context.Context, sessionID string) (*session.Record, error) {
	rec, ok := s.records[sessionID]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return &rec, nil
}

type stubCartService struct {
	count     int
	lastToken string
}

func (s *stubCartService) Get(ctx context.Context, token string) (cart.Snapshot, error) {
	return cart.Snapshot{}, nil
}

func (s *stubCartService) Count(ctx context.Context, token string) (int, error) {
	s.lastToken = token
	return s.count, nil
}

func (s *stubCartService) Add(ctx context.Context, token, productID string) (cart.AddResult, error) {
	return cart.AddResult{}, nil
}

func (s *stubCartService) Remove(ctx context.Context, token, productID string) (cart.Snapshot, error) {
	return cart.Snapshot{}, nil
}

func (s *stubCartService) Clear(ctx context.Context, token string) (cart.Snapshot, error) {
	return cart.Snapshot{}, nil
}

func (s *stubCartService) UpdateQuantity(ctx context.Context, sessionID, token, productID string, count int) (cart.Snapshot, error) {
	return cart.Snapshot{}, nil
}

func (s *stubCartService) Close(ctx context.Context) error {
	return nil
}

func testConfig(env string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: env},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "storefront", ExpirationMinutes: 30},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config, resolver stubResolver, svcs Services) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "storefront-test", Output: io.Discard})
	registry := prometheus.NewRegistry()
	return NewRouter(cfg, logg, &redis.Client{}, resolver, registry, metrics.New(registry), svcs)
}

func serve(h http.Handler, method, path, token string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func TestHealthRoutes(t *testing.T) {
	router := newTestRouter(t, testConfig("dev"), stubResolver{}, Services{})

	live := serve(router, http.MethodGet, "/health/live", "", nil)
	if live.Code != http.StatusOK {
		t.Fatalf("expected live 200 got %d", live.Code)
	}
	if live.Header().Get("X-Storefront-Env") != "dev" {
		t.Fatalf("expected env header, got %q", live.Header().Get("X-Storefront-Env"))
	}

	// an unconnected redis client must fail readiness
	ready := serve(router, http.MethodGet, "/health/ready", "", nil)
	if ready.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected ready 503 got %d", ready.Code)
	}
}

func TestMetricsEndpointExposesHTTPSeries(t *testing.T) {
	router := newTestRouter(t, testConfig("dev"), stubResolver{}, Services{})

	serve(router, http.MethodGet, "/health/live", "", nil)
	resp := serve(router, http.MethodGet, "/metrics", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "/health/live") {
		t.Fatalf("expected route label in metrics output")
	}
}

func TestSessionRoutesRequireBearer(t *testing.T) {
	router := newTestRouter(t, testConfig("dev"), stubResolver{}, Services{Cart: &stubCartService{}})

	for _, path := range []string{"/api/v1/cart", "/api/v1/wishlist", "/api/v1/orders", "/api/v1/users/me", "/api/v1/auth/session"} {
		resp := serve(router, http.MethodGet, path, "", nil)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 got %d", path, resp.Code)
		}
	}
}

func TestCartCountUsesSessionAccessToken(t *testing.T) {
	cfg := testConfig("dev")
	token, err := pkgAuth.MintSessionToken(cfg.JWT, time.Now(), pkgAuth.SessionTokenPayload{
		SessionID: "sess-1",
		UserID:    "u-1",
		Role:      "user",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	resolver := stubResolver{records: map[string]session.Record{
		"sess-1": {UserID: "u-1", Role: "user", AccessToken: "remote-token"},
	}}
	carts := &stubCartService{count: 3}
	router := newTestRouter(t, cfg, resolver, Services{Cart: carts})

	resp := serve(router, http.MethodGet, "/api/v1/cart/count", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if carts.lastToken != "remote-token" {
		t.Fatalf("expected upstream token from session, got %q", carts.lastToken)
	}

	var envelope struct {
		Data struct {
			Count int `json:"numOfCartItems"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Count != 3 {
		t.Fatalf("expected count 3 got %d", envelope.Data.Count)
	}
}

func TestProductCreateRequiresAdmin(t *testing.T) {
	cfg := testConfig("dev")
	token, err := pkgAuth.MintSessionToken(cfg.JWT, time.Now(), pkgAuth.SessionTokenPayload{SessionID: "sess-1", UserID: "u-1", Role: "user"})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	resolver := stubResolver{records: map[string]session.Record{
		"sess-1": {UserID: "u-1", Role: "user", AccessToken: "remote-token"},
	}}
	router := newTestRouter(t, cfg, resolver, Services{})

	resp := serve(router, http.MethodPost, "/api/v1/products", token, strings.NewReader(`{}`))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestOrderWritesRequireIdempotencyKey(t *testing.T) {
	cfg := testConfig("dev")
	token, err := pkgAuth.MintSessionToken(cfg.JWT, time.Now(), pkgAuth.SessionTokenPayload{SessionID: "sess-1", UserID: "u-1", Role: "user"})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	resolver := stubResolver{records: map[string]session.Record{
		"sess-1": {UserID: "u-1", Role: "user", AccessToken: "remote-token"},
	}}
	router := newTestRouter(t, cfg, resolver, Services{})

	for _, path := range []string{"/api/v1/orders", "/api/v1/orders/checkout"} {
		resp := serve(router, http.MethodPost, path, token, strings.NewReader(`{}`))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", path, resp.Code)
		}
		if !strings.Contains(resp.Body.String(), "Idempotency-Key header required") {
			t.Fatalf("%s: unexpected body %s", path, resp.Body.String())
		}
	}
}

func TestDemoUsersMountedOutsideProd(t *testing.T) {
	store := demousers.NewStore()

	dev := newTestRouter(t, testConfig("dev"), stubResolver{}, Services{DemoUsers: store})
	created := serve(dev, http.MethodPost, "/api/users", "", strings.NewReader(`{"name":"Ada","email":"ada@example.com"}`))
	if created.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", created.Code, created.Body.String())
	}
	dup := serve(dev, http.MethodPost, "/api/users", "", strings.NewReader(`{"name":"Ada","email":"ADA@example.com"}`))
	if dup.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", dup.Code)
	}
	list := serve(dev, http.MethodGet, "/api/users", "", nil)
	if list.Code != http.StatusOK || !strings.Contains(list.Body.String(), "ada@example.com") {
		t.Fatalf("unexpected list response %d: %s", list.Code, list.Body.String())
	}

	prod := newTestRouter(t, testConfig("prod"), stubResolver{}, Services{DemoUsers: store})
	if resp := serve(prod, http.MethodGet, "/api/users", "", nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 in prod got %d", resp.Code)
	}
}
