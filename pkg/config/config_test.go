package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "prod" {
		t.Fatalf("expected App.Env to be prod, got %q", cfg.App.Env)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected Redis URL: %q", cfg.Redis.URL)
	}
	if got := cfg.Cart.DebounceWindow; got != 500*time.Millisecond {
		t.Fatalf("expected default debounce 500ms, got %v", got)
	}
	if got := cfg.Catalog.CacheTTL; got != 5*time.Second {
		t.Fatalf("expected default catalog ttl 5s, got %v", got)
	}
	if cfg.Wishlist.LookupConcurrency != 0 {
		t.Fatalf("expected unbounded wishlist fanout by default, got %d", cfg.Wishlist.LookupConcurrency)
	}
	if got := cfg.JWT.SessionTTL(); got != 60*time.Minute {
		t.Fatalf("expected session ttl 60m, got %v", got)
	}
}

func TestLoad_OverridesDebounce(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCartDebounce, "250ms")
	t.Setenv(EnvCORSOrigins, "https://shop.example,https://admin.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Cart.DebounceWindow != 250*time.Millisecond {
		t.Fatalf("expected 250ms debounce, got %v", cfg.Cart.DebounceWindow)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Fatalf("expected two origins, got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RejectsBadUpstreamURL(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvUpstreamBaseURL, "ftp://example.com")

	if _, err := Load(); err == nil {
		t.Fatal("expected non-http upstream url to be rejected")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "prod")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvUpstreamBaseURL, "https://ecommerce.example.com")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvJWTSecret, "secret")
	t.Setenv(EnvJWTIssuer, "storefront")
	t.Setenv(EnvJWTExpMins, "60")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}
