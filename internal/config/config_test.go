package config

import (
	"strings"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATA_STORE", "memory")
	t.Setenv("PORT", "4001")
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173")
	t.Setenv("FALLBACK_ORIGIN", "")
	t.Setenv("STATE_TTL", "")
	t.Setenv("SESSION_TTL", "")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.StateTTL != 10*time.Minute {
		t.Fatalf("expected default state TTL of 10m, got %s", cfg.StateTTL)
	}
	if cfg.SessionTTL != 7*24*time.Hour {
		t.Fatalf("expected default session TTL of 7d, got %s", cfg.SessionTTL)
	}
	if cfg.HTTPAddress() != ":4001" {
		t.Fatalf("unexpected HTTP address %q", cfg.HTTPAddress())
	}
	if !cfg.UseInMemoryStore() {
		t.Fatal("expected memory data store")
	}
}

func TestLoadFallbackOriginDefaultsToFirstAllowed(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.FallbackOrigin != "https://app.example.com" {
		t.Fatalf("expected fallback to default to first origin, got %q", cfg.FallbackOrigin)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %d", len(cfg.AllowedOrigins))
	}
}

func TestLoadRequiresSessionSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when SESSION_SECRET missing")
	}
	if !strings.Contains(err.Error(), "SESSION_SECRET") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRequiresDatabaseURLForPostgres(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATA_STORE", "postgres")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when DATA_STORE is postgres without DATABASE_URL")
	}
	if !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsInvalidStateTTL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STATE_TTL", "-5m")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for negative STATE_TTL")
	}
	if !strings.Contains(err.Error(), "STATE_TTL") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadReadsProviderCredentials(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("GOOGLE_CLIENT_ID", "g-client")
	t.Setenv("GOOGLE_CLIENT_SECRET", "g-secret")
	t.Setenv("GOOGLE_REDIRECT_URI", "https://gate.example.com/auth/google/callback")
	t.Setenv("KAKAO_REST_API_KEY", "k-key")
	t.Setenv("KAKAO_REDIRECT_URI", "https://gate.example.com/auth/kakao/callback")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Google.ClientID != "g-client" || cfg.Google.RedirectURL == "" {
		t.Fatalf("unexpected google config: %+v", cfg.Google)
	}
	if cfg.Kakao.ClientID != "k-key" || cfg.Kakao.ClientSecret != "" {
		t.Fatalf("unexpected kakao config: %+v", cfg.Kakao)
	}
}
