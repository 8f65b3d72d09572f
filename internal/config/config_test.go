package config

import (
	"testing"
	"time"
)

// TestLoad_Defaults は環境変数未設定時にデフォルト値が使われることを検証する。
func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, "8080")
	}
	if cfg.SessionMaxAge != 86400 {
		t.Errorf("SessionMaxAge = %d, want %d", cfg.SessionMaxAge, 86400)
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("GeminiModel = %q, want %q", cfg.GeminiModel, "gemini-2.5-flash")
	}
	if cfg.GeminiAPIKey != "" {
		t.Errorf("GeminiAPIKey = %q, want empty", cfg.GeminiAPIKey)
	}
	if cfg.RateLimitGeneral != 120 {
		t.Errorf("RateLimitGeneral = %d, want %d", cfg.RateLimitGeneral, 120)
	}
	if cfg.RateLimitLogin != 10 {
		t.Errorf("RateLimitLogin = %d, want %d", cfg.RateLimitLogin, 10)
	}
	if cfg.EmailTimeout != 20*time.Second {
		t.Errorf("EmailTimeout = %v, want %v", cfg.EmailTimeout, 20*time.Second)
	}
	if cfg.CookieSecure {
		t.Error("CookieSecure = true, want false for http BaseURL")
	}
	if cfg.SeedDemoData {
		t.Error("SeedDemoData = true, want false by default")
	}
}

// TestLoad_Overrides は環境変数が設定値に反映されることを検証する。
func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("BASE_URL", "https://pedidos.example.com")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("SESSION_MAX_AGE", "3600")
	t.Setenv("EMAIL_TIMEOUT", "5s")
	t.Setenv("SEED_DEMO_DATA", "true")

	cfg := Load()

	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, "9090")
	}
	if !cfg.CookieSecure {
		t.Error("CookieSecure = false, want true for https BaseURL")
	}
	if cfg.GeminiAPIKey != "test-key" {
		t.Errorf("GeminiAPIKey = %q, want %q", cfg.GeminiAPIKey, "test-key")
	}
	if cfg.SessionMaxAge != 3600 {
		t.Errorf("SessionMaxAge = %d, want %d", cfg.SessionMaxAge, 3600)
	}
	if cfg.EmailTimeout != 5*time.Second {
		t.Errorf("EmailTimeout = %v, want %v", cfg.EmailTimeout, 5*time.Second)
	}
	if !cfg.SeedDemoData {
		t.Error("SeedDemoData = false, want true")
	}
}

// TestLoad_InvalidValues は不正な環境変数値がデフォルトに退避することを検証する。
func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("SESSION_MAX_AGE", "not-a-number")
	t.Setenv("EMAIL_TIMEOUT", "soon")
	t.Setenv("SEED_DEMO_DATA", "maybe")

	cfg := Load()

	if cfg.SessionMaxAge != 86400 {
		t.Errorf("SessionMaxAge = %d, want default %d", cfg.SessionMaxAge, 86400)
	}
	if cfg.EmailTimeout != 20*time.Second {
		t.Errorf("EmailTimeout = %v, want default %v", cfg.EmailTimeout, 20*time.Second)
	}
	if cfg.SeedDemoData {
		t.Error("SeedDemoData = true, want default false")
	}
}
