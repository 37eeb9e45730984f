package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Screener.BaseURL != DefaultBaseURL {
		t.Errorf("Expected base URL %s, got %s", DefaultBaseURL, cfg.Screener.BaseURL)
	}
	if cfg.Pipeline.Mode != "CONCURRENT" {
		t.Errorf("Expected CONCURRENT mode, got %s", cfg.Pipeline.Mode)
	}
	if cfg.Cache.Backend != "NONE" {
		t.Errorf("Expected NONE cache, got %s", cfg.Cache.Backend)
	}
	if cfg.RequestTimeout() != 20*time.Second {
		t.Errorf("Expected 20s request timeout, got %v", cfg.RequestTimeout())
	}
	if cfg.Input.PriceColumn != "Buying Price" {
		t.Errorf("Expected 'Buying Price' column, got %q", cfg.Input.PriceColumn)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
screener:
  base_url: http://localhost:9999
  backend: COLLY
  rate_limit_per_second: 2.5
pipeline:
  mode: SEQUENTIAL
  workers: 3
cache:
  backend: MEMORY
  ttl_minutes: 5
input:
  symbol_column: Ticker
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Screener.BaseURL != "http://localhost:9999" {
		t.Errorf("Expected overridden base URL, got %s", cfg.Screener.BaseURL)
	}
	if cfg.Screener.Backend != "COLLY" {
		t.Errorf("Expected COLLY backend, got %s", cfg.Screener.Backend)
	}
	if cfg.Screener.RateLimitPerSecond != 2.5 {
		t.Errorf("Expected rate 2.5, got %f", cfg.Screener.RateLimitPerSecond)
	}
	if cfg.Pipeline.Mode != "SEQUENTIAL" || cfg.Pipeline.Workers != 3 {
		t.Errorf("Expected SEQUENTIAL/3, got %s/%d", cfg.Pipeline.Mode, cfg.Pipeline.Workers)
	}
	if cfg.CacheTTL() != 5*time.Minute {
		t.Errorf("Expected 5m TTL, got %v", cfg.CacheTTL())
	}
	if cfg.Input.SymbolColumn != "Ticker" {
		t.Errorf("Expected Ticker column, got %s", cfg.Input.SymbolColumn)
	}
	if cfg.Screener.PathTemplate != DefaultPathTemplate {
		t.Errorf("Expected default path template, got %s", cfg.Screener.PathTemplate)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("SCREENER_BASE_URL", "http://env.example")
	t.Setenv("REDIS_ADDR", "redis:6380")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Screener.BaseURL != "http://env.example" {
		t.Errorf("Expected env base URL, got %s", cfg.Screener.BaseURL)
	}
	if cfg.Cache.RedisAddr != "redis:6380" {
		t.Errorf("Expected env redis addr, got %s", cfg.Cache.RedisAddr)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"mode", "pipeline:\n  mode: PARALLEL\n"},
		{"backend", "screener:\n  backend: CURL\n"},
		{"template", "screener:\n  path_template: /company/\n"},
		{"workers", "pipeline:\n  workers: -1\n"},
		{"cache", "cache:\n  backend: DISK\n"},
		{"format", "report:\n  format: XLSX\n"},
		{"rate", "screener:\n  rate_limit_per_second: -1\n"},
		{"retention", "report:\n  run_log_retention_days: -3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.body)); err == nil {
				t.Errorf("Expected validation error for %s", tt.name)
			}
		})
	}
}
