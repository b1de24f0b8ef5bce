package config

import (
	"strings"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 || cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("http timeouts = %d/%d, want 10/30", cfg.HTTP.ReadTimeoutSec, cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Auth.TokenTTLHours != 24*7 {
		t.Errorf("token ttl = %d, want %d", cfg.Auth.TokenTTLHours, 24*7)
	}
	if cfg.AI.EmbeddingModel != "text-embedding-3-small" || cfg.AI.EmbeddingDimensions != 1536 {
		t.Errorf("embedding defaults = %s/%d", cfg.AI.EmbeddingModel, cfg.AI.EmbeddingDimensions)
	}
	if cfg.Search.MinScore != 0.7 || cfg.Search.Limit != 5 {
		t.Errorf("search defaults = %v/%d, want 0.7/5", cfg.Search.MinScore, cfg.Search.Limit)
	}
	if cfg.Backfill.Concurrency != 1 {
		t.Errorf("backfill concurrency = %d, want 1", cfg.Backfill.Concurrency)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := Config{
		Search:   SearchConfig{MinScore: 0.9, Limit: 10},
		Backfill: BackfillConfig{Concurrency: 8},
	}
	cfg.ApplyDefaults()

	if cfg.Search.MinScore != 0.9 || cfg.Search.Limit != 10 {
		t.Errorf("search = %v/%d, want explicit values kept", cfg.Search.MinScore, cfg.Search.Limit)
	}
	if cfg.Backfill.Concurrency != 8 {
		t.Errorf("concurrency = %d, want 8", cfg.Backfill.Concurrency)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Auth:     AuthConfig{JWTSecret: "secret"},
		Search:   SearchConfig{MinScore: 0.7},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v on valid config", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"zero port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"port too high", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"no addrs", func(c *Config) { c.Database.Addrs = nil }, "database.addrs"},
		{"no secret", func(c *Config) { c.Auth.JWTSecret = "" }, "jwt_secret"},
		{"score above one", func(c *Config) { c.Search.MinScore = 1.5 }, "min_score"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TASKNEST_TEST_SECRET", "hunter2")

	in := []byte("auth:\n  jwt_secret: \"${TASKNEST_TEST_SECRET}\"\n  other: \"${TASKNEST_TEST_UNSET}\"\n")
	out := string(expandEnvVars(in))

	if !strings.Contains(out, `jwt_secret: "hunter2"`) {
		t.Errorf("expanded output missing substituted value: %s", out)
	}
	if !strings.Contains(out, `other: ""`) {
		t.Errorf("unset variable should expand to empty string: %s", out)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}

func TestLoadLocalConfig(t *testing.T) {
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("Load(local) error = %v", err)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.HTTP.Port)
	}
	if cfg.Search.MinScore != 0.7 || cfg.Search.Limit != 5 {
		t.Errorf("search = %v/%d, want 0.7/5", cfg.Search.MinScore, cfg.Search.Limit)
	}
}
