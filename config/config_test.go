package config

import (
	"log/slog"
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "MOCK")
	t.Setenv("AUTH_CLAIM_ACCESS_TOKEN", "tokens.access")
	t.Setenv("AUTH_CLAIM_ROLE", "profile.role")
	t.Setenv("DEV_AUTH_USERNAME", "desk")
	t.Setenv("DEV_AUTH_ROLE", "receptionist")
	t.Setenv("DEV_AUTH_TOKEN", "abc")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL", "10m")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		Mode: AuthModeMock,
		Claims: ClaimsConfig{
			AccessToken:  "tokens.access",
			RefreshToken: "refresh",
			Username:     "username || user.username || token.username",
			FirstName:    "first_name || user.first_name || token.first_name",
			LastName:     "last_name || user.last_name || token.last_name",
			Role:         "profile.role",
		},
		DevAuth: DevAuthConfig{
			Username: "desk",
			Role:     "receptionist",
			Token:    "abc",
		},
		AccessTokenTTL: 10 * time.Minute,
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAuthMode_UnmarshalTextRejectsUnknown(t *testing.T) {
	var mode AuthMode
	if err := mode.UnmarshalText([]byte("oauth")); err == nil {
		t.Fatalf("expected error for unsupported mode")
	}
}

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Backend.BaseURL != "http://localhost:8000" {
		t.Errorf("unexpected backend base url %q", cfg.Backend.BaseURL)
	}
	if cfg.Auth.Mode != AuthModeBackend {
		t.Errorf("unexpected auth mode %q", cfg.Auth.Mode)
	}
	if cfg.Session.Store != SessionStoreMemory {
		t.Errorf("unexpected session store %q", cfg.Session.Store)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("unexpected http addr %q", cfg.HTTP.Addr)
	}
}

func TestBackendConfig_Sanitize(t *testing.T) {
	tests := []struct {
		name    string
		in      BackendConfig
		wantURL string
		wantTO  time.Duration
	}{
		{
			name:    "trailing slash trimmed",
			in:      BackendConfig{BaseURL: " https://api.example.org/ ", Timeout: time.Second},
			wantURL: "https://api.example.org",
			wantTO:  time.Second,
		},
		{
			name:    "empty falls back to default",
			in:      BackendConfig{BaseURL: "  "},
			wantURL: "http://localhost:8000",
			wantTO:  15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.in
			cfg.Sanitize()
			if cfg.BaseURL != tt.wantURL {
				t.Errorf("expected base url %q, got %q", tt.wantURL, cfg.BaseURL)
			}
			if cfg.Timeout != tt.wantTO {
				t.Errorf("expected timeout %v, got %v", tt.wantTO, cfg.Timeout)
			}
			if cfg.MaxResponseBytes != 32<<20 {
				t.Errorf("expected default body limit, got %d", cfg.MaxResponseBytes)
			}
		})
	}
}

func TestSessionConfig_ParseStore(t *testing.T) {
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("DRAFT_TTL", "0s")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Session.Store != SessionStoreRedis {
		t.Fatalf("expected redis store, got %q", cfg.Session.Store)
	}
	if cfg.Session.DraftTTL != 30*time.Minute {
		t.Fatalf("expected draft ttl default, got %v", cfg.Session.DraftTTL)
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " ",
	}

	cfg.Sanitize()

	if cfg.Enabled {
		t.Fatalf("expected enabled to be false when address is empty")
	}

	cfg = ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " statsd:1234 ",
	}

	cfg.Sanitize()

	if !cfg.IsEnabled() {
		t.Fatalf("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:1234" {
		t.Fatalf("expected address to be trimmed, got %q", cfg.StatsdAddress)
	}
	if cfg.Prefix != "frontdesk" {
		t.Fatalf("expected default prefix, got %q", cfg.Prefix)
	}
}

func TestObservabilityConfig_SlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := ObservabilityConfig{LogLevel: in}
		cfg.Sanitize()
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("level %q: expected %v, got %v", in, want, got)
		}
	}
}
