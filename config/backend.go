package config

import (
	"strings"
	"time"
)

const (
	defaultBackendBaseURL   = "http://localhost:8000"
	defaultMaxResponseBytes = 32 << 20
)

// BackendConfig describes the REST backend that owns users and visitors.
type BackendConfig struct {
	// BaseURL is the scheme and host of the backend; API paths are appended to it.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8000"`

	// Timeout bounds each backend request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`

	// UserAgent is sent on every backend request.
	UserAgent string `env:"USER_AGENT" envDefault:"frontdesk"`

	// MaxResponseBytes caps a response body; the visitor list is read whole.
	MaxResponseBytes int64 `env:"MAX_RESPONSE_BYTES" envDefault:"33554432"`
}

// Sanitize normalises the base URL and enforces a positive timeout and body limit.
func (b *BackendConfig) Sanitize() {
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	if b.BaseURL == "" {
		b.BaseURL = defaultBackendBaseURL
	}
	if b.Timeout <= 0 {
		b.Timeout = 15 * time.Second
	}
	if strings.TrimSpace(b.UserAgent) == "" {
		b.UserAgent = "frontdesk"
	}
	if b.MaxResponseBytes <= 0 {
		b.MaxResponseBytes = defaultMaxResponseBytes
	}
}
