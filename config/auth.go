package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeBackend authenticates against the REST backend's token endpoints.
	AuthModeBackend AuthMode = "backend"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "backend", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: backend, mock)", v)
	}
}

// ClaimsConfig holds JMESPath expressions evaluated against the login
// response to pull out tokens and identity attributes. The decoded access
// token payload is exposed to the expressions under "token".
type ClaimsConfig struct {
	AccessToken  string `env:"ACCESS_TOKEN"  envDefault:"access"`
	RefreshToken string `env:"REFRESH_TOKEN" envDefault:"refresh"`
	Username     string `env:"USERNAME"      envDefault:"username || user.username || token.username"`
	FirstName    string `env:"FIRST_NAME"    envDefault:"first_name || user.first_name || token.first_name"`
	LastName     string `env:"LAST_NAME"     envDefault:"last_name || user.last_name || token.last_name"`
	Role         string `env:"ROLE"          envDefault:"role || user.role || token.role"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	Username string `env:"USERNAME" envDefault:"dev"`
	Role     string `env:"ROLE"     envDefault:"admin"`
	// Token is forwarded to the backend as the bearer credential.
	Token string `env:"TOKEN" envDefault:"dev-token"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"backend"`

	// Claims configuration (used when Mode=backend).
	Claims ClaimsConfig `envPrefix:"AUTH_CLAIM_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// AccessTokenTTL is assumed when the access token carries no exp claim.
	AccessTokenTTL time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" envDefault:"5m"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.Mode == "" {
		a.Mode = AuthModeBackend
	}
	if a.AccessTokenTTL <= 0 {
		a.AccessTokenTTL = 5 * time.Minute
	}
	a.DevAuth.Role = strings.ToLower(strings.TrimSpace(a.DevAuth.Role))
}

// SessionStoreKind selects the session and draft storage backend.
type SessionStoreKind string

const (
	// SessionStoreRedis keeps sessions and drafts in Redis.
	SessionStoreRedis SessionStoreKind = "redis"
	// SessionStoreMemory keeps sessions and drafts in process memory.
	SessionStoreMemory SessionStoreKind = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionStoreKind.
func (s *SessionStoreKind) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "redis", "memory":
		*s = SessionStoreKind(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionStoreKind: %q (valid options: redis, memory)", v)
	}
}

// SessionConfig controls browser sessions and per-session form drafts.
type SessionConfig struct {
	Store SessionStoreKind `env:"SESSION_STORE" envDefault:"memory"`
	// TTL bounds a session's lifetime regardless of refresh token validity.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	// DraftTTL bounds how long an abandoned add-user draft is kept.
	DraftTTL time.Duration `env:"DRAFT_TTL" envDefault:"30m"`
	// SweepInterval is the cleanup tick for the in-memory store.
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`
	// EncryptionKey seals sessions and drafts kept in Redis: 32 bytes as hex
	// or base64. Empty stores them in the clear.
	EncryptionKey string `env:"SESSION_ENCRYPTION_KEY"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	if s.Store == "" {
		s.Store = SessionStoreMemory
	}
	if s.TTL <= 0 {
		s.TTL = 12 * time.Hour
	}
	if s.DraftTTL <= 0 {
		s.DraftTTL = 30 * time.Minute
	}
	if s.SweepInterval <= 0 {
		s.SweepInterval = time.Minute
	}
}
