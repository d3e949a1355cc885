package devauth

// Package devauth provides a simple, config-driven AuthProvider for local development.

import (
	"context"
	"errors"
	"strings"
	"time"

	domainauth "github.com/visitrack/frontdesk/internal/domain/auth"
	"github.com/visitrack/frontdesk/internal/ports"
)

// Config controls the dev auth provider behavior.
// Username and Token are required.
type Config struct {
	Username  string
	FirstName string
	LastName  string
	Role      string
	Token     string
	TokenTTL  time.Duration // default 8h when zero
	Now       func() time.Time
}

// Provider implements ports.AuthProvider for local development.
// Login accepts any non-empty password and returns the configured identity.
// The configured token is forwarded to the backend unchanged.
type Provider struct {
	identity domainauth.Identity
	ttl      time.Duration
	now      func() time.Time
}

var _ ports.AuthProvider = (*Provider)(nil)

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Username == "" {
		return nil, errors.New("dev auth: Username is required")
	}
	if cfg.Token == "" {
		return nil, errors.New("dev auth: Token is required")
	}
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = 8 * time.Hour
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Provider{
		identity: domainauth.Identity{
			Username:  cfg.Username,
			FirstName: cfg.FirstName,
			LastName:  cfg.LastName,
			Role:      cfg.Role,
			Credentials: domainauth.Credentials{
				AccessToken:  cfg.Token,
				RefreshToken: cfg.Token,
			},
		},
		ttl: ttl,
		now: now,
	}, nil
}

// Login ignores the typed username and returns the dev identity.
func (p *Provider) Login(_ context.Context, in ports.LoginInput) (domainauth.Identity, error) {
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return domainauth.Identity{}, errors.New("dev auth: username and password are required")
	}
	id := p.identity
	id.Credentials.Expiry = p.now().Add(p.ttl)
	return id, nil
}

// Refresh hands back the configured token with a renewed expiry.
func (p *Provider) Refresh(_ context.Context, refreshToken string) (domainauth.Credentials, error) {
	if refreshToken != p.identity.Credentials.RefreshToken {
		return domainauth.Credentials{}, errors.New("dev auth: unknown refresh token")
	}
	creds := p.identity.Credentials
	creds.Expiry = p.now().Add(p.ttl)
	return creds, nil
}
