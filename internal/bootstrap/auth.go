package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/visitrack/frontdesk/config"
	"github.com/visitrack/frontdesk/internal/adapters/authroles"
	"github.com/visitrack/frontdesk/internal/adapters/backend"
	"github.com/visitrack/frontdesk/internal/adapters/devauth"
	"github.com/visitrack/frontdesk/internal/ports"
	"github.com/visitrack/frontdesk/internal/service"
)

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	Auth       config.AuthConfig
	SessionTTL time.Duration
	Sessions   ports.SessionStore
	Backend    *backend.Client
	Logger     *slog.Logger
}

// BuildAuthService creates the auth service for the configured mode.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("auth: session store is required")
	}

	var (
		provider ports.AuthProvider
		err      error
	)
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		provider, err = devauth.NewProvider(devauth.Config{
			Username: cfg.Auth.DevAuth.Username,
			Role:     cfg.Auth.DevAuth.Role,
			Token:    cfg.Auth.DevAuth.Token,
		})
		if err == nil && cfg.Logger != nil {
			cfg.Logger.Warn("dev auth enabled: any password signs in", "username", cfg.Auth.DevAuth.Username)
		}
	case config.AuthModeBackend, "":
		provider, err = NewBackendAuthProvider(cfg.Auth, cfg.Backend)
	default:
		err = fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}
	if err != nil {
		return nil, fmt.Errorf("auth provider: %w", err)
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Sessions: cfg.Sessions,
		Roles:    authroles.StaticRoleMapper{},
		Config:   service.AuthServiceConfig{SessionTTL: cfg.SessionTTL},
	}), nil
}

// NewBackendAuthProvider builds the provider that signs in against the
// backend, compiling the configured claim expressions.
func NewBackendAuthProvider(auth config.AuthConfig, client *backend.Client) (*backend.AuthProvider, error) {
	if client == nil {
		return nil, fmt.Errorf("backend client is required in %s mode", config.AuthModeBackend)
	}
	claims := auth.Claims
	extractor, err := backend.NewClaimExtractor(backend.ClaimPaths{
		AccessToken:  claims.AccessToken,
		RefreshToken: claims.RefreshToken,
		Username:     claims.Username,
		FirstName:    claims.FirstName,
		LastName:     claims.LastName,
		Role:         claims.Role,
	})
	if err != nil {
		return nil, err
	}
	return backend.NewAuthProvider(backend.AuthProviderOptions{
		Client:         client,
		Claims:         extractor,
		AccessTokenTTL: auth.AccessTokenTTL,
	})
}
