package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/visitrack/frontdesk/config"
	"github.com/visitrack/frontdesk/internal/adapters/backend"
	"github.com/visitrack/frontdesk/internal/bootstrap"
	"github.com/visitrack/frontdesk/internal/ports"
)

const (
	envAdminToken    = "FRONTDESK_ADMIN_TOKEN"
	envAdminPassword = "FRONTDESK_ADMIN_PASSWORD"
)

var errRedisNotConfigured = errors.New("redis not configured")

// signInFlags are shared by every command that calls a protected endpoint.
type signInFlags struct {
	Username string
	Password string
	Token    string
}

func (s *signInFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.Username, "admin", "", "username to sign in as")
	fs.StringVar(&s.Password, "admin-password", "", "password (defaults to $"+envAdminPassword+")")
	fs.StringVar(&s.Token, "token", "", "bearer token to use instead of signing in (defaults to $"+envAdminToken+")")
}

func newBackendClient(cmdCtx *commandContext) *backend.Client {
	cfg := cmdCtx.Config.Backend
	return backend.NewClient(backend.Options{
		BaseURL:    cfg.BaseURL,
		HTTPClient: backend.NewHTTPClient(backend.HTTPClientOptions{Timeout: cfg.Timeout}),
		UserAgent:  "frontdesk-admin",
		Logger:     cmdCtx.Logger,

		MaxResponseBytes: cfg.MaxResponseBytes,
	})
}

// credentials resolves a bearer token, signing in against the backend when
// no token was supplied.
func (s signInFlags) credentials(cmdCtx *commandContext, client *backend.Client) (ports.CredentialProvider, error) {
	token := firstNonEmpty(s.Token, os.Getenv(envAdminToken))
	if token != "" {
		return ports.StaticCredentials(token), nil
	}
	if s.Username == "" {
		return nil, fmt.Errorf("sign-in required: pass -admin <username> or -token (or set %s)", envAdminToken)
	}
	password := firstNonEmpty(s.Password, os.Getenv(envAdminPassword))
	if password == "" {
		return nil, fmt.Errorf("password required: pass -admin-password or set %s", envAdminPassword)
	}

	provider, err := bootstrap.NewBackendAuthProvider(cmdCtx.Config.Auth, client)
	if err != nil {
		return nil, fmt.Errorf("build auth provider: %w", err)
	}
	ident, err := provider.Login(cmdCtx.Ctx, ports.LoginInput{Username: s.Username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("sign in as %s: %w", s.Username, err)
	}
	cmdCtx.Logger.Debug("signed in", "username", ident.Username, "role", ident.Role)
	return ports.StaticCredentials(ident.Credentials.AccessToken), nil
}

// connectRedis returns a connected client when configuration is present.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func connectRedis(cmdCtx *commandContext) (redis.UniversalClient, error) {
	if !hasRedisConfig(&cmdCtx.Config.Redis) {
		return nil, errRedisNotConfigured
	}
	client, err := bootstrap.ConnectRedis(cmdCtx.Ctx, cmdCtx.Config.Redis, cmdCtx.Logger)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

func hasRedisConfig(cfg *config.RedisConfig) bool {
	if cfg == nil {
		return false
	}
	if cfg.UseCluster {
		return len(cfg.ClusterNodes) > 0 || cfg.URI != ""
	}
	if cfg.UseSentinel {
		return len(cfg.SentinelNodes) > 0
	}
	return strings.TrimSpace(cfg.URI) != ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
