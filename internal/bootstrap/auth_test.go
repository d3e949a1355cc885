package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visitrack/frontdesk/config"
	"github.com/visitrack/frontdesk/internal/adapters/backend"
	"github.com/visitrack/frontdesk/internal/adapters/memory"
	domainauth "github.com/visitrack/frontdesk/internal/domain/auth"
	"github.com/visitrack/frontdesk/internal/ports"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestBuildAuthService_Mock(t *testing.T) {
	sessions := memory.NewSessionStore(0)
	t.Cleanup(func() { _ = sessions.Close() })

	svc, err := BuildAuthService(AuthConfig{
		Auth: config.AuthConfig{
			Mode:    config.AuthModeMock,
			DevAuth: config.DevAuthConfig{Username: "dev", Role: "receptionist", Token: "dev-token"},
		},
		Sessions: sessions,
		Logger:   discardLogger(),
	})
	require.NoError(t, err)

	sess, err := svc.Login(context.Background(), ports.LoginInput{Username: "anyone", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "dev", sess.Username)
	assert.Equal(t, domainauth.RoleReceptionist, sess.Role)

	tok, err := svc.Credentials(context.Background(), sess).AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dev-token", tok)
}

func TestBuildAuthService_Errors(t *testing.T) {
	sessions := memory.NewSessionStore(0)
	t.Cleanup(func() { _ = sessions.Close() })
	client := backend.NewClient(backend.Options{BaseURL: "http://127.0.0.1:1"})

	tests := []struct {
		name string
		cfg  AuthConfig
	}{
		{
			name: "no session store",
			cfg:  AuthConfig{Auth: config.AuthConfig{Mode: config.AuthModeMock}},
		},
		{
			name: "mock without token",
			cfg: AuthConfig{
				Auth:     config.AuthConfig{Mode: config.AuthModeMock, DevAuth: config.DevAuthConfig{Username: "dev"}},
				Sessions: sessions,
			},
		},
		{
			name: "backend without client",
			cfg:  AuthConfig{Auth: config.AuthConfig{Mode: config.AuthModeBackend}, Sessions: sessions},
		},
		{
			name: "bad claim expression",
			cfg: AuthConfig{
				Auth: config.AuthConfig{
					Mode:   config.AuthModeBackend,
					Claims: config.ClaimsConfig{AccessToken: "access", Role: "user.[role"},
				},
				Sessions: sessions,
				Backend:  client,
			},
		},
		{
			name: "missing access token expression",
			cfg: AuthConfig{
				Auth:     config.AuthConfig{Mode: config.AuthModeBackend},
				Sessions: sessions,
				Backend:  client,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := BuildAuthService(tt.cfg)
			require.Error(t, err)
			assert.Nil(t, svc)
		})
	}
}
