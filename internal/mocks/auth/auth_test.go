package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/visitrack/frontdesk/internal/domain/auth"
	"github.com/visitrack/frontdesk/internal/ports"
)

func TestMockAuthProvider_Login_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()

	id, err := provider.Login(ctx, ports.LoginInput{Username: "desk", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "mock.user", id.Username)
	assert.Equal(t, "token-access-1", id.Credentials.AccessToken)
	assert.Equal(t, "token-refresh-1", id.Credentials.RefreshToken)

	id2, err := provider.Login(ctx, ports.LoginInput{Username: "desk", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "token-access-2", id2.Credentials.AccessToken)
}

func TestMockAuthProvider_Login_CustomFunc(t *testing.T) {
	provider := &MockAuthProvider{
		LoginFunc: func(context.Context, ports.LoginInput) (domainauth.Identity, error) {
			return domainauth.Identity{}, errors.New("bad credentials")
		},
	}
	_, err := provider.Login(context.Background(), ports.LoginInput{})
	assert.EqualError(t, err, "bad credentials")
}

func TestMockAuthProvider_Refresh(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()

	creds, err := provider.Refresh(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "token-refreshed-1", creds.AccessToken)
	assert.Equal(t, "r1", creds.RefreshToken)
	assert.Equal(t, 1, provider.RefreshCount())

	_, err = provider.Refresh(ctx, "")
	assert.Error(t, err)
}

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	require.Error(t, store.Save(ctx, domainauth.Session{}))
	require.NoError(t, store.Save(ctx, domainauth.Session{ID: "s1", Username: "desk"}))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "desk", got.Username)
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestStaticRoleMapper(t *testing.T) {
	m := StaticRoleMapper{AdminRole: "admin", ReceptionistRole: "receptionist"}
	assert.Equal(t, domainauth.RoleAdmin, m.Map("admin"))
	assert.Equal(t, domainauth.RoleReceptionist, m.Map("receptionist"))
	assert.Equal(t, domainauth.RoleGuest, m.Map("visitor"))
}
