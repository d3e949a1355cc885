package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visitrack/frontdesk/internal/cryptoutil"
	domainauth "github.com/visitrack/frontdesk/internal/domain/auth"
	"github.com/visitrack/frontdesk/internal/domain/user"
	"github.com/visitrack/frontdesk/internal/ports"
	"github.com/visitrack/frontdesk/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func testSession(id string, ttl time.Duration) domainauth.Session {
	return domainauth.Session{
		ID:        id,
		Username:  "desk",
		FirstName: "Rita",
		Role:      domainauth.RoleReceptionist,
		Credentials: domainauth.Credentials{
			AccessToken:  "access",
			RefreshToken: "refresh",
			Expiry:       time.Now().Add(5 * time.Minute).Truncate(time.Second),
		},
		ExpiresAt: time.Now().Add(ttl),
	}
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client, "test:")
	ctx := context.Background()

	session := testSession("test-session-1", 30*time.Minute)
	require.NoError(t, store.Save(ctx, session))

	retrieved, err := store.Get(ctx, "test-session-1")
	require.NoError(t, err)
	assert.Equal(t, session.Username, retrieved.Username)
	assert.Equal(t, session.Role, retrieved.Role)
	assert.Equal(t, session.Credentials.RefreshToken, retrieved.Credentials.RefreshToken)
	assert.True(t, session.Credentials.Expiry.Equal(retrieved.Credentials.Expiry))
	assert.WithinDuration(t, session.ExpiresAt, retrieved.ExpiresAt, time.Second)

	assert.Equal(t, int64(1), client.Exists(ctx, "test:session:test-session-1").Val())
}

func TestSessionStore_GetMissing(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client, "test:")
	ctx := context.Background()

	_, err := store.Get(ctx, "non-existent")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	_, err = store.Get(ctx, "")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_Delete(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client, "test:")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession("test-session-delete", 30*time.Minute)))
	require.NoError(t, store.Delete(ctx, "test-session-delete"))

	_, err := store.Get(ctx, "test-session-delete")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
	assert.NoError(t, store.Delete(ctx, ""))
}

func TestSessionStore_TTLExpiration(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client, "test:")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession("test-session-ttl", 100*time.Millisecond)))
	time.Sleep(200 * time.Millisecond)

	_, err := store.Get(ctx, "test-session-ttl")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_SaveRejectsInvalid(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client, "test:")
	ctx := context.Background()

	err := store.Save(ctx, testSession("", 30*time.Minute))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session ID cannot be empty")

	err = store.Save(ctx, testSession("expired", -time.Hour))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session is expired")
}

func sealedStores(t *testing.T, client *redis.Client) (*SessionStore, *DraftStore) {
	t.Helper()
	key := make([]byte, cryptoutil.KeySize)
	for i := range key {
		key[i] = byte(i + 1)
	}
	sealer, err := cryptoutil.NewAESGCM(key)
	require.NoError(t, err)
	return NewSessionStore(client, "test:", WithSealer(sealer)), NewDraftStore(client, "test:", time.Minute, WithSealer(sealer))
}

func TestSessionStore_Sealed(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()
	ctx := context.Background()

	store, _ := sealedStores(t, client)
	session := testSession("sealed-1", 30*time.Minute)
	require.NoError(t, store.Save(ctx, session))

	raw := client.Get(ctx, "test:session:sealed-1").Val()
	assert.NotContains(t, raw, `"refresh_token"`)
	assert.NotContains(t, raw, `"username"`)

	got, err := store.Get(ctx, "sealed-1")
	require.NoError(t, err)
	assert.Equal(t, "refresh", got.Credentials.RefreshToken)

	// A blob copied under another id does not open.
	require.NoError(t, client.Set(ctx, "test:session:copied", raw, time.Minute).Err())
	_, err = store.Get(ctx, "copied")
	require.Error(t, err)

	// Without the key the sealed value is refused rather than misread.
	_, err = NewSessionStore(client, "test:").Get(ctx, "sealed-1")
	require.ErrorIs(t, err, cryptoutil.ErrKeyRequired)
}

func TestSessionStore_SealedReadsLegacyPlaintext(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()
	ctx := context.Background()

	require.NoError(t, NewSessionStore(client, "test:").Save(ctx, testSession("legacy", 30*time.Minute)))
	store, _ := sealedStores(t, client)
	got, err := store.Get(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, "desk", got.Username)
}

func TestSessionStore_Scan(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()
	ctx := context.Background()

	store, drafts := sealedStores(t, client)
	for _, id := range []string{"scan-1", "scan-2", "scan-3"} {
		require.NoError(t, store.Save(ctx, testSession(id, 30*time.Minute)))
	}
	require.NoError(t, drafts.Save(ctx, "scan-1", user.Draft{DialogOpen: true}))

	var ids []string
	require.NoError(t, store.Scan(ctx, func(s domainauth.Session) error {
		ids = append(ids, s.ID)
		return nil
	}))
	assert.ElementsMatch(t, []string{"scan-1", "scan-2", "scan-3"}, ids)

	n, err := drafts.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stop := errors.New("stop")
	assert.ErrorIs(t, store.Scan(ctx, func(domainauth.Session) error { return stop }), stop)
}
