package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/visitrack/frontdesk/internal/domain/auth"
	"github.com/visitrack/frontdesk/internal/domain/user"
	"github.com/visitrack/frontdesk/internal/ports"
	"github.com/visitrack/frontdesk/internal/testutil"
)

func TestSessionStore(t *testing.T) {
	store := NewSessionStore(10 * time.Millisecond)
	defer store.Close()
	ctx := context.Background()

	sess := domainauth.Session{ID: "s1", Username: "desk", Role: domainauth.RoleReceptionist, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	assert.Error(t, store.Save(ctx, domainauth.Session{ID: "old", ExpiresAt: time.Now().Add(-time.Second)}))
	assert.Error(t, store.Save(ctx, domainauth.Session{ExpiresAt: time.Now().Add(time.Hour)}))
}

func TestSessionStore_Expiry(t *testing.T) {
	store := NewSessionStore(5 * time.Millisecond)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.Session{ID: "short", ExpiresAt: time.Now().Add(30 * time.Millisecond)}))

	assert.Eventually(t, func() bool {
		_, err := store.Get(ctx, "short")
		return err != nil
	}, time.Second, 10*time.Millisecond)
}

func TestDraftStore(t *testing.T) {
	store := NewDraftStore(time.Hour, time.Minute)
	defer store.Close()
	ctx := context.Background()

	empty, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, user.Draft{}, empty)

	d := user.Draft{Form: testutil.NewUserForm().Build(), DialogOpen: true}
	require.NoError(t, store.Save(ctx, "s1", d))

	// mutating the loaded copy does not affect the stored draft
	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	got.Form.Clear()
	again, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, d, again)

	require.NoError(t, store.Delete(ctx, "s1"))
	got, err = store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, user.Draft{}, got)

	assert.Error(t, store.Save(ctx, "", d))
}

func TestDraftStore_Expiry(t *testing.T) {
	store := NewDraftStore(20*time.Millisecond, 5*time.Millisecond)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", user.Draft{DialogOpen: true}))
	assert.Eventually(t, func() bool {
		d, _ := store.Load(ctx, "s1")
		return !d.DialogOpen
	}, time.Second, 10*time.Millisecond)
}

func TestDraftStore_ClaimConsumesTokenOnce(t *testing.T) {
	store := NewDraftStore(time.Hour, time.Minute)
	defer store.Close()
	ctx := context.Background()

	d := user.Draft{Form: testutil.NewUserForm().Build(), DialogOpen: true}
	require.Equal(t, user.OK, d.RequestConfirm("tok-1"))
	require.NoError(t, store.Save(ctx, "s1", d))

	_, err := store.Claim(ctx, "s1", "other")
	require.ErrorIs(t, err, user.ErrStaleSubmission)

	var (
		wg      sync.WaitGroup
		claimed atomic.Int32
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := store.Claim(ctx, "s1", "tok-1")
			if err == nil {
				claimed.Add(1)
				assert.Equal(t, d, got)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), claimed.Load())

	stored, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, stored.Gate.IsOpen())
	assert.Empty(t, stored.SubmissionToken)
	assert.Equal(t, d.Form, stored.Form)

	_, err = store.Claim(ctx, "missing", "tok-1")
	assert.ErrorIs(t, err, user.ErrGateClosed)
}
