package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visitrack/frontdesk/config"
	redisadapter "github.com/visitrack/frontdesk/internal/adapters/redis"
	domainauth "github.com/visitrack/frontdesk/internal/domain/auth"
	"github.com/visitrack/frontdesk/internal/domain/user"
	"github.com/visitrack/frontdesk/internal/domain/visitor"
	"github.com/visitrack/frontdesk/internal/testutil"
)

func newTestCommandContext(t *testing.T, backendURL string) (*commandContext, *bytes.Buffer) {
	t.Helper()
	t.Setenv(envAdminToken, "")
	t.Setenv(envAdminPassword, "")

	var cfg config.AppConfig
	cfg.Backend.BaseURL = backendURL
	cfg.Sanitize()
	cfg.Auth.Claims = config.ClaimsConfig{AccessToken: "access", Username: "username", Role: "role"}

	out := &bytes.Buffer{}
	return &commandContext{
		Ctx:    context.Background(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: cfg,
		Out:    out,
	}, out
}

func TestPrintUsageListsCommandsSorted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printUsage(&buf))

	out := buf.String()
	assert.Contains(t, out, "Usage: frontdesk-admin <command> [flags]")
	for name := range commands() {
		assert.Contains(t, out, name)
	}
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("\n  add-user ")), bytes.Index(buf.Bytes(), []byte("\n  users ")))
}

func TestVisitorsCommand(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.SeedVisitors(
		testutil.NewVisitor(1).Named("Cruz", "Ana", "M").Build(),
		testutil.NewVisitor(2).Named("Reyes", "Jose", "").WithPurpose(visitor.Other, "Thesis defense").Build(),
	)

	t.Run("table", func(t *testing.T) {
		cmdCtx, out := newTestCommandContext(t, fb.URL())
		require.NoError(t, runListVisitors(cmdCtx, nil))
		assert.Contains(t, out.String(), "Cruz, Ana M")
		assert.Contains(t, out.String(), "Thesis defense")
		assert.Contains(t, out.String(), "Total visitors: 2")
	})

	t.Run("search", func(t *testing.T) {
		cmdCtx, out := newTestCommandContext(t, fb.URL())
		require.NoError(t, runListVisitors(cmdCtx, []string{"-search", "thesis"}))
		assert.NotContains(t, out.String(), "Cruz")
		assert.Contains(t, out.String(), "Total visitors: 1")
	})

	t.Run("json", func(t *testing.T) {
		cmdCtx, out := newTestCommandContext(t, fb.URL())
		require.NoError(t, runListVisitors(cmdCtx, []string{"-json"}))
		var got []visitor.Visitor
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Len(t, got, 2)
	})

	t.Run("backend down", func(t *testing.T) {
		cmdCtx, _ := newTestCommandContext(t, "http://127.0.0.1:1")
		require.Error(t, runListVisitors(cmdCtx, nil))
	})
}

func TestUsersCommand_SignIn(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.AddAccount("admin1", "pw", "admin")
	fb.AddAccount("desk1", "pw", "receptionist")

	t.Run("password flag", func(t *testing.T) {
		cmdCtx, out := newTestCommandContext(t, fb.URL())
		require.NoError(t, runListUsers(cmdCtx, []string{"-admin", "admin1", "-admin-password", "pw"}))
		assert.Contains(t, out.String(), "desk1")
		assert.Contains(t, out.String(), "Total accounts: 2")
	})

	t.Run("password from env", func(t *testing.T) {
		cmdCtx, out := newTestCommandContext(t, fb.URL())
		t.Setenv(envAdminPassword, "pw")
		require.NoError(t, runListUsers(cmdCtx, []string{"-admin", "admin1"}))
		assert.Contains(t, out.String(), "admin1")
	})

	t.Run("token", func(t *testing.T) {
		cmdCtx, out := newTestCommandContext(t, fb.URL())
		require.NoError(t, runListUsers(cmdCtx, []string{"-token", fb.Token, "-json"}))
		var got []user.User
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Len(t, got, 2)
	})

	t.Run("wrong password", func(t *testing.T) {
		cmdCtx, _ := newTestCommandContext(t, fb.URL())
		err := runListUsers(cmdCtx, []string{"-admin", "admin1", "-admin-password", "nope"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sign in as admin1")
	})

	t.Run("no credentials", func(t *testing.T) {
		cmdCtx, _ := newTestCommandContext(t, fb.URL())
		err := runListUsers(cmdCtx, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sign-in required")
	})
}

func userArgs(overrides ...string) []string {
	return append(promptedUserArgs("-yes"), overrides...)
}

func promptedUserArgs(overrides ...string) []string {
	args := []string{
		"-token", "test-access-token",
		"-username", "desk2",
		"-firstName", "Ana",
		"-lastName", "Cruz",
		"-email", "ana@example.edu",
		"-password", "s3cret!",
		"-role", "receptionist",
		"-status", "Active",
	}
	return append(args, overrides...)
}

func TestAddUserCommand(t *testing.T) {
	fb := testutil.NewFakeBackend(t)

	t.Run("declined", func(t *testing.T) {
		cmdCtx, out := newTestCommandContext(t, fb.URL())
		cmdCtx.In = strings.NewReader("n\n")
		require.NoError(t, runAddUser(cmdCtx, promptedUserArgs()))
		assert.Contains(t, out.String(), "Add user desk2 (Ana Cruz, receptionist, Active)? [y/N]")
		assert.Contains(t, out.String(), "Cancelled")
		assert.Empty(t, fb.Users())
	})

	t.Run("creates account", func(t *testing.T) {
		cmdCtx, out := newTestCommandContext(t, fb.URL())
		cmdCtx.In = strings.NewReader("yes\n")
		require.NoError(t, runAddUser(cmdCtx, promptedUserArgs()))
		assert.Contains(t, out.String(), "Created user")

		users := fb.Users()
		require.Len(t, users, 1)
		assert.Equal(t, "desk2", users[0].Username)
		assert.Equal(t, "receptionist", users[0].Role)
		assert.True(t, users[0].IsActive)
	})

	t.Run("dry run", func(t *testing.T) {
		cmdCtx, out := newTestCommandContext(t, fb.URL())
		require.NoError(t, runAddUser(cmdCtx, userArgs("-dry-run", "-username", "desk3")))
		assert.Contains(t, out.String(), "Would create desk3 (receptionist, active=true)")
		assert.Len(t, fb.Users(), 1)
	})

	tests := []struct {
		name string
		args []string
		want user.Outcome
	}{
		{"missing field", userArgs("-email", " "), user.EmptyFields},
		{"bad role", userArgs("-role", "janitor"), user.InvalidSelection},
		{"bad email", userArgs("-email", "ana@example"), user.InvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmdCtx, _ := newTestCommandContext(t, fb.URL())
			err := runAddUser(cmdCtx, tt.args)
			var verr *user.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.want, verr.Outcome)
		})
	}
}

func TestSetActiveCommand(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	desk := fb.AddAccount("desk1", "pw", "receptionist")

	cmdCtx, out := newTestCommandContext(t, fb.URL())
	require.NoError(t, runSetActive(cmdCtx, []string{"-token", fb.Token, "-id", "1", "-active=false"}))
	assert.Contains(t, out.String(), "deactivated")
	assert.False(t, fb.Users()[0].IsActive)
	assert.Equal(t, desk.ID, fb.Users()[0].ID)

	for _, args := range [][]string{
		{"-token", fb.Token, "-id", "x", "-active", "true"},
		{"-token", fb.Token, "-id", "1"},
		{"-token", fb.Token, "-id", "1", "-active", "maybe"},
	} {
		cmdCtx, _ := newTestCommandContext(t, fb.URL())
		assert.Error(t, runSetActive(cmdCtx, args), "%v", args)
	}
}

func TestActiveVisitorsCommand(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.AddAccount("guest1", "pw", "visitor")
	fb.AddAccount("desk1", "pw", "receptionist")

	cmdCtx, out := newTestCommandContext(t, fb.URL())
	require.NoError(t, runActiveVisitors(cmdCtx, []string{"-token", fb.Token}))
	assert.Contains(t, out.String(), "guest1")
	assert.NotContains(t, out.String(), "desk1")
}

func TestMaskSessionID(t *testing.T) {
	assert.Equal(t, "abcdef...", maskSessionID("abcdefghijklmnop"))
	assert.Equal(t, "****", maskSessionID("abcd"))
	assert.Empty(t, maskSessionID(""))
}

func TestSessionsWithoutRedisConfig(t *testing.T) {
	cmdCtx, out := newTestCommandContext(t, "http://backend")
	cmdCtx.Config.Redis.URI = ""
	require.NoError(t, runListSessions(cmdCtx, nil))
	assert.Contains(t, out.String(), "Redis is not configured")
}

func TestSessionKeysInRedis(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()
	const prefix = "frontdesk-test:"

	sessions := redisadapter.NewSessionStore(client, prefix)
	drafts := redisadapter.NewDraftStore(client, prefix, time.Hour)
	for _, s := range []domainauth.Session{
		{ID: "sess-admin-0001", Username: "admin1", Role: domainauth.RoleAdmin, ExpiresAt: time.Now().Add(time.Hour)},
		{ID: "sess-desk-00001", Username: "desk1", Role: domainauth.RoleReceptionist, ExpiresAt: time.Now().Add(time.Hour)},
	} {
		require.NoError(t, sessions.Save(ctx, s))
	}
	require.NoError(t, drafts.Save(ctx, "sess-admin-0001", user.Draft{DialogOpen: true}))

	rows, err := collectSessions(ctx, sessions, "DESK1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "desk1", rows[0].Username)

	var buf bytes.Buffer
	require.NoError(t, printSessions(&buf, rows, time.Now()))
	assert.Contains(t, buf.String(), "sess-d...")
	assert.NotContains(t, buf.String(), "sess-desk-00001")

	n, err := purgeKeys(ctx, client, []string{draftPattern(prefix)}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = drafts.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "dry run keeps keys")

	n, err = purgeKeys(ctx, client, []string{draftPattern(prefix), sessionPattern(prefix)}, false)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	rows, err = collectSessions(ctx, sessions, "")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
