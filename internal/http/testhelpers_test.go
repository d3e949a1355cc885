package httpx

import (
	"context"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	domainauth "github.com/visitrack/frontdesk/internal/domain/auth"
	apperrors "github.com/visitrack/frontdesk/internal/errors"
	"github.com/visitrack/frontdesk/internal/ports"
)

// RequireTemplateRenderer creates a TemplateRenderer for tests, skipping the test if templates are not available.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
	})
	if err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
		return nil
	}
	return tr
}

// ContainsAll checks if a string contains all the given substrings.
func ContainsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// fakeAuthService is an in-memory AuthServiceInterface keyed by session ID.
type fakeAuthService struct {
	mu        sync.Mutex
	sessions  map[string]*domainauth.Session
	loginFn   func(ctx context.Context, in ports.LoginInput) (*domainauth.Session, error)
	loggedOut []string
}

func newFakeAuthService(sessions ...*domainauth.Session) *fakeAuthService {
	f := &fakeAuthService{sessions: map[string]*domainauth.Session{}}
	for _, s := range sessions {
		f.sessions[s.ID] = s
	}
	return f
}

func (f *fakeAuthService) Login(ctx context.Context, in ports.LoginInput) (*domainauth.Session, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, in)
	}
	return nil, apperrors.Unauthorized("invalid credentials")
}

func (f *fakeAuthService) GetSession(_ context.Context, id string) (*domainauth.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[id]; ok {
		return s, nil
	}
	return nil, apperrors.Unauthorized("session not found")
}

func (f *fakeAuthService) Logout(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	f.loggedOut = append(f.loggedOut, id)
	return nil
}

func testSession(id string, role domainauth.Role) *domainauth.Session {
	return &domainauth.Session{
		ID:        id,
		Username:  "jdoe",
		FirstName: "Jane",
		LastName:  "Doe",
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// withSessionCookie attaches the session cookie to r.
func withSessionCookie(r *http.Request, id string) *http.Request {
	r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: id})
	return r
}

// withSession puts sess into the request context, as the auth middleware does.
func withSession(r *http.Request, sess *domainauth.Session) *http.Request {
	return r.WithContext(SetSessionInContext(r.Context(), sess))
}
