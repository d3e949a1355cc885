package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/visitrack/frontdesk/internal/domain/auth"
	"github.com/visitrack/frontdesk/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider = (*MockAuthProvider)(nil)
	_ ports.SessionStore = (*MemorySessionStore)(nil)
	_ ports.RoleMapper   = (*StaticRoleMapper)(nil)
)

// MockAuthProvider simulates the backend token endpoints with deterministic tokens.
type MockAuthProvider struct {
	LoginFunc   func(ctx context.Context, in ports.LoginInput) (domainauth.Identity, error)
	RefreshFunc func(ctx context.Context, refreshToken string) (domainauth.Credentials, error)

	// Deterministic values for predictable testing
	TokenPrefix string
	TokenTTL    time.Duration
	DefaultUser domainauth.Identity

	mu           sync.Mutex
	loginCount   int
	refreshCount int
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		TokenPrefix: "token",
		TokenTTL:    time.Hour,
		DefaultUser: domainauth.Identity{
			Username:  "mock.user",
			FirstName: "Mock",
			LastName:  "User",
			Role:      "receptionist",
		},
	}
}

func (m *MockAuthProvider) Login(ctx context.Context, in ports.LoginInput) (domainauth.Identity, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, in)
	}

	m.mu.Lock()
	m.loginCount++
	n := m.loginCount
	m.mu.Unlock()

	user := m.DefaultUser
	if user.Username == "" {
		user.Username = in.Username
	}
	user.Credentials = domainauth.Credentials{
		AccessToken:  fmt.Sprintf("%s-access-%d", m.prefix(), n),
		RefreshToken: fmt.Sprintf("%s-refresh-%d", m.prefix(), n),
		Expiry:       time.Now().Add(m.ttl()),
	}
	return user, nil
}

func (m *MockAuthProvider) Refresh(ctx context.Context, refreshToken string) (domainauth.Credentials, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	if refreshToken == "" {
		return domainauth.Credentials{}, errors.New("refresh token required")
	}

	m.mu.Lock()
	m.refreshCount++
	n := m.refreshCount
	m.mu.Unlock()

	return domainauth.Credentials{
		AccessToken:  fmt.Sprintf("%s-refreshed-%d", m.prefix(), n),
		RefreshToken: refreshToken,
		Expiry:       time.Now().Add(m.ttl()),
	}, nil
}

// RefreshCount reports how many refreshes the default implementation served.
func (m *MockAuthProvider) RefreshCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshCount
}

func (m *MockAuthProvider) prefix() string {
	if m.TokenPrefix == "" {
		return "token"
	}
	return m.TokenPrefix
}

func (m *MockAuthProvider) ttl() time.Duration {
	if m.TokenTTL <= 0 {
		return time.Hour
	}
	return m.TokenTTL
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// StaticRoleMapper maps role claims by exact match.
type StaticRoleMapper struct {
	AdminRole        string
	ReceptionistRole string
}

func (m StaticRoleMapper) Map(role string) domainauth.Role {
	switch {
	case m.AdminRole != "" && role == m.AdminRole:
		return domainauth.RoleAdmin
	case m.ReceptionistRole != "" && role == m.ReceptionistRole:
		return domainauth.RoleReceptionist
	default:
		return domainauth.RoleGuest
	}
}
