package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/visitrack/frontdesk/internal/domain/auth"
)

// LoginInput carries the credentials typed into the login form.
type LoginInput struct {
	Username string
	Password string
}

// AuthProvider exchanges credentials for backend tokens.
type AuthProvider interface {
	// Login verifies the credentials and returns the authenticated identity with its tokens.
	Login(ctx context.Context, in LoginInput) (domainauth.Identity, error)

	// Refresh trades a refresh token for a fresh access token.
	Refresh(ctx context.Context, refreshToken string) (domainauth.Credentials, error)
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper maps the backend's role claim to an application role.
type RoleMapper interface {
	Map(role string) domainauth.Role
}

// CredentialProvider supplies the bearer token for an outgoing backend call.
// It is passed explicitly to every authenticated call.
type CredentialProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// StaticCredentials is a CredentialProvider for a fixed token.
type StaticCredentials string

// AccessToken returns the fixed token.
func (s StaticCredentials) AccessToken(context.Context) (string, error) { return string(s), nil }

// ErrSessionNotFound is returned by SessionStore.Get for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")
