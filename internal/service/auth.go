package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	domainauth "github.com/visitrack/frontdesk/internal/domain/auth"
	apperrors "github.com/visitrack/frontdesk/internal/errors"
	"github.com/visitrack/frontdesk/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	Roles    ports.RoleMapper
	Config   AuthServiceConfig
}

// AuthServiceConfig holds session policy.
type AuthServiceConfig struct {
	SessionTTL time.Duration    // default 12h
	Now        func() time.Time // default time.Now
}

// AuthService orchestrates authentication flows by coordinating provider, role mapping, and session persistence.
type AuthService struct {
	provider ports.AuthProvider
	sessions ports.SessionStore
	roles    ports.RoleMapper
	ttl      time.Duration
	now      func() time.Time

	// refreshes collapses concurrent token refreshes for one session so a
	// rotated refresh token is only spent once.
	refreshes singleflight.Group
}

var errSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Provider == nil {
		panic("AuthService: Provider is required")
	}
	if opts.Sessions == nil {
		panic("AuthService: Sessions is required")
	}
	if opts.Roles == nil {
		panic("AuthService: Roles is required")
	}
	ttl := opts.Config.SessionTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	now := opts.Config.Now
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		provider: opts.Provider,
		sessions: opts.Sessions,
		roles:    opts.Roles,
		ttl:      ttl,
		now:      now,
	}
}

// Login verifies credentials with the backend, maps the role claim and
// persists a new session holding the backend tokens.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*domainauth.Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return nil, apperrors.Validation("Username and password are required")
	}

	identity, err := s.provider.Login(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	session := domainauth.Session{
		ID:          generateSessionID(),
		Username:    identity.Username,
		FirstName:   identity.FirstName,
		LastName:    identity.LastName,
		Role:        s.roles.Map(identity.Role),
		Credentials: identity.Credentials,
		ExpiresAt:   s.now().Add(s.ttl),
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}
	return &session, nil
}

// GetSession retrieves a session by ID.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if s.now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to logout
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	return uuid.New().String()
}
