package service

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	domainauth "github.com/visitrack/frontdesk/internal/domain/auth"
	apperrors "github.com/visitrack/frontdesk/internal/errors"
	"github.com/visitrack/frontdesk/internal/ports"
)

// SessionCredentials supplies the access token stored in a session and
// refreshes it through the backend once it expires. Rotated tokens are
// written back to the session store.
type SessionCredentials struct {
	src oauth2.TokenSource
}

var _ ports.CredentialProvider = (*SessionCredentials)(nil)

// Credentials returns a CredentialProvider bound to sess for the lifetime of
// ctx. sess is updated in place when a refresh happens.
func (s *AuthService) Credentials(ctx context.Context, sess *domainauth.Session) *SessionCredentials {
	initial := toOAuthToken(sess.Credentials)
	return &SessionCredentials{
		src: oauth2.ReuseTokenSource(initial, &sessionRefresher{ctx: ctx, auth: s, sess: sess}),
	}
}

// AccessToken returns a valid access token, refreshing it when needed.
func (c *SessionCredentials) AccessToken(context.Context) (string, error) {
	tok, err := c.src.Token()
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

type sessionRefresher struct {
	ctx  context.Context
	auth *AuthService
	sess *domainauth.Session
}

func (r *sessionRefresher) Token() (*oauth2.Token, error) {
	v, err, _ := r.auth.refreshes.Do(r.sess.ID, func() (any, error) {
		return r.auth.refresh(r.ctx, r.sess.ID, r.sess.Credentials.RefreshToken)
	})
	if err != nil {
		return nil, err
	}
	creds := v.(domainauth.Credentials)
	r.sess.Credentials = creds
	return toOAuthToken(creds), nil
}

// refresh trades the refresh token for new credentials and persists them.
func (s *AuthService) refresh(ctx context.Context, sessionID, refreshToken string) (domainauth.Credentials, error) {
	if refreshToken == "" {
		return domainauth.Credentials{}, apperrors.Unauthorized("session expired, please sign in again")
	}
	creds, err := s.provider.Refresh(ctx, refreshToken)
	if err != nil {
		return domainauth.Credentials{}, fmt.Errorf("refresh token: %w", err)
	}

	// Reload so a concurrent logout is not undone by the save.
	stored, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domainauth.Credentials{}, fmt.Errorf("reload session: %w", err)
	}
	stored.Credentials = creds
	if err := s.sessions.Save(ctx, stored); err != nil {
		return domainauth.Credentials{}, fmt.Errorf("save refreshed session: %w", err)
	}
	return creds, nil
}

func toOAuthToken(c domainauth.Credentials) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: c.RefreshToken,
		Expiry:       c.Expiry,
	}
}
