package backend

import (
	"context"
	"net/http"
	"time"

	domainauth "github.com/visitrack/frontdesk/internal/domain/auth"
	apperrors "github.com/visitrack/frontdesk/internal/errors"
	"github.com/visitrack/frontdesk/internal/ports"
)

// AuthProviderOptions configures an AuthProvider.
type AuthProviderOptions struct {
	Client *Client
	Claims *ClaimExtractor
	// AccessTokenTTL is assumed when the access token has no exp claim.
	AccessTokenTTL time.Duration
	Now            func() time.Time
}

// AuthProvider logs in and refreshes tokens against the backend's
// simplejwt endpoints.
type AuthProvider struct {
	client *Client
	claims *ClaimExtractor
	ttl    time.Duration
	now    func() time.Time
}

var _ ports.AuthProvider = (*AuthProvider)(nil)

// NewAuthProvider builds an AuthProvider. Claims default to DefaultClaimPaths.
func NewAuthProvider(opts AuthProviderOptions) (*AuthProvider, error) {
	claims := opts.Claims
	if claims == nil {
		var err error
		if claims, err = NewClaimExtractor(DefaultClaimPaths()); err != nil {
			return nil, err
		}
	}
	p := &AuthProvider{
		client: opts.Client,
		claims: claims,
		ttl:    opts.AccessTokenTTL,
		now:    opts.Now,
	}
	if p.ttl <= 0 {
		p.ttl = 5 * time.Minute
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p, nil
}

type loginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshBody struct {
	Refresh string `json:"refresh"`
}

// Login posts credentials to the token endpoint.
func (p *AuthProvider) Login(ctx context.Context, in ports.LoginInput) (domainauth.Identity, error) {
	var doc map[string]any
	err := p.client.do(ctx, request{
		method:   http.MethodPost,
		path:     PathLogin,
		endpoint: "login",
		body:     loginBody{Username: in.Username, Password: in.Password},
		out:      &doc,
	})
	if err != nil {
		return domainauth.Identity{}, err
	}

	claims, tokenClaims, err := p.extract(doc)
	if err != nil {
		return domainauth.Identity{}, err
	}
	if claims.Username == "" {
		claims.Username = in.Username
	}

	return domainauth.Identity{
		Username:  claims.Username,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Role:      claims.Role,
		Credentials: domainauth.Credentials{
			AccessToken:  claims.AccessToken,
			RefreshToken: claims.RefreshToken,
			Expiry:       p.expiry(tokenClaims),
		},
	}, nil
}

// Refresh exchanges a refresh token. A rotated refresh token replaces the
// old one; otherwise the old one is kept.
func (p *AuthProvider) Refresh(ctx context.Context, refreshToken string) (domainauth.Credentials, error) {
	if refreshToken == "" {
		return domainauth.Credentials{}, apperrors.Unauthorized("no refresh token")
	}

	var doc map[string]any
	err := p.client.do(ctx, request{
		method:   http.MethodPost,
		path:     PathRefresh,
		endpoint: "refresh",
		body:     refreshBody{Refresh: refreshToken},
		out:      &doc,
	})
	if err != nil {
		return domainauth.Credentials{}, err
	}

	claims, tokenClaims, err := p.extract(doc)
	if err != nil {
		return domainauth.Credentials{}, err
	}
	if claims.RefreshToken == "" {
		claims.RefreshToken = refreshToken
	}
	return domainauth.Credentials{
		AccessToken:  claims.AccessToken,
		RefreshToken: claims.RefreshToken,
		Expiry:       p.expiry(tokenClaims),
	}, nil
}

// extract runs the claim expressions twice: once to find the access
// token, then again with its decoded payload exposed under "token".
func (p *AuthProvider) extract(doc map[string]any) (Claims, map[string]any, error) {
	if doc == nil {
		doc = map[string]any{}
	}
	first, err := p.claims.Extract(doc)
	if err != nil {
		return Claims{}, nil, apperrors.Wrap(err, apperrors.ErrCodeUpstream, "unreadable token response")
	}
	if first.AccessToken == "" {
		return Claims{}, nil, apperrors.Upstream(http.StatusOK, "token response carried no access token")
	}

	tokenClaims := decodeTokenClaims(first.AccessToken)
	if tokenClaims == nil {
		return first, nil, nil
	}

	merged := make(map[string]any, len(doc)+1)
	for k, v := range doc {
		merged[k] = v
	}
	merged["token"] = tokenClaims

	claims, err := p.claims.Extract(merged)
	if err != nil {
		return Claims{}, nil, apperrors.Wrap(err, apperrors.ErrCodeUpstream, "unreadable token response")
	}
	return claims, tokenClaims, nil
}

func (p *AuthProvider) expiry(tokenClaims map[string]any) time.Time {
	if exp := tokenExpiry(tokenClaims); !exp.IsZero() {
		return exp
	}
	return p.now().Add(p.ttl)
}
