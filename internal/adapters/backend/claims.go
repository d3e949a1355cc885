package backend

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmespath-community/go-jmespath"
)

// ClaimPaths are JMESPath expressions evaluated against the login response.
// The decoded access token payload is available under the "token" key.
type ClaimPaths struct {
	AccessToken  string
	RefreshToken string
	Username     string
	FirstName    string
	LastName     string
	Role         string
}

// DefaultClaimPaths match a simplejwt TokenObtainPair response with custom claims.
func DefaultClaimPaths() ClaimPaths {
	return ClaimPaths{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Username:     "username || user.username || token.username",
		FirstName:    "first_name || user.first_name || token.first_name",
		LastName:     "last_name || user.last_name || token.last_name",
		Role:         "role || user.role || token.role",
	}
}

// Claims are the values pulled out of a login or refresh response.
type Claims struct {
	AccessToken  string
	RefreshToken string
	Username     string
	FirstName    string
	LastName     string
	Role         string
}

// ClaimExtractor evaluates ClaimPaths against decoded JSON documents.
type ClaimExtractor struct {
	paths ClaimPaths
}

// NewClaimExtractor validates every non-empty expression up front.
func NewClaimExtractor(paths ClaimPaths) (*ClaimExtractor, error) {
	for name, expr := range map[string]string{
		"access_token":  paths.AccessToken,
		"refresh_token": paths.RefreshToken,
		"username":      paths.Username,
		"first_name":    paths.FirstName,
		"last_name":     paths.LastName,
		"role":          paths.Role,
	} {
		if strings.TrimSpace(expr) == "" {
			continue
		}
		if _, err := jmespath.Compile(expr); err != nil {
			return nil, fmt.Errorf("invalid %s claim expression %q: %w", name, expr, err)
		}
	}
	if strings.TrimSpace(paths.AccessToken) == "" {
		return nil, fmt.Errorf("access token claim expression is required")
	}
	return &ClaimExtractor{paths: paths}, nil
}

// Extract evaluates every expression against doc. Missing values are empty.
func (e *ClaimExtractor) Extract(doc any) (Claims, error) {
	var (
		c   Claims
		err error
	)
	for _, f := range []struct {
		expr string
		dst  *string
	}{
		{e.paths.AccessToken, &c.AccessToken},
		{e.paths.RefreshToken, &c.RefreshToken},
		{e.paths.Username, &c.Username},
		{e.paths.FirstName, &c.FirstName},
		{e.paths.LastName, &c.LastName},
		{e.paths.Role, &c.Role},
	} {
		if *f.dst, err = search(f.expr, doc); err != nil {
			return Claims{}, err
		}
	}
	return c, nil
}

func search(expr string, doc any) (string, error) {
	if strings.TrimSpace(expr) == "" {
		return "", nil
	}
	v, err := jmespath.Search(expr, doc)
	if err != nil {
		return "", fmt.Errorf("evaluate %q: %w", expr, err)
	}
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return fmt.Sprint(t), nil
	}
}

// decodeTokenClaims returns the payload of a JWT without verifying it.
// The backend already verified the credentials; the payload is only read
// for display attributes and expiry.
func decodeTokenClaims(token string) map[string]any {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil
	}
	var claims map[string]any
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil
	}
	return claims
}

// tokenExpiry reads the exp claim, or returns zero when absent.
func tokenExpiry(claims map[string]any) time.Time {
	exp, ok := claims["exp"].(float64)
	if !ok || exp <= 0 {
		return time.Time{}
	}
	return time.Unix(int64(exp), 0)
}
