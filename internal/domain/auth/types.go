package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleReceptionist Role = "receptionist"
	RoleGuest        Role = "guest"
)

// Credentials are the bearer tokens the backend issued for a principal.
type Credentials struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry"` // access token expiry
}

// Valid reports whether the access token is present and not yet expired.
func (c Credentials) Valid(now time.Time) bool {
	return c.AccessToken != "" && (c.Expiry.IsZero() || now.Before(c.Expiry))
}

// Identity represents the authenticated principal returned by the backend login.
// Adapters map response-specific claims into this shape.
type Identity struct {
	Username    string
	FirstName   string
	LastName    string
	Role        string // raw role claim; mapped to Role by a RoleMapper
	Credentials Credentials
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
// The backend tokens never leave the server.
type Session struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Role        Role        `json:"role"`
	Credentials Credentials `json:"credentials"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

// IsGuest returns true if the session role is guest.
func (s Session) IsGuest() bool { return s.Role == RoleGuest }

// DisplayName prefers the full name and falls back to the username.
func (s Session) DisplayName() string {
	switch {
	case s.FirstName != "" && s.LastName != "":
		return s.FirstName + " " + s.LastName
	case s.FirstName != "":
		return s.FirstName
	default:
		return s.Username
	}
}
