package auth

import (
	"testing"
	"time"
)

func TestSession_IsGuest(t *testing.T) {
	s := Session{Role: RoleGuest}
	if !s.IsGuest() {
		t.Fatalf("expected guest")
	}
	if (Session{Role: RoleReceptionist}).IsGuest() {
		t.Fatalf("did not expect guest")
	}
}

func TestSession_DisplayName(t *testing.T) {
	tests := []struct {
		s    Session
		want string
	}{
		{Session{Username: "jdoe", FirstName: "Jane", LastName: "Doe"}, "Jane Doe"},
		{Session{Username: "jdoe", FirstName: "Jane"}, "Jane"},
		{Session{Username: "jdoe"}, "jdoe"},
	}
	for _, tt := range tests {
		if got := tt.s.DisplayName(); got != tt.want {
			t.Errorf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}

func TestCredentials_Valid(t *testing.T) {
	now := time.Now()
	if (Credentials{}).Valid(now) {
		t.Fatalf("empty credentials must not be valid")
	}
	if !(Credentials{AccessToken: "a"}).Valid(now) {
		t.Fatalf("token without expiry should be valid")
	}
	if (Credentials{AccessToken: "a", Expiry: now.Add(-time.Second)}).Valid(now) {
		t.Fatalf("expired token must not be valid")
	}
}
