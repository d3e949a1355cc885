package ports

import (
	"context"

	"github.com/visitrack/frontdesk/internal/domain/user"
	"github.com/visitrack/frontdesk/internal/domain/visitor"
)

// VisitorDirectory reads and registers visitor appointments.
type VisitorDirectory interface {
	// ListVisitors returns every visitor, newest first.
	ListVisitors(ctx context.Context) ([]visitor.Visitor, error)

	// RegisterVisitor creates a visitor appointment. No credentials are required.
	RegisterVisitor(ctx context.Context, reg visitor.Registration) (visitor.Visitor, error)

	// ActiveVisitorAccounts lists active user accounts holding the visitor role.
	ActiveVisitorAccounts(ctx context.Context, creds CredentialProvider) ([]user.User, error)
}

// UserDirectory manages staff accounts.
type UserDirectory interface {
	CreateUser(ctx context.Context, creds CredentialProvider, req user.CreateRequest) (user.User, error)
	ListUsers(ctx context.Context, creds CredentialProvider) ([]user.User, error)
	UpdateUser(ctx context.Context, creds CredentialProvider, id int, req user.UpdateRequest) (user.User, error)
}

// Pinger reports whether the backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
