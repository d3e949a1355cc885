package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/visitrack/frontdesk/internal/domain/user"
	apperrors "github.com/visitrack/frontdesk/internal/errors"
	"github.com/visitrack/frontdesk/internal/ports"
)

// UserDirectoryServiceOptions groups dependencies for UserDirectoryService.
type UserDirectoryServiceOptions struct {
	Users  ports.UserDirectory // Required
	Logger *slog.Logger        // Optional
}

// UserDirectoryService lists staff accounts and toggles their status.
type UserDirectoryService struct {
	users  ports.UserDirectory
	logger *slog.Logger
}

// NewUserDirectoryService constructs a UserDirectoryService.
func NewUserDirectoryService(opts UserDirectoryServiceOptions) *UserDirectoryService {
	if opts.Users == nil {
		panic("UserDirectoryService: Users is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &UserDirectoryService{users: opts.Users, logger: logger.With("component", "user_directory")}
}

// List returns every account as the backend orders them.
func (s *UserDirectoryService) List(ctx context.Context, creds ports.CredentialProvider) ([]user.User, error) {
	users, err := s.users.ListUsers(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SetActive activates or deactivates the account with the given id.
func (s *UserDirectoryService) SetActive(ctx context.Context, creds ports.CredentialProvider, id int, active bool) (user.User, error) {
	if id <= 0 {
		return user.User{}, apperrors.ValidationField("id", "invalid user id")
	}
	updated, err := s.users.UpdateUser(ctx, creds, id, user.UpdateRequest{IsActive: &active})
	if err != nil {
		return user.User{}, fmt.Errorf("update user %d: %w", id, err)
	}
	s.logger.InfoContext(ctx, "user status changed", "id", id, "active", active)
	return updated, nil
}
