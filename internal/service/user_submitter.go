package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/visitrack/frontdesk/internal/domain/user"
	"github.com/visitrack/frontdesk/internal/ports"
)

// UserSubmitterOptions groups dependencies for UserSubmitter.
type UserSubmitterOptions struct {
	Users  ports.UserDirectory // Required
	Logger *slog.Logger        // Optional
}

// UserSubmitter sends create-user requests. Concurrent submits sharing a
// key collapse into a single backend call.
type UserSubmitter struct {
	users  ports.UserDirectory
	logger *slog.Logger
	group  singleflight.Group
}

// NewUserSubmitter constructs a UserSubmitter.
func NewUserSubmitter(opts UserSubmitterOptions) *UserSubmitter {
	if opts.Users == nil {
		panic("UserSubmitter: Users is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &UserSubmitter{users: opts.Users, logger: logger.With("component", "user_submitter")}
}

// Submit creates the account described by req with the caller's credentials.
func (s *UserSubmitter) Submit(ctx context.Context, key string, creds ports.CredentialProvider, req user.CreateRequest) (user.User, error) {
	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.users.CreateUser(ctx, creds, req)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "create user failed",
			"username", req.Username,
			"shared", shared,
			"error", err,
		)
		return user.User{}, err
	}
	created := v.(user.User)
	s.logger.InfoContext(ctx, "user created", "id", created.ID, "username", created.Username, "shared", shared)
	return created, nil
}

// For binds key and creds so the submitter can drive a Draft confirmation.
func (s *UserSubmitter) For(key string, creds ports.CredentialProvider) user.SubmitFunc {
	return func(ctx context.Context, req user.CreateRequest) (user.User, error) {
		return s.Submit(ctx, key, creds, req)
	}
}
