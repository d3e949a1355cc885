package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/visitrack/frontdesk/internal/domain/user"
	"github.com/visitrack/frontdesk/internal/ports"
)

// CreateUser posts a new account to the backend.
func (c *Client) CreateUser(ctx context.Context, creds ports.CredentialProvider, req user.CreateRequest) (user.User, error) {
	var out user.User
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     PathCreateUser,
		endpoint: "create-user",
		creds:    creds,
		body:     req,
		out:      &out,
	})
	return out, err
}

// ListUsers returns every account.
func (c *Client) ListUsers(ctx context.Context, creds ports.CredentialProvider) ([]user.User, error) {
	var out []user.User
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     PathUsers,
		endpoint: "get-user",
		creds:    creds,
		out:      &out,
	})
	return out, err
}

// UpdateUser applies a partial update to one account.
func (c *Client) UpdateUser(ctx context.Context, creds ports.CredentialProvider, id int, req user.UpdateRequest) (user.User, error) {
	var out user.User
	err := c.do(ctx, request{
		method:   http.MethodPut,
		path:     fmt.Sprintf(PathUpdateUser, id),
		endpoint: "update-user",
		creds:    creds,
		body:     req,
		out:      &out,
	})
	return out, err
}
