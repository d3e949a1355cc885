package backend

import (
	"context"
	"net/http"

	"github.com/visitrack/frontdesk/internal/domain/user"
	"github.com/visitrack/frontdesk/internal/domain/visitor"
	"github.com/visitrack/frontdesk/internal/ports"
)

// ListVisitors fetches the full visitor list.
func (c *Client) ListVisitors(ctx context.Context) ([]visitor.Visitor, error) {
	out := []visitor.Visitor{}
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     PathVisitorList,
		endpoint: "visitor-list",
		out:      &out,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterVisitor creates a visitor appointment.
func (c *Client) RegisterVisitor(ctx context.Context, reg visitor.Registration) (visitor.Visitor, error) {
	var out visitor.Visitor
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     PathVisitor,
		endpoint: "visitor",
		body:     reg,
		out:      &out,
	})
	return out, err
}

// ActiveVisitorAccounts lists active accounts with the visitor role.
func (c *Client) ActiveVisitorAccounts(ctx context.Context, creds ports.CredentialProvider) ([]user.User, error) {
	var out []user.User
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     PathActiveVisitors,
		endpoint: "active-visitors",
		creds:    creds,
		out:      &out,
	})
	return out, err
}
