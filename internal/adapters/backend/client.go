// Package backend is the HTTP adapter for the REST backend that owns users
// and visitors. It implements the directory and auth ports.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/visitrack/frontdesk/internal/errors"
	"github.com/visitrack/frontdesk/internal/observability/statsd"
	"github.com/visitrack/frontdesk/internal/ports"
)

const (
	// DefaultMaxResponseBytes caps a response body when Options leaves it unset.
	DefaultMaxResponseBytes = 32 << 20
	logSnippetBytes         = 512
)

var errResponseTooLarge = errors.New("backend response too large")

// API paths, relative to the base URL.
const (
	PathLogin          = "/api/login/"
	PathRefresh        = "/api/refresh/"
	PathUsers          = "/api/get-user/"
	PathCreateUser     = "/api/create-user/"
	PathUpdateUser     = "/api/update-user/%d/"
	PathActiveVisitors = "/api/active-visitors/"
	PathVisitor        = "/api/visitor/"
	PathVisitorList    = "/api/visitor-list/"
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
	Logger     *slog.Logger
	Metrics    statsd.Sink
	// MaxResponseBytes rejects larger bodies as upstream errors.
	MaxResponseBytes int64
}

// Client talks JSON to the backend.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
	logger    *slog.Logger
	metrics   statsd.Sink
	maxBody   int64
}

var (
	_ ports.VisitorDirectory = (*Client)(nil)
	_ ports.UserDirectory    = (*Client)(nil)
	_ ports.Pinger           = (*Client)(nil)
)

// NewClient builds a Client, filling unset options with defaults.
func NewClient(opts Options) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		http:      opts.HTTPClient,
		userAgent: opts.UserAgent,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		maxBody:   opts.MaxResponseBytes,
	}
	if c.maxBody <= 0 {
		c.maxBody = DefaultMaxResponseBytes
	}
	if c.http == nil {
		c.http = NewHTTPClient(HTTPClientOptions{})
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.metrics == nil {
		c.metrics = statsd.Noop{}
	}
	return c
}

// request describes one backend call.
type request struct {
	method   string
	path     string
	endpoint string // metric/log label
	creds    ports.CredentialProvider
	body     any
	out      any
}

func (c *Client) do(ctx context.Context, r request) error {
	start := time.Now()
	status, err := c.roundTrip(ctx, r)

	tags := map[string]string{"endpoint": r.endpoint, "status": status}
	c.metrics.Count("backend.request", 1, tags)
	c.metrics.Timing("backend.request.duration", time.Since(start), tags)
	return err
}

func (c *Client) roundTrip(ctx context.Context, r request) (string, error) {
	var bodyReader io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return "error", apperrors.Wrapf(err, apperrors.ErrCodeInternal, "encode %s request", r.endpoint)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, bodyReader)
	if err != nil {
		return "error", apperrors.Wrapf(err, apperrors.ErrCodeInternal, "build %s request", r.endpoint)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if r.creds != nil {
		token, tokErr := r.creds.AccessToken(ctx)
		if tokErr != nil {
			return "error", tokErr
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req) // #nosec G107 -- base URL is operator configuration
	if err != nil {
		return "error", apperrors.MapTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	status := strconv.Itoa(resp.StatusCode)
	if err != nil {
		return status, apperrors.MapTransportError(err)
	}
	if int64(len(raw)) > c.maxBody {
		c.logger.WarnContext(ctx, "backend response too large",
			"endpoint", r.endpoint, "status", resp.StatusCode, "limit_bytes", c.maxBody)
		return status, apperrors.Wrapf(errResponseTooLarge, apperrors.ErrCodeUpstream,
			"%s response exceeds %d bytes", r.endpoint, c.maxBody)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WarnContext(ctx, "backend request failed",
			"endpoint", r.endpoint,
			"method", r.method,
			"status", resp.StatusCode,
			"body", snippet(raw),
		)
		return status, apperrors.MapStatus(resp.StatusCode, raw)
	}

	if r.out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, r.out); err != nil {
			return status, apperrors.Wrapf(err, apperrors.ErrCodeUpstream, "decode %s response", r.endpoint)
		}
	}
	return status, nil
}

// Ping issues an unauthenticated read to confirm the backend answers.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+PathVisitorList, nil)
	if err != nil {
		return fmt.Errorf("build ping: %w", err)
	}
	resp, err := c.http.Do(req) // #nosec G107 -- base URL is operator configuration
	if err != nil {
		return apperrors.MapTransportError(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return apperrors.Upstream(resp.StatusCode, "backend unhealthy")
	}
	return nil
}

func snippet(b []byte) string {
	b = bytes.TrimSpace(b)
	if len(b) > logSnippetBytes {
		b = b[:logSnippetBytes]
	}
	return string(b)
}
