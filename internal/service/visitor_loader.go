package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/visitrack/frontdesk/internal/domain/visitor"
	"github.com/visitrack/frontdesk/internal/ports"
)

// ErrSuperseded is returned by VisitorLoader when a newer load for the
// same key replaced the call before it finished.
var ErrSuperseded = errors.New("visitor load superseded by a newer request")

// VisitorLoaderOptions groups dependencies for VisitorLoader.
type VisitorLoaderOptions struct {
	Directory ports.VisitorDirectory // Required
	Logger    *slog.Logger           // Optional
}

// VisitorLoader fetches the visitor list. At most one load per key is in
// flight: starting a new one cancels the previous, so a slow response can
// never overwrite a newer one.
type VisitorLoader struct {
	dir    ports.VisitorDirectory
	logger *slog.Logger

	mu       sync.Mutex
	inflight map[string]*loadToken
}

type loadToken struct {
	cancel context.CancelCauseFunc
}

// NewVisitorLoader constructs a VisitorLoader.
func NewVisitorLoader(opts VisitorLoaderOptions) *VisitorLoader {
	if opts.Directory == nil {
		panic("VisitorLoader: Directory is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &VisitorLoader{
		dir:      opts.Directory,
		logger:   logger.With("component", "visitor_loader"),
		inflight: make(map[string]*loadToken),
	}
}

// Load fetches the full list for key, usually the browser session ID.
// A nil error with an empty slice means there are no visitors; an error
// means the list could not be loaded.
func (l *VisitorLoader) Load(ctx context.Context, key string) ([]visitor.Visitor, error) {
	ctx, cancel := context.WithCancelCause(ctx)
	tok := &loadToken{cancel: cancel}

	l.mu.Lock()
	if prev := l.inflight[key]; prev != nil {
		prev.cancel(ErrSuperseded)
	}
	l.inflight[key] = tok
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		if l.inflight[key] == tok {
			delete(l.inflight, key)
		}
		l.mu.Unlock()
		cancel(nil)
	}()

	visitors, err := l.dir.ListVisitors(ctx)
	if err != nil {
		if errors.Is(context.Cause(ctx), ErrSuperseded) {
			return nil, ErrSuperseded
		}
		l.logger.WarnContext(ctx, "visitor list fetch failed", "error", err)
		return nil, fmt.Errorf("list visitors: %w", err)
	}
	return visitors, nil
}

// Refresh re-fetches after a mutation, replacing any load still running for key.
func (l *VisitorLoader) Refresh(ctx context.Context, key string) ([]visitor.Visitor, error) {
	l.logger.DebugContext(ctx, "refreshing visitor list")
	return l.Load(ctx, key)
}

// Filter narrows visitors to those matching the search term.
func (l *VisitorLoader) Filter(visitors []visitor.Visitor, term string) []visitor.Visitor {
	return visitor.Filter(visitors, term)
}
