package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/visitrack/frontdesk/internal/domain/visitor"
	"github.com/visitrack/frontdesk/internal/ports"
)

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	Loader    *VisitorLoader         // Required
	Directory ports.VisitorDirectory // Required: active visitor accounts
	Logger    *slog.Logger           // Optional
}

// VisitorOverview is what the visitor page renders.
type VisitorOverview struct {
	Term     string
	Visitors []visitor.Visitor // filtered by Term, backend order
	// Total counts the filtered view.
	Total int
	// ActiveAccounts is nil when the count is unavailable.
	ActiveAccounts *int
}

// DashboardService assembles the visitor page, fetching the list and the
// active account count concurrently.
type DashboardService struct {
	loader *VisitorLoader
	dir    ports.VisitorDirectory
	logger *slog.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(opts DashboardServiceOptions) *DashboardService {
	if opts.Loader == nil {
		panic("DashboardService: Loader is required")
	}
	if opts.Directory == nil {
		panic("DashboardService: Directory is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{loader: opts.Loader, dir: opts.Directory, logger: logger.With("component", "dashboard")}
}

// Overview loads the visitor list for key and narrows it to term. The count
// of active visitor accounts is best effort and skipped when creds is nil.
// A list failure is returned as the error; the page shows it instead of
// the empty state.
func (s *DashboardService) Overview(ctx context.Context, key string, creds ports.CredentialProvider, term string) (*VisitorOverview, error) {
	var (
		all    []visitor.Visitor
		active *int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.loader.Load(gctx, key)
		if err != nil {
			return err
		}
		all = v
		return nil
	})
	if creds != nil {
		g.Go(func() error {
			accounts, err := s.dir.ActiveVisitorAccounts(gctx, creds)
			if err != nil {
				if gctx.Err() == nil {
					s.logger.WarnContext(ctx, "active visitor count unavailable", "error", err)
				}
				return nil
			}
			n := len(accounts)
			active = &n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	filtered := s.loader.Filter(all, term)
	return &VisitorOverview{
		Term:           term,
		Visitors:       filtered,
		Total:          len(filtered),
		ActiveAccounts: active,
	}, nil
}
