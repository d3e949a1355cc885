package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/visitrack/frontdesk/internal/domain/visitor"
	apperrors "github.com/visitrack/frontdesk/internal/errors"
	"github.com/visitrack/frontdesk/internal/ports"
)

// VisitorRegistrationServiceOptions groups dependencies for VisitorRegistrationService.
type VisitorRegistrationServiceOptions struct {
	Directory ports.VisitorDirectory // Required
	Loader    *VisitorLoader         // Optional: refreshed after a registration
	Logger    *slog.Logger           // Optional
}

// VisitorRegistrationService registers visitor appointments.
type VisitorRegistrationService struct {
	dir    ports.VisitorDirectory
	loader *VisitorLoader
	logger *slog.Logger
}

// RegistrationResult carries the created visitor and the refreshed list.
// Visitors is nil when the refresh failed; the registration still succeeded.
type RegistrationResult struct {
	Visitor  visitor.Visitor
	Visitors []visitor.Visitor
}

// NewVisitorRegistrationService constructs a VisitorRegistrationService.
func NewVisitorRegistrationService(opts VisitorRegistrationServiceOptions) *VisitorRegistrationService {
	if opts.Directory == nil {
		panic("VisitorRegistrationService: Directory is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &VisitorRegistrationService{
		dir:    opts.Directory,
		loader: opts.Loader,
		logger: logger.With("component", "visitor_registration"),
	}
}

// Register validates reg, sends it to the backend and refreshes the list for
// key. An empty key, used for callers without a session, skips the refresh.
func (s *VisitorRegistrationService) Register(ctx context.Context, key string, reg visitor.Registration) (*RegistrationResult, error) {
	reg = reg.Normalize()
	if fields := reg.Validate(); len(fields) > 0 {
		return nil, fieldErrors(fields)
	}

	created, err := s.dir.RegisterVisitor(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("register visitor: %w", err)
	}
	s.logger.InfoContext(ctx, "visitor registered", "id", created.ID)

	res := &RegistrationResult{Visitor: created}
	if s.loader != nil && key != "" {
		visitors, err := s.loader.Refresh(ctx, key)
		if err == nil {
			res.Visitors = visitors
		}
	}
	return res, nil
}

func fieldErrors(fields map[string]string) *apperrors.AppError {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	err := apperrors.ValidationField(keys[0], "Please correct the highlighted fields")
	err.Fields = fields
	return err
}
