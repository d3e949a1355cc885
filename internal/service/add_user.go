package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/visitrack/frontdesk/internal/domain/user"
	apperrors "github.com/visitrack/frontdesk/internal/errors"
	"github.com/visitrack/frontdesk/internal/ports"
)

// AddUserServiceOptions groups dependencies for AddUserService.
type AddUserServiceOptions struct {
	Drafts    ports.DraftStore // Required
	Submitter *UserSubmitter   // Required
	Logger    *slog.Logger     // Optional
}

// AddUserService drives the add-user dialog for one browser session at a
// time. The draft (form, gate and submission token) lives in the DraftStore
// between requests.
type AddUserService struct {
	drafts    ports.DraftStore
	submitter *UserSubmitter
	logger    *slog.Logger
	newToken  func() string
}

// NewAddUserService constructs an AddUserService.
func NewAddUserService(opts AddUserServiceOptions) *AddUserService {
	if opts.Drafts == nil {
		panic("AddUserService: Drafts is required")
	}
	if opts.Submitter == nil {
		panic("AddUserService: Submitter is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AddUserService{
		drafts:    opts.Drafts,
		submitter: opts.Submitter,
		logger:    logger.With("component", "add_user"),
		newToken:  uuid.NewString,
	}
}

// Draft returns the session's current draft.
func (s *AddUserService) Draft(ctx context.Context, sessionID string) (user.Draft, error) {
	d, err := s.drafts.Load(ctx, sessionID)
	if err != nil {
		return user.Draft{}, fmt.Errorf("load draft: %w", err)
	}
	return d, nil
}

// Open shows the entry dialog, restoring any fields typed earlier.
func (s *AddUserService) Open(ctx context.Context, sessionID string) (user.Draft, error) {
	return s.mutate(ctx, sessionID, func(d *user.Draft) error {
		d.Open()
		return nil
	})
}

// UpdateField replaces one field of the form.
func (s *AddUserService) UpdateField(ctx context.Context, sessionID, name, value string) (user.Draft, error) {
	field, err := user.ParseField(name)
	if err != nil {
		return user.Draft{}, apperrors.ValidationField(name, err.Error())
	}
	return s.mutate(ctx, sessionID, func(d *user.Draft) error {
		return d.Update(field, value)
	})
}

// RequestConfirm applies the submitted values, validates the form and, on
// OK, opens the confirmation gate under a fresh submission token. Unknown
// keys in values are ignored.
func (s *AddUserService) RequestConfirm(ctx context.Context, sessionID string, values map[user.Field]string) (user.Draft, user.Outcome, error) {
	var outcome user.Outcome
	d, err := s.mutate(ctx, sessionID, func(d *user.Draft) error {
		d.Open()
		for field, v := range values {
			if err := d.Update(field, v); err != nil && !errors.Is(err, user.ErrUnknownField) {
				return err
			}
		}
		outcome = d.RequestConfirm(s.newToken())
		return nil
	})
	return d, outcome, err
}

// CancelConfirm closes the gate and keeps the form.
func (s *AddUserService) CancelConfirm(ctx context.Context, sessionID string) (user.Draft, error) {
	return s.mutate(ctx, sessionID, func(d *user.Draft) error {
		d.CancelConfirm()
		return nil
	})
}

// Clear empties the form while the entry dialog stays open.
func (s *AddUserService) Clear(ctx context.Context, sessionID string) (user.Draft, error) {
	return s.mutate(ctx, sessionID, func(d *user.Draft) error {
		d.Clear()
		return nil
	})
}

// Dismiss closes the entry dialog and discards the draft.
func (s *AddUserService) Dismiss(ctx context.Context, sessionID string) error {
	if err := s.drafts.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// Confirm submits the draft awaiting confirmation. token must be the one
// issued by RequestConfirm. The token is consumed in the store before the
// backend is called, so a reused or stale token is rejected as a conflict
// without reaching the backend.
//
// On success the draft is discarded before refresh runs. On failure the
// draft and its token are put back so the user can retry from the open gate.
func (s *AddUserService) Confirm(
	ctx context.Context,
	sessionID, token string,
	creds ports.CredentialProvider,
	refresh user.RefreshFunc,
) (user.User, user.Draft, error) {
	d, err := s.drafts.Claim(ctx, sessionID, token)
	switch {
	case errors.Is(err, user.ErrGateClosed), errors.Is(err, user.ErrStaleSubmission):
		s.logger.InfoContext(ctx, "duplicate or stale confirmation ignored", "error", err)
		return user.User{}, d, apperrors.Wrap(err, apperrors.ErrCodeConflict, "This submission was already handled")
	case err != nil:
		return user.User{}, user.Draft{}, fmt.Errorf("claim draft: %w", err)
	}

	submit := s.submitter.For(sessionID+":"+token, creds)
	created, err := d.Confirm(ctx, token, submit, func(ctx context.Context) {
		if err := s.drafts.Delete(ctx, sessionID); err != nil {
			s.logger.WarnContext(ctx, "discard draft after create failed", "error", err)
		}
		if refresh != nil {
			refresh(ctx)
		}
	})
	if err != nil {
		if saveErr := s.drafts.Save(ctx, sessionID, d); saveErr != nil {
			s.logger.WarnContext(ctx, "restore draft after failed create", "error", saveErr)
		}
		return user.User{}, d, err
	}
	return created, d, nil
}

func (s *AddUserService) mutate(ctx context.Context, sessionID string, fn func(*user.Draft) error) (user.Draft, error) {
	d, err := s.Draft(ctx, sessionID)
	if err != nil {
		return user.Draft{}, err
	}
	if err := fn(&d); err != nil {
		return user.Draft{}, err
	}
	if err := s.drafts.Save(ctx, sessionID, d); err != nil {
		return user.Draft{}, fmt.Errorf("save draft: %w", err)
	}
	return d, nil
}
