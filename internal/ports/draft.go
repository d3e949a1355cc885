package ports

import (
	"context"

	"github.com/visitrack/frontdesk/internal/domain/user"
)

// DraftStore keeps the add-user dialog state for each browser session.
type DraftStore interface {
	// Load returns the stored draft, or the zero Draft when none exists.
	Load(ctx context.Context, sessionID string) (user.Draft, error)
	Save(ctx context.Context, sessionID string, d user.Draft) error
	Delete(ctx context.Context, sessionID string) error
	// Claim atomically applies Draft.Claim to the stored draft and saves the
	// result. It returns the draft as it was before the claim, so the caller
	// still holds the token, or the Draft.Claim error with the stored draft.
	Claim(ctx context.Context, sessionID, token string) (user.Draft, error)
}
