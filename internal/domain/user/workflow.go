package user

import (
	"context"
	"errors"
)

var (
	// ErrGateClosed is returned by Confirm when nothing is awaiting confirmation.
	ErrGateClosed = errors.New("confirmation gate is closed")
	// ErrStaleSubmission is returned by Confirm when the token does not match
	// the one issued when the gate opened.
	ErrStaleSubmission = errors.New("submission token is stale")
)

// SubmitFunc performs the create call.
type SubmitFunc func(ctx context.Context, req CreateRequest) (User, error)

// RefreshFunc is invoked after a successful create so listings can re-fetch.
type RefreshFunc func(ctx context.Context)

// Draft is the per-session state of the add-user dialog: the form, the
// confirmation gate, whether the entry dialog is showing, and the token
// that identifies the submission the gate was opened for.
type Draft struct {
	Form            Form   `json:"form"`
	Gate            Gate   `json:"gate"`
	DialogOpen      bool   `json:"dialog_open"`
	SubmissionToken string `json:"submission_token,omitempty"`
}

// Open shows the entry dialog. The form keeps whatever it held.
func (d *Draft) Open() { d.DialogOpen = true }

// Update replaces one field of the form.
func (d *Draft) Update(field Field, value string) error {
	return d.Form.Update(field, value)
}

// RequestConfirm validates the form and opens the gate on OK, binding it
// to token. Any other outcome leaves the gate as it was.
func (d *Draft) RequestConfirm(token string) Outcome {
	outcome := d.Form.Validate()
	if outcome == OK {
		d.Gate = GateOpen
		d.SubmissionToken = token
	}
	return outcome
}

// CancelConfirm closes the gate and keeps the form for another attempt.
func (d *Draft) CancelConfirm() {
	d.Gate = GateClosed
	d.SubmissionToken = ""
}

// Clear empties the form without closing the entry dialog.
func (d *Draft) Clear() { d.Form.Clear() }

// Claim consumes the submission token so the confirmation it names can
// only be submitted once. It fails like Confirm when the gate is closed or
// token does not match, and leaves the draft unchanged in that case.
func (d *Draft) Claim(token string) error {
	if !d.Gate.IsOpen() {
		return ErrGateClosed
	}
	if token == "" || token != d.SubmissionToken {
		return ErrStaleSubmission
	}
	d.SubmissionToken = ""
	return nil
}

// Dismiss closes the entry dialog and resets everything.
func (d *Draft) Dismiss() { *d = Draft{} }

// Confirm submits the form when the gate is open and token matches.
//
// On success the refresh callback runs, the form is cleared and both
// dialogs close. On failure the gate stays open and the form is kept so
// the user can retry.
func (d *Draft) Confirm(ctx context.Context, token string, submit SubmitFunc, refresh RefreshFunc) (User, error) {
	if !d.Gate.IsOpen() {
		return User{}, ErrGateClosed
	}
	if token == "" || token != d.SubmissionToken {
		return User{}, ErrStaleSubmission
	}

	created, err := submit(ctx, d.Form.ToCreateRequest())
	if err != nil {
		return User{}, err
	}

	if refresh != nil {
		refresh(ctx)
	}
	d.Dismiss()
	return created, nil
}
