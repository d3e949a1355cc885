package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/visitrack/frontdesk/internal/domain/user"
	apperrors "github.com/visitrack/frontdesk/internal/errors"
)

// draftKey identifies the add-user draft for the request session.
func draftKey(r *http.Request) string {
	if sess := GetSessionFromContext(r.Context()); sess != nil {
		return sess.ID
	}
	return ""
}

// UsersPage renders the user directory. An add-user dialog left open in
// this session is restored with its fields.
// GET /users.
func (h *UIHandlers) UsersPage(w http.ResponseWriter, r *http.Request) {
	if IsHTMX(r) && r.Header.Get("Hx-Target") == "users-table" {
		data := basePageData(r, usersMeta)
		if err := h.fillUsers(r, data); err != nil {
			markPageError(data, err)
		}
		h.renderPartial(w, r, "users-table", data)
		return
	}

	h.Page(w, r, PageSpec{
		Meta: usersMeta,
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Specs"] = user.Specs
			if h.AddUser != nil {
				if d, err := h.AddUser.Draft(ctx, draftKey(r)); err == nil {
					data["Draft"] = d
				}
			}
			return h.fillUsers(r, data)
		},
	})
}

func (h *UIHandlers) fillUsers(r *http.Request, data map[string]any) error {
	data["Users"] = []user.User{}
	if h.Users == nil {
		return errServiceUnavailable
	}
	users, err := h.Users.List(r.Context(), h.credsFor(r))
	if err != nil {
		return err
	}
	data["Users"] = users
	return nil
}

// NewUserDialog opens the add-user dialog.
// GET /users/new.
func (h *UIHandlers) NewUserDialog(w http.ResponseWriter, r *http.Request) {
	if !h.requireAddUser(w) {
		return
	}
	d, err := h.AddUser.Open(r.Context(), draftKey(r))
	h.respondDraft(w, r, d, err)
}

// UpdateUserField stores one changed input of the dialog.
// POST /users/field.
func (h *UIHandlers) UpdateUserField(w http.ResponseWriter, r *http.Request) {
	if !h.requireAddUser(w) {
		return
	}
	name := r.Header.Get("Hx-Trigger-Name")
	if name == "" {
		name = r.FormValue("field")
	}
	if _, err := h.AddUser.UpdateField(r.Context(), draftKey(r), name, r.FormValue(name)); err != nil {
		h.toastError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RequestUserConfirm validates the dialog. A valid form opens the
// confirmation dialog; anything else is reported as a toast.
// POST /users.
func (h *UIHandlers) RequestUserConfirm(w http.ResponseWriter, r *http.Request) {
	if !h.requireAddUser(w) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	values := make(map[user.Field]string, len(user.Specs))
	for _, spec := range user.Specs {
		if _, ok := r.PostForm[string(spec.Field)]; ok {
			values[spec.Field] = r.PostForm.Get(string(spec.Field))
		}
	}

	d, outcome, err := h.AddUser.RequestConfirm(r.Context(), draftKey(r), values)
	if err != nil {
		h.toastError(w, r, err)
		return
	}
	if outcome != user.OK {
		triggerToast(w, outcome.Message(), "error")
		HTMX(w).Reswap("none")
		w.WriteHeader(http.StatusOK)
		return
	}
	h.renderDraft(w, r, d)
}

// ConfirmUser creates the account held by the open confirmation dialog.
// POST /users/confirm.
func (h *UIHandlers) ConfirmUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireAddUser(w) {
		return
	}
	creds := h.credsFor(r)
	token := strings.TrimSpace(r.FormValue("submission_token"))

	var refreshed []user.User
	refresh := func(ctx context.Context) {
		if h.Users == nil {
			return
		}
		users, err := h.Users.List(ctx, creds)
		if err != nil {
			h.logger().WarnContext(ctx, "user list refresh failed", "error", err)
			return
		}
		refreshed = users
	}

	created, d, err := h.AddUser.Confirm(r.Context(), draftKey(r), token, creds, refresh)
	switch {
	case apperrors.IsUnauthorized(err):
		redirectToLogin(w, r)
		return
	case apperrors.IsConflict(err):
		triggerToast(w, UserMessage(err), "warning")
		h.renderDraft(w, r, d)
		return
	case err != nil:
		h.logger().WarnContext(r.Context(), "add user failed", "error", err)
		triggerToast(w, msgUserAddFailed, "error")
		h.renderDraft(w, r, d)
		return
	}

	h.logger().InfoContext(r.Context(), "user added", "username", created.Username)
	triggerToast(w, msgUserAdded, "success")

	data := basePageData(r, usersMeta)
	data["Specs"] = user.Specs
	data["Draft"] = user.Draft{}
	if refreshed != nil {
		data["Users"] = refreshed
		data["RefreshUsers"] = true
	} else {
		HTMX(w).Trigger(eventUsersChanged, nil)
	}
	h.renderPartial(w, r, "user-added", data)
}

// CancelUserConfirm closes the confirmation dialog and keeps the form.
// POST /users/confirm/cancel.
func (h *UIHandlers) CancelUserConfirm(w http.ResponseWriter, r *http.Request) {
	if !h.requireAddUser(w) {
		return
	}
	d, err := h.AddUser.CancelConfirm(r.Context(), draftKey(r))
	h.respondDraft(w, r, d, err)
}

// ClearUserForm empties the dialog's fields.
// POST /users/clear.
func (h *UIHandlers) ClearUserForm(w http.ResponseWriter, r *http.Request) {
	if !h.requireAddUser(w) {
		return
	}
	d, err := h.AddUser.Clear(r.Context(), draftKey(r))
	h.respondDraft(w, r, d, err)
}

// CancelUserDialog closes the dialog and discards the draft.
// POST /users/cancel.
func (h *UIHandlers) CancelUserDialog(w http.ResponseWriter, r *http.Request) {
	if !h.requireAddUser(w) {
		return
	}
	if err := h.AddUser.Dismiss(r.Context(), draftKey(r)); err != nil {
		h.toastError(w, r, err)
		return
	}
	h.renderDraft(w, r, user.Draft{})
}

// SetUserActive activates or deactivates an account.
// POST /users/{id}/active.
func (h *UIHandlers) SetUserActive(w http.ResponseWriter, r *http.Request) {
	if h.Users == nil {
		http.Error(w, "user directory unavailable", http.StatusServiceUnavailable)
		return
	}
	id, err := parseUserID(r)
	if err != nil {
		h.toastError(w, r, err)
		return
	}
	active, err := ParseBoolParam(r.FormValue("active"))
	if err != nil {
		h.toastError(w, r, apperrors.ValidationField("active", "Active must be true or false."))
		return
	}

	updated, err := h.Users.SetActive(r.Context(), h.credsFor(r), id, active)
	if err != nil {
		if apperrors.IsUnauthorized(err) {
			redirectToLogin(w, r)
			return
		}
		h.toastError(w, r, err)
		return
	}

	msg := "User deactivated"
	if updated.IsActive {
		msg = "User activated"
	}
	triggerToast(w, msg, "success")
	data := basePageData(r, usersMeta)
	data["Row"] = updated
	h.renderPartial(w, r, "user-row", data)
}

func (h *UIHandlers) requireAddUser(w http.ResponseWriter) bool {
	if h.AddUser == nil {
		http.Error(w, "add user unavailable", http.StatusServiceUnavailable)
		return false
	}
	return true
}

// respondDraft renders the dialog slot, or a toast when the draft store failed.
func (h *UIHandlers) respondDraft(w http.ResponseWriter, r *http.Request, d user.Draft, err error) {
	if err != nil {
		h.toastError(w, r, err)
		return
	}
	h.renderDraft(w, r, d)
}

func (h *UIHandlers) renderDraft(w http.ResponseWriter, r *http.Request, d user.Draft) {
	data := basePageData(r, usersMeta)
	data["Specs"] = user.Specs
	data["Draft"] = d
	h.renderPartial(w, r, "add-user-dialog", data)
}

// toastError reports err as a toast and leaves the page untouched.
func (h *UIHandlers) toastError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger().WarnContext(r.Context(), "user action failed", "path", r.URL.Path, "error", err)
	triggerToast(w, UserMessage(err), "error")
	HTMX(w).Reswap("none")
	w.WriteHeader(statusForError(err))
}
