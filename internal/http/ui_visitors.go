package httpx

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/visitrack/frontdesk/internal/domain/visitor"
	"github.com/visitrack/frontdesk/internal/http/validation"
	"github.com/visitrack/frontdesk/internal/service"
)

// anonymousLoadKey groups list loads made without a session.
const anonymousLoadKey = "anonymous"

var (
	visitDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	visitTimePattern = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)
)

// requestSessionID returns the browser session ID, or "" for anonymous callers.
func requestSessionID(r *http.Request) string {
	if sess := GetSessionFromContext(r.Context()); sess != nil {
		return sess.ID
	}
	return ""
}

// loadKey identifies the browser session for list loads.
func loadKey(r *http.Request) string {
	if key := requestSessionID(r); key != "" {
		return key
	}
	return anonymousLoadKey
}

// VisitorsPage renders the visitor page, narrowed by ?q=.
// GET /visitors.
func (h *UIHandlers) VisitorsPage(w http.ResponseWriter, r *http.Request) {
	term := ParseSearchTerm(r.URL.Query())

	// The search box and the list refresh only swap the list.
	if IsHTMX(r) && r.Header.Get("Hx-Target") == "visitor-list" {
		data := basePageData(r, visitorsMeta)
		if !h.fillVisitors(r, data, term) {
			// A newer load for this session owns the list; leave it alone.
			HTMX(w).Reswap("none")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.renderPartial(w, r, "visitor-list", data)
		return
	}

	h.Page(w, r, PageSpec{
		Meta: visitorsMeta,
		Fetch: func(_ context.Context, data map[string]any) error {
			h.fillVisitors(r, data, term)
			return nil
		},
	})
}

// fillVisitors adds the overview to data. A failed load shows an error
// panel in place of the empty state. It returns false when a newer load for
// the same session superseded this one; data then holds a pending list that
// fetches itself once rendered.
func (h *UIHandlers) fillVisitors(r *http.Request, data map[string]any, term string) bool {
	data["SearchTerm"] = term
	data["Visitors"] = []visitor.Visitor{}
	data["Total"] = 0
	if h.Visitors == nil {
		markPageError(data, errServiceUnavailable)
		return true
	}

	ov, err := h.Visitors.Overview(r.Context(), loadKey(r), h.credsFor(r), term)
	switch {
	case errors.Is(err, service.ErrSuperseded):
		h.logger().DebugContext(r.Context(), "visitor list load superseded")
		data["Pending"] = true
		return false
	case err != nil:
		h.logger().WarnContext(r.Context(), "visitor list load failed", "error", err)
		markPageError(data, err)
		return true
	}
	data["Visitors"] = ov.Visitors
	data["Total"] = ov.Total
	if ov.ActiveAccounts != nil {
		data["ActiveAccounts"] = *ov.ActiveAccounts
	}
	return true
}

// NewVisitorDialog renders the empty registration dialog.
// GET /visitors/new.
func (h *UIHandlers) NewVisitorDialog(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, visitorsMeta).
		With("FormData", visitor.Registration{}).
		With("SearchTerm", ParseSearchTerm(r.URL.Query())).
		Build()
	h.renderVisitorForm(w, r, data)
}

// RegisterVisitor sends the registration to the backend. Success replaces
// the dialog with the QR prompt and refreshes the list out of band.
// POST /visitors.
func (h *UIHandlers) RegisterVisitor(w http.ResponseWriter, r *http.Request) {
	if h.Registrations == nil {
		http.Error(w, "registration unavailable", http.StatusServiceUnavailable)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	// Anonymous callers may register but never see the list.
	key := requestSessionID(r)
	HandleForm(FormHandlerOpts[visitor.Registration, *service.RegistrationResult]{
		W: w, R: r,
		Parser: parseVisitorForm,
		Submit: func(ctx context.Context, reg visitor.Registration) (*service.RegistrationResult, error) {
			return h.Registrations.Register(ctx, key, reg)
		},
		Renderer:  h.renderVisitorForm,
		OnSuccess: h.renderRegistered,
		PageMeta:  visitorsMeta,
		ExtraData: map[string]any{"SearchTerm": ParseSearchTerm(r.Form)},
	})
}

// DismissQRPrompt closes the QR prompt. Both of its buttons land here.
// POST /visitors/qr-prompt/dismiss.
func (h *UIHandlers) DismissQRPrompt(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
}

func (h *UIHandlers) renderVisitorForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	data["Purposes"] = visitor.Purposes
	data["Departments"] = visitor.Departments
	h.renderPartial(w, r, "visitor-form-dialog", data)
}

func (h *UIHandlers) renderRegistered(w http.ResponseWriter, r *http.Request, res *service.RegistrationResult) {
	term := ParseSearchTerm(r.Form)
	data := basePageData(r, visitorsMeta)
	data["Registered"] = res.Visitor
	data["SearchTerm"] = term

	switch {
	case requestSessionID(r) == "":
		// Anonymous: the prompt only.
	case res.Visitors == nil:
		// The list refresh failed; let the page load it again.
		HTMX(w).Trigger(eventVisitorsChanged, nil)
	default:
		filtered := visitor.Filter(res.Visitors, term)
		data["Visitors"] = filtered
		data["Total"] = len(filtered)
		data["RefreshList"] = true
	}
	h.logger().InfoContext(r.Context(), "visitor registered via ui", "id", res.Visitor.ID)
	h.renderPartial(w, r, "qr-prompt", data)
}

// parseVisitorForm reads the registration dialog.
func parseVisitorForm(r *http.Request) (visitor.Registration, map[string]string) {
	reg := visitor.Registration{
		LastName:        r.FormValue("last_name"),
		FirstName:       r.FormValue("first_name"),
		MiddleInitial:   r.FormValue("middle_initial"),
		Purpose:         r.FormValue("purpose"),
		PurposeOther:    r.FormValue("purpose_other"),
		Department:      r.FormValue("department"),
		DepartmentOther: r.FormValue("department_other"),
		Date:            r.FormValue("date"),
		Time:            r.FormValue("time"),
	}
	errs := validation.New().
		Validate("last_name", reg.LastName, validation.Optional("Last name", 100)).
		Validate("first_name", reg.FirstName, validation.Optional("First name", 100)).
		Validate("purpose_other", reg.PurposeOther, validation.Optional("Purpose", 255)).
		Validate("department_other", reg.DepartmentOther, validation.Optional("Department", 255)).
		Validate("date", strings.TrimSpace(reg.Date), validation.Pattern("Date", visitDatePattern)).
		Validate("time", strings.TrimSpace(reg.Time), validation.Pattern("Time", visitTimePattern)).
		Errors()
	return reg, errs
}
