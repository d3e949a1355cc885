package httpx

import (
	"context"
	"html"
	"log/slog"
	"net/http"

	domainauth "github.com/visitrack/frontdesk/internal/domain/auth"
	"github.com/visitrack/frontdesk/internal/domain/user"
	"github.com/visitrack/frontdesk/internal/domain/visitor"
	apperrors "github.com/visitrack/frontdesk/internal/errors"
	"github.com/visitrack/frontdesk/internal/http/ui/viewmodel"
	"github.com/visitrack/frontdesk/internal/ports"
	"github.com/visitrack/frontdesk/internal/service"
)

// VisitorsService loads the visitor dashboard.
type VisitorsService interface {
	Overview(ctx context.Context, key string, creds ports.CredentialProvider, term string) (*service.VisitorOverview, error)
}

// RegistrationService registers a visitor and returns the refreshed list.
type RegistrationService interface {
	Register(ctx context.Context, key string, reg visitor.Registration) (*service.RegistrationResult, error)
}

// UsersService lists staff accounts and toggles their status.
type UsersService interface {
	List(ctx context.Context, creds ports.CredentialProvider) ([]user.User, error)
	SetActive(ctx context.Context, creds ports.CredentialProvider, id int, active bool) (user.User, error)
}

// AddUserFlow drives the add-user dialog and its confirmation gate.
type AddUserFlow interface {
	Draft(ctx context.Context, sessionID string) (user.Draft, error)
	Open(ctx context.Context, sessionID string) (user.Draft, error)
	UpdateField(ctx context.Context, sessionID, name, value string) (user.Draft, error)
	RequestConfirm(ctx context.Context, sessionID string, values map[user.Field]string) (user.Draft, user.Outcome, error)
	CancelConfirm(ctx context.Context, sessionID string) (user.Draft, error)
	Clear(ctx context.Context, sessionID string) (user.Draft, error)
	Dismiss(ctx context.Context, sessionID string) error
	Confirm(
		ctx context.Context,
		sessionID, token string,
		creds ports.CredentialProvider,
		refresh user.RefreshFunc,
	) (user.User, user.Draft, error)
}

// CredentialsFunc binds a session to the provider used for backend calls.
type CredentialsFunc func(ctx context.Context, sess *domainauth.Session) ports.CredentialProvider

// Compile-time interface assertions to ensure concrete services satisfy their UI interfaces.
var (
	_ VisitorsService     = (*service.DashboardService)(nil)
	_ RegistrationService = (*service.VisitorRegistrationService)(nil)
	_ UsersService        = (*service.UserDirectoryService)(nil)
	_ AddUserFlow         = (*service.AddUserService)(nil)
)

// errServiceUnavailable is shown when a handler's service was not wired.
var errServiceUnavailable = &apperrors.AppError{Code: apperrors.ErrCodeUnavailable, Message: "service not configured"}

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T             *TemplateRenderer
	Visitors      VisitorsService
	Registrations RegistrationService
	Users         UsersService
	AddUser       AddUserFlow
	Credentials   CredentialsFunc
	IsDev         bool // Development mode flag for enhanced error reporting
	Logger        *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// credsFor returns the backend credentials for the request session, or nil
// for anonymous requests.
func (h *UIHandlers) credsFor(r *http.Request) ports.CredentialProvider {
	sess := GetSessionFromContext(r.Context())
	if sess == nil || h.Credentials == nil {
		return nil
	}
	return h.Credentials(r.Context(), sess)
}

// triggerToast sends a standardized HX-Trigger payload for toast notifications.
func triggerToast(w http.ResponseWriter, message, toastType string) {
	if w == nil {
		return
	}
	HTMX(w).Toast(message, toastType)
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

var (
	visitorsMeta = PageMeta{Title: "Frontdesk - Visitors", PageTitle: "Visitor Management", CurrentPage: PageVisitors}
	usersMeta    = PageMeta{Title: "Frontdesk - Users", PageTitle: "User Management", CurrentPage: PageUsers}
)

// buildLayout constructs shared layout metadata from the request/session context.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
	}

	if csrfToken := GetCSRFToken(r); csrfToken != "" {
		layout.CSRFToken = csrfToken
	}

	if session := GetSessionFromContext(r.Context()); session != nil {
		layout.User = &viewmodel.User{
			Username:    session.Username,
			DisplayName: session.DisplayName(),
			Role:        string(session.Role),
		}
		layout.IsAuthenticated = true
		layout.CanManageUsers = layout.User.IsAdmin()
	}

	return layout
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"IsAuthenticated": layout.IsAuthenticated,
		"CanManageUsers":  layout.CanManageUsers,
	}

	if layout.CSRFToken != "" {
		data["CSRFToken"] = layout.CSRFToken
	}
	if layout.User != nil {
		data["User"] = layout.User
	}

	return data
}

// PageSpec defines metadata and an optional fetch for page-specific data.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// Page builds base data, optionally fetches content data, and renders.
// A failed fetch still renders the page with an error panel.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := basePageData(r, spec.Meta)
	if spec.Fetch != nil {
		if err := spec.Fetch(r.Context(), data); err != nil {
			h.logger().WarnContext(r.Context(), "page data fetch failed",
				"page", spec.Meta.CurrentPage, "error", err)
			markPageError(data, err)
		}
	}
	h.renderDashboardPage(w, r, data)
}

// renderDashboardPage renders a dashboard page with proper HTMX partial support.
func (h *UIHandlers) renderDashboardPage(w http.ResponseWriter, r *http.Request, data any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	// For HTMX requests, render the content plus out-of-band header updates
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})

	layout := extractLayoutInfo(data)

	// Include a <title> element so htmx updates document.title on partial swaps
	safeDocTitle := html.EscapeString(layout.Title)
	if _, err := w.Write([]byte(`<title>` + safeDocTitle + `</title>`)); err != nil {
		h.logger().Error("failed to write partial document title", "error", err)
		return
	}

	safeTitle := html.EscapeString(layout.PageTitle)
	if _, err := w.Write([]byte(`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` + safeTitle + `</h1>`)); err != nil {
		h.logger().Error("failed to write partial header title", "error", err)
		return
	}

	if err := h.T.Execute(w, ContentTemplateFor(layout.CurrentPage), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
		return
	}
}

// renderPartial renders a single named template for an htmx swap.
func (h *UIHandlers) renderPartial(w http.ResponseWriter, r *http.Request, name string, data any) {
	if err := h.T.Render(w, name, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, name)
	}
}

func markPageError(data map[string]any, err error) {
	data["Error"] = true
	if _, ok := data["ErrorMessage"]; ok {
		return
	}
	data["ErrorMessage"] = UserMessage(err)
}

func layoutFromProvider(data any) *viewmodel.Layout {
	provider, ok := data.(viewmodel.LayoutProvider)
	if !ok {
		return nil
	}
	return provider.LayoutData()
}

func layoutFromMap(data any) viewmodel.Layout {
	m, mapOK := data.(map[string]any)
	if !mapOK {
		return viewmodel.Layout{}
	}

	layout := viewmodel.Layout{}
	if v, titleOK := m["Title"].(string); titleOK {
		layout.Title = v
	}
	if v, pageTitleOK := m["PageTitle"].(string); pageTitleOK {
		layout.PageTitle = v
	}
	if v, currentPageOK := m["CurrentPage"].(string); currentPageOK {
		layout.CurrentPage = v
	}
	return layout
}

func extractLayoutInfo(data any) viewmodel.Layout {
	if layout := layoutFromProvider(data); layout != nil {
		return *layout
	}
	if layout, ok := data.(viewmodel.Layout); ok {
		return layout
	}
	return layoutFromMap(data)
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		errHTML := html.EscapeString(err.Error())
		pathHTML := html.EscapeString(r.URL.Path)
		contextHTML := html.EscapeString(context)
		if _, writeErr := w.Write([]byte(`
			<div class="dev-error">
				<h2>Template Rendering Error</h2>
				<p><strong>Context:</strong> ` + contextHTML + `</p>
				<p><strong>Path:</strong> ` + pathHTML + `</p>
				<pre>` + errHTML + `</pre>
			</div>
		`)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}
