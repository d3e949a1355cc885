package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/visitrack/frontdesk/internal/domain/auth"
	apperrors "github.com/visitrack/frontdesk/internal/errors"
	"github.com/visitrack/frontdesk/internal/http/validation"
	"github.com/visitrack/frontdesk/internal/ports"
	"github.com/visitrack/frontdesk/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Login(ctx context.Context, in ports.LoginInput) (*domainauth.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

var _ AuthServiceInterface = (*service.AuthService)(nil)

const (
	msgInvalidCredentials = "Invalid username or password."
	defaultLandingPath    = "/visitors"
)

var loginMeta = PageMeta{Title: "Frontdesk - Sign in", PageTitle: "Sign in", CurrentPage: "login"}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	T            *TemplateRenderer
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// LoginPage renders the sign-in form.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	redirectURI := landingPath(r.URL.Query().Get("redirect_uri"))

	// Already signed in: skip the form.
	if sess := getSessionFromRequest(r, h.Svc); sess != nil {
		http.Redirect(w, r, redirectURI, http.StatusSeeOther)
		return
	}

	data := NewTemplateData(r, loginMeta).
		With("RedirectURI", redirectURI).
		With("FormData", ports.LoginInput{}).
		Build()
	h.renderLogin(w, r, data)
}

// Login verifies the submitted credentials against the backend and starts a session.
// POST /auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	redirectURI := landingPath(r.FormValue("redirect_uri"))

	HandleForm(FormHandlerOpts[ports.LoginInput, *domainauth.Session]{
		W: w, R: r,
		Parser:   parseLoginForm,
		Submit:   h.Svc.Login,
		Renderer: h.renderLogin,
		OnSuccess: func(w http.ResponseWriter, r *http.Request, sess *domainauth.Session) {
			h.setSessionCookie(w, r, *sess)
			h.logger().InfoContext(r.Context(), "user signed in",
				"username", sess.Username, "role", sess.Role)
			if IsHTMX(r) {
				HTMX(w).Redirect(redirectURI)
				return
			}
			http.Redirect(w, r, redirectURI, http.StatusSeeOther)
		},
		PageMeta:    loginMeta,
		ExtraData:   map[string]any{"RedirectURI": redirectURI},
		HandleError: loginError,
	})
}

// parseLoginForm reads the username and password fields.
func parseLoginForm(r *http.Request) (ports.LoginInput, map[string]string) {
	in := ports.LoginInput{
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: r.FormValue("password"),
	}
	errs := validation.New().
		Validate("username", in.Username, validation.Required("Username", 150)).
		Validate("password", in.Password, validation.Required("Password", 128)).
		Errors()
	return in, errs
}

// loginError keeps backend detail out of the form: rejected credentials
// read the same whatever the backend said.
func loginError(err error) (map[string]string, string) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return nil, ""
	}
	switch appErr.Code {
	case apperrors.ErrCodeUnauthorized:
		return nil, msgInvalidCredentials
	case apperrors.ErrCodeValidation:
		if appErr.Status == 0 {
			return nil, appErr.Message
		}
		if len(appErr.Fields) == 0 {
			return nil, msgInvalidCredentials
		}
	}
	return nil, ""
}

func (h *AuthHandlers) renderLogin(w http.ResponseWriter, r *http.Request, data map[string]any) {
	// The password is never sent back.
	if in, ok := data["FormData"].(ports.LoginInput); ok {
		in.Password = ""
		data["FormData"] = in
	}
	name := "login-page"
	if IsHTMX(r) {
		name = "login-form"
	}
	if err := h.T.Render(w, name, data); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// Logout handles the logout endpoint.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionCookie, err := r.Cookie(sessionCookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), sessionCookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}

	h.clearCookie(w, r, sessionCookieName)

	// Where the user wanted to be after signing in again.
	redirectURI := r.FormValue("redirect_uri")
	if redirectURI == "" {
		redirectURI = r.URL.Query().Get("redirect_uri")
	}
	redirectURI = safeRedirectPath(redirectURI)

	u := url.URL{Path: "/auth/signed-out"}
	q := url.Values{}
	q.Set("redirect_uri", redirectURI)
	u.RawQuery = q.Encode()
	signedOutURL := u.String()

	if IsHTMX(r) {
		HTMX(w).Redirect(signedOutURL)
		return
	}
	isAJAX := strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
	if isAJAX {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "success",
			"redirect_to": signedOutURL,
		})
		return
	}

	http.Redirect(w, r, signedOutURL, http.StatusFound)
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	session, err := h.Svc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		h.clearCookie(w, r, sessionCookieName)
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"username":     session.Username,
			"first_name":   session.FirstName,
			"last_name":    session.LastName,
			"display_name": session.DisplayName(),
			"role":         session.Role,
		},
		"expires_at": session.ExpiresAt,
	})
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || isForwardedHTTPS(r)
}

// clearCookie expires a cookie, mirroring the attributes it was set with.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "/"
	}
	return candidate
}

// landingPath is safeRedirectPath with the visitor list as the default.
func landingPath(candidate string) string {
	p := safeRedirectPath(candidate)
	if p == "/" || strings.HasPrefix(p, "/auth/") {
		return defaultLandingPath
	}
	return p
}
