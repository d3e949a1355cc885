package httpx

import (
	"errors"
	"net/http"
	"net/url"
)

// SignedOut renders the signed-out page with a Sign In button.
func (h *UIHandlers) SignedOut(w http.ResponseWriter, r *http.Request) {
	redirect := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	loginURL := "/auth/login?redirect_uri=" + url.QueryEscape(redirect)
	if h.T == nil {
		http.Redirect(w, r, loginURL, http.StatusSeeOther)
		return
	}

	data := map[string]any{
		"Title":       "Signed out - Frontdesk",
		"RedirectURI": redirect,
		"LoginURL":    loginURL,
	}
	if err := h.T.Render(w, "signed-out-page", data); err != nil {
		http.Redirect(w, r, loginURL, http.StatusSeeOther)
	}
}

// Root sends the bare site root to the visitor list.
func (h *UIHandlers) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, defaultLandingPath, http.StatusFound)
}

// NotFound renders an HTML error page for browsers and JSON for other clients.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if IsBrowserRequest(r) {
		h.renderBrowserNotFound(w, r)
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusNotFound,
		ErrCode: "not_found",
		Err:     errors.New("not found"),
	})
}

func (h *UIHandlers) renderBrowserNotFound(w http.ResponseWriter, r *http.Request) {
	isAuthenticated := GetSessionFromContext(r.Context()) != nil
	data := map[string]any{
		"Title":           "Page Not Found - Frontdesk",
		"Code":            "404",
		"Message":         "The page you're looking for doesn't exist.",
		"IsAuthenticated": isAuthenticated,
		"ShowLogin":       !isAuthenticated,
		"RedirectURI":     r.URL.RequestURI(),
	}

	if h.T == nil {
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := h.T.RenderError(w, r, data); err != nil {
		h.logger().Error("render not found page", "error", err)
	}
}
