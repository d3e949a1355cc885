package httpx

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/visitrack/frontdesk"
	domainauth "github.com/visitrack/frontdesk/internal/domain/auth"
	"github.com/visitrack/frontdesk/internal/ports"
)

const staticPathFromRoot = "frontend/static"

// RouterServices holds everything the HTTP router wires into handlers.
type RouterServices struct {
	Auth          AuthServiceInterface // nil disables sign-in checks (tests, local demos)
	Visitors      VisitorsService
	Registrations RegistrationService
	Users         UsersService
	AddUser       AddUserFlow
	Credentials   CredentialsFunc
	Pinger        ports.Pinger
	CookieDomain  string
	// TemplateFS overrides the template source. Optional.
	TemplateFS fs.FS
	IsDev      bool         // templates and static files come from disk
	Logger     *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates and configures the HTTP router with browser detection.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	health := healthHandler(services.Pinger, logger)
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)
	mux.Handle("GET /static/", staticWithFallback(services.IsDev, logger))

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateSource(services, logger),
		DevMode:    services.IsDev,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("failed to create template renderer", slog.Any("error", err))
	}

	cfg := uiRouteConfig{Auth: services.Auth, CookieDomain: services.CookieDomain}
	if services.Auth != nil && tr != nil {
		registerAuthRoutes(mux, &AuthHandlers{
			Svc:          services.Auth,
			T:            tr,
			CookieDomain: services.CookieDomain,
			Logger:       logger,
		}, cfg)
	}

	var ui *UIHandlers
	if tr != nil {
		ui = &UIHandlers{
			T:             tr,
			Visitors:      services.Visitors,
			Registrations: services.Registrations,
			Users:         services.Users,
			AddUser:       services.AddUser,
			Credentials:   services.Credentials,
			IsDev:         services.IsDev,
			Logger:        logger,
		}
		registerUIRoutes(mux, ui, cfg)
	}

	return BrowserDetection()(&notFoundHandler{mux: mux, uiHandlers: ui})
}

// templateSource picks disk templates in dev mode and the embedded copy otherwise.
func templateSource(services RouterServices, logger *slog.Logger) fs.FS {
	if services.TemplateFS != nil {
		return services.TemplateFS
	}
	if services.IsDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(frontdesk.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		logger.Warn("embedded templates unavailable, reading from disk", "error", err)
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

// staticWithFallback serves /static/* from disk in dev mode and from the
// embedded copy otherwise.
func staticWithFallback(isDev bool, logger *slog.Logger) http.Handler {
	if isDev {
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir(staticPathFromRoot))))
	}

	staticSub, err := fs.Sub(frontdesk.StaticFS, staticPathFromRoot)
	if err != nil {
		logger.Warn("embedded static assets unavailable, reading from disk", "error", err)
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir(staticPathFromRoot))))
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))
}

var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders caches content-hashed files for a year and
// revalidates everything else.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and renders 404s through the UI.
type notFoundHandler struct {
	mux        *http.ServeMux
	uiHandlers *UIHandlers
}

func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only unmatched routes are swapped for the UI page; handler 404s pass through.
	_, pattern := h.mux.Handler(r)
	recordRoute(r, pattern)
	if pattern == "" && !strings.HasPrefix(r.URL.Path, "/static/") {
		if h.uiHandlers != nil {
			h.uiHandlers.NotFound(w, r)
			return
		}
		http.NotFound(w, r)
		return
	}

	h.mux.ServeHTTP(w, r)
}

// uiRouteConfig holds configuration for route registration.
type uiRouteConfig struct {
	Auth         AuthServiceInterface
	CookieDomain string
}

func (cfg uiRouteConfig) csrf() func(http.Handler) http.Handler {
	return CSRFProtection(CSRFConfig{CookieDomain: cfg.CookieDomain})
}

// authWrap requires a signed-in session. A nil Auth disables the check.
func (cfg uiRouteConfig) authWrap() func(http.Handler) http.Handler {
	csrf := cfg.csrf()
	if cfg.Auth == nil {
		return csrf
	}
	auth := RequireAuthBrowser(cfg.Auth)
	return func(h http.Handler) http.Handler { return auth(csrf(h)) }
}

// optionalWrap admits anonymous callers and attaches any session present.
func (cfg uiRouteConfig) optionalWrap() func(http.Handler) http.Handler {
	csrf := cfg.csrf()
	if cfg.Auth == nil {
		return csrf
	}
	auth := OptionalAuth(cfg.Auth)
	return func(h http.Handler) http.Handler { return auth(csrf(h)) }
}

// adminWrap requires the admin role.
func (cfg uiRouteConfig) adminWrap() func(http.Handler) http.Handler {
	csrf := cfg.csrf()
	if cfg.Auth == nil {
		return csrf
	}
	roleCheck := RequireRoleBrowser(cfg.Auth, domainauth.RoleAdmin)
	return func(h http.Handler) http.Handler { return roleCheck(csrf(h)) }
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, cfg uiRouteConfig) {
	csrf := cfg.csrf()
	mux.Handle("GET /auth/login", csrf(http.HandlerFunc(h.LoginPage)))
	mux.Handle("POST /auth/login", csrf(http.HandlerFunc(h.Login)))
	mux.Handle("POST /auth/logout", csrf(http.HandlerFunc(h.Logout)))
	mux.HandleFunc("GET /auth/status", h.Status)
}

func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	registerVisitorRoutes(mux, h, cfg)
	registerUserRoutes(mux, h, cfg)
	mux.Handle("GET /auth/signed-out", cfg.csrf()(http.HandlerFunc(h.SignedOut)))
	mux.HandleFunc("GET /{$}", h.Root)
}

func registerVisitorRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	mux.Handle("GET /visitors", wrap(http.HandlerFunc(h.VisitorsPage)))
	mux.Handle("GET /visitors/new", wrap(http.HandlerFunc(h.NewVisitorDialog)))
	mux.Handle("POST /visitors/qr-prompt/dismiss", wrap(http.HandlerFunc(h.DismissQRPrompt)))
	// The backend accepts anonymous registrations.
	mux.Handle("POST /visitors", cfg.optionalWrap()(http.HandlerFunc(h.RegisterVisitor)))
}

func registerUserRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrapAdmin := cfg.adminWrap()
	mux.Handle("GET /users", wrapAdmin(http.HandlerFunc(h.UsersPage)))
	mux.Handle("GET /users/new", wrapAdmin(http.HandlerFunc(h.NewUserDialog)))
	mux.Handle("POST /users", wrapAdmin(http.HandlerFunc(h.RequestUserConfirm)))
	mux.Handle("POST /users/field", wrapAdmin(http.HandlerFunc(h.UpdateUserField)))
	mux.Handle("POST /users/confirm", wrapAdmin(http.HandlerFunc(h.ConfirmUser)))
	mux.Handle("POST /users/confirm/cancel", wrapAdmin(http.HandlerFunc(h.CancelUserConfirm)))
	mux.Handle("POST /users/clear", wrapAdmin(http.HandlerFunc(h.ClearUserForm)))
	mux.Handle("POST /users/cancel", wrapAdmin(http.HandlerFunc(h.CancelUserDialog)))
	mux.Handle("POST /users/{id}/active", wrapAdmin(http.HandlerFunc(h.SetUserActive)))
}
