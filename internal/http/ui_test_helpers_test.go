package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/visitrack/frontdesk/internal/adapters/memory"
	domainauth "github.com/visitrack/frontdesk/internal/domain/auth"
	"github.com/visitrack/frontdesk/internal/mocks"
	"github.com/visitrack/frontdesk/internal/ports"
	"github.com/visitrack/frontdesk/internal/service"
)

// uiEnv wires real services over mocked backend ports.
type uiEnv struct {
	h        *UIHandlers
	visitors *mocks.MockVisitorDirectory
	users    *mocks.MockUserDirectory
	drafts   *memory.DraftStore
}

func newUIEnv(t *testing.T) *uiEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	visitorDir := mocks.NewMockVisitorDirectory(ctrl)
	userDir := mocks.NewMockUserDirectory(ctrl)
	drafts := memory.NewDraftStore(time.Hour, time.Minute)
	t.Cleanup(func() { _ = drafts.Close() })

	loader := service.NewVisitorLoader(service.VisitorLoaderOptions{Directory: visitorDir})
	h := &UIHandlers{
		T:        RequireTemplateRenderer(t),
		Visitors: service.NewDashboardService(service.DashboardServiceOptions{Loader: loader, Directory: visitorDir}),
		Registrations: service.NewVisitorRegistrationService(service.VisitorRegistrationServiceOptions{
			Directory: visitorDir,
			Loader:    loader,
		}),
		Users: service.NewUserDirectoryService(service.UserDirectoryServiceOptions{Users: userDir}),
		AddUser: service.NewAddUserService(service.AddUserServiceOptions{
			Drafts:    drafts,
			Submitter: service.NewUserSubmitter(service.UserSubmitterOptions{Users: userDir}),
		}),
		Credentials: func(context.Context, *domainauth.Session) ports.CredentialProvider {
			return ports.StaticCredentials("access-token")
		},
	}
	return &uiEnv{h: h, visitors: visitorDir, users: userDir, drafts: drafts}
}

func adminRequest(method, target string, form url.Values) *http.Request {
	var r *http.Request
	if form != nil {
		r = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	r.Header.Set("Hx-Request", "true")
	return withSession(r, testSession("admin-sess", domainauth.RoleAdmin))
}
