package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/visitrack/frontdesk/internal/domain/user"
	"github.com/visitrack/frontdesk/internal/domain/visitor"
)

// RecordedRequest is a request captured by FakeBackend.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	Body          []byte
}

type fakeAccount struct {
	password string
	user     user.User
}

// FakeBackend is an in-memory stand-in for the REST backend, served over httptest.
type FakeBackend struct {
	Server *httptest.Server
	// Token is the access token issued on login and required on protected routes.
	Token string

	mu            sync.Mutex
	visitors      []visitor.Visitor
	users         []user.User
	accounts      map[string]fakeAccount
	failures      map[string]int
	requests      []RecordedRequest
	nextUserID    int
	nextVisitorID int
}

// NewFakeBackend starts a FakeBackend that is closed when the test ends.
func NewFakeBackend(t interface {
	TestingTB
	Cleanup(func())
},
) *FakeBackend {
	t.Helper()

	f := &FakeBackend{
		Token:         "test-access-token",
		accounts:      map[string]fakeAccount{},
		failures:      map[string]int{},
		nextUserID:    1,
		nextVisitorID: 1,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login/", f.login)
	mux.HandleFunc("POST /api/refresh/", f.refresh)
	mux.HandleFunc("GET /api/visitor-list/", f.listVisitors)
	mux.HandleFunc("POST /api/visitor/", f.createVisitor)
	mux.HandleFunc("GET /api/get-user/", f.protected(f.listUsers))
	mux.HandleFunc("POST /api/create-user/", f.protected(f.createUser))
	mux.HandleFunc("PUT /api/update-user/{id}/", f.protected(f.updateUser))
	mux.HandleFunc("GET /api/active-visitors/", f.protected(f.activeVisitors))

	f.Server = httptest.NewServer(f.record(mux))
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the backend base URL.
func (f *FakeBackend) URL() string { return f.Server.URL }

// AddAccount registers login credentials and the matching user row.
func (f *FakeBackend) AddAccount(username, password, role string) user.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := user.User{ID: f.nextUserID, Username: username, Role: role, IsActive: true}
	f.nextUserID++
	f.users = append(f.users, u)
	f.accounts[username] = fakeAccount{password: password, user: u}
	return u
}

// SeedVisitors appends visitors; the list is served newest first.
func (f *FakeBackend) SeedVisitors(vs ...visitor.Visitor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range vs {
		if v.ID >= f.nextVisitorID {
			f.nextVisitorID = v.ID + 1
		}
	}
	f.visitors = append(vs, f.visitors...)
}

// SeedUsers appends user rows without login credentials.
func (f *FakeBackend) SeedUsers(us ...user.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range us {
		if u.ID >= f.nextUserID {
			f.nextUserID = u.ID + 1
		}
	}
	f.users = append(f.users, us...)
}

// Fail makes every request to path answer status until Recover is called.
func (f *FakeBackend) Fail(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[path] = status
}

// Recover clears a failure set with Fail.
func (f *FakeBackend) Recover(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, path)
}

// Users returns a copy of the stored users.
func (f *FakeBackend) Users() []user.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]user.User(nil), f.users...)
}

// Requests returns the captured requests for path.
func (f *FakeBackend) Requests(path string) []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []RecordedRequest
	for _, r := range f.requests {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (f *FakeBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			Body:          body,
		})
		status, failing := f.failures[r.URL.Path]
		f.mu.Unlock()

		if failing {
			writeJSON(w, status, map[string]string{"detail": "induced failure"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeBackend) protected(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Authentication credentials were not provided.",
			})
			return
		}
		next(w, r)
	}
}

func (f *FakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)

	f.mu.Lock()
	acct, ok := f.accounts[in.Username]
	f.mu.Unlock()
	if !ok || acct.password != in.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "No active account found with the given credentials",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access":   f.Token,
		"refresh":  "refresh-" + in.Username,
		"username": acct.user.Username,
		"role":     acct.user.Role,
	})
}

func (f *FakeBackend) refresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Refresh string `json:"refresh"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	if !strings.HasPrefix(in.Refresh, "refresh-") {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access": f.Token})
}

func (f *FakeBackend) listVisitors(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	out := append([]visitor.Visitor{}, f.visitors...)
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeBackend) createVisitor(w http.ResponseWriter, r *http.Request) {
	var reg visitor.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil || reg.LastName == "" || reg.FirstName == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"last_name": {"This field is required."}})
		return
	}

	f.mu.Lock()
	v := visitor.Visitor{
		ID:              f.nextVisitorID,
		LastName:        reg.LastName,
		FirstName:       reg.FirstName,
		MiddleInitial:   reg.MiddleInitial,
		Purpose:         reg.Purpose,
		PurposeOther:    reg.PurposeOther,
		Department:      reg.Department,
		DepartmentOther: reg.DepartmentOther,
		Date:            reg.Date,
		Time:            reg.Time,
	}
	f.nextVisitorID++
	f.visitors = append([]visitor.Visitor{v}, f.visitors...)
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, v)
}

func (f *FakeBackend) listUsers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, f.Users())
}

func (f *FakeBackend) createUser(w http.ResponseWriter, r *http.Request) {
	var req user.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == req.Username {
			writeJSON(w, http.StatusBadRequest, map[string][]string{
				"username": {"A user with that username already exists."},
			})
			return
		}
	}
	u := user.User{
		ID:        f.nextUserID,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      req.Role,
		IsActive:  req.IsActive,
	}
	f.nextUserID++
	f.users = append(f.users, u)
	writeJSON(w, http.StatusCreated, u)
}

func (f *FakeBackend) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "User not found"})
		return
	}
	var req user.UpdateRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID != id {
			continue
		}
		u := &f.users[i]
		if req.IsActive != nil {
			u.IsActive = *req.IsActive
		}
		if req.Role != nil {
			u.Role = *req.Role
		}
		if req.Email != nil {
			u.Email = *req.Email
		}
		if req.FirstName != nil {
			u.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			u.LastName = *req.LastName
		}
		writeJSON(w, http.StatusOK, *u)
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "User not found"})
}

func (f *FakeBackend) activeVisitors(w http.ResponseWriter, _ *http.Request) {
	var out []user.User
	for _, u := range f.Users() {
		if u.Role == "visitor" && u.IsActive {
			out = append(out, u)
		}
	}
	if out == nil {
		out = []user.User{}
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
