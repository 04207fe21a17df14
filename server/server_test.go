package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/newnow-platform/newnow-web/backend"
	"github.com/newnow-platform/newnow-web/credentials/credfakes"
	"github.com/newnow-platform/newnow-web/identity"
	"github.com/newnow-platform/newnow-web/internal/config"
	"github.com/newnow-platform/newnow-web/server"
	"github.com/newnow-platform/newnow-web/session"
	"github.com/newnow-platform/newnow-web/session/sessionfakes"
	"github.com/stretchr/testify/require"
)

// serverFixture wires a Server to a fake credential store, a fake auth
// client and a stub backend.
type serverFixture struct {
	store    *credfakes.FakeStore
	auth     *sessionfakes.FakeAuthClient
	sessions *session.Service
	server   *server.Server
}

func setupServerFixture(t *testing.T, backendHandler http.HandlerFunc) *serverFixture {
	t.Helper()

	if backendHandler == nil {
		backendHandler = func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}
	}
	stub := httptest.NewServer(backendHandler)
	t.Cleanup(stub.Close)

	store := credfakes.NewFakeStore()
	auth := sessionfakes.NewFakeAuthClient()
	sessions, err := session.New(store, auth)
	require.NoError(t, err)

	api, err := backend.New(stub.URL, nil)
	require.NoError(t, err)

	srv, err := server.New(config.New(), sessions, api)
	require.NoError(t, err)

	return &serverFixture{store: store, auth: auth, sessions: sessions, server: srv}
}

func (f *serverFixture) signIn(t *testing.T, roles ...string) {
	t.Helper()

	f.auth.LoginFn = func(email, password string) (*backend.AuthResponse, error) {
		return &backend.AuthResponse{
			Token:        "T1",
			RefreshToken: "R1",
			Email:        email,
			Name:         "Ann",
			Roles:        roles,
		}, nil
	}
	_, err := f.sessions.Login(context.Background(), "a@x.com", "secret")
	require.NoError(t, err)
}

func (f *serverFixture) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (f *serverFixture) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := server.New(config.New(), nil, nil)
	require.Error(t, err)
}

func TestProfileRedirectsToLoginWhenLoggedOut(t *testing.T) {
	f := setupServerFixture(t, nil)

	rec := f.get(server.RouteMe)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, server.RouteLogin, location.Path)
	require.Equal(t, server.RouteMe, location.Query().Get(server.ReturnURLParam))
}

func TestAdminRedirectsToLoginWhenLoggedOut(t *testing.T) {
	f := setupServerFixture(t, nil)

	rec := f.get(server.RouteAdminDashboard)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, server.RouteLogin, location.Path)
	require.Equal(t, server.RouteAdminDashboard, location.Query().Get(server.ReturnURLParam))
}

func TestAdminRedirectsHomeForAuthenticatedNonAdmin(t *testing.T) {
	f := setupServerFixture(t, nil)
	f.signIn(t, identity.RoleUser)

	rec := f.get(server.RouteAdminDashboard)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, server.RouteHome, rec.Header().Get("Location"))
}

func TestAdminRequestsRendersForAdmin(t *testing.T) {
	f := setupServerFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/admin/requests/pending", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]backend.AccountRequest{
			{ID: 7, Email: "new@x.com", Name: "Newcomer", Status: "PENDING"},
		})
	})
	f.signIn(t, identity.RoleAdmin)

	rec := f.get(server.RouteAdminRequests)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Newcomer")
}

func TestLoginSubmissionRedirectsToReturnURL(t *testing.T) {
	f := setupServerFixture(t, nil)
	f.auth.LoginFn = func(email, password string) (*backend.AuthResponse, error) {
		return &backend.AuthResponse{Token: "T1", RefreshToken: "R1", Email: email, Name: "Ann"}, nil
	}

	rec := f.postForm(server.RouteLogin, url.Values{
		"email":               []string{"a@x.com"},
		"password":            []string{"secret"},
		server.ReturnURLParam: []string{"/me"},
	})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/me", rec.Header().Get("Location"))
	require.True(t, f.sessions.IsAuthenticated())
}

func TestLoginSubmissionIgnoresExternalReturnURL(t *testing.T) {
	f := setupServerFixture(t, nil)
	f.auth.LoginFn = func(email, password string) (*backend.AuthResponse, error) {
		return &backend.AuthResponse{Token: "T1", RefreshToken: "R1", Email: email, Name: "Ann"}, nil
	}

	rec := f.postForm(server.RouteLogin, url.Values{
		"email":               []string{"a@x.com"},
		"password":            []string{"secret"},
		server.ReturnURLParam: []string{"https://evil.example/phish"},
	})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, server.RouteHome, rec.Header().Get("Location"))
}

func TestLoginSubmissionRendersErrorOnBadCredentials(t *testing.T) {
	f := setupServerFixture(t, nil)
	f.auth.LoginFn = func(email, password string) (*backend.AuthResponse, error) {
		return nil, &backend.APIError{StatusCode: http.StatusUnauthorized, Message: "bad credentials"}
	}

	rec := f.postForm(server.RouteLogin, url.Values{
		"email":    []string{"a@x.com"},
		"password": []string{"wrong"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid email or password")
	require.False(t, f.sessions.IsAuthenticated())
}

func TestLogoutRouteClearsSessionAndRedirectsHome(t *testing.T) {
	f := setupServerFixture(t, nil)
	f.signIn(t, identity.RoleUser)
	f.auth.LogoutFn = func() (*backend.MessageResponse, error) {
		return &backend.MessageResponse{Message: "bye"}, nil
	}

	rec := f.get(server.RouteLogout)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, server.RouteHome, rec.Header().Get("Location"))
	require.False(t, f.sessions.IsAuthenticated())
	require.Equal(t, 1, f.auth.LogoutCalls)
}

func TestLogoutRouteClearsSessionWhenBackendFails(t *testing.T) {
	f := setupServerFixture(t, nil)
	f.signIn(t, identity.RoleUser)
	f.auth.LogoutFn = func() (*backend.MessageResponse, error) {
		return nil, &backend.APIError{StatusCode: http.StatusInternalServerError}
	}

	rec := f.get(server.RouteLogout)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.False(t, f.sessions.IsAuthenticated())
}

func TestHideReviewRequiresManagerRole(t *testing.T) {
	f := setupServerFixture(t, nil)
	f.signIn(t, identity.RoleUser)

	rec := f.postForm("/reviews/42/hide", url.Values{"hidden": []string{"true"}})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, server.RouteHome, rec.Header().Get("Location"))
}

func TestHideReviewForManagerRedirectsBack(t *testing.T) {
	f := setupServerFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/api/manager/reviews/42/hide", r.URL.Path)
		_ = json.NewEncoder(w).Encode(backend.MessageResponse{Message: "Review hidden"})
	})
	f.signIn(t, identity.RoleManager)

	rec := f.postForm("/reviews/42/hide", url.Values{
		"hidden":              []string{"true"},
		server.ReturnURLParam: []string{"/locations/7"},
	})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/locations/7", rec.Header().Get("Location"))
}

func TestRegisterSubmissionShowsBackendMessage(t *testing.T) {
	f := setupServerFixture(t, nil)
	f.auth.RegisterFn = func(req backend.RegisterRequest) (*backend.MessageResponse, error) {
		require.Equal(t, "new@x.com", req.Email)
		return &backend.MessageResponse{Message: "Request received, an administrator will review it"}, nil
	}

	rec := f.postForm(server.RouteRegisterRequest, url.Values{
		"email":    []string{"new@x.com"},
		"password": []string{"secret"},
		"name":     []string{"Newcomer"},
		"address":  []string{"1 Main St"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Request received")
	require.False(t, f.sessions.IsAuthenticated())
}
