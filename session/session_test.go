package session_test

import (
	"context"
	"testing"

	"github.com/newnow-platform/newnow-web/backend"
	"github.com/newnow-platform/newnow-web/credentials"
	"github.com/newnow-platform/newnow-web/credentials/credfakes"
	"github.com/newnow-platform/newnow-web/identity"
	apperrors "github.com/newnow-platform/newnow-web/internal/errors"
	"github.com/newnow-platform/newnow-web/session"
	"github.com/newnow-platform/newnow-web/session/sessionfakes"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "a@x.com"
	testPassword = "secret"
)

// testFixture holds all test dependencies
type testFixture struct {
	store   *credfakes.FakeStore
	api     *sessionfakes.FakeAuthClient
	service *session.Service
}

func setupTestFixture(t *testing.T, options ...session.Option) *testFixture {
	t.Helper()

	store := credfakes.NewFakeStore()
	api := sessionfakes.NewFakeAuthClient()
	service, err := session.New(store, api, options...)
	require.NoError(t, err)

	return &testFixture{store: store, api: api, service: service}
}

func authResponse(token, refreshToken string, roles ...string) *backend.AuthResponse {
	return &backend.AuthResponse{
		Token:        token,
		RefreshToken: refreshToken,
		Email:        testEmail,
		Name:         "Ann",
		Roles:        roles,
	}
}

func (f *testFixture) loginOK(t *testing.T, roles ...string) {
	t.Helper()

	f.api.LoginFn = func(email, password string) (*backend.AuthResponse, error) {
		return authResponse("T1", "R1", roles...), nil
	}
	_, err := f.service.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := session.New(nil, sessionfakes.NewFakeAuthClient())
	require.Error(t, err)

	_, err = session.New(credfakes.NewFakeStore(), nil)
	require.Error(t, err)
}

func TestLoginPopulatesSessionAtomically(t *testing.T) {
	f := setupTestFixture(t)
	f.loginOK(t, identity.RoleAdmin)

	require.True(t, f.service.IsAuthenticated())
	user := f.service.CurrentUser()
	require.NotNil(t, user)
	require.Equal(t, testEmail, user.Email)
	require.Equal(t, "Ann", user.Name)
	require.Equal(t, []string{identity.RoleAdmin}, user.Roles)
	require.Equal(t, "T1", f.service.AccessToken())
	require.True(t, f.service.CanRefresh())

	// Persisted with all three fields
	creds, err := f.store.Load()
	require.NoError(t, err)
	require.Equal(t, "T1", creds.AccessToken)
	require.Equal(t, "R1", creds.RefreshToken)
	require.Equal(t, testEmail, creds.Identity.Email)
}

func TestLoginFailureLeavesSessionUntouched(t *testing.T) {
	f := setupTestFixture(t)
	f.api.LoginFn = func(email, password string) (*backend.AuthResponse, error) {
		return nil, &backend.APIError{StatusCode: 401, Message: "Bad credentials"}
	}

	_, err := f.service.Login(context.Background(), testEmail, "wrong")
	require.Error(t, err)
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	require.False(t, f.service.IsAuthenticated())
	require.Nil(t, f.service.CurrentUser())
	require.Zero(t, f.store.SaveCalls)
}

func TestLoginPersistFailureLeavesSessionUntouched(t *testing.T) {
	f := setupTestFixture(t)
	f.store.SaveErr = &backend.APIError{StatusCode: 500, Message: "disk full"}
	f.api.LoginFn = func(email, password string) (*backend.AuthResponse, error) {
		return authResponse("T1", "R1", identity.RoleUser), nil
	}

	_, err := f.service.Login(context.Background(), testEmail, testPassword)
	require.Error(t, err)
	require.False(t, f.service.IsAuthenticated())
	require.Empty(t, f.service.AccessToken())
}

func TestLogoutAlwaysClears(t *testing.T) {
	for name, logoutFn := range map[string]func() (*backend.MessageResponse, error){
		"backend ok": func() (*backend.MessageResponse, error) {
			return &backend.MessageResponse{Message: "bye"}, nil
		},
		"backend error": func() (*backend.MessageResponse, error) {
			return nil, &backend.APIError{StatusCode: 500}
		},
		"network failure": func() (*backend.MessageResponse, error) {
			return nil, context.DeadlineExceeded
		},
	} {
		t.Run(name, func(t *testing.T) {
			f := setupTestFixture(t)
			f.loginOK(t, identity.RoleUser)
			f.api.LogoutFn = logoutFn

			_, _ = f.service.Logout(context.Background(), false)

			require.False(t, f.service.IsAuthenticated())
			require.Nil(t, f.service.CurrentUser())
			require.Empty(t, f.service.AccessToken())

			creds, err := f.store.Load()
			require.NoError(t, err)
			require.Empty(t, creds.AccessToken)
			require.Empty(t, creds.RefreshToken)
			require.Nil(t, creds.Identity)
		})
	}
}

func TestLogoutNavigatesHomeWhenAsked(t *testing.T) {
	var target string
	f := setupTestFixture(t, session.WithNavigateFunc(func(to string) { target = to }))
	f.loginOK(t, identity.RoleUser)
	f.api.LogoutFn = func() (*backend.MessageResponse, error) {
		return &backend.MessageResponse{Message: "bye"}, nil
	}

	msg, err := f.service.Logout(context.Background(), true)
	require.NoError(t, err)
	require.Equal(t, "bye", msg)
	require.Equal(t, "/", target)
}

func TestRefreshFailsFastWithoutRefreshToken(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Refresh(context.Background())
	require.ErrorIs(t, err, apperrors.ErrNoRefreshToken)
	require.Zero(t, f.api.RefreshCalls)
}

func TestRefreshReplacesAllStoredFields(t *testing.T) {
	f := setupTestFixture(t)
	f.loginOK(t, identity.RoleUser)
	f.api.RefreshFn = func(refreshToken string) (*backend.AuthResponse, error) {
		require.Equal(t, "R1", refreshToken)
		return authResponse("T2", "R2", identity.RoleUser, identity.RoleManager), nil
	}

	id, err := f.service.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, testEmail, id.Email)
	require.Equal(t, "T2", f.service.AccessToken())
	require.True(t, f.service.HasRole(identity.RoleManager))

	creds, err := f.store.Load()
	require.NoError(t, err)
	require.Equal(t, "T2", creds.AccessToken)
	require.Equal(t, "R2", creds.RefreshToken)
}

func TestRefreshFailureDoesNotClearSession(t *testing.T) {
	f := setupTestFixture(t)
	f.loginOK(t, identity.RoleUser)
	f.api.RefreshFn = func(refreshToken string) (*backend.AuthResponse, error) {
		return nil, &backend.APIError{StatusCode: 401, Message: "refresh token expired"}
	}

	_, err := f.service.Refresh(context.Background())
	require.ErrorIs(t, err, apperrors.ErrRefreshFailed)

	// The caller decides whether the failure is fatal; Refresh itself
	// leaves the session alone.
	require.True(t, f.service.IsAuthenticated())
	require.Equal(t, "T1", f.service.AccessToken())
}

func TestHasRoleWhenLoggedOut(t *testing.T) {
	f := setupTestFixture(t)
	require.False(t, f.service.HasRole(identity.RoleAdmin))
}

func TestRoleMembership(t *testing.T) {
	f := setupTestFixture(t)
	f.loginOK(t, identity.RoleManager)

	require.True(t, f.service.HasRole(identity.RoleManager))
	require.False(t, f.service.HasRole(identity.RoleAdmin))
}

func TestRegisterRequestDoesNotCreateSession(t *testing.T) {
	f := setupTestFixture(t)
	f.api.RegisterFn = func(req backend.RegisterRequest) (*backend.MessageResponse, error) {
		require.Equal(t, "new@x.com", req.Email)
		return &backend.MessageResponse{Message: "request submitted"}, nil
	}

	msg, err := f.service.RegisterRequest(context.Background(), backend.RegisterRequest{
		Email:    "new@x.com",
		Password: "pw",
		Name:     "New",
		Address:  "Main St 1",
	})
	require.NoError(t, err)
	require.Equal(t, "request submitted", msg)
	require.False(t, f.service.IsAuthenticated())
}

func TestRestoresPersistedSession(t *testing.T) {
	store := credfakes.NewFakeStore()
	store.Seed(credentials.Credentials{
		AccessToken:  "T1",
		RefreshToken: "R1",
		Identity:     &identity.Identity{Email: testEmail, Name: "Ann", Roles: []string{identity.RoleAdmin}},
	})

	service, err := session.New(store, sessionfakes.NewFakeAuthClient())
	require.NoError(t, err)
	require.True(t, service.IsAuthenticated())
	require.Equal(t, "T1", service.AccessToken())
	require.True(t, service.HasRole(identity.RoleAdmin))
}

func TestPartialPersistedStateRestoresLoggedOut(t *testing.T) {
	for name, creds := range map[string]credentials.Credentials{
		"token without identity": {AccessToken: "T1", RefreshToken: "R1"},
		"identity without token": {Identity: &identity.Identity{Email: testEmail}},
		"missing refresh token":  {AccessToken: "T1", Identity: &identity.Identity{Email: testEmail}},
	} {
		t.Run(name, func(t *testing.T) {
			store := credfakes.NewFakeStore()
			store.Seed(creds)

			service, err := session.New(store, sessionfakes.NewFakeAuthClient())
			require.NoError(t, err)

			// No partial session is ever observable
			require.False(t, service.IsAuthenticated())
			require.Nil(t, service.CurrentUser())
			require.Empty(t, service.AccessToken())
		})
	}
}

func TestSubscribersSeeTransitions(t *testing.T) {
	f := setupTestFixture(t)

	var seen []*identity.Identity
	unsubscribe := f.service.Subscribe(func(id *identity.Identity) {
		seen = append(seen, id)
	})

	f.loginOK(t, identity.RoleUser)
	require.Len(t, seen, 1)
	require.Equal(t, testEmail, seen[0].Email)

	f.service.ClearSession()
	require.Len(t, seen, 2)
	require.Nil(t, seen[1])

	unsubscribe()
	f.loginOK(t, identity.RoleUser)
	require.Len(t, seen, 2)
}

func TestClearSessionIsIdempotent(t *testing.T) {
	f := setupTestFixture(t)
	f.loginOK(t, identity.RoleUser)

	f.service.ClearSession()
	f.service.ClearSession()

	require.False(t, f.service.IsAuthenticated())
	require.Equal(t, 2, f.store.ClearCalls)
}
