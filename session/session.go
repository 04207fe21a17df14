// Package session owns the process-wide login state of the NewNow
// front-end. It is the single source of truth for "who is logged in"
// and the only component that writes to the credential store.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/newnow-platform/newnow-web/backend"
	"github.com/newnow-platform/newnow-web/credentials"
	"github.com/newnow-platform/newnow-web/identity"
	apperrors "github.com/newnow-platform/newnow-web/internal/errors"
	"github.com/newnow-platform/newnow-web/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// AuthClient is the slice of the backend client the session needs.
type AuthClient interface {
	Login(ctx context.Context, email, password string) (*backend.AuthResponse, error)
	RegisterRequest(ctx context.Context, req backend.RegisterRequest) (*backend.MessageResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*backend.AuthResponse, error)
	Logout(ctx context.Context) (*backend.MessageResponse, error)
}

// Subscriber is notified with the new identity on every session
// transition: the identity after login/refresh, nil after a clear.
type Subscriber func(*identity.Identity)

// Service holds the current session and performs the auth operations
// against the backend. All methods are safe for concurrent use.
type Service struct {
	store    credentials.Store
	api      AuthClient
	nowTime  func() time.Time
	navigate func(target string)

	lock             sync.RWMutex
	current          *identity.Identity
	accessToken      string
	refreshToken     string
	subscribers      map[int]Subscriber
	nextSubscriberID int
}

// Option modifies the Service instance.
type Option func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithNavigateFunc installs the navigation callback used when a logout
// asks to return home.
func WithNavigateFunc(navigate func(target string)) Option {
	return func(s *Service) {
		s.navigate = navigate
	}
}

// New builds a Service and restores any persisted session. Partial or
// corrupt stored state restores as logged out.
func New(store credentials.Store, api AuthClient, options ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("[session.New] credential store is required")
	}
	if api == nil {
		return nil, errors.New("[session.New] auth client is required")
	}

	s := &Service{
		store:       store,
		api:         api,
		nowTime:     time.Now,
		subscribers: make(map[int]Subscriber),
	}
	for _, opt := range options {
		opt(s)
	}

	s.loadFromStorage()
	return s, nil
}

func (s *Service) loadFromStorage() {
	creds, err := s.store.Load()
	if err != nil {
		log.Warn().Err(err).Msg("Could not load stored credentials, starting logged out")
		return
	}
	// A session needs all three fields; anything partial counts as
	// logged out.
	if creds.AccessToken == "" || creds.RefreshToken == "" || creds.Identity == nil {
		return
	}

	s.lock.Lock()
	s.accessToken = creds.AccessToken
	s.refreshToken = creds.RefreshToken
	s.current = creds.Identity
	s.lock.Unlock()

	if exp, ok := token.Expiry(creds.AccessToken); ok && exp.Before(s.nowTime()) {
		log.Debug().Time("expired_at", exp).Msg("Restored access token is already expired, relying on refresh")
	}
	log.Info().Str("email", creds.Identity.Email).Msg("Restored session from storage")
}

// Login authenticates against the backend. On success the token pair
// and identity are persisted and published; on failure session state is
// left untouched.
func (s *Service) Login(ctx context.Context, email, password string) (*identity.Identity, error) {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		if isCredentialFailure(err) {
			return nil, errors.Wrap(apperrors.ErrInvalidCredentials, err.Error())
		}
		return nil, errors.Wrap(err, "[Service.Login] api.Login")
	}

	id := identityFromResponse(resp)
	if err := s.store.Save(resp.Token, resp.RefreshToken, id); err != nil {
		return nil, errors.Wrap(err, "[Service.Login] persist credentials")
	}
	s.setSession(resp.Token, resp.RefreshToken, id)
	log.Info().Str("email", id.Email).Msg("Logged in")
	return id.Clone(), nil
}

// RegisterRequest submits a registration for administrator review. No
// session is created.
func (s *Service) RegisterRequest(ctx context.Context, req backend.RegisterRequest) (string, error) {
	resp, err := s.api.RegisterRequest(ctx, req)
	if err != nil {
		return "", errors.Wrap(err, "[Service.RegisterRequest] api.RegisterRequest")
	}
	return resp.Message, nil
}

// Logout tells the backend to invalidate the refresh state, then
// clears the local session unconditionally. Ending the local session
// must succeed even when the backend is unreachable, so the returned
// error is informational: by the time it is returned the session is
// already cleared.
func (s *Service) Logout(ctx context.Context, navigateHome bool) (string, error) {
	var message string
	var logoutErr error

	resp, err := s.api.Logout(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Backend logout failed, clearing local session anyway")
		logoutErr = errors.Wrap(err, "[Service.Logout] api.Logout")
	} else {
		message = resp.Message
	}

	s.ClearSession()
	if navigateHome && s.navigate != nil {
		s.navigate("/")
	}
	return message, logoutErr
}

// Refresh exchanges the stored refresh token for a new token pair.
// Fails fast with ErrNoRefreshToken when none is stored. On failure the
// session is NOT cleared; the caller decides whether the failure is
// fatal.
func (s *Service) Refresh(ctx context.Context) (*identity.Identity, error) {
	s.lock.RLock()
	refreshToken := s.refreshToken
	s.lock.RUnlock()

	if refreshToken == "" {
		return nil, apperrors.ErrNoRefreshToken
	}

	resp, err := s.api.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrRefreshFailed, err.Error())
	}

	id := identityFromResponse(resp)
	if err := s.store.Save(resp.Token, resp.RefreshToken, id); err != nil {
		return nil, errors.Wrap(err, "[Service.Refresh] persist credentials")
	}
	s.setSession(resp.Token, resp.RefreshToken, id)
	log.Debug().Str("email", id.Email).Msg("Session refreshed")
	return id.Clone(), nil
}

// ClearSession wipes local state without a backend round trip.
// Idempotent.
func (s *Service) ClearSession() {
	if err := s.store.Clear(); err != nil {
		log.Error().Err(err).Msg("Failed to clear stored credentials")
	}
	s.setSession("", "", nil)
}

// CurrentUser returns the signed-in identity, or nil.
func (s *Service) CurrentUser() *identity.Identity {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.current.Clone()
}

// IsAuthenticated reports whether a user is signed in.
func (s *Service) IsAuthenticated() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.current != nil
}

// HasRole reports role membership of the current user. False when
// logged out.
func (s *Service) HasRole(role string) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.current.HasRole(role)
}

// AccessToken returns the current bearer token, or "".
func (s *Service) AccessToken() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.accessToken
}

// CanRefresh reports whether a refresh token is stored.
func (s *Service) CanRefresh() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.refreshToken != ""
}

// Subscribe registers a callback for session transitions and returns
// its unsubscribe function.
func (s *Service) Subscribe(fn Subscriber) func() {
	s.lock.Lock()
	id := s.nextSubscriberID
	s.nextSubscriberID++
	s.subscribers[id] = fn
	s.lock.Unlock()

	return func() {
		s.lock.Lock()
		delete(s.subscribers, id)
		s.lock.Unlock()
	}
}

func (s *Service) setSession(accessToken, refreshToken string, id *identity.Identity) {
	s.lock.Lock()
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	s.current = id
	subscribers := make([]Subscriber, 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.lock.Unlock()

	// Notify outside the lock so subscribers may read session state.
	for _, fn := range subscribers {
		fn(id.Clone())
	}
}

func identityFromResponse(resp *backend.AuthResponse) *identity.Identity {
	return &identity.Identity{
		Email: resp.Email,
		Name:  resp.Name,
		Roles: resp.Roles,
	}
}

func isCredentialFailure(err error) bool {
	return backend.IsStatus(err, http.StatusUnauthorized) ||
		backend.IsStatus(err, http.StatusForbidden) ||
		backend.IsStatus(err, http.StatusBadRequest)
}
