// Package transport decorates outgoing backend requests with the
// session's bearer token and recovers from token expiry with a single
// silent refresh-and-retry.
package transport

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/newnow-platform/newnow-web/identity"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// EndpointClass is the authentication classification of a request path.
type EndpointClass int

const (
	// EndpointAuth covers login/register/refresh/logout; these are
	// never decorated and never trigger refresh-on-401.
	EndpointAuth EndpointClass = iota
	// EndpointPublic covers the explicit allowlist of anonymous
	// endpoints (feeds).
	EndpointPublic
	// EndpointProtected is everything else.
	EndpointProtected
)

const authPathPrefix = "/api/auth/"

// DefaultPublicPaths is the allowlist of endpoints served without
// authentication. Prefix match.
var DefaultPublicPaths = []string{
	"/api/feed/",
	"/api/events/today",
	"/api/locations/popular",
}

// Classify determines the endpoint class of a request path using the
// default allowlist.
func Classify(path string) EndpointClass {
	return classify(path, DefaultPublicPaths)
}

func classify(path string, publicPaths []string) EndpointClass {
	if strings.HasPrefix(path, authPathPrefix) {
		return EndpointAuth
	}
	for _, public := range publicPaths {
		if strings.HasPrefix(path, public) {
			return EndpointPublic
		}
	}
	return EndpointProtected
}

// SessionState is the slice of the session service the authenticator
// needs. session.Service satisfies it.
type SessionState interface {
	AccessToken() string
	CanRefresh() bool
	Refresh(ctx context.Context) (*identity.Identity, error)
	ClearSession()
}

// Navigator is invoked when an unrecoverable auth failure forces the
// user back to the login page.
type Navigator func(target string)

// Authenticator is an http.RoundTripper that attaches the current
// access token to protected requests and performs at most one
// refresh-and-retry on a 401 response.
type Authenticator struct {
	base        http.RoundTripper
	session     SessionState
	navigate    Navigator
	loginRoute  string
	publicPaths []string
}

// Option modifies the Authenticator instance.
type Option func(*Authenticator)

// WithBase sets the wrapped transport (defaults to
// http.DefaultTransport).
func WithBase(base http.RoundTripper) Option {
	return func(a *Authenticator) {
		a.base = base
	}
}

// WithNavigator installs the forced-logout redirect callback.
func WithNavigator(navigate Navigator) Option {
	return func(a *Authenticator) {
		a.navigate = navigate
	}
}

// WithLoginRoute overrides the navigation target used on forced
// logout (defaults to "/auth/login").
func WithLoginRoute(route string) Option {
	return func(a *Authenticator) {
		a.loginRoute = route
	}
}

// WithPublicPaths replaces the public endpoint allowlist.
func WithPublicPaths(paths ...string) Option {
	return func(a *Authenticator) {
		a.publicPaths = paths
	}
}

func NewAuthenticator(session SessionState, options ...Option) (*Authenticator, error) {
	if session == nil {
		return nil, errors.New("[NewAuthenticator] session is required")
	}

	a := &Authenticator{
		base:        http.DefaultTransport,
		session:     session,
		loginRoute:  "/auth/login",
		publicPaths: DefaultPublicPaths,
	}
	for _, opt := range options {
		opt(a)
	}
	return a, nil
}

var _ http.RoundTripper = (*Authenticator)(nil)

// RoundTrip implements the classify -> decorate -> observe -> recover
// contract. Auth and public endpoints pass through unmodified. A
// protected request that fails with 401 is retried exactly once after
// a successful refresh; a second 401 is returned as-is.
func (a *Authenticator) RoundTrip(req *http.Request) (*http.Response, error) {
	if classify(req.URL.Path, a.publicPaths) != EndpointProtected {
		return a.base.RoundTrip(req)
	}

	resp, err := a.base.RoundTrip(a.withBearer(req, a.session.AccessToken()))
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	if !a.session.CanRefresh() {
		// Nothing to recover with: end the session and let the
		// caller see the original 401.
		log.Debug().Str("path", req.URL.Path).Msg("401 without refresh token, forcing logout")
		a.forceLogout()
		return resp, nil
	}

	if _, refreshErr := a.session.Refresh(req.Context()); refreshErr != nil {
		drainAndClose(resp.Body)
		a.forceLogout()
		return nil, errors.Wrap(refreshErr, "[Authenticator.RoundTrip] refresh after 401")
	}

	retry, retryErr := a.rewind(req)
	if retryErr != nil {
		// Body cannot be replayed; the refreshed token will serve
		// the next request, this one keeps its 401.
		log.Warn().Err(retryErr).Str("path", req.URL.Path).Msg("Cannot replay request after refresh")
		return resp, nil
	}

	drainAndClose(resp.Body)
	log.Debug().Str("path", req.URL.Path).Msg("Retrying request with refreshed token")
	return a.base.RoundTrip(a.withBearer(retry, a.session.AccessToken()))
}

// withBearer returns a shallow clone carrying the Authorization
// header. The original request is never mutated, per the
// http.RoundTripper contract.
func (a *Authenticator) withBearer(req *http.Request, accessToken string) *http.Request {
	if accessToken == "" {
		return req
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+accessToken)
	return clone
}

func (a *Authenticator) rewind(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return clone, nil
	}
	if req.GetBody == nil {
		return nil, errors.New("request body is not replayable")
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, errors.Wrap(err, "GetBody")
	}
	clone.Body = body
	return clone, nil
}

func (a *Authenticator) forceLogout() {
	a.session.ClearSession()
	if a.navigate != nil {
		a.navigate(a.loginRoute)
	}
}

func drainAndClose(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096))
	_ = body.Close()
}
