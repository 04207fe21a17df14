package server

import (
	"net/http"
	"net/url"
)

// SessionReader is the read-only view of the session the guards need.
// session.Service satisfies it.
type SessionReader interface {
	IsAuthenticated() bool
	HasRole(role string) bool
}

// GuardDecision is the outcome of evaluating a guard for one
// navigation attempt: either allowed, or a redirect target with
// optional query parameters.
type GuardDecision struct {
	Allowed        bool
	RedirectTo     string
	RedirectParams url.Values
}

func allowNavigation() GuardDecision {
	return GuardDecision{Allowed: true}
}

func redirectTo(target string, params url.Values) GuardDecision {
	return GuardDecision{RedirectTo: target, RedirectParams: params}
}

// EvaluateAuthenticated allows the navigation iff a user is signed in;
// otherwise it redirects to the login page, carrying the originally
// requested URL so the login flow can return the user there.
func EvaluateAuthenticated(sess SessionReader, requestedURL string) GuardDecision {
	if sess.IsAuthenticated() {
		return allowNavigation()
	}
	return redirectTo(RouteLogin, url.Values{ReturnURLParam: []string{requestedURL}})
}

// EvaluateRole first requires authentication (login redirect when
// absent), then the role. An authenticated user lacking the role is
// sent home rather than to login, distinguishing "not logged in" from
// "logged in but forbidden".
func EvaluateRole(sess SessionReader, role, requestedURL string) GuardDecision {
	if decision := EvaluateAuthenticated(sess, requestedURL); !decision.Allowed {
		return decision
	}
	if !sess.HasRole(role) {
		return redirectTo(RouteHome, nil)
	}
	return allowNavigation()
}

// RequireAuthenticated gates a route on the authenticated-only guard.
func (s *Server) RequireAuthenticated() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			s.applyDecision(w, r, EvaluateAuthenticated(s.sessions, r.URL.Path), next)
		}
	}
}

// RequireRole gates a route on the role guard.
func (s *Server) RequireRole(role string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			s.applyDecision(w, r, EvaluateRole(s.sessions, role, r.URL.Path), next)
		}
	}
}

func (s *Server) applyDecision(w http.ResponseWriter, r *http.Request, decision GuardDecision, next http.HandlerFunc) {
	if decision.Allowed {
		next(w, r)
		return
	}
	target := decision.RedirectTo
	if len(decision.RedirectParams) > 0 {
		target += "?" + decision.RedirectParams.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
