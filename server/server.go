// Package server is the NewNow web front-end: server-rendered pages
// over the REST backend, with session-aware route guards.
package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/newnow-platform/newnow-web/backend"
	"github.com/newnow-platform/newnow-web/internal/config"
	"github.com/newnow-platform/newnow-web/session"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	sessions *session.Service
	api      *backend.Client
}

func New(cfg config.Config, sessions *session.Service, api *backend.Client) (*Server, error) {
	if sessions == nil {
		return nil, errors.New("[server.New] session service is required")
	}
	if api == nil {
		return nil, errors.New("[server.New] backend client is required")
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		sessions: sessions,
		api:      api,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Debug().Msgf("[%-19s] %s", displayMethod, path)
}

// handleBackendError renders a failed backend call. When the request
// authenticator invalidated the session mid-request (forced logout),
// the user is sent to the login page with the current path as the
// return URL; anything else renders a plain error.
func (s *Server) handleBackendError(w http.ResponseWriter, r *http.Request, err error) {
	if !s.sessions.IsAuthenticated() {
		decision := EvaluateAuthenticated(s.sessions, r.URL.Path)
		s.applyDecision(w, r, decision, nil)
		return
	}
	log.Error().Err(err).Str("path", r.URL.Path).Msg("Backend call failed")
	http.Error(w, "The NewNow backend is currently unavailable", http.StatusBadGateway)
}
