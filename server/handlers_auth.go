package server

import (
	"net/http"
	"strings"

	"github.com/newnow-platform/newnow-web/backend"
	apperrors "github.com/newnow-platform/newnow-web/internal/errors"
	"github.com/rs/zerolog/log"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	pageContext
	Error     string
	Email     string // Preserve email on error
	ReturnURL string
}

// LoginPageHandler displays the login form (GET /auth/login)
func (s *Server) LoginPageHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("login.html")
	if err != nil {
		panic("Failed to parse login template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := LoginPageData{
			pageContext: s.pageContext(),
			Error:       r.URL.Query().Get("error"),
			Email:       r.URL.Query().Get("email"),
			ReturnURL:   r.URL.Query().Get(ReturnURLParam),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render login page")
		}
	}
}

// LoginSubmissionHandler processes the login form submission
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("login.html")
	if err != nil {
		panic("Failed to parse login template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		email := r.FormValue("email")
		password := r.FormValue("password")
		returnURL := r.FormValue(ReturnURLParam)

		renderError := func(message string) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_ = tmpl.Execute(w, LoginPageData{
				pageContext: s.pageContext(),
				Error:       message,
				Email:       email,
				ReturnURL:   returnURL,
			})
		}

		if email == "" || password == "" {
			renderError("Email and password are required")
			return
		}

		if _, err := s.sessions.Login(r.Context(), email, password); err != nil {
			if apperrors.Is(err, apperrors.ErrInvalidCredentials) {
				renderError("Invalid email or password")
				return
			}
			log.Err(err).Msg("Login failed")
			renderError("Login is currently unavailable, please try again")
			return
		}

		http.Redirect(w, r, safeReturnURL(returnURL), http.StatusSeeOther)
	}
}

// safeReturnURL only honors local paths, so the login flow cannot be
// used as an open redirect.
func safeReturnURL(returnURL string) string {
	if strings.HasPrefix(returnURL, "/") && !strings.HasPrefix(returnURL, "//") {
		return returnURL
	}
	return RouteHome
}

// RegisterPageData contains data for rendering the account request form
type RegisterPageData struct {
	pageContext
	Error   string
	Message string
	Request backend.RegisterRequest // Preserve input on error
}

// RegisterPageHandler displays the account request form
func (s *Server) RegisterPageHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("register.html")
	if err != nil {
		panic("Failed to parse register template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, RegisterPageData{pageContext: s.pageContext()}); err != nil {
			log.Err(err).Msg("Failed to render register page")
		}
	}
}

// RegisterSubmissionHandler submits an account request for
// administrator review. No session is created on success.
func (s *Server) RegisterSubmissionHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("register.html")
	if err != nil {
		panic("Failed to parse register template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		req := backend.RegisterRequest{
			Email:       r.FormValue("email"),
			Password:    r.FormValue("password"),
			Name:        r.FormValue("name"),
			PhoneNumber: r.FormValue("phoneNumber"),
			Birthday:    r.FormValue("birthday"),
			Address:     r.FormValue("address"),
			City:        r.FormValue("city"),
		}

		render := func(data RegisterPageData) {
			data.pageContext = s.pageContext()
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_ = tmpl.Execute(w, data)
		}

		if req.Email == "" || req.Password == "" || req.Name == "" || req.Address == "" {
			render(RegisterPageData{Error: "Email, password, name and address are required", Request: req})
			return
		}

		message, err := s.sessions.RegisterRequest(r.Context(), req)
		if err != nil {
			log.Err(err).Msg("Account request submission failed")
			render(RegisterPageData{Error: "Could not submit your request, please try again", Request: req})
			return
		}
		render(RegisterPageData{Message: message})
	}
}

// LogoutHandler is the logout route: its sole effect is ending the
// session; the user never lands on a page here.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.sessions.Logout(r.Context(), false); err != nil {
			// Local session is already cleared; the backend failure
			// is logged and the user continues home.
			log.Warn().Err(err).Msg("Backend logout failed")
		}
		http.Redirect(w, r, RouteHome, http.StatusSeeOther)
	}
}
