package server

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/newnow-platform/newnow-web/backend"
	"github.com/newnow-platform/newnow-web/token"
	"github.com/rs/zerolog/log"
)

// EventsPageData contains data for rendering the events page
type EventsPageData struct {
	pageContext
	Events []backend.EventBasic
}

// EventsPageHandler lists today's events. Public route.
func (s *Server) EventsPageHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("events.html")
	if err != nil {
		panic("Failed to parse events template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		events, err := s.api.TodayEvents(r.Context())
		if err != nil {
			s.handleBackendError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, EventsPageData{pageContext: s.pageContext(), Events: events}); err != nil {
			log.Err(err).Msg("Failed to render events page")
		}
	}
}

const (
	locationsPageSize       = 12
	locationReviewsPageSize = 20
)

// LocationsPageData contains data for rendering the locations listing
type LocationsPageData struct {
	pageContext
	Search      string
	Locations   []backend.Location
	CurrentPage int
	TotalPages  int
	PrevPage    int
	NextPage    int
}

// LocationsPageHandler lists locations with search and paging.
func (s *Server) LocationsPageHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("locations.html")
	if err != nil {
		panic("Failed to parse locations template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		search := r.URL.Query().Get("search")
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 0 {
			page = 0
		}

		result, err := s.api.Locations(r.Context(), search, page, locationsPageSize)
		if err != nil {
			s.handleBackendError(w, r, err)
			return
		}

		data := LocationsPageData{
			pageContext: s.pageContext(),
			Search:      search,
			Locations:   result.Locations,
			CurrentPage: result.CurrentPage,
			TotalPages:  result.TotalPages,
			PrevPage:    result.CurrentPage - 1,
			NextPage:    result.CurrentPage + 1,
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render locations page")
		}
	}
}

// LocationDetailsPageData contains data for rendering a single location
type LocationDetailsPageData struct {
	pageContext
	Location backend.LocationDetails
	Reviews  []backend.ReviewDetails
}

// LocationDetailsHandler renders one location with its reviews.
func (s *Server) LocationDetailsHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("location_details.html")
	if err != nil {
		panic("Failed to parse location details template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		location, err := s.api.Location(r.Context(), id)
		if err != nil {
			if backend.IsStatus(err, http.StatusNotFound) {
				http.NotFound(w, r)
				return
			}
			s.handleBackendError(w, r, err)
			return
		}

		data := LocationDetailsPageData{
			pageContext: s.pageContext(),
			Location:    *location,
		}
		if reviews, err := s.api.LocationReviews(r.Context(), id, 0, locationReviewsPageSize); err != nil {
			// The location page is still useful without its reviews.
			log.Warn().Err(err).Int64("locationID", id).Msg("Could not load location reviews")
		} else {
			data.Reviews = reviews.Content
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render location details page")
		}
	}
}

// MePageData contains data for rendering the signed-in user's profile
type MePageData struct {
	pageContext
	Profile      backend.UserProfile
	TokenExpires string
	Message      string
	Error        string
}

// MePageHandler renders the signed-in user's profile. The route is
// behind the authenticated-only guard; the backend call exercises the
// token attach/refresh path.
func (s *Server) MePageHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("me.html")
	if err != nil {
		panic("Failed to parse profile template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := s.api.Me(r.Context())
		if err != nil {
			s.handleBackendError(w, r, err)
			return
		}

		data := MePageData{
			pageContext: s.pageContext(),
			Profile:     *profile,
			Message:     r.URL.Query().Get("message"),
			Error:       r.URL.Query().Get("error"),
		}
		if expiry, ok := token.Expiry(s.sessions.AccessToken()); ok {
			data.TokenExpires = expiry.Format(time.RFC1123)
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render profile page")
		}
	}
}

// UpdateProfileHandler saves profile edits and returns to the profile
// page with the outcome.
func (s *Server) UpdateProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		req := backend.UpdateProfileRequest{
			Name:        r.FormValue("name"),
			PhoneNumber: r.FormValue("phoneNumber"),
			Birthday:    r.FormValue("birthday"),
			Address:     r.FormValue("address"),
			City:        r.FormValue("city"),
		}

		if _, err := s.api.UpdateProfile(r.Context(), req); err != nil {
			log.Err(err).Msg("Profile update failed")
			redirectMe(w, r, "error", "Could not save your profile, please try again")
			return
		}
		redirectMe(w, r, "message", "Profile saved")
	}
}

// ChangePasswordHandler changes the account password. The backend
// validates the current password; the session keeps its tokens.
func (s *Server) ChangePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		req := backend.ChangePasswordRequest{
			CurrentPassword: r.FormValue("currentPassword"),
			NewPassword:     r.FormValue("newPassword"),
			ConfirmPassword: r.FormValue("confirmPassword"),
		}
		if req.CurrentPassword == "" || req.NewPassword == "" {
			redirectMe(w, r, "error", "Both the current and the new password are required")
			return
		}
		if req.NewPassword != req.ConfirmPassword {
			redirectMe(w, r, "error", "New passwords do not match")
			return
		}

		if _, err := s.api.ChangePassword(r.Context(), req); err != nil {
			if backend.IsStatus(err, http.StatusBadRequest) || backend.IsStatus(err, http.StatusUnauthorized) {
				redirectMe(w, r, "error", "Current password is incorrect")
				return
			}
			log.Err(err).Msg("Password change failed")
			redirectMe(w, r, "error", "Could not change your password, please try again")
			return
		}
		redirectMe(w, r, "message", "Password changed")
	}
}

func redirectMe(w http.ResponseWriter, r *http.Request, key, value string) {
	http.Redirect(w, r, RouteMe+"?"+url.Values{key: []string{value}}.Encode(), http.StatusSeeOther)
}

// HideReviewHandler toggles moderation visibility of a review and
// returns to the page it was triggered from.
func (s *Server) HideReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		hidden := r.FormValue("hidden") != "false"

		if _, err := s.api.HideReview(r.Context(), id, hidden); err != nil {
			s.handleBackendError(w, r, err)
			return
		}
		http.Redirect(w, r, safeReturnURL(r.FormValue(ReturnURLParam)), http.StatusSeeOther)
	}
}
