package server

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/newnow-platform/newnow-web/backend"
	"github.com/rs/zerolog/log"
)

// AdminDashboardData contains data for rendering the admin dashboard
type AdminDashboardData struct {
	pageContext
	PendingRequests  int
	TotalRequests    int
	TodayEvents      int
	PopularLocations []LocationWithAnalytics
}

// LocationWithAnalytics pairs a popular location with its monthly
// counters for the dashboard table. Summary is nil when the analytics
// call failed.
type LocationWithAnalytics struct {
	backend.Location
	Summary *backend.LocationSummary
	Events  *backend.EventCounts
}

// AdminDashboardHandler renders a small operational overview for
// administrators. Each tile degrades independently when its backend
// call fails.
func (s *Server) AdminDashboardHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("admin_dashboard.html")
	if err != nil {
		panic("Failed to parse admin dashboard template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		data := AdminDashboardData{pageContext: s.pageContext()}

		if pending, err := s.api.PendingAccountRequests(ctx); err != nil {
			log.Warn().Err(err).Msg("Could not load pending account requests")
		} else {
			data.PendingRequests = len(pending)
		}

		if all, err := s.api.AllAccountRequests(ctx); err != nil {
			log.Warn().Err(err).Msg("Could not load account requests")
		} else {
			data.TotalRequests = len(all)
		}

		if events, err := s.api.TodayEvents(ctx); err != nil {
			log.Warn().Err(err).Msg("Could not load today's events")
		} else {
			data.TodayEvents = len(events)
		}

		if locations, err := s.api.PopularLocations(ctx, 6); err != nil {
			log.Warn().Err(err).Msg("Could not load popular locations")
		} else {
			for _, location := range locations {
				entry := LocationWithAnalytics{Location: location}
				if summary, err := s.api.LocationAnalyticsSummary(ctx, location.ID, "monthly", "", ""); err != nil {
					log.Warn().Err(err).Int64("locationID", location.ID).Msg("Could not load location analytics")
				} else {
					entry.Summary = summary
				}
				if counts, err := s.api.LocationEventCounts(ctx, location.ID); err != nil {
					log.Warn().Err(err).Int64("locationID", location.ID).Msg("Could not load location event counts")
				} else {
					entry.Events = counts
				}
				data.PopularLocations = append(data.PopularLocations, entry)
			}
		}

		// A forced logout during any of the calls above invalidates the
		// session mid-request; re-check before rendering an admin page.
		if !s.sessions.IsAuthenticated() {
			s.applyDecision(w, r, EvaluateAuthenticated(s.sessions, r.URL.Path), nil)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render admin dashboard")
		}
	}
}

// AdminRequestsData contains data for rendering the account request queue
type AdminRequestsData struct {
	pageContext
	Pending []backend.AccountRequest
	Message string
	Error   string
}

// AdminRequestsHandler lists pending account requests for review.
func (s *Server) AdminRequestsHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("admin_requests.html")
	if err != nil {
		panic("Failed to parse admin requests template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		pending, err := s.api.PendingAccountRequests(r.Context())
		if err != nil {
			s.handleBackendError(w, r, err)
			return
		}

		data := AdminRequestsData{
			pageContext: s.pageContext(),
			Pending:     pending,
			Message:     r.URL.Query().Get("message"),
			Error:       r.URL.Query().Get("error"),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render admin requests page")
		}
	}
}

// ProcessRequestHandler approves or rejects one account request and
// returns to the queue with the outcome message.
func (s *Server) ProcessRequestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		redirectWith := func(key, value string) {
			target := RouteAdminRequests + "?" + url.Values{key: []string{value}}.Encode()
			http.Redirect(w, r, target, http.StatusSeeOther)
		}

		requestID, err := strconv.ParseInt(r.FormValue("requestId"), 10, 64)
		if err != nil {
			redirectWith("error", "Invalid request ID")
			return
		}

		req := backend.ProcessAccountRequest{
			RequestID: requestID,
			Approve:   r.FormValue("approve") == "true",
			Reason:    r.FormValue("reason"),
		}

		result, err := s.api.ProcessAccountRequest(r.Context(), req)
		if err != nil {
			log.Err(err).Int64("requestID", requestID).Msg("Failed to process account request")
			redirectWith("error", "Could not process the request, please try again")
			return
		}
		redirectWith("message", result.Message)
	}
}
