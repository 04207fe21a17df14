package server

import (
	"net/http"

	"github.com/newnow-platform/newnow-web/backend"
	"github.com/rs/zerolog/log"
)

// HomePageData contains data for rendering the home feed
type HomePageData struct {
	pageContext
	TodayEvents      []backend.EventBasic
	PopularLocations []backend.Location
	LatestReviews    []backend.ReviewDetails
}

// IndexHandler renders the home page: today's events, popular
// locations and their latest reviews. All three feeds are public; a
// failing feed renders as an empty section rather than an error page.
func (s *Server) IndexHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("index.html")
	if err != nil {
		panic("Failed to parse index template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		data := HomePageData{pageContext: s.pageContext()}

		if events, err := s.api.TodayEvents(ctx); err != nil {
			log.Warn().Err(err).Msg("Could not load today's events")
		} else {
			data.TodayEvents = events
		}

		if locations, err := s.api.PopularLocations(ctx, 6); err != nil {
			log.Warn().Err(err).Msg("Could not load popular locations")
		} else {
			data.PopularLocations = locations
		}

		if reviews, err := s.api.PopularLocationLatestReviews(ctx); err != nil {
			log.Warn().Err(err).Msg("Could not load latest reviews")
		} else {
			data.LatestReviews = reviews
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render home page")
		}
	}
}
