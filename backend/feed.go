package backend

import (
	"context"
	"net/url"
	"strconv"
)

// EventBasic is the condensed event shape used by feeds and lists.
type EventBasic struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Date      string `json:"date"` // ISO date
	Recurrent bool   `json:"recurrent"`
}

type RateDetails struct {
	Performance      *int    `json:"performance"`
	SoundAndLighting *int    `json:"soundAndLighting"`
	Venue            *int    `json:"venue"`
	OverallImpression *int   `json:"overallImpression"`
	Average          float64 `json:"average"`
}

type UserBasic struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ReviewDetails struct {
	ID         int64       `json:"id"`
	CreatedAt  string      `json:"createdAt"` // ISO timestamp
	Comment    string      `json:"comment,omitempty"`
	EventCount int         `json:"eventCount"`
	Hidden     bool        `json:"hidden"`
	Author     UserBasic   `json:"author"`
	Event      EventBasic  `json:"event"`
	Ratings    RateDetails `json:"ratings"`
}

// TodayEvents lists today's events. Public endpoint.
func (c *Client) TodayEvents(ctx context.Context) ([]EventBasic, error) {
	var events []EventBasic
	if err := c.get(ctx, "/api/feed/today-events", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// PopularLocations lists the highest-rated locations. Public endpoint.
func (c *Client) PopularLocations(ctx context.Context, limit int) ([]Location, error) {
	query := url.Values{"limit": []string{strconv.Itoa(limit)}}
	var locations []Location
	if err := c.get(ctx, "/api/feed/popular-locations", query, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// PopularLocationLatestReviews returns the latest reviews of the
// popular locations. Public endpoint.
func (c *Client) PopularLocationLatestReviews(ctx context.Context) ([]ReviewDetails, error) {
	var reviews []ReviewDetails
	if err := c.get(ctx, "/api/feed/popular-location-latest-reviews", nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}
