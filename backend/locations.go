package backend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

type Location struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	TotalRating float64 `json:"totalRating"`
	Type        string  `json:"type"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

type LocationDetails struct {
	ID             int64        `json:"id"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	Address        string       `json:"address"`
	Type           string       `json:"type"`
	CreatedAt      string       `json:"createdAt,omitempty"`
	ImageURL       string       `json:"imageUrl,omitempty"`
	AverageRating  float64      `json:"averageRating,omitempty"`
	TotalReviews   int          `json:"totalReviews,omitempty"`
	UpcomingEvents []EventBasic `json:"upcomingEvents,omitempty"`
}

type LocationPage struct {
	Locations     []Location `json:"locations"`
	CurrentPage   int        `json:"currentPage"`
	TotalPages    int        `json:"totalPages"`
	TotalElements int        `json:"totalElements"`
}

// Locations returns a page of locations, optionally filtered by a
// search term.
func (c *Client) Locations(ctx context.Context, search string, page, size int) (*LocationPage, error) {
	query := url.Values{
		"page": []string{strconv.Itoa(page)},
		"size": []string{strconv.Itoa(size)},
	}
	if search != "" {
		query.Set("search", search)
	}
	var result LocationPage
	if err := c.get(ctx, "/api/locations", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Location(ctx context.Context, id int64) (*LocationDetails, error) {
	var details LocationDetails
	if err := c.get(ctx, fmt.Sprintf("/api/locations/%d", id), nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}
