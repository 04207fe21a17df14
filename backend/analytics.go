package backend

import (
	"context"
	"fmt"
	"net/url"
)

type LocationSummary struct {
	LocationID    int64   `json:"locationId"`
	Period        string  `json:"period"`
	EventCount    int     `json:"eventCount"`
	ReviewCount   int     `json:"reviewCount"`
	AverageRating float64 `json:"averageRating"`
}

type EventCounts struct {
	Total     int `json:"total"`
	Upcoming  int `json:"upcoming"`
	Past      int `json:"past"`
	Recurrent int `json:"recurrent"`
}

// LocationAnalyticsSummary fetches aggregated counters for a location
// over a period ("weekly", "monthly", "yearly" or "custom" with
// explicit start/end ISO dates).
func (c *Client) LocationAnalyticsSummary(ctx context.Context, locationID int64, period, startDate, endDate string) (*LocationSummary, error) {
	query := url.Values{"period": []string{period}}
	if startDate != "" {
		query.Set("startDate", startDate)
	}
	if endDate != "" {
		query.Set("endDate", endDate)
	}
	var summary LocationSummary
	if err := c.get(ctx, fmt.Sprintf("/api/analytics/locations/%d/summary", locationID), query, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) LocationEventCounts(ctx context.Context, locationID int64) (*EventCounts, error) {
	var counts EventCounts
	if err := c.get(ctx, fmt.Sprintf("/api/analytics/locations/%d/events/counts", locationID), nil, &counts); err != nil {
		return nil, err
	}
	return &counts, nil
}
