package backend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

type CreateReviewRequest struct {
	EventID           int64  `json:"eventId"`
	Performance       *int   `json:"performance,omitempty"`
	SoundAndLighting  *int   `json:"soundAndLighting,omitempty"`
	Venue             *int   `json:"venue,omitempty"`
	OverallImpression *int   `json:"overallImpression,omitempty"`
	Comment           string `json:"comment,omitempty"`
}

type UpdateReviewRequest struct {
	Performance       *int   `json:"performance,omitempty"`
	SoundAndLighting  *int   `json:"soundAndLighting,omitempty"`
	Venue             *int   `json:"venue,omitempty"`
	OverallImpression *int   `json:"overallImpression,omitempty"`
	Comment           string `json:"comment,omitempty"`
}

type ReviewPage struct {
	Content       []ReviewDetails `json:"content"`
	CurrentPage   int             `json:"currentPage"`
	TotalPages    int             `json:"totalPages"`
	TotalElements int             `json:"totalElements"`
}

func (c *Client) LocationReviews(ctx context.Context, locationID int64, page, size int) (*ReviewPage, error) {
	query := url.Values{
		"page": []string{strconv.Itoa(page)},
		"size": []string{strconv.Itoa(size)},
	}
	var result ReviewPage
	if err := c.get(ctx, fmt.Sprintf("/api/locations/%d/reviews", locationID), query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) CreateReview(ctx context.Context, locationID int64, req CreateReviewRequest) (*ReviewDetails, error) {
	var review ReviewDetails
	if err := c.post(ctx, fmt.Sprintf("/api/locations/%d/reviews", locationID), req, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (c *Client) Review(ctx context.Context, id int64) (*ReviewDetails, error) {
	var review ReviewDetails
	if err := c.get(ctx, fmt.Sprintf("/api/reviews/%d", id), nil, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (c *Client) UpdateReview(ctx context.Context, id int64, req UpdateReviewRequest) (*ReviewDetails, error) {
	var review ReviewDetails
	if err := c.put(ctx, fmt.Sprintf("/api/reviews/%d", id), req, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (c *Client) DeleteReview(ctx context.Context, id int64) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.delete(ctx, fmt.Sprintf("/api/reviews/%d", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HideReview toggles moderation visibility of a review. Manager-only
// on the backend.
func (c *Client) HideReview(ctx context.Context, id int64, hidden bool) (*MessageResponse, error) {
	body := map[string]bool{"hidden": hidden}
	var resp MessageResponse
	if err := c.patch(ctx, fmt.Sprintf("/api/manager/reviews/%d/hide", id), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
