package backend

import (
	"context"
	"fmt"
)

// AccountRequest is a pending registration awaiting administrator
// review.
type AccountRequest struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	Status      string `json:"status"` // PENDING, APPROVED, REJECTED
}

type ProcessAccountRequest struct {
	RequestID int64  `json:"requestId"`
	Approve   bool   `json:"approve"`
	Reason    string `json:"reason,omitempty"`
}

func (c *Client) PendingAccountRequests(ctx context.Context) ([]AccountRequest, error) {
	var requests []AccountRequest
	if err := c.get(ctx, "/api/admin/requests/pending", nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (c *Client) AllAccountRequests(ctx context.Context) ([]AccountRequest, error) {
	var requests []AccountRequest
	if err := c.get(ctx, "/api/admin/requests", nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (c *Client) AccountRequest(ctx context.Context, id int64) (*AccountRequest, error) {
	var request AccountRequest
	if err := c.get(ctx, fmt.Sprintf("/api/admin/requests/%d", id), nil, &request); err != nil {
		return nil, err
	}
	return &request, nil
}

func (c *Client) ProcessAccountRequest(ctx context.Context, req ProcessAccountRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.post(ctx, "/api/admin/requests/process", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
