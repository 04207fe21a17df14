package backend

import "context"

type UserProfile struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	PhoneNumber string   `json:"phoneNumber,omitempty"`
	Birthday    string   `json:"birthday,omitempty"` // ISO date
	Address     string   `json:"address,omitempty"`
	City        string   `json:"city,omitempty"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	Roles       []string `json:"roles"`
	AvatarURL   string   `json:"avatarUrl,omitempty"`
}

type UpdateProfileRequest struct {
	Name        string `json:"name,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Birthday    string `json:"birthday,omitempty"` // ISO date YYYY-MM-DD
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (c *Client) Me(ctx context.Context) (*UserProfile, error) {
	var profile UserProfile
	if err := c.get(ctx, "/api/users/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*UserProfile, error) {
	var profile UserProfile
	if err := c.patch(ctx, "/api/users/me", req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.post(ctx, "/api/users/me/change-password", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
