package backend

import "context"

// Auth endpoint paths. The request authenticator never decorates these.
const (
	PathLogin           = "/api/auth/login"
	PathRegisterRequest = "/api/auth/register-request"
	PathRefresh         = "/api/auth/refresh"
	PathLogout          = "/api/auth/logout"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest submits a profile for administrator review. It does
// not create an account directly.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Birthday    string `json:"birthday,omitempty"` // ISO date YYYY-MM-DD
	Address     string `json:"address"`
	City        string `json:"city,omitempty"`
}

// AuthResponse is the backend's answer to login and refresh: a fresh
// token pair plus the identity snapshot.
type AuthResponse struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refreshToken"`
	Email        string   `json:"email"`
	Name         string   `json:"name"`
	Roles        []string `json:"roles"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, PathLogin, LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) RegisterRequest(ctx context.Context, req RegisterRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.post(ctx, PathRegisterRequest, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	body := map[string]string{"refreshToken": refreshToken}
	var resp AuthResponse
	if err := c.post(ctx, PathRefresh, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Logout(ctx context.Context) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.post(ctx, PathLogout, struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
