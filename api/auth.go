package api

import (
	"context"
	"net/http"

	"github.com/viant/mycoach/schema"
)

// Backend paths, trailing slashes are required by the backend router
const (
	PathToken        = "/auth/token/"
	PathRegister     = "/auth/register/"
	PathTokenRefresh = "/auth/token/refresh/"
	PathProfile      = "/users/profile/"
	PathProfileStats = "/users/profile/stats/"
	PathHealth       = "/core/health/"
)

// ObtainToken exchanges credentials for a token pair; 401 is reported as schema.ErrInvalidCredentials
func (c *Client) ObtainToken(ctx context.Context, email, password string) (*schema.TokenPair, error) {
	return call[schema.TokenPair](ctx, c, http.MethodPost, PathToken, &schema.Credentials{Email: email, Password: password}, schema.ErrInvalidCredentials)
}

// Register creates an account
func (c *Client) Register(ctx context.Context, request *schema.RegisterRequest) (*schema.RegisterResponse, error) {
	return post[schema.RegisterResponse](ctx, c, PathRegister, request)
}

// RefreshToken exchanges refresh token for a new access token
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*schema.RefreshResponse, error) {
	return post[schema.RefreshResponse](ctx, c, PathTokenRefresh, &schema.RefreshRequest{Refresh: refreshToken})
}

// Profile returns authenticated user profile
func (c *Client) Profile(ctx context.Context) (*schema.UserProfile, error) {
	return get[schema.UserProfile](ctx, c, PathProfile)
}

// UpdateProfile partially updates authenticated user profile
func (c *Client) UpdateProfile(ctx context.Context, update *schema.ProfileUpdate) (*schema.ProfileUpdateResponse, error) {
	return call[schema.ProfileUpdateResponse](ctx, c, http.MethodPut, PathProfile, update, nil)
}

// Stats returns user statistics
func (c *Client) Stats(ctx context.Context) (schema.UserStats, error) {
	ret, err := get[schema.UserStats](ctx, c, PathProfileStats)
	if err != nil {
		return nil, err
	}
	return *ret, nil
}

// Health returns backend health
func (c *Client) Health(ctx context.Context) (*schema.Health, error) {
	return get[schema.Health](ctx, c, PathHealth)
}
