package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/diewo77/stock-admin/internal/models"
)

// ErrNoToken is returned when a login answer carries no access token.
var ErrNoToken = errors.New("backend: login response has no token")

// LoginResult is what a successful login yields.
type LoginResult struct {
	Token        string
	RefreshToken string
	User         models.User
}

var (
	tokenPaths   = []string{"token", "access_token", "accessToken", "data.token", "data.access_token", "data.accessToken"}
	refreshPaths = []string{"refresh_token", "refreshToken", "data.refresh_token", "data.refreshToken"}
	userPaths    = []string{"user", "data.user"}
)

func firstString(res gjson.Result, paths []string) string {
	for _, p := range paths {
		if v := res.Get(p); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}

// Login exchanges credentials for a bearer token. When the answer has no
// user object the user is read back from the token claims.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	raw, err := c.call(WithToken(ctx, ""), http.MethodPost, "/auth/login", nil,
		map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	res := gjson.ParseBytes(raw)
	out := &LoginResult{
		Token:        firstString(res, tokenPaths),
		RefreshToken: firstString(res, refreshPaths),
	}
	if out.Token == "" {
		return nil, ErrNoToken
	}
	for _, p := range userPaths {
		if u := res.Get(p); u.IsObject() {
			if err := decode([]byte(u.Raw), &out.User); err != nil {
				return nil, err
			}
			break
		}
	}
	if out.User.ID == "" {
		claims, err := ParseTokenClaims(out.Token)
		if err != nil {
			return nil, fmt.Errorf("login: %w", err)
		}
		out.User = models.User{
			ID:        claims.Subject,
			Name:      claims.Name,
			Email:     claims.Email,
			Role:      claims.Role,
			CompanyID: claims.CompanyID,
		}
	}
	if out.User.Email == "" {
		out.User.Email = email
	}
	return out, nil
}

// Me returns the user owning the current token.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.get(ctx, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Logout revokes the current token on the backend.
func (c *Client) Logout(ctx context.Context) error {
	return c.doNoBody(ctx, http.MethodPost, "/auth/logout")
}
