package backend

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields the dashboard reads from a backend token.
type Claims struct {
	Subject   string
	Name      string
	Email     string
	Role      string
	CompanyID string
	ExpiresAt time.Time
}

// ParseTokenClaims decodes a backend JWT without checking its signature.
// The backend verifies tokens on every call; this is only used to label the
// session and pick its expiry.
func ParseTokenClaims(token string) (*Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	out := &Claims{
		Name:      claimString(mc, "name"),
		Email:     claimString(mc, "email"),
		Role:      claimString(mc, "role"),
		CompanyID: claimString(mc, "company_id", "companyId"),
	}
	if sub, err := mc.GetSubject(); err == nil && sub != "" {
		out.Subject = sub
	} else {
		out.Subject = claimString(mc, "id", "user_id", "userId")
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

func claimString(mc jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		switch v := mc[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}
