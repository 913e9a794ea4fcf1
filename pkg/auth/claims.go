package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenPayload captures the data available when minting a session JWT.
type SessionTokenPayload struct {
	SessionID string
	UserID    string
	Name      string
	Email     string
	Role      string
}

// SessionTokenClaims represents the typed JWT issued to storefront clients.
// The upstream bearer token is never part of the claims; it stays in the session record.
type SessionTokenClaims struct {
	UserID string `json:"uid"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// SessionID returns the jti, which doubles as the session record key.
func (c *SessionTokenClaims) SessionID() string {
	if c == nil {
		return ""
	}
	return c.ID
}
