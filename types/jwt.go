package types

import "github.com/golang-jwt/jwt/v5"

// Claims represents the session token claims.
// The upstream API token never leaves the server; the browser only holds the session id.
type Claims struct {
	SessionID string `json:"sid"`
	UserID    uint   `json:"user_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}
