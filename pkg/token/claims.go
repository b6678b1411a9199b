package token

import "github.com/golang-jwt/jwt/v5"

// Claims carries the admin identity plus the redis session binding.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}
