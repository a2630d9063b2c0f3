package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the access token payload issued by the account service.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
