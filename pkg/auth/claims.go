package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenClaims is the typed JWT issued to the admin UI.
type AccessTokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// RoleAdmin is the only role this backend issues.
const RoleAdmin = "admin"
