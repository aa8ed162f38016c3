package models

import "github.com/golang-jwt/jwt/v5"

// AuthPayload is returned by the login and register mutations.
type AuthPayload struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest creates an account and signs it in.
type RegisterRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	Role     UserRole `json:"role" validate:"required,oneof=ADMIN EMPLOYEE"`
}

// TokenClaims is the subset of bearer token claims the client inspects.
// Claims are read without verification and are informational only.
type TokenClaims struct {
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}
