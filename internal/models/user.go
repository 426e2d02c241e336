package models

import (
	"strings"
	"time"
)

// User represents a registered account. Images and transformations are
// always scoped to their owning user.
//
// The record is persisted via JSON, so the hash must carry a tag; API
// responses go through UserResponse, which omits it.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Validate checks registration fields beyond required-ness.
func (r *RegisterRequest) Validate() error {
	if len(r.Username) < 3 || len(r.Username) > 50 {
		return ValidationError{Field: "username", Message: "must be between 3 and 50 characters"}
	}
	if !strings.Contains(r.Email, "@") || strings.HasPrefix(r.Email, "@") || strings.HasSuffix(r.Email, "@") {
		return ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	if len(r.Password) < 8 {
		return ValidationError{Field: "password", Message: "must be at least 8 characters"}
	}
	return nil
}

// LoginRequest is the payload for credential verification.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// UserResponse is the public projection of a User.
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts a User into its public projection.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
