package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrMissingFields     = errors.New("name, email and password are required")
	ErrUnverified        = errors.New("email is not verified")
	ErrBadCredentials    = errors.New("invalid password")
	ErrSigningKeyMissing = errors.New("token signing key is not configured")
	ErrUnauthorized      = errors.New("token is missing, invalid or expired")
)

type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is the identity carried by a signed session token.
type Session struct {
	UserID    int64
	Subject   string
	Name      string
	Email     string
	ExpiresAt time.Time
}
