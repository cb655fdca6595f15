package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrVerificationNotFound = errors.New("verification entry not found")
	ErrInvalidCode          = errors.New("verification code is invalid or expired")
	ErrNotVerified          = errors.New("email not verified, request and validate a code first")
	ErrDeliveryFailed       = errors.New("verification email could not be delivered")
)

// VerificationEntry is a short-lived code proving control of a mailbox.
type VerificationEntry struct {
	Email     string
	Code      int
	ExpiresAt time.Time
}

// Expired reports whether the entry is no longer usable at now.
func (e *VerificationEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}

// NormalizeEmail is the canonical form used for every email lookup and comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
