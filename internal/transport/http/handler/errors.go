package handler

const (
	errInternalServer = "Internal server error"
	errUnauthorized   = "Unauthorized"

	errEmailTaken       = "Email already registered"
	errInvalidCode      = "Verification code is invalid or expired"
	errNotVerified      = "Email not verified, please validate your email first"
	errMissingFields    = "Name, email and password are required"
	errUserNotFound     = "User not found"
	errUnverified       = "Email is not verified"
	errBadCredentials   = "Invalid password"
	errDeliveryFailed   = "Could not send verification code"
	errInvalidUserID    = "Invalid user id"
	errMissingTaskField = "Title and description are required"
	errInvalidDeadline  = "Invalid deadline date"
)
