package domain

import "errors"

// Sign-in errors
var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrWrongAuthMethod      = errors.New("account uses an external sign-in provider")
	ErrAccountAlreadyExists = errors.New("account already exists")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Refresh errors
var (
	ErrMissingRefreshToken = errors.New("refresh token is missing")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrMissingPayload      = errors.New("refresh token carries no subject")
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionExpired      = errors.New("session has expired")
)

// Verification token errors
var (
	ErrTokenInvalidOrExpired = errors.New("verification token is invalid or expired")
)

// Throttling errors
var (
	ErrTooManyRequests = errors.New("too many requests")
)

// Authorization errors
var (
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrInsufficientRole = errors.New("insufficient role permissions")
)
