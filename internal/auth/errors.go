package auth

import "errors"

var (
	ErrUserNotFound  = errors.New("no account uses this email")
	ErrWrongPassword = errors.New("wrong password")
	ErrEmailExists   = errors.New("email already in use")
	ErrWeakPassword  = errors.New("password must be at least 6 characters")

	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
	ErrTokenRevoked = errors.New("token has been signed out")
)

// Error codes reported to clients next to the message.
const (
	CodeUserNotFound  = "user-not-found"
	CodeWrongPassword = "wrong-password"
	CodeEmailInUse    = "email-already-in-use"
	CodeOther         = "other"
)

// ErrorCode classifies an identity provider failure.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrWrongPassword):
		return CodeWrongPassword
	case errors.Is(err, ErrEmailExists):
		return CodeEmailInUse
	default:
		return CodeOther
	}
}
