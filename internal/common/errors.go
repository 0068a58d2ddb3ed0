// Package common defines shared sentinel errors and the API error type used
// across the session and photo stores. Callers should use errors.Is to
// match the sentinels.
package common

import "errors"

var (
	// Authentication errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUserExists         = errors.New("user or email already exists")
	ErrInvalidToken       = errors.New("invalid token")

	// Photo store errors.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidPosition  = errors.New("invalid photo position")
)

// APIError is a failure outcome carrying a user-facing message, a machine
// code, and an HTTP-like status. It wraps one of the sentinel errors above
// so errors.Is keeps working on either channel.
type APIError struct {
	Message string
	Code    string
	Status  int
	err     error
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.err }

// NewInvalidCredentials reports a failed username/password check (401).
func NewInvalidCredentials() *APIError {
	return &APIError{
		Message: "invalid credentials",
		Code:    "INVALID_CREDENTIALS",
		Status:  401,
		err:     ErrInvalidCredentials,
	}
}

// NewPasswordMismatch reports password != confirmPassword on registration (400).
func NewPasswordMismatch() *APIError {
	return &APIError{
		Message: "passwords do not match",
		Code:    "PASSWORD_MISMATCH",
		Status:  400,
		err:     ErrPasswordMismatch,
	}
}

// NewUserExists reports a username or email collision on registration (409).
func NewUserExists() *APIError {
	return &APIError{
		Message: "user or email already exists",
		Code:    "USER_EXISTS",
		Status:  409,
		err:     ErrUserExists,
	}
}
