package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrMissingFields is returned when a required request field is absent.
	ErrMissingFields = errors.New("Please fill in all fields")
	// ErrInvalidCredentials is returned for both unknown email and wrong
	// password at login, so callers cannot probe which emails exist.
	ErrInvalidCredentials = errors.New("Invalid email or password")
	// ErrEmailExists is returned when registering an already-taken email.
	ErrEmailExists = errors.New("Email already exists")
	// ErrUserNotFound is returned when no account matches the email.
	ErrUserNotFound = errors.New("User not found")
	// ErrIncorrectPassword is returned by the email-change password check.
	ErrIncorrectPassword = errors.New("Incorrect password")
	// ErrIncorrectCurrentPassword is returned by the password-change check.
	ErrIncorrectCurrentPassword = errors.New("Incorrect current password")
	// ErrSameEmail is returned when the new email equals the current one.
	ErrSameEmail = errors.New("New email is the same as current")
	// ErrEmailInUse is returned when the new email belongs to another account.
	ErrEmailInUse = errors.New("New email already in use")
	// ErrPasswordTooShort is returned when a password fails the length rule.
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters")
	// ErrInvalidFuelPrice is returned for a missing or non-numeric fuel price.
	ErrInvalidFuelPrice = errors.New("email and numeric fuelPrice are required")
	// ErrNegativeFuelPrice is returned for a fuel price below zero.
	ErrNegativeFuelPrice = errors.New("fuelPrice must not be negative")
	// ErrInvalidSession is returned for an expired or revoked session token.
	ErrInvalidSession = errors.New("Invalid or expired session")
)

// HTTPError pairs a status code with a client-facing message.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything outside the
// taxonomy becomes an opaque 500; the caller logs the detail server-side.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrEmailExists),
		errors.Is(err, ErrIncorrectPassword),
		errors.Is(err, ErrIncorrectCurrentPassword),
		errors.Is(err, ErrSameEmail),
		errors.Is(err, ErrEmailInUse),
		errors.Is(err, ErrPasswordTooShort),
		errors.Is(err, ErrInvalidFuelPrice),
		errors.Is(err, ErrNegativeFuelPrice):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidSession):
		return NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "Server error")
	}
}
