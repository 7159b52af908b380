package portal

import (
	"errors"
	"fmt"
)

// Common errors returned by the portal client.
var (
	// ErrCaptchaNotFound is returned when the landing page has no captcha image.
	ErrCaptchaNotFound = errors.New("captcha image not found on login page")

	// ErrWrongCaptcha is returned when the portal rejects the captcha answer.
	ErrWrongCaptcha = errors.New("incorrect captcha")

	// ErrWrongCredentials is returned when the portal rejects the username or password.
	ErrWrongCredentials = errors.New("incorrect username or password")

	// ErrLoginFailed is returned when the login response matches no known marker.
	ErrLoginFailed = errors.New("login failed")

	// ErrCSRFTokenNotFound is returned when the booking page carries no usable token.
	ErrCSRFTokenNotFound = errors.New("CSRF token not found")
)

// BookingError is a business rejection reported by the booking endpoint,
// e.g. the room was taken between the availability read and the submit.
type BookingError struct {
	Code    int
	Message string
}

func (e *BookingError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("booking rejected: %s (code=%d)", e.Message, e.Code)
	}
	return fmt.Sprintf("booking rejected (code=%d)", e.Code)
}
