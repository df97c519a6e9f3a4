package domain

import "errors"

var (
	ErrNotFound = errors.New("not found")

	ErrEmailTaken = errors.New("user already exists")
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so login failures cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidOTP         = errors.New("invalid verification code")
	ErrOTPExpired         = errors.New("verification code expired")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrEmailNotVerified   = errors.New("verify email first")
	ErrUnauthorized       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("access denied")

	ErrProductUnavailable = errors.New("product not available")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrPaymentIncomplete  = errors.New("payment not successful")
	ErrNotInCart          = errors.New("product not in cart")
	ErrAlreadyFavourite   = errors.New("already in favourites")

	ErrApplicationPending   = errors.New("service provider application already pending")
	ErrAlreadyProvider      = errors.New("already an approved service provider")
	ErrNoPendingApplication = errors.New("no pending application")
)

// ValidationError reports malformed client input; the client must fix the
// request and retry.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Invalid(msg string) error { return &ValidationError{Msg: msg} }
