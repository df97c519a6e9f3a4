package dto

import (
	"regexp"
	"strings"

	"github.com/tupatil-17/easy-shop/internal/domain"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	upperRe    = regexp.MustCompile(`[A-Z]`)
	lowerRe    = regexp.MustCompile(`[a-z]`)
	digitRe    = regexp.MustCompile(`\d`)
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.Username = strings.TrimSpace(r.Username)
	if r.Email == "" || r.Username == "" || r.Password == "" {
		return domain.Invalid("all fields are required")
	}
	if len(r.Email) > 100 || !emailRe.MatchString(r.Email) {
		return domain.Invalid("invalid email address")
	}
	if len(r.Username) < 3 || len(r.Username) > 30 || !usernameRe.MatchString(r.Username) {
		return domain.Invalid("username must be 3-30 characters: letters, numbers, underscore")
	}
	if err := validatePassword(r.Password); err != nil {
		return err
	}
	return nil
}

func validatePassword(pw string) error {
	if len(pw) < 8 || len(pw) > 50 {
		return domain.Invalid("password must be 8-50 characters")
	}
	if !upperRe.MatchString(pw) || !lowerRe.MatchString(pw) || !digitRe.MatchString(pw) {
		return domain.Invalid("password must contain uppercase, lowercase and a number")
	}
	return nil
}

type RegisterResponse struct {
	UserID                    string `json:"userId"`
	RequiresEmailVerification bool   `json:"requiresEmailVerification"`
}

type VerifyEmailRequest struct {
	UserID string `json:"userId"`
	OTP    string `json:"otp"`
}

func (r *VerifyEmailRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" || r.OTP == "" {
		return domain.Invalid("userId and otp are required")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if r.Email == "" || r.Password == "" {
		return domain.Invalid("all fields are required")
	}
	return nil
}

// LoginResponse carries only the user id: login is the first factor and
// grants no tokens until the emailed code is verified.
type LoginResponse struct {
	UserID      string `json:"userId"`
	OTPRequired bool   `json:"otpRequired"`
}

type VerifyLoginOTPRequest struct {
	UserID string `json:"userId"`
	OTP    string `json:"otp"`
}

func (r *VerifyLoginOTPRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" || r.OTP == "" {
		return domain.Invalid("userId and otp are required")
	}
	return nil
}
