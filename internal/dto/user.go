package dto

import (
	"strings"

	"github.com/tupatil-17/easy-shop/internal/domain"
)

type UserResponse struct {
	ID                  string `json:"id"`
	Username            string `json:"username"`
	Email               string `json:"email"`
	Role                string `json:"role"`
	Address             string `json:"address,omitempty"`
	EmailVerified       bool   `json:"emailVerified"`
	ProviderApplication string `json:"providerApplication"`
}

func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:                  u.ID.String(),
		Username:            u.Username,
		Email:               u.Email,
		Role:                string(u.Role),
		Address:             u.Address,
		EmailVerified:       u.EmailVerified,
		ProviderApplication: string(u.ProviderApplication),
	}
}

type UpdateProfileRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"address,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if r.Username == "" && r.Email == "" && r.Address == "" {
		return domain.Invalid("nothing to update")
	}
	if r.Username != "" && (len(r.Username) < 3 || len(r.Username) > 30 || !usernameRe.MatchString(r.Username)) {
		return domain.Invalid("username must be 3-30 characters: letters, numbers, underscore")
	}
	if r.Email != "" && (len(r.Email) > 100 || !emailRe.MatchString(r.Email)) {
		return domain.Invalid("invalid email address")
	}
	return nil
}

type ApplyProviderRequest struct {
	Address string `json:"address"`
}

func (r *ApplyProviderRequest) Validate() error {
	r.Address = strings.TrimSpace(r.Address)
	if len(r.Address) < 10 || len(r.Address) > 200 {
		return domain.Invalid("address must be 10-200 characters")
	}
	return nil
}

type CartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (r *CartQuantityRequest) Validate() error {
	if r.Quantity < 1 {
		return domain.Invalid("quantity must be at least 1")
	}
	return nil
}
