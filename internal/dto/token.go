package dto

import (
	"strings"

	"github.com/tupatil-17/easy-shop/internal/domain"
)

type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r *RefreshRequest) Validate() error {
	if strings.TrimSpace(r.RefreshToken) == "" {
		return domain.Invalid("refresh token is required")
	}
	return nil
}

// RefreshResponse carries a fresh access token only; the refresh token
// itself is not rotated.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}
