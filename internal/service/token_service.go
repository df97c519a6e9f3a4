package service

import (
	"context"

	"github.com/tupatil-17/easy-shop/internal/domain"
	"github.com/tupatil-17/easy-shop/internal/dto"
)

// AuthClaims is the verified content of a token: exactly subject and role.
// The role is trusted as-is until the next issuance.
type AuthClaims struct {
	UserID domain.UserID
	Role   domain.Role
}

type TokenService interface {
	IssuePair(ctx context.Context, user *domain.User) (*dto.TokenResponse, error)
	// RefreshAccess mints a new access token from a valid refresh token
	// without rotating the refresh token.
	RefreshAccess(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error)
	VerifyAccess(token string) (*AuthClaims, error)
	VerifyRefresh(token string) (*AuthClaims, error)
}
