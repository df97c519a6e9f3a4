package service

import (
	"context"

	"github.com/tupatil-17/easy-shop/internal/dto"
)

type AuthService interface {
	// Register creates an unverified account and queues the verification
	// code; no tokens are granted until the code is confirmed.
	Register(ctx context.Context, r dto.RegisterRequest) (*dto.RegisterResponse, error)
	VerifyEmail(ctx context.Context, r dto.VerifyEmailRequest) (*dto.TokenResponse, error)
	// Login checks the first factor and issues a fresh login code.
	Login(ctx context.Context, r dto.LoginRequest) (*dto.LoginResponse, error)
	VerifyLoginOTP(ctx context.Context, r dto.VerifyLoginOTPRequest) (*dto.TokenResponse, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error)
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
}
