package service

import (
	"context"

	"github.com/tupatil-17/easy-shop/internal/domain"
	"github.com/tupatil-17/easy-shop/internal/dto"
)

type AccountService interface {
	Profile(ctx context.Context, userID domain.UserID) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID domain.UserID, r dto.UpdateProfileRequest) (*dto.UserResponse, error)

	Cart(ctx context.Context, userID domain.UserID) ([]domain.CartItem, error)
	AddToCart(ctx context.Context, userID, productID domain.ProductID) error
	SetCartQuantity(ctx context.Context, userID, productID domain.ProductID, quantity int) error
	RemoveFromCart(ctx context.Context, userID, productID domain.ProductID) error

	Favourites(ctx context.Context, userID domain.UserID) ([]domain.Favourite, error)
	AddFavourite(ctx context.Context, userID, productID domain.ProductID) error
	RemoveFavourite(ctx context.Context, userID, productID domain.ProductID) error

	ApplyForProvider(ctx context.Context, userID domain.UserID, r dto.ApplyProviderRequest) error
	ListProviderApplications(ctx context.Context) ([]domain.User, error)
	ApproveProvider(ctx context.Context, userID domain.UserID) error
	RejectProvider(ctx context.Context, userID domain.UserID) error

	// Admin surface.
	ListUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, userID domain.UserID) (map[string]int64, error)
}
