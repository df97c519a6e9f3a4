package service

import (
	"context"

	"github.com/tupatil-17/easy-shop/internal/domain"
	"github.com/tupatil-17/easy-shop/internal/dto"
)

type CatalogService interface {
	CreateProduct(ctx context.Context, sellerID domain.UserID, r dto.CreateProductRequest) (*domain.Product, error)
	GetProduct(ctx context.Context, id domain.ProductID) (*domain.Product, error)
	ListApproved(ctx context.Context) ([]domain.Product, error)
	ListMine(ctx context.Context, sellerID domain.UserID) ([]domain.Product, error)

	// Owner-checked edits; only the listing seller may touch them.
	UpdateProduct(ctx context.Context, ownerID domain.UserID, id domain.ProductID, r dto.UpdateProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, ownerID domain.UserID, id domain.ProductID) error

	// Moderation (admin only, enforced at the transport layer).
	ListPending(ctx context.Context) ([]domain.Product, error)
	SetProductStatus(ctx context.Context, id domain.ProductID, status domain.ProductStatus) error
	// RemoveProduct deletes any listing regardless of its seller.
	RemoveProduct(ctx context.Context, id domain.ProductID) error
}
