package service

import (
	"context"

	"github.com/tupatil-17/easy-shop/internal/domain"
	"github.com/tupatil-17/easy-shop/internal/dto"
)

type OrderService interface {
	// CreateOrder snapshots prices, reserves nothing, and opens a payment
	// intent with the gateway; the order stays pending until confirmation.
	CreateOrder(ctx context.Context, userID domain.UserID, r dto.CreateOrderRequest) (*dto.CreateOrderResponse, error)
	// ConfirmOrder settles against the gateway's authoritative intent
	// status. Confirming an already-settled order is a no-op that returns
	// the order unchanged.
	ConfirmOrder(ctx context.Context, r dto.ConfirmOrderRequest) (*domain.Order, error)
	ListOrders(ctx context.Context, userID domain.UserID) ([]domain.Order, error)
}
