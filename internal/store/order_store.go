package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tupatil-17/easy-shop/internal/domain"
)

type OrderStore struct{ db *gorm.DB }

func (s *Store) Orders() *OrderStore { return &OrderStore{db: s.DB} }

func (o *OrderStore) Create(ctx context.Context, order *domain.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	return o.db.WithContext(ctx).Create(order).Error
}

func (o *OrderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	if err := o.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &order, nil
}

func (o *OrderStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	var orders []domain.Order
	err := o.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// MarkPaid transitions pending -> paid. The status guard makes the
// transition happen at most once even under concurrent confirmations;
// callers get false when another confirmation (or a cancellation) won.
func (o *OrderStore) MarkPaid(ctx context.Context, id uuid.UUID) (bool, error) {
	res := o.db.WithContext(ctx).Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, domain.OrderPending).
		Updates(map[string]any{"status": domain.OrderPaid, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
