package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tupatil-17/easy-shop/internal/domain"
)

// DeleteUserData removes a user along with their cart, favourites, and
// (for providers) their listed products. Orders are kept
// as financial records. Returns per-table counts captured before deletion.
func (s *Store) DeleteUserData(ctx context.Context, userID uuid.UUID) (map[string]int64, error) {
	deleted := map[string]int64{}

	err := s.WithTx(ctx, func(tx *Store) error {
		db := tx.DB.WithContext(ctx)

		count := func(label string, query *gorm.DB) error {
			var total int64
			if err := query.Count(&total).Error; err != nil {
				return err
			}
			deleted[label] = total
			return nil
		}

		if err := count("users", db.Model(&domain.User{}).Where("id = ?", userID)); err != nil {
			return err
		}
		if deleted["users"] == 0 {
			return domain.ErrNotFound
		}
		if err := count("cartItems", db.Model(&domain.CartItem{}).Where("user_id = ?", userID)); err != nil {
			return err
		}
		if err := count("favourites", db.Model(&domain.Favourite{}).Where("user_id = ?", userID)); err != nil {
			return err
		}
		if err := count("products", db.Model(&domain.Product{}).Where("seller_id = ?", userID)); err != nil {
			return err
		}

		if err := db.Where("user_id = ?", userID).Delete(&domain.CartItem{}).Error; err != nil {
			return err
		}
		if err := db.Where("user_id = ?", userID).Delete(&domain.Favourite{}).Error; err != nil {
			return err
		}
		if err := db.Where("seller_id = ?", userID).Delete(&domain.Product{}).Error; err != nil {
			return err
		}

		return db.Where("id = ?", userID).Delete(&domain.User{}).Error
	})

	return deleted, err
}
