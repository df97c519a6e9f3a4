package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tupatil-17/easy-shop/internal/domain"
)

type ProductStore struct{ db *gorm.DB }

func (s *Store) Products() *ProductStore { return &ProductStore{db: s.DB} }

func (p *ProductStore) Create(ctx context.Context, prod *domain.Product) error {
	if prod.ID == uuid.Nil {
		prod.ID = uuid.New()
	}
	return p.db.WithContext(ctx).Create(prod).Error
}

func (p *ProductStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var prod domain.Product
	if err := p.db.WithContext(ctx).First(&prod, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &prod, nil
}

func (p *ProductStore) ListByStatus(ctx context.Context, status domain.ProductStatus) ([]domain.Product, error) {
	var prods []domain.Product
	err := p.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&prods).Error
	return prods, err
}

func (p *ProductStore) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.Product, error) {
	var prods []domain.Product
	err := p.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&prods).Error
	return prods, err
}

func (p *ProductStore) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	res := p.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (p *ProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := p.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (p *ProductStore) SetStatus(ctx context.Context, id uuid.UUID, status domain.ProductStatus) error {
	res := p.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DecrementStock is the inventory ledger's compare-and-decrement: one
// conditional UPDATE so the row lock serializes concurrent buyers, and the
// stock column can never go negative.
func (p *ProductStore) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	res := p.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - ?", quantity),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

func (p *ProductStore) DeleteBySeller(ctx context.Context, sellerID uuid.UUID) error {
	return p.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Delete(&domain.Product{}).Error
}
