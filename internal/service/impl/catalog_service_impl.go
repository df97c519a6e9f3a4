package impl

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tupatil-17/easy-shop/internal/cache"
	"github.com/tupatil-17/easy-shop/internal/domain"
	"github.com/tupatil-17/easy-shop/internal/dto"
)

type catalogStore interface {
	Create(ctx context.Context, prod *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListByStatus(ctx context.Context, status domain.ProductStatus) ([]domain.Product, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetStatus(ctx context.Context, id uuid.UUID, status domain.ProductStatus) error
}

type catalogCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
}

type CatalogServiceImpl struct {
	products catalogStore
	cache    catalogCache
	logger   *slog.Logger
}

func NewCatalogServiceImpl(products catalogStore, c catalogCache, logger *slog.Logger) *CatalogServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogServiceImpl{products: products, cache: c, logger: logger}
}

func (c *CatalogServiceImpl) CreateProduct(ctx context.Context, sellerID domain.UserID, r dto.CreateProductRequest) (*domain.Product, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	product := &domain.Product{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		Stock:       r.Stock,
		SellerID:    sellerID,
		Status:      domain.ProductPending,
	}
	if err := c.products.Create(ctx, product); err != nil {
		return nil, err
	}
	c.logger.Info("product submitted", "product_id", product.ID, "seller_id", sellerID)
	return product, nil
}

// GetProduct reads through the cache: misses hit the database and
// populate the entry for the next reader.
func (c *CatalogServiceImpl) GetProduct(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	key := cache.ProductKey(id.String())

	var cached domain.Product
	found, err := c.cache.Get(ctx, key, &cached)
	if err != nil {
		c.logger.Warn("product cache read failed", "product_id", id, "error", err)
	}
	if found {
		return &cached, nil
	}

	product, err := c.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, product); err != nil {
		c.logger.Warn("product cache write failed", "product_id", id, "error", err)
	}
	return product, nil
}

func (c *CatalogServiceImpl) ListApproved(ctx context.Context) ([]domain.Product, error) {
	return c.products.ListByStatus(ctx, domain.ProductApproved)
}

func (c *CatalogServiceImpl) ListMine(ctx context.Context, sellerID domain.UserID) ([]domain.Product, error) {
	return c.products.ListBySeller(ctx, sellerID)
}

func (c *CatalogServiceImpl) UpdateProduct(ctx context.Context, ownerID domain.UserID, id domain.ProductID, r dto.UpdateProductRequest) (*domain.Product, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := c.requireOwner(ctx, ownerID, id); err != nil {
		return nil, err
	}
	if err := c.products.Update(ctx, id, r.Fields()); err != nil {
		return nil, err
	}
	c.invalidate(ctx, id)
	c.logger.Info("product updated", "product_id", id, "seller_id", ownerID)
	return c.products.GetByID(ctx, id)
}

func (c *CatalogServiceImpl) DeleteProduct(ctx context.Context, ownerID domain.UserID, id domain.ProductID) error {
	if err := c.requireOwner(ctx, ownerID, id); err != nil {
		return err
	}
	if err := c.products.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	c.logger.Info("product retired", "product_id", id, "seller_id", ownerID)
	return nil
}

func (c *CatalogServiceImpl) ListPending(ctx context.Context) ([]domain.Product, error) {
	return c.products.ListByStatus(ctx, domain.ProductPending)
}

func (c *CatalogServiceImpl) SetProductStatus(ctx context.Context, id domain.ProductID, status domain.ProductStatus) error {
	if status != domain.ProductApproved && status != domain.ProductRejected {
		return domain.Invalid("status must be approved or rejected")
	}
	if err := c.products.SetStatus(ctx, id, status); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	c.logger.Info("product moderated", "product_id", id, "status", status)
	return nil
}

func (c *CatalogServiceImpl) RemoveProduct(ctx context.Context, id domain.ProductID) error {
	if err := c.products.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	c.logger.Info("product removed by moderation", "product_id", id)
	return nil
}

func (c *CatalogServiceImpl) requireOwner(ctx context.Context, ownerID domain.UserID, id domain.ProductID) error {
	product, err := c.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product.SellerID != ownerID {
		return domain.ErrForbidden
	}
	return nil
}

// invalidate drops any cached copy carrying stale fields or status.
func (c *CatalogServiceImpl) invalidate(ctx context.Context, id domain.ProductID) {
	if err := c.cache.Delete(ctx, cache.ProductKey(id.String())); err != nil {
		c.logger.Warn("product cache invalidation failed", "product_id", id, "error", err)
	}
}
