package domain

import "time"

// ProductStatus is the moderation state of a catalog entry. Only approved
// products are sellable.
type ProductStatus string

const (
	ProductPending  ProductStatus = "pending"
	ProductApproved ProductStatus = "approved"
	ProductRejected ProductStatus = "rejected"
)

type Product struct {
	ID          ProductID     `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string        `gorm:"type:text;not null" json:"name"`
	Description string        `gorm:"type:text;not null" json:"description"`
	Price       float64       `gorm:"not null;check:price >= 0" json:"price"`
	Category    string        `gorm:"type:text;not null" json:"category"`
	Stock       int           `gorm:"not null;check:stock >= 0" json:"stock"`
	SellerID    UserID        `gorm:"type:uuid;index;not null" json:"sellerId"`
	Status      ProductStatus `gorm:"type:text;not null;default:pending" json:"status"`
	CreatedAt   time.Time     `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time     `gorm:"not null" json:"updatedAt"`
}

func (Product) TableName() string { return "products" }
