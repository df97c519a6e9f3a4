package domain

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID     OrderID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID UserID  `gorm:"type:uuid;index;not null" json:"userId"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`

	ShipName    string `gorm:"type:text;not null" json:"shipName"`
	ShipPhone   string `gorm:"type:text;not null" json:"shipPhone"`
	ShipAddress string `gorm:"type:text;not null" json:"shipAddress"`
	ShipPincode string `gorm:"type:text;not null" json:"shipPincode"`

	// TotalAmount is fixed at order creation from the unit prices
	// snapshotted into Items; it is never recomputed from live prices.
	TotalAmount float64     `gorm:"not null" json:"totalAmount"`
	PaymentRef  string      `gorm:"type:text;not null;index" json:"paymentRef"`
	Status      OrderStatus `gorm:"type:text;not null;default:pending" json:"status"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	OrderID   OrderID   `gorm:"type:uuid;primaryKey" json:"-"`
	ProductID ProductID `gorm:"type:uuid;primaryKey" json:"productId"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	// UnitPrice is the catalog price at the moment the order was created.
	UnitPrice float64 `gorm:"not null" json:"unitPrice"`
}

func (OrderItem) TableName() string { return "order_items" }
