package dto

import (
	"regexp"
	"strings"

	"github.com/tupatil-17/easy-shop/internal/domain"
)

var (
	fullNameRe = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	phoneRe    = regexp.MustCompile(`^[6-9]\d{9}$`)
	pincodeRe  = regexp.MustCompile(`^[1-9][0-9]{5}$`)
)

type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type ShippingAddress struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Pincode  string `json:"pincode"`
}

func (s *ShippingAddress) Validate() error {
	s.FullName = strings.TrimSpace(s.FullName)
	s.Address = strings.TrimSpace(s.Address)
	if len(s.FullName) < 2 || len(s.FullName) > 50 || !fullNameRe.MatchString(s.FullName) {
		return domain.Invalid("full name must be 2-50 letters and spaces")
	}
	if !phoneRe.MatchString(s.Phone) {
		return domain.Invalid("phone must be a valid 10-digit mobile number")
	}
	if len(s.Address) < 10 || len(s.Address) > 200 {
		return domain.Invalid("address must be 10-200 characters")
	}
	if !pincodeRe.MatchString(s.Pincode) {
		return domain.Invalid("pincode must be a valid 6-digit postal code")
	}
	return nil
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress ShippingAddress    `json:"shippingAddress"`
}

func (r *CreateOrderRequest) Validate() error {
	if len(r.Items) == 0 {
		return domain.Invalid("at least one item is required")
	}
	for _, item := range r.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return domain.Invalid("product id is required")
		}
		if item.Quantity < 1 {
			return domain.Invalid("quantity must be at least 1")
		}
	}
	return r.ShippingAddress.Validate()
}

type CreateOrderResponse struct {
	ClientSecret string  `json:"clientSecret"`
	OrderID      string  `json:"orderId"`
	TotalAmount  float64 `json:"totalAmount"`
}

type ConfirmOrderRequest struct {
	OrderID    string `json:"orderId"`
	PaymentRef string `json:"paymentIntentId"`
}

func (r *ConfirmOrderRequest) Validate() error {
	if strings.TrimSpace(r.OrderID) == "" || strings.TrimSpace(r.PaymentRef) == "" {
		return domain.Invalid("orderId and paymentIntentId are required")
	}
	return nil
}
