package dto

import (
	"strings"

	"github.com/tupatil-17/easy-shop/internal/domain"
)

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
}

func (r *CreateProductRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Category = strings.TrimSpace(r.Category)
	if r.Name == "" || r.Description == "" || r.Category == "" {
		return domain.Invalid("name, description and category are required")
	}
	if r.Price < 0 {
		return domain.Invalid("price must be non-negative")
	}
	if r.Stock < 0 {
		return domain.Invalid("stock must be non-negative")
	}
	return nil
}

// UpdateProductRequest is a partial edit: absent fields keep their stored
// value. Price and stock use pointers so zero stays distinguishable from
// unset.
type UpdateProductRequest struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    string   `json:"category,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
}

func (r *UpdateProductRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Category = strings.TrimSpace(r.Category)
	if r.Name == "" && r.Description == "" && r.Category == "" && r.Price == nil && r.Stock == nil {
		return domain.Invalid("nothing to update")
	}
	if r.Price != nil && *r.Price < 0 {
		return domain.Invalid("price must be non-negative")
	}
	if r.Stock != nil && *r.Stock < 0 {
		return domain.Invalid("stock must be non-negative")
	}
	return nil
}

// Fields returns the column assignments for the set fields.
func (r *UpdateProductRequest) Fields() map[string]any {
	fields := map[string]any{}
	if r.Name != "" {
		fields["name"] = r.Name
	}
	if r.Description != "" {
		fields["description"] = r.Description
	}
	if r.Category != "" {
		fields["category"] = r.Category
	}
	if r.Price != nil {
		fields["price"] = *r.Price
	}
	if r.Stock != nil {
		fields["stock"] = *r.Stock
	}
	return fields
}
