package dto

import (
	"time"

	"shopledger/internal/core/types"
	"shopledger/internal/domain/product"
)

// CreateProductRequest for POST /products.
type CreateProductRequest struct {
	Name        string      `json:"product_name" binding:"required"`
	BuyingPrice types.Money `json:"buying_price"`
	Quantity    int         `json:"quantity"`
}

// ToCreateInput converts to domain input.
func (r *CreateProductRequest) ToCreateInput() product.CreateInput {
	return product.CreateInput{
		Name:        r.Name,
		BuyingPrice: r.BuyingPrice,
		Quantity:    r.Quantity,
	}
}

// UpdateProductRequest for PUT /products/:id. Absent fields keep
// their current values.
type UpdateProductRequest struct {
	Name        *string      `json:"product_name"`
	BuyingPrice *types.Money `json:"buying_price"`
	Quantity    *int         `json:"quantity"`
}

// ToUpdateInput converts to domain input.
func (r *UpdateProductRequest) ToUpdateInput() product.UpdateInput {
	return product.UpdateInput{
		Name:        r.Name,
		BuyingPrice: r.BuyingPrice,
		Quantity:    r.Quantity,
	}
}

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"product_name"`
	BuyingPrice types.Money `json:"buying_price"`
	Quantity    int         `json:"quantity"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// FromProduct converts a domain product.
func FromProduct(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		BuyingPrice: p.BuyingPrice,
		Quantity:    p.Quantity,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// FromProducts converts a product slice.
func FromProducts(products []product.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = FromProduct(&products[i])
	}
	return out
}
