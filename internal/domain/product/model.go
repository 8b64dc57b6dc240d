// Package product provides the product catalog: the inventory items
// sales are recorded against.
package product

import (
	"context"
	"strings"
	"time"

	"shopledger/internal/core/apperror"
	"shopledger/internal/core/id"
	"shopledger/internal/core/types"
)

// Product represents an inventory item.
//
// Quantity is mutated in two places only: the product upsert operations
// here and the decrement performed inside the sale recording
// transaction. It never goes negative.
type Product struct {
	ID          id.ID       `db:"id" json:"id"`
	Name        string      `db:"name" json:"product_name"`
	BuyingPrice types.Money `db:"buying_price" json:"buying_price"`
	Quantity    int         `db:"quantity" json:"quantity"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// NewProduct creates a product with required fields.
func NewProduct(name string, buyingPrice types.Money, quantity int) *Product {
	now := time.Now().UTC()
	return &Product{
		ID:          id.New(),
		Name:        strings.TrimSpace(name),
		BuyingPrice: buyingPrice,
		Quantity:    quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate checks model invariants.
func (p *Product) Validate(ctx context.Context) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidation("product name is required").
			WithDetail("field", "product_name")
	}
	if p.BuyingPrice.IsNegative() {
		return apperror.NewValidation("buying price cannot be negative").
			WithDetail("field", "buying_price")
	}
	if p.Quantity < 0 {
		return apperror.NewValidation("quantity cannot be negative").
			WithDetail("field", "quantity")
	}
	return nil
}
