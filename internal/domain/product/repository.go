package product

import (
	"context"

	"shopledger/internal/core/id"
)

// Repository defines the interface for product persistence.
type Repository interface {
	// List retrieves all products ordered by id (insertion order).
	List(ctx context.Context) ([]Product, error)

	// GetByID retrieves a product by id.
	GetByID(ctx context.Context, productID id.ID) (*Product, error)

	// GetForUpdate retrieves a product with an exclusive row lock.
	// Must be called inside a transaction; the lock is held until the
	// transaction ends.
	GetForUpdate(ctx context.Context, productID id.ID) (*Product, error)

	// FindByName retrieves a product by name, case-insensitively.
	FindByName(ctx context.Context, name string) (*Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, p *Product) error

	// Update replaces mutable fields of an existing product.
	Update(ctx context.Context, p *Product) error

	// DecrementStock subtracts qty from the product's quantity.
	// Callers must hold the row lock and have verified availability.
	DecrementStock(ctx context.Context, productID id.ID, qty int) error

	// Delete removes a product. Ledger entries referencing it are left
	// in place (weak reference).
	Delete(ctx context.Context, productID id.ID) (*Product, error)
}

// Auditor records product change history.
type Auditor interface {
	LogProduct(ctx context.Context, action string, productID id.ID, changes any) error
}
