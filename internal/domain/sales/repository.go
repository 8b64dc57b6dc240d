package sales

import (
	"context"
)

// Repository defines the interface for the sale ledger.
// The ledger is append-only: Insert is the only write.
type Repository interface {
	// Insert appends a sale entry. Must be called inside the sale
	// recording transaction.
	Insert(ctx context.Context, entry *SaleEntry) error

	// List retrieves all sales ordered by sold_at descending.
	List(ctx context.Context) ([]SaleEntry, error)
}
