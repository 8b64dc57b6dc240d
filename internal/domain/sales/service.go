package sales

import (
	"context"
	"time"

	"shopledger/internal/core/apperror"
	"shopledger/internal/core/id"
	"shopledger/internal/core/tx"
	"shopledger/internal/core/types"
	"shopledger/internal/domain/product"
	"shopledger/pkg/logger"
)

// Recorder provides the sale recording operation.
//
// Recording a sale and decrementing inventory happen in one database
// transaction with an exclusive row lock on the product, so a ledger
// entry is never observable without its matching decrement. Concurrent
// sales of the same product serialize on the lock; different products
// proceed independently.
type Recorder struct {
	ledger    Repository
	products  product.Repository
	txManager tx.Manager
}

// NewRecorder creates a sale recorder. The transaction manager is
// injected explicitly; repositories never reach for ambient state.
func NewRecorder(ledger Repository, products product.Repository, txManager tx.Manager) *Recorder {
	return &Recorder{
		ledger:    ledger,
		products:  products,
		txManager: txManager,
	}
}

// RecordInput holds the fields of a sale request.
type RecordInput struct {
	ProductID    id.ID
	SellingPrice types.Money
	Quantity     int
}

// validate rejects malformed input before any transaction is opened.
func (in RecordInput) validate() error {
	if id.IsNil(in.ProductID) {
		return apperror.NewValidation("product id is required").
			WithDetail("field", "productId")
	}
	if in.SellingPrice.IsNegative() {
		return apperror.NewValidation("selling price cannot be negative").
			WithDetail("field", "sellingPrice")
	}
	if in.Quantity <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	return nil
}

// Record records a sale against inventory.
//
// Inside a single transaction it locks the product row, verifies stock,
// snapshots profit from the locked buying price, appends the ledger
// entry and decrements inventory. Any failure rolls the whole
// transaction back; nothing persists on abort, so retrying is safe.
func (r *Recorder) Record(ctx context.Context, in RecordInput) (*SaleEntry, *product.Product, error) {
	if err := in.validate(); err != nil {
		return nil, nil, err
	}

	var (
		entry   *SaleEntry
		updated *product.Product
	)

	err := r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := r.products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}

		if p.Quantity < in.Quantity {
			return apperror.NewInsufficientStock(p.ID.String(), in.Quantity, p.Quantity)
		}

		// Profit uses the locked, current buying price: the cost basis
		// at the moment of sale.
		profitPerUnit := in.SellingPrice.Sub(p.BuyingPrice)
		totalProfit := profitPerUnit.Mul(types.NewMoneyFromInt(int64(in.Quantity)))

		entry = &SaleEntry{
			ID:            id.New(),
			ProductID:     p.ID,
			SellingPrice:  in.SellingPrice,
			Quantity:      in.Quantity,
			ProfitPerUnit: profitPerUnit,
			TotalProfit:   totalProfit,
			SoldAt:        time.Now().UTC(),
		}

		if err := r.ledger.Insert(ctx, entry); err != nil {
			return err
		}

		if err := r.products.DecrementStock(ctx, p.ID, in.Quantity); err != nil {
			return err
		}

		p.Quantity -= in.Quantity
		updated = p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "sale recorded",
		"sale_id", entry.ID,
		"product_id", entry.ProductID,
		"quantity", entry.Quantity,
		"total_profit", entry.TotalProfit,
	)

	return entry, updated, nil
}

// List returns all ledger entries, newest first.
func (r *Recorder) List(ctx context.Context) ([]SaleEntry, error) {
	return r.ledger.List(ctx)
}
