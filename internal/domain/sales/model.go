// Package sales provides the sale ledger: an append-only record of
// completed sales, and the transactional operation that writes it.
package sales

import (
	"time"

	"shopledger/internal/core/id"
	"shopledger/internal/core/types"
)

// SaleEntry is one completed sale. Entries are immutable once created;
// no update or delete operation exists.
//
// ProductID is a weak reference: it may dangle after the product is
// deleted, which is accepted rather than prevented.
//
// ProfitPerUnit is the cost basis snapshotted at the moment of sale.
// Later buying-price changes never alter it.
type SaleEntry struct {
	ID            id.ID       `db:"id" json:"id"`
	ProductID     id.ID       `db:"product_id" json:"product_id"`
	SellingPrice  types.Money `db:"selling_price" json:"selling_price"`
	Quantity      int         `db:"quantity" json:"quantity"`
	ProfitPerUnit types.Money `db:"profit_per_unit" json:"profit_per_unit"`
	TotalProfit   types.Money `db:"total_profit" json:"total_profit"`
	SoldAt        time.Time   `db:"sold_at" json:"sold_at"`
}
