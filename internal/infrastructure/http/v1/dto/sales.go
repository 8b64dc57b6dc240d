package dto

import (
	"time"

	"shopledger/internal/core/types"
	"shopledger/internal/domain/sales"
)

// RecordSaleRequest for POST /sales. SellingPrice is a pointer so a
// missing or null field fails binding instead of defaulting to zero.
type RecordSaleRequest struct {
	ProductID    string       `json:"product_id" binding:"required,uuid"`
	SellingPrice *types.Money `json:"selling_price" binding:"required"`
	Quantity     int          `json:"quantity"`
}

// SaleResponse represents a ledger entry in API responses.
type SaleResponse struct {
	ID            string      `json:"id"`
	ProductID     string      `json:"product_id"`
	SellingPrice  types.Money `json:"selling_price"`
	Quantity      int         `json:"quantity"`
	ProfitPerUnit types.Money `json:"profit_per_unit"`
	TotalProfit   types.Money `json:"total_profit"`
	SoldAt        time.Time   `json:"sold_at"`
}

// FromSaleEntry converts a domain ledger entry.
func FromSaleEntry(e *sales.SaleEntry) SaleResponse {
	return SaleResponse{
		ID:            e.ID.String(),
		ProductID:     e.ProductID.String(),
		SellingPrice:  e.SellingPrice,
		Quantity:      e.Quantity,
		ProfitPerUnit: e.ProfitPerUnit,
		TotalProfit:   e.TotalProfit,
		SoldAt:        e.SoldAt,
	}
}

// FromSaleEntries converts a ledger slice.
func FromSaleEntries(entries []sales.SaleEntry) []SaleResponse {
	out := make([]SaleResponse, len(entries))
	for i := range entries {
		out[i] = FromSaleEntry(&entries[i])
	}
	return out
}

// RecordSaleResponse pairs the new ledger entry with the updated
// product state.
type RecordSaleResponse struct {
	Sale    SaleResponse    `json:"sale"`
	Product ProductResponse `json:"product"`
}
