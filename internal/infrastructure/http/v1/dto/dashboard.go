package dto

import (
	"shopledger/internal/core/types"
	"shopledger/internal/domain/dashboard"
)

// SummaryResponse for GET /dashboard/summary.
type SummaryResponse struct {
	TotalRevenue  types.Money `json:"total_revenue"`
	TotalProfit   types.Money `json:"total_profit"`
	TotalSold     int64       `json:"total_sold"`
	TotalProducts int64       `json:"total_products"`
}

// FromSummary converts the domain summary.
func FromSummary(s *dashboard.Summary) SummaryResponse {
	return SummaryResponse{
		TotalRevenue:  s.TotalRevenue,
		TotalProfit:   s.TotalProfit,
		TotalSold:     s.TotalSold,
		TotalProducts: s.TotalProducts,
	}
}

// ProductSalesRow is one leaderboard entry.
type ProductSalesRow struct {
	ID          string `json:"id"`
	ProductName string `json:"product_name"`
	TotalSold   int64  `json:"total_sold"`
}

// FromProductSales converts leaderboard rows. Empty results render as
// an empty array, never null.
func FromProductSales(rows []dashboard.ProductSales) []ProductSalesRow {
	out := make([]ProductSalesRow, len(rows))
	for i, r := range rows {
		out[i] = ProductSalesRow{
			ID:          r.ProductID.String(),
			ProductName: r.ProductName,
			TotalSold:   r.TotalSold,
		}
	}
	return out
}

// SalesTrendPoint is one bucket of GET /dashboard/sales-trend.
type SalesTrendPoint struct {
	Date      string `json:"date"`
	TotalSold int64  `json:"total_sold"`
}

// FromSalesTrend converts unit-count buckets. Quantity sums are whole
// numbers, so the decimal converts exactly.
func FromSalesTrend(points []dashboard.TrendPoint) []SalesTrendPoint {
	out := make([]SalesTrendPoint, len(points))
	for i, p := range points {
		out[i] = SalesTrendPoint{
			Date:      p.Date,
			TotalSold: p.Value.IntPart(),
		}
	}
	return out
}

// ProfitTrendPoint is one bucket of GET /dashboard/profit-trend.
type ProfitTrendPoint struct {
	Date   string      `json:"date"`
	Profit types.Money `json:"profit"`
}

// FromProfitTrend converts profit buckets.
func FromProfitTrend(points []dashboard.TrendPoint) []ProfitTrendPoint {
	out := make([]ProfitTrendPoint, len(points))
	for i, p := range points {
		out[i] = ProfitTrendPoint{
			Date:   p.Date,
			Profit: p.Value,
		}
	}
	return out
}
