package dashboard

import (
	"shopledger/internal/core/id"
	"shopledger/internal/core/types"
)

// Metric selects what a sales trend aggregates per bucket.
type Metric string

const (
	// MetricUnits sums quantities sold.
	MetricUnits Metric = "units"
	// MetricProfit sums total profit.
	MetricProfit Metric = "profit"
)

// Summary holds whole-range totals for the dashboard header cards.
// Empty ranges produce zeros, never nulls.
type Summary struct {
	TotalRevenue  types.Money `db:"total_revenue"`
	TotalProfit   types.Money `db:"total_profit"`
	TotalSold     int64       `db:"total_sold"`
	TotalProducts int64       `db:"total_products"`
}

// ProductSales is one leaderboard row. Products with no sales in the
// range still appear with TotalSold zero.
type ProductSales struct {
	ProductID   id.ID  `db:"product_id"`
	ProductName string `db:"product_name"`
	TotalSold   int64  `db:"total_sold"`
}

// TrendPoint is one time bucket of a sales trend, with the bucket
// label already formatted for display.
type TrendPoint struct {
	Date  string      `db:"date"`
	Value types.Money `db:"value"`
}
