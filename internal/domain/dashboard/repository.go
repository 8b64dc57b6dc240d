package dashboard

import (
	"context"

	"shopledger/internal/core/timerange"
)

// Repository runs the aggregate queries behind the dashboard. All
// methods take a resolved range and push the filtering and grouping
// into the store; none of them mutate state.
type Repository interface {
	// Summary returns whole-range totals. TotalProducts counts every
	// product regardless of the range.
	Summary(ctx context.Context, rng timerange.Range) (*Summary, error)

	// TopProducts returns up to limit products ordered by units sold
	// descending, product id ascending as tiebreaker.
	TopProducts(ctx context.Context, rng timerange.Range, limit int) ([]ProductSales, error)

	// LeastProducts is TopProducts with the sort inverted.
	LeastProducts(ctx context.Context, rng timerange.Range, limit int) ([]ProductSales, error)

	// Trend returns per-bucket aggregates ordered by bucket ascending,
	// using the range's truncation unit and display format.
	Trend(ctx context.Context, rng timerange.Range, metric Metric) ([]TrendPoint, error)
}
