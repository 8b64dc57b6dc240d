// Package dashboard_repo provides the PostgreSQL implementation of the
// dashboard aggregate queries.
package dashboard_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"shopledger/internal/core/apperror"
	"shopledger/internal/core/timerange"
	"shopledger/internal/domain/dashboard"
	"shopledger/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ dashboard.Repository = (*Repo)(nil)

// Repo implements dashboard.Repository. All range values arrive as
// bound parameters; the truncation unit and display format come from
// the resolver's closed sets.
type Repo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
	now       func() time.Time
}

func New(txManager *postgres.TxManager) *Repo {
	return &Repo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		now:       time.Now,
	}
}

// summaryQuery aggregates the whole ledger slice in one pass. The
// product count subquery ignores the range on purpose.
func (r *Repo) summaryQuery(rng timerange.Range) squirrel.SelectBuilder {
	q := r.builder.
		Select(
			"COALESCE(SUM(s.selling_price * s.quantity), 0) AS total_revenue",
			"COALESCE(SUM(s.total_profit), 0) AS total_profit",
			"COALESCE(SUM(s.quantity), 0) AS total_sold",
			"(SELECT COUNT(*) FROM products) AS total_products",
		).
		From("sales s")

	if !rng.Unbounded {
		q = q.Where(squirrel.GtOrEq{"s.sold_at": rng.CutoffFrom(r.now())})
	}
	return q
}

// Summary returns whole-range totals, zeros when the ledger is empty.
func (r *Repo) Summary(ctx context.Context, rng timerange.Range) (*dashboard.Summary, error) {
	sql, args, err := r.summaryQuery(rng).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build summary: %w", err)
	}

	var summary dashboard.Summary
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &summary, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("summary: %w", err))
	}

	return &summary, nil
}

// leaderboardQuery drives products from the left side so products with
// no sales in the range still appear with zero. The range filter lives
// in the join condition: a WHERE filter would silently drop them.
// Dangling ledger rows (deleted products) fall out of the join.
func (r *Repo) leaderboardQuery(rng timerange.Range, limit int, asc bool) squirrel.SelectBuilder {
	join := "sales s ON s.product_id = p.id"
	joinArgs := []any{}
	if !rng.Unbounded {
		join += " AND s.sold_at >= ?"
		joinArgs = append(joinArgs, rng.CutoffFrom(r.now()))
	}

	direction := "DESC"
	if asc {
		direction = "ASC"
	}

	return r.builder.
		Select(
			"p.id AS product_id",
			"p.name AS product_name",
			"COALESCE(SUM(s.quantity), 0) AS total_sold",
		).
		From("products p").
		LeftJoin(join, joinArgs...).
		GroupBy("p.id", "p.name").
		OrderBy("total_sold "+direction, "p.id ASC").
		Limit(uint64(limit))
}

// TopProducts returns the best sellers within the range.
func (r *Repo) TopProducts(ctx context.Context, rng timerange.Range, limit int) ([]dashboard.ProductSales, error) {
	return r.leaderboard(ctx, rng, limit, false)
}

// LeastProducts returns the slowest movers within the range.
func (r *Repo) LeastProducts(ctx context.Context, rng timerange.Range, limit int) ([]dashboard.ProductSales, error) {
	return r.leaderboard(ctx, rng, limit, true)
}

func (r *Repo) leaderboard(ctx context.Context, rng timerange.Range, limit int, asc bool) ([]dashboard.ProductSales, error) {
	sql, args, err := r.leaderboardQuery(rng, limit, asc).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build leaderboard: %w", err)
	}

	var rows []dashboard.ProductSales
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("leaderboard: %w", err))
	}

	return rows, nil
}

// trendQuery buckets the ledger by the range's truncation unit. Both
// the unit and the to_char format are bound parameters; grouping and
// ordering use the output column, whose formats sort chronologically.
func (r *Repo) trendQuery(rng timerange.Range, metric dashboard.Metric) squirrel.SelectBuilder {
	var value string
	switch metric {
	case dashboard.MetricProfit:
		value = "SUM(s.total_profit) AS value"
	default:
		value = "SUM(s.quantity) AS value"
	}

	q := r.builder.
		Select().
		Column(squirrel.Alias(
			squirrel.Expr("to_char(date_trunc(?, s.sold_at), ?)", string(rng.Trunc), rng.Format),
			"date",
		)).
		Column(value).
		From("sales s")

	if !rng.Unbounded {
		q = q.Where(squirrel.GtOrEq{"s.sold_at": rng.CutoffFrom(r.now())})
	}

	return q.GroupBy("1").OrderBy("1 ASC")
}

// Trend returns per-bucket aggregates ordered oldest first. Buckets
// with no sales are absent rather than zero-filled.
func (r *Repo) Trend(ctx context.Context, rng timerange.Range, metric dashboard.Metric) ([]dashboard.TrendPoint, error) {
	sql, args, err := r.trendQuery(rng, metric).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build trend: %w", err)
	}

	var points []dashboard.TrendPoint
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &points, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("trend: %w", err))
	}

	return points, nil
}
