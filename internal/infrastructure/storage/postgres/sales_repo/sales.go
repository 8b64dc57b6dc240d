// Package sales_repo provides the PostgreSQL implementation of the
// sale ledger.
package sales_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"shopledger/internal/core/apperror"
	"shopledger/internal/domain/sales"
	"shopledger/internal/infrastructure/storage/postgres"
)

const tableName = "sales"

var selectCols = []string{"id", "product_id", "selling_price", "quantity", "profit_per_unit", "total_profit", "sold_at"}

// Compile-time check.
var _ sales.Repository = (*Repo)(nil)

// Repo implements sales.Repository on PostgreSQL. The ledger is
// append-only; rows are never updated or deleted.
type Repo struct {
	txManager *postgres.TxManager
}

func New(txManager *postgres.TxManager) *Repo {
	return &Repo{txManager: txManager}
}

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Insert appends a ledger entry. Called inside the sale transaction so
// the entry commits together with the stock decrement.
func (r *Repo) Insert(ctx context.Context, entry *sales.SaleEntry) error {
	q := r.builder().
		Insert(tableName).
		SetMap(map[string]any{
			"id":              entry.ID,
			"product_id":      entry.ProductID,
			"selling_price":   entry.SellingPrice,
			"quantity":        entry.Quantity,
			"profit_per_unit": entry.ProfitPerUnit,
			"total_profit":    entry.TotalProfit,
			"sold_at":         entry.SoldAt,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return apperror.NewDatabase(fmt.Errorf("insert sale: %w", err))
	}

	return nil
}

// List returns all ledger entries, newest first.
func (r *Repo) List(ctx context.Context) ([]sales.SaleEntry, error) {
	q := r.builder().
		Select(selectCols...).
		From(tableName).
		OrderBy("sold_at DESC", "id DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []sales.SaleEntry
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("list sales: %w", err))
	}

	return entries, nil
}
