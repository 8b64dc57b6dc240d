// Package product_repo provides the PostgreSQL implementation of the
// product repository.
package product_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"shopledger/internal/core/apperror"
	"shopledger/internal/core/id"
	"shopledger/internal/domain/product"
	"shopledger/internal/infrastructure/storage/postgres"
)

const tableName = "products"

var selectCols = []string{"id", "name", "buying_price", "quantity", "created_at", "updated_at"}

// Compile-time check.
var _ product.Repository = (*Repo)(nil)

// Repo implements product.Repository on PostgreSQL.
type Repo struct {
	txManager *postgres.TxManager
}

func New(txManager *postgres.TxManager) *Repo {
	return &Repo{txManager: txManager}
}

// builder returns a squirrel builder with PostgreSQL placeholder format.
func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(selectCols...).
		From(tableName)
}

// List returns all products in insertion order. UUIDv7 keys make id
// order follow creation time.
func (r *Repo) List(ctx context.Context) ([]product.Product, error) {
	q := r.baseSelect().OrderBy("id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var products []product.Product
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &products, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("list %s: %w", tableName, err))
	}

	return products, nil
}

// GetByID retrieves a product by ID.
func (r *Repo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	return r.get(ctx, r.baseSelect().
		Where(squirrel.Eq{"id": productID}).
		Limit(1), productID.String())
}

// GetForUpdate retrieves a product by ID with an exclusive row lock.
// Must be called inside a transaction; the lock holds until commit.
func (r *Repo) GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error) {
	return r.get(ctx, r.baseSelect().
		Where(squirrel.Eq{"id": productID}).
		Suffix("FOR UPDATE"), productID.String())
}

// FindByName retrieves a product by name, case-insensitively.
func (r *Repo) FindByName(ctx context.Context, name string) (*product.Product, error) {
	return r.get(ctx, r.baseSelect().
		Where(squirrel.Expr("lower(name) = lower(?)", name)).
		Limit(1), name)
}

func (r *Repo) get(ctx context.Context, q squirrel.SelectBuilder, key string) (*product.Product, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", key)
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get product: %w", err))
	}

	return &p, nil
}

// Create inserts a new product.
func (r *Repo) Create(ctx context.Context, p *product.Product) error {
	q := r.builder().
		Insert(tableName).
		SetMap(map[string]any{
			"id":           p.ID,
			"name":         p.Name,
			"buying_price": p.BuyingPrice,
			"quantity":     p.Quantity,
			"created_at":   p.CreatedAt,
			"updated_at":   p.UpdatedAt,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return classifyWriteError(err, p.Name)
	}

	return nil
}

// Update rewrites the mutable columns of an existing product.
func (r *Repo) Update(ctx context.Context, p *product.Product) error {
	q := r.builder().
		Update(tableName).
		SetMap(map[string]any{
			"name":         p.Name,
			"buying_price": p.BuyingPrice,
			"quantity":     p.Quantity,
			"updated_at":   p.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": p.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return classifyWriteError(err, p.Name)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", p.ID.String())
	}

	return nil
}

// DecrementStock subtracts qty from the product's quantity. The caller
// holds the row lock and has already verified available stock; the
// check constraint on quantity is the backstop.
func (r *Repo) DecrementStock(ctx context.Context, productID id.ID, qty int) error {
	q := r.builder().
		Update(tableName).
		Set("quantity", squirrel.Expr("quantity - ?", qty)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("decrement stock: %w", err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}

	return nil
}

// Delete removes a product and returns the deleted row. Ledger entries
// keep their product_id; aggregates tolerate the dangling reference.
func (r *Repo) Delete(ctx context.Context, productID id.ID) (*product.Product, error) {
	q := r.builder().
		Delete(tableName).
		Where(squirrel.Eq{"id": productID}).
		Suffix("RETURNING " + joinCols())

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build delete: %w", err)
	}

	var p product.Product
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID.String())
		}
		return nil, apperror.NewDatabase(fmt.Errorf("delete product: %w", err))
	}

	return &p, nil
}

func joinCols() string {
	out := selectCols[0]
	for _, c := range selectCols[1:] {
		out += ", " + c
	}
	return out
}

// classifyWriteError maps constraint violations to domain errors.
func classifyWriteError(err error, name string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperror.NewDuplicate("product", "name", name)
	}
	return apperror.NewDatabase(fmt.Errorf("write %s: %w", tableName, err))
}
