// Package main provides a CLI tool for creating the schema and seeding
// demo data.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"shopledger/internal/core/id"
	"shopledger/internal/core/types"
	"shopledger/internal/infrastructure/storage/postgres"
	"shopledger/pkg/logger"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id            uuid PRIMARY KEY,
		name          text NOT NULL,
		buying_price  numeric(14,2) NOT NULL CHECK (buying_price >= 0),
		quantity      integer NOT NULL CHECK (quantity >= 0),
		created_at    timestamptz NOT NULL DEFAULT now(),
		updated_at    timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS products_name_lower_idx ON products (lower(name))`,
	`CREATE TABLE IF NOT EXISTS sales (
		id              uuid PRIMARY KEY,
		product_id      uuid NOT NULL,
		selling_price   numeric(14,2) NOT NULL,
		quantity        integer NOT NULL CHECK (quantity > 0),
		profit_per_unit numeric(14,2) NOT NULL,
		total_profit    numeric(14,2) NOT NULL,
		sold_at         timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS sales_sold_at_idx ON sales (sold_at)`,
	`CREATE INDEX IF NOT EXISTS sales_product_id_idx ON sales (product_id)`,
	`CREATE TABLE IF NOT EXISTS product_audit (
		id                 uuid PRIMARY KEY,
		product_id         uuid NOT NULL,
		action             text NOT NULL,
		username           text NOT NULL DEFAULT '',
		changes            jsonb,
		changes_compressed bytea,
		compression_algo   text NOT NULL DEFAULT 'none',
		created_at         timestamptz NOT NULL DEFAULT now()
	)`,
}

type demoProduct struct {
	name         string
	buyingPrice  string
	sellingPrice string
	quantity     int
}

var demoProducts = []demoProduct{
	{"Wireless Mouse", "12.50", "24.99", 120},
	{"Mechanical Keyboard", "45.00", "89.99", 60},
	{"USB-C Hub", "18.00", "39.99", 80},
	{"27in Monitor", "140.00", "229.99", 25},
	{"Laptop Stand", "9.00", "21.99", 150},
	{"Webcam 1080p", "22.00", "49.99", 45},
}

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			log.Fatalw("failed to apply schema", "error", err)
		}
	}
	log.Info("schema applied")

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// seedDemoData inserts demo products and a few months of back-dated
// sales so the dashboard has something to show. Idempotent: skips when
// products already exist.
func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		log.Info("products already present, skipping demo data")
		return nil
	}

	rng := rand.New(rand.NewSource(42))
	now := time.Now().UTC()

	for _, dp := range demoProducts {
		productID := id.New()
		buying := types.MustMoney(dp.buyingPrice)
		selling := types.MustMoney(dp.sellingPrice)

		_, err := pool.Exec(ctx,
			`INSERT INTO products (id, name, buying_price, quantity, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $5)`,
			productID, dp.name, buying, dp.quantity, now.AddDate(0, -8, 0),
		)
		if err != nil {
			return fmt.Errorf("insert product %s: %w", dp.name, err)
		}

		// Spread sales over the last ~8 months.
		salesCount := 10 + rng.Intn(30)
		for i := 0; i < salesCount; i++ {
			qty := 1 + rng.Intn(4)
			soldAt := now.Add(-time.Duration(rng.Intn(8*30*24)) * time.Hour)
			profitPerUnit := selling.Sub(buying)
			totalProfit := profitPerUnit.Mul(types.NewMoneyFromInt(int64(qty)))

			_, err := pool.Exec(ctx,
				`INSERT INTO sales (id, product_id, selling_price, quantity, profit_per_unit, total_profit, sold_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				id.New(), productID, selling, qty, profitPerUnit, totalProfit, soldAt,
			)
			if err != nil {
				return fmt.Errorf("insert sale for %s: %w", dp.name, err)
			}
		}

		log.Infow("seeded product", "name", dp.name, "sales", salesCount)
	}

	return nil
}
