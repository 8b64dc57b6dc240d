package dashboard

import (
	"context"

	"shopledger/internal/core/apperror"
	"shopledger/internal/core/timerange"
)

const (
	defaultLimit = 10
	maxLimit     = 10
)

// TxRunner runs fn inside a read-only transaction so the aggregate
// queries of one request observe a single snapshot.
type TxRunner interface {
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service is the aggregation engine: it resolves range keys and
// delegates the heavy lifting to the store.
type Service struct {
	repo Repository
	tx   TxRunner
}

func NewService(repo Repository, tx TxRunner) *Service {
	return &Service{repo: repo, tx: tx}
}

// normalizeLimit applies the leaderboard default and ceiling.
func normalizeLimit(limit int) int {
	if limit <= 0 || limit > maxLimit {
		return defaultLimit
	}
	return limit
}

// Summary returns whole-range totals for the given range key.
// Unknown keys fall back to the default range.
func (s *Service) Summary(ctx context.Context, rangeKey string) (*Summary, error) {
	var out *Summary
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.repo.Summary(ctx, timerange.Resolve(rangeKey))
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TopProducts returns the best sellers within the range.
func (s *Service) TopProducts(ctx context.Context, rangeKey string, limit int) ([]ProductSales, error) {
	var out []ProductSales
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.repo.TopProducts(ctx, timerange.Resolve(rangeKey), normalizeLimit(limit))
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LeastProducts returns the slowest movers within the range.
func (s *Service) LeastProducts(ctx context.Context, rangeKey string, limit int) ([]ProductSales, error) {
	var out []ProductSales
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.repo.LeastProducts(ctx, timerange.Resolve(rangeKey), normalizeLimit(limit))
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Trend returns bucketed aggregates for the metric within the range.
func (s *Service) Trend(ctx context.Context, rangeKey string, metric Metric) ([]TrendPoint, error) {
	switch metric {
	case MetricUnits, MetricProfit:
	default:
		return nil, apperror.NewValidation("unknown trend metric").
			WithDetail("metric", string(metric))
	}
	var out []TrendPoint
	err := s.tx.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.repo.Trend(ctx, timerange.Resolve(rangeKey), metric)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
