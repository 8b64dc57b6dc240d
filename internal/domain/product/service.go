package product

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shopledger/internal/core/apperror"
	"shopledger/internal/core/id"
	"shopledger/internal/core/types"
	"shopledger/pkg/logger"
)

// Service provides business logic for the product catalog.
type Service struct {
	repo    Repository
	auditor Auditor // optional, nil disables auditing
}

// NewService creates a new product service.
func NewService(repo Repository, auditor Auditor) *Service {
	return &Service{repo: repo, auditor: auditor}
}

// List returns all products in insertion order.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// GetByID returns a single product.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// CreateInput holds fields for product creation.
type CreateInput struct {
	Name        string
	BuyingPrice types.Money
	Quantity    int
}

// Create adds a product to the catalog. Names are unique
// case-insensitively.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Product, error) {
	p := NewProduct(in.Name, in.BuyingPrice, in.Quantity)
	if err := p.Validate(ctx); err != nil {
		return nil, err
	}

	if existing, err := s.repo.FindByName(ctx, p.Name); err == nil && existing != nil {
		return nil, apperror.NewDuplicate("product", "name", p.Name)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.audit(ctx, "create", p.ID, p)
	logger.Info(ctx, "product created", "id", p.ID, "name", p.Name)
	return p, nil
}

// UpdateInput holds fields for product update. Nil fields are left
// unchanged.
type UpdateInput struct {
	Name        *string
	BuyingPrice *types.Money
	Quantity    *int
}

// Update modifies a product. Changing the buying price never rewrites
// historical ledger entries: profit is snapshotted at sale time.
func (s *Service) Update(ctx context.Context, productID id.ID, in UpdateInput) (*Product, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if !strings.EqualFold(name, p.Name) {
			if existing, err := s.repo.FindByName(ctx, name); err == nil && existing != nil && existing.ID != p.ID {
				return nil, apperror.NewDuplicate("product", "name", name)
			}
		}
		p.Name = name
	}
	if in.BuyingPrice != nil {
		p.BuyingPrice = *in.BuyingPrice
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}
	p.UpdatedAt = time.Now().UTC()

	if err := p.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.audit(ctx, "update", p.ID, p)
	return p, nil
}

// Delete removes a product from the catalog. Ledger entries keep their
// product_id and dangle; dashboards tolerate them.
func (s *Service) Delete(ctx context.Context, productID id.ID) (*Product, error) {
	deleted, err := s.repo.Delete(ctx, productID)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, "delete", productID, deleted)
	logger.Info(ctx, "product deleted", "id", productID, "name", deleted.Name)
	return deleted, nil
}

// audit records a change entry; failures are logged, never surfaced.
func (s *Service) audit(ctx context.Context, action string, productID id.ID, changes any) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.LogProduct(ctx, action, productID, changes); err != nil {
		logger.Warn(ctx, "product audit failed", "action", action, "id", productID, "error", err)
	}
}
