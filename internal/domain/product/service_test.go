package product

import (
	"context"
	"errors"
	"strings"
	"testing"

	"shopledger/internal/core/apperror"
	"shopledger/internal/core/id"
	"shopledger/internal/core/types"
)

// fakeRepo is an in-memory product store.
type fakeRepo struct {
	products map[id.ID]Product
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: make(map[id.ID]Product)}
}

func (f *fakeRepo) List(ctx context.Context) ([]Product, error) {
	out := make([]Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	return &p, nil
}

func (f *fakeRepo) GetForUpdate(ctx context.Context, productID id.ID) (*Product, error) {
	return f.GetByID(ctx, productID)
}

func (f *fakeRepo) FindByName(ctx context.Context, name string) (*Product, error) {
	for _, p := range f.products {
		if strings.EqualFold(p.Name, name) {
			return &p, nil
		}
	}
	return nil, apperror.NewNotFound("product", name)
}

func (f *fakeRepo) Create(ctx context.Context, p *Product) error {
	f.products[p.ID] = *p
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, p *Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return apperror.NewNotFound("product", p.ID.String())
	}
	f.products[p.ID] = *p
	return nil
}

func (f *fakeRepo) DecrementStock(ctx context.Context, productID id.ID, qty int) error {
	p := f.products[productID]
	p.Quantity -= qty
	f.products[productID] = p
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, productID id.ID) (*Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	delete(f.products, productID)
	return &p, nil
}

// recordingAuditor captures audit calls.
type recordingAuditor struct {
	actions []string
	fail    bool
}

func (a *recordingAuditor) LogProduct(ctx context.Context, action string, productID id.ID, changes any) error {
	if a.fail {
		return errors.New("audit store down")
	}
	a.actions = append(a.actions, action)
	return nil
}

func TestCreate_Valid(t *testing.T) {
	repo := newFakeRepo()
	auditor := &recordingAuditor{}
	svc := NewService(repo, auditor)

	p, err := svc.Create(context.Background(), CreateInput{
		Name:        "Widget",
		BuyingPrice: types.MustMoney("10"),
		Quantity:    5,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if id.IsNil(p.ID) {
		t.Error("product must get an id")
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Error("timestamps must be set")
	}
	if len(auditor.actions) != 1 || auditor.actions[0] != "create" {
		t.Errorf("want one create audit entry, got %v", auditor.actions)
	}
}

func TestCreate_Invalid(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateInput
	}{
		{"empty name", CreateInput{Name: "  ", BuyingPrice: types.MustMoney("10"), Quantity: 1}},
		{"negative price", CreateInput{Name: "Widget", BuyingPrice: types.MustMoney("-1"), Quantity: 1}},
		{"negative quantity", CreateInput{Name: "Widget", BuyingPrice: types.MustMoney("10"), Quantity: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			appErr, ok := apperror.AsAppError(err)
			if !ok || appErr.Code != apperror.CodeValidation {
				t.Fatalf("want VALIDATION_ERROR, got %v", err)
			}
		})
	}
}

func TestCreate_DuplicateName(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{Name: "Widget", BuyingPrice: types.MustMoney("10"), Quantity: 1}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Case-insensitive match.
	_, err := svc.Create(ctx, CreateInput{Name: "widget", BuyingPrice: types.MustMoney("12"), Quantity: 2})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeDuplicate {
		t.Fatalf("want DUPLICATE_ENTRY, got %v", err)
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateInput{Name: "Widget", BuyingPrice: types.MustMoney("10"), Quantity: 5})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	newPrice := types.MustMoney("12")
	updated, err := svc.Update(ctx, p.ID, UpdateInput{BuyingPrice: &newPrice})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if !updated.BuyingPrice.Equal(newPrice) {
		t.Errorf("buying price must change, got %s", updated.BuyingPrice)
	}
	if updated.Name != "Widget" || updated.Quantity != 5 {
		t.Errorf("absent fields must keep their values, got %+v", updated)
	}
}

func TestUpdate_RenameToExistingName(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{Name: "Widget", BuyingPrice: types.MustMoney("10"), Quantity: 1}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	gadget, err := svc.Create(ctx, CreateInput{Name: "Gadget", BuyingPrice: types.MustMoney("20"), Quantity: 1})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	name := "WIDGET"
	_, err = svc.Update(ctx, gadget.ID, UpdateInput{Name: &name})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeDuplicate {
		t.Fatalf("want DUPLICATE_ENTRY, got %v", err)
	}
}

func TestUpdate_UnknownProduct(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	qty := 3
	_, err := svc.Update(context.Background(), id.New(), UpdateInput{Quantity: &qty})
	if !apperror.IsNotFound(err) {
		t.Fatalf("want NOT_FOUND, got %v", err)
	}
}

func TestDelete_ReturnsDeletedProduct(t *testing.T) {
	repo := newFakeRepo()
	auditor := &recordingAuditor{}
	svc := NewService(repo, auditor)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateInput{Name: "Widget", BuyingPrice: types.MustMoney("10"), Quantity: 5})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	deleted, err := svc.Delete(ctx, p.ID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if deleted.Name != "Widget" {
		t.Errorf("want deleted product back, got %+v", deleted)
	}
	if len(repo.products) != 0 {
		t.Error("product must be removed from the store")
	}

	_, err = svc.Delete(ctx, p.ID)
	if !apperror.IsNotFound(err) {
		t.Fatalf("second delete must be NOT_FOUND, got %v", err)
	}
}

func TestAudit_FailureNeverSurfaces(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &recordingAuditor{fail: true})

	if _, err := svc.Create(context.Background(), CreateInput{Name: "Widget", BuyingPrice: types.MustMoney("10"), Quantity: 5}); err != nil {
		t.Fatalf("audit failure must not fail the operation: %v", err)
	}
}
