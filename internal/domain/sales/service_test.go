package sales

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"testing"

	"shopledger/internal/core/apperror"
	"shopledger/internal/core/id"
	"shopledger/internal/core/types"
	"shopledger/internal/domain/product"
)

// memStore is an in-memory stand-in for the transactional row store.
// The tx manager serializes transactions on mu and restores a snapshot
// on rollback, mirroring the real store's atomicity guarantees.
type memStore struct {
	mu       sync.Mutex
	products map[id.ID]product.Product
	sales    []SaleEntry

	failInsert    error
	failDecrement error
	txCount       int
}

func newMemStore(products ...product.Product) *memStore {
	s := &memStore{products: make(map[id.ID]product.Product)}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

type memTxManager struct {
	s *memStore
}

func (m *memTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.txCount++

	snapProducts := maps.Clone(m.s.products)
	snapSales := slices.Clone(m.s.sales)

	if err := fn(ctx); err != nil {
		m.s.products = snapProducts
		m.s.sales = snapSales
		return err
	}
	return nil
}

// memProductRepo implements product.Repository against memStore.
// Repo methods run with the store lock held by the tx manager.
type memProductRepo struct {
	s *memStore
}

func (r *memProductRepo) List(ctx context.Context) ([]product.Product, error) {
	out := make([]product.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *memProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	p, ok := r.s.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	return &p, nil
}

func (r *memProductRepo) GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error) {
	return r.GetByID(ctx, productID)
}

func (r *memProductRepo) FindByName(ctx context.Context, name string) (*product.Product, error) {
	for _, p := range r.s.products {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, apperror.NewNotFound("product", name)
}

func (r *memProductRepo) Create(ctx context.Context, p *product.Product) error {
	r.s.products[p.ID] = *p
	return nil
}

func (r *memProductRepo) Update(ctx context.Context, p *product.Product) error {
	r.s.products[p.ID] = *p
	return nil
}

func (r *memProductRepo) DecrementStock(ctx context.Context, productID id.ID, qty int) error {
	if r.s.failDecrement != nil {
		return r.s.failDecrement
	}
	p := r.s.products[productID]
	p.Quantity -= qty
	r.s.products[productID] = p
	return nil
}

func (r *memProductRepo) Delete(ctx context.Context, productID id.ID) (*product.Product, error) {
	p, ok := r.s.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	delete(r.s.products, productID)
	return &p, nil
}

// memLedger implements Repository against memStore.
type memLedger struct {
	s *memStore
}

func (r *memLedger) Insert(ctx context.Context, entry *SaleEntry) error {
	if r.s.failInsert != nil {
		return r.s.failInsert
	}
	r.s.sales = append(r.s.sales, *entry)
	return nil
}

func (r *memLedger) List(ctx context.Context) ([]SaleEntry, error) {
	out := slices.Clone(r.s.sales)
	slices.Reverse(out)
	return out, nil
}

func newTestRecorder(s *memStore) *Recorder {
	return NewRecorder(&memLedger{s: s}, &memProductRepo{s: s}, &memTxManager{s: s})
}

func widget(qty int) product.Product {
	return product.Product{
		ID:          id.New(),
		Name:        "Widget",
		BuyingPrice: types.MustMoney("10"),
		Quantity:    qty,
	}
}

func TestRecord_ProfitSnapshotAndDecrement(t *testing.T) {
	w := widget(5)
	store := newMemStore(w)
	rec := newTestRecorder(store)

	entry, updated, err := rec.Record(context.Background(), RecordInput{
		ProductID:    w.ID,
		SellingPrice: types.MustMoney("15"),
		Quantity:     3,
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	if !entry.ProfitPerUnit.Equal(types.MustMoney("5")) {
		t.Errorf("profit per unit: want 5, got %s", entry.ProfitPerUnit)
	}
	if !entry.TotalProfit.Equal(types.MustMoney("15")) {
		t.Errorf("total profit: want 15, got %s", entry.TotalProfit)
	}
	if updated.Quantity != 2 {
		t.Errorf("remaining quantity: want 2, got %d", updated.Quantity)
	}
	if entry.SoldAt.IsZero() {
		t.Error("sold_at must be set")
	}
	if len(store.sales) != 1 {
		t.Fatalf("ledger entries: want 1, got %d", len(store.sales))
	}
}

func TestRecord_InsufficientStockLeavesStateUnchanged(t *testing.T) {
	w := widget(5)
	store := newMemStore(w)
	rec := newTestRecorder(store)
	ctx := context.Background()

	if _, _, err := rec.Record(ctx, RecordInput{ProductID: w.ID, SellingPrice: types.MustMoney("15"), Quantity: 3}); err != nil {
		t.Fatalf("first sale failed: %v", err)
	}

	_, _, err := rec.Record(ctx, RecordInput{ProductID: w.ID, SellingPrice: types.MustMoney("15"), Quantity: 10})
	if !apperror.IsInsufficientStock(err) {
		t.Fatalf("want INSUFFICIENT_STOCK, got %v", err)
	}

	if got := store.products[w.ID].Quantity; got != 2 {
		t.Errorf("stock must stay at 2, got %d", got)
	}
	if len(store.sales) != 1 {
		t.Errorf("ledger must keep 1 entry, got %d", len(store.sales))
	}
}

func TestRecord_UnknownProduct(t *testing.T) {
	store := newMemStore()
	rec := newTestRecorder(store)

	_, _, err := rec.Record(context.Background(), RecordInput{
		ProductID:    id.New(),
		SellingPrice: types.MustMoney("15"),
		Quantity:     1,
	})
	if !apperror.IsNotFound(err) {
		t.Fatalf("want NOT_FOUND, got %v", err)
	}
	if len(store.sales) != 0 {
		t.Error("no ledger entry may exist for an unknown product")
	}
}

func TestRecord_ValidationRejectsBeforeTransaction(t *testing.T) {
	w := widget(5)
	store := newMemStore(w)
	rec := newTestRecorder(store)
	ctx := context.Background()

	tests := []struct {
		name string
		in   RecordInput
	}{
		{"nil product id", RecordInput{SellingPrice: types.MustMoney("1"), Quantity: 1}},
		{"zero quantity", RecordInput{ProductID: w.ID, SellingPrice: types.MustMoney("1"), Quantity: 0}},
		{"negative quantity", RecordInput{ProductID: w.ID, SellingPrice: types.MustMoney("1"), Quantity: -2}},
		{"negative price", RecordInput{ProductID: w.ID, SellingPrice: types.MustMoney("-1"), Quantity: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := rec.Record(ctx, tt.in)
			appErr, ok := apperror.AsAppError(err)
			if !ok || appErr.Code != apperror.CodeValidation {
				t.Fatalf("want VALIDATION_ERROR, got %v", err)
			}
		})
	}

	if store.txCount != 0 {
		t.Errorf("validation failures must not open a transaction, got %d", store.txCount)
	}
}

func TestRecord_AtomicityOnDecrementFailure(t *testing.T) {
	w := widget(5)
	store := newMemStore(w)
	store.failDecrement = apperror.NewDatabase(errors.New("connection reset"))
	rec := newTestRecorder(store)

	_, _, err := rec.Record(context.Background(), RecordInput{
		ProductID:    w.ID,
		SellingPrice: types.MustMoney("15"),
		Quantity:     3,
	})
	if err == nil {
		t.Fatal("expected failure")
	}

	// Fault hit after the ledger insert: rollback must undo both sides.
	if len(store.sales) != 0 {
		t.Errorf("ledger must be empty after rollback, got %d entries", len(store.sales))
	}
	if got := store.products[w.ID].Quantity; got != 5 {
		t.Errorf("stock must be unchanged after rollback, got %d", got)
	}
}

func TestRecord_StorageFailureOnInsertRollsBack(t *testing.T) {
	w := widget(5)
	store := newMemStore(w)
	store.failInsert = apperror.NewDatabase(errors.New("statement timeout"))
	rec := newTestRecorder(store)

	_, _, err := rec.Record(context.Background(), RecordInput{
		ProductID:    w.ID,
		SellingPrice: types.MustMoney("15"),
		Quantity:     3,
	})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeDatabase {
		t.Fatalf("want DATABASE_ERROR, got %v", err)
	}
	if got := store.products[w.ID].Quantity; got != 5 {
		t.Errorf("stock must be unchanged, got %d", got)
	}
}

func TestRecord_CostBasisSurvivesPriceChange(t *testing.T) {
	w := widget(10)
	store := newMemStore(w)
	rec := newTestRecorder(store)
	ctx := context.Background()

	first, _, err := rec.Record(ctx, RecordInput{ProductID: w.ID, SellingPrice: types.MustMoney("15"), Quantity: 2})
	if err != nil {
		t.Fatalf("first sale failed: %v", err)
	}

	// Raise the buying price after the fact.
	p := store.products[w.ID]
	p.BuyingPrice = types.MustMoney("12")
	store.products[w.ID] = p

	if !store.sales[0].ProfitPerUnit.Equal(types.MustMoney("5")) {
		t.Errorf("historical profit must keep cost basis 10, got %s", store.sales[0].ProfitPerUnit)
	}
	if !first.TotalProfit.Equal(types.MustMoney("10")) {
		t.Errorf("historical total profit must stay 10, got %s", first.TotalProfit)
	}

	// A new sale uses the new cost basis.
	second, _, err := rec.Record(ctx, RecordInput{ProductID: w.ID, SellingPrice: types.MustMoney("15"), Quantity: 1})
	if err != nil {
		t.Fatalf("second sale failed: %v", err)
	}
	if !second.ProfitPerUnit.Equal(types.MustMoney("3")) {
		t.Errorf("new sale must use cost basis 12, got profit %s", second.ProfitPerUnit)
	}
}

func TestRecord_ConcurrentSalesSerialize(t *testing.T) {
	w := widget(5)
	store := newMemStore(w)
	rec := newTestRecorder(store)
	ctx := context.Background()

	// Combined quantity exceeds stock: exactly one call may win.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = rec.Record(ctx, RecordInput{
				ProductID:    w.ID,
				SellingPrice: types.MustMoney("15"),
				Quantity:     3,
			})
		}(i)
	}
	wg.Wait()

	var successes, shortfalls int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case apperror.IsInsufficientStock(err):
			shortfalls++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if successes != 1 || shortfalls != 1 {
		t.Fatalf("want exactly one success and one shortfall, got %d/%d", successes, shortfalls)
	}
	if got := store.products[w.ID].Quantity; got != 2 {
		t.Errorf("final stock: want 2, got %d", got)
	}
	if len(store.sales) != 1 {
		t.Errorf("ledger entries: want 1, got %d", len(store.sales))
	}
}

func TestList_NewestFirst(t *testing.T) {
	w := widget(10)
	store := newMemStore(w)
	rec := newTestRecorder(store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, _, err := rec.Record(ctx, RecordInput{ProductID: w.ID, SellingPrice: types.MustMoney("15"), Quantity: 1}); err != nil {
			t.Fatalf("sale %d failed: %v", i, err)
		}
	}

	entries, err := rec.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("want 3 entries, got %d", len(entries))
	}
	if entries[0].ID != store.sales[2].ID {
		t.Error("list must return newest entries first")
	}
}
