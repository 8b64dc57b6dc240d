package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"shopledger/internal/core/id"
	"shopledger/internal/core/timerange"
	"shopledger/internal/core/types"
	"shopledger/internal/domain/dashboard"
)

// fakeDashboardRepo records the last resolved range and metric and
// serves canned rows. Slices stay nil unless set.
type fakeDashboardRepo struct {
	lastRange  timerange.Range
	lastLimit  int
	lastMetric dashboard.Metric

	rows   []dashboard.ProductSales
	points []dashboard.TrendPoint
}

func (f *fakeDashboardRepo) Summary(ctx context.Context, rng timerange.Range) (*dashboard.Summary, error) {
	f.lastRange = rng
	return &dashboard.Summary{TotalProducts: 4}, nil
}

func (f *fakeDashboardRepo) TopProducts(ctx context.Context, rng timerange.Range, limit int) ([]dashboard.ProductSales, error) {
	f.lastRange, f.lastLimit = rng, limit
	return f.rows, nil
}

func (f *fakeDashboardRepo) LeastProducts(ctx context.Context, rng timerange.Range, limit int) ([]dashboard.ProductSales, error) {
	f.lastRange, f.lastLimit = rng, limit
	return f.rows, nil
}

func (f *fakeDashboardRepo) Trend(ctx context.Context, rng timerange.Range, metric dashboard.Metric) ([]dashboard.TrendPoint, error) {
	f.lastRange, f.lastMetric = rng, metric
	return f.points, nil
}

func newDashboardRouter(repo dashboard.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := NewDashboardHandler(NewBaseHandler(), dashboard.NewService(repo, passthroughTxManager{}))
	handler.RegisterRoutes(router.Group("/dashboard"))
	return router
}

func TestDashboardSummary_DefaultRange(t *testing.T) {
	repo := &fakeDashboardRepo{}
	router := newDashboardRouter(repo)

	w := doJSON(t, router, http.MethodGet, "/dashboard/summary", "")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}

	if repo.lastRange.Key != timerange.DefaultKey {
		t.Errorf("missing range param must resolve to %q, got %q", timerange.DefaultKey, repo.lastRange.Key)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// Money zeros serialize as strings, counts as numbers.
	if resp["total_revenue"] != "0" || resp["total_sold"] != float64(0) {
		t.Errorf("empty summary must be zero-valued, got %v", resp)
	}
	if resp["total_products"] != float64(4) {
		t.Errorf("total_products must pass through, got %v", resp["total_products"])
	}
}

func TestDashboardSummary_RangeParam(t *testing.T) {
	repo := &fakeDashboardRepo{}
	router := newDashboardRouter(repo)

	w := doJSON(t, router, http.MethodGet, "/dashboard/summary?range=1y", "")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	if repo.lastRange.Key != "1y" {
		t.Errorf("want range 1y, got %q", repo.lastRange.Key)
	}
}

func TestDashboardLeaderboards_LimitParam(t *testing.T) {
	repo := &fakeDashboardRepo{}
	router := newDashboardRouter(repo)

	w := doJSON(t, router, http.MethodGet, "/dashboard/top-products?limit=3", "")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	if repo.lastLimit != 3 {
		t.Errorf("want limit 3, got %d", repo.lastLimit)
	}

	// Out-of-range limits fall back to the default.
	w = doJSON(t, router, http.MethodGet, "/dashboard/least-products?limit=500", "")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	if repo.lastLimit != 10 {
		t.Errorf("want limit 10, got %d", repo.lastLimit)
	}
}

func TestDashboardLeaderboards_RowShape(t *testing.T) {
	repo := &fakeDashboardRepo{rows: []dashboard.ProductSales{
		{ProductID: id.New(), ProductName: "Widget", TotalSold: 7},
	}}
	router := newDashboardRouter(repo)

	w := doJSON(t, router, http.MethodGet, "/dashboard/top-products", "")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}

	var resp []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("want 1 row, got %d", len(resp))
	}
	row := resp[0]
	if _, ok := row["id"]; !ok {
		t.Errorf("rows must carry id, got %v", row)
	}
	if _, ok := row["product_id"]; ok {
		t.Errorf("rows must not carry product_id, got %v", row)
	}
	if row["product_name"] != "Widget" || row["total_sold"] != float64(7) {
		t.Errorf("row mismatch: %v", row)
	}
}

func TestDashboardTrends_PointShape(t *testing.T) {
	repo := &fakeDashboardRepo{points: []dashboard.TrendPoint{
		{Date: "2025-06", Value: types.MustMoney("12")},
	}}
	router := newDashboardRouter(repo)

	w := doJSON(t, router, http.MethodGet, "/dashboard/sales-trend", "")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	var units []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &units); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// Unit counts serialize as plain numbers.
	if len(units) != 1 || units[0]["date"] != "2025-06" || units[0]["total_sold"] != float64(12) {
		t.Errorf("sales-trend points must carry date and total_sold, got %v", units)
	}

	w = doJSON(t, router, http.MethodGet, "/dashboard/profit-trend", "")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	var profit []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &profit); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(profit) != 1 || profit[0]["date"] != "2025-06" || profit[0]["profit"] != "12" {
		t.Errorf("profit-trend points must carry date and profit, got %v", profit)
	}
}

func TestDashboard_EmptyResultsRenderArrays(t *testing.T) {
	// Repo slices stay nil; endpoints must still render [] rather than null.
	router := newDashboardRouter(&fakeDashboardRepo{})

	for _, path := range []string{
		"/dashboard/top-products",
		"/dashboard/least-products",
		"/dashboard/sales-trend",
		"/dashboard/profit-trend",
	} {
		w := doJSON(t, router, http.MethodGet, path, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s: want 200, got %d", path, w.Code)
		}
		if body := strings.TrimSpace(w.Body.String()); body != "[]" {
			t.Errorf("%s: want [], got %s", path, body)
		}
	}
}

func TestDashboardTrends_MetricPerEndpoint(t *testing.T) {
	repo := &fakeDashboardRepo{}
	router := newDashboardRouter(repo)

	w := doJSON(t, router, http.MethodGet, "/dashboard/sales-trend?range=all", "")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	if repo.lastMetric != dashboard.MetricUnits {
		t.Errorf("sales-trend must aggregate units, got %s", repo.lastMetric)
	}
	if !repo.lastRange.Unbounded {
		t.Error("range=all must resolve to the unbounded variant")
	}

	w = doJSON(t, router, http.MethodGet, "/dashboard/profit-trend", "")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	if repo.lastMetric != dashboard.MetricProfit {
		t.Errorf("profit-trend must aggregate profit, got %s", repo.lastMetric)
	}
}
