package handlers

import (
	"github.com/gin-gonic/gin"

	"shopledger/internal/domain/dashboard"
	"shopledger/internal/infrastructure/http/v1/dto"
)

// DashboardHandler handles aggregation endpoints.
type DashboardHandler struct {
	*BaseHandler
	service *dashboard.Service
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(base *BaseHandler, service *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes registers dashboard endpoints.
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/summary", h.Summary)
	rg.GET("/top-products", h.TopProducts)
	rg.GET("/least-products", h.LeastProducts)
	rg.GET("/sales-trend", h.SalesTrend)
	rg.GET("/profit-trend", h.ProfitTrend)
}

// rangeKey reads the optional ?range= query parameter. The resolver
// maps empty and unknown keys to the default.
func rangeKey(c *gin.Context) string {
	return c.Query("range")
}

// Summary handles GET /dashboard/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), rangeKey(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSummary(summary))
}

// TopProducts handles GET /dashboard/top-products
func (h *DashboardHandler) TopProducts(c *gin.Context) {
	limit := h.ParseIntQuery(c, "limit", 0)
	rows, err := h.service.TopProducts(c.Request.Context(), rangeKey(c), limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProductSales(rows))
}

// LeastProducts handles GET /dashboard/least-products
func (h *DashboardHandler) LeastProducts(c *gin.Context) {
	limit := h.ParseIntQuery(c, "limit", 0)
	rows, err := h.service.LeastProducts(c.Request.Context(), rangeKey(c), limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProductSales(rows))
}

// SalesTrend handles GET /dashboard/sales-trend
func (h *DashboardHandler) SalesTrend(c *gin.Context) {
	points, err := h.service.Trend(c.Request.Context(), rangeKey(c), dashboard.MetricUnits)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSalesTrend(points))
}

// ProfitTrend handles GET /dashboard/profit-trend
func (h *DashboardHandler) ProfitTrend(c *gin.Context) {
	points, err := h.service.Trend(c.Request.Context(), rangeKey(c), dashboard.MetricProfit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProfitTrend(points))
}
