package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopledger/internal/core/apperror"
	"shopledger/internal/core/id"
	"shopledger/internal/domain/sales"
	"shopledger/internal/infrastructure/http/v1/dto"
)

// SalesHandler handles sale recording and ledger endpoints.
type SalesHandler struct {
	*BaseHandler
	recorder *sales.Recorder
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(base *BaseHandler, recorder *sales.Recorder) *SalesHandler {
	return &SalesHandler{
		BaseHandler: base,
		recorder:    recorder,
	}
}

// RegisterRoutes registers sales endpoints.
func (h *SalesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Record)
}

// Record handles POST /sales
func (h *SalesHandler) Record(c *gin.Context) {
	var req dto.RecordSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	// Binding already enforced a UUID shape.
	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id").WithDetail("product_id", req.ProductID))
		return
	}

	entry, p, err := h.recorder.Record(c.Request.Context(), sales.RecordInput{
		ProductID:    productID,
		SellingPrice: *req.SellingPrice,
		Quantity:     req.Quantity,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.RecordSaleResponse{
		Sale:    dto.FromSaleEntry(entry),
		Product: dto.FromProduct(p),
	})
}

// List handles GET /sales
func (h *SalesHandler) List(c *gin.Context) {
	entries, err := h.recorder.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSaleEntries(entries))
}
