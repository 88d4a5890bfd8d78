package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/retailcore/backend/internal/application/inventory"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
)

// StockHandler handles stock adjustment API endpoints
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// RegisterRoutes registers stock routes on the given group
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.POST("/:id/stock/adjust", h.Adjust)
		products.GET("/:id/stock/movements", h.ListMovements)
	}
}

// AdjustStockRequest represents a stock adjustment submission
type AdjustStockRequest struct {
	Operation       string `json:"operation" binding:"required,oneof=add subtract set"`
	Quantity        int64  `json:"quantity" binding:"gte=0"`
	ReferenceID     string `json:"reference_id" binding:"max=100"`
	ReferenceNumber string `json:"reference_number" binding:"max=100"`
	Notes           string `json:"notes" binding:"max=2000"`
}

// ProductStockResponse represents a product's stock state after an adjustment
type ProductStockResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Stock     int64  `json:"stock"`
	UpdatedAt string `json:"updated_at"`
}

// StockMovementResponse represents one stock movement record
type StockMovementResponse struct {
	ID              string `json:"id"`
	ProductID       string `json:"product_id"`
	Type            string `json:"type"`
	Quantity        int64  `json:"quantity"`
	PreviousStock   int64  `json:"previous_stock"`
	NewStock        int64  `json:"new_stock"`
	ReferenceID     string `json:"reference_id,omitempty"`
	ReferenceNumber string `json:"reference_number,omitempty"`
	Notes           string `json:"notes,omitempty"`
	OccurredAt      string `json:"occurred_at"`
}

// Adjust applies an add, subtract or set operation to a product's stock
func (h *StockHandler) Adjust(c *gin.Context) {
	shopID, ok := middleware.GetShopID(c)
	if !ok {
		h.Forbidden(c, "No shop in request context")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.stockService.AdjustStock(c.Request.Context(), shopID, inventoryapp.AdjustStockRequest{
		ProductID:       productID,
		Operation:       inventory.AdjustOperation(req.Operation),
		Quantity:        req.Quantity,
		ReferenceID:     req.ReferenceID,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ProductStockResponse{
		ID:        product.ID.String(),
		Name:      product.Name,
		Stock:     product.Stock,
		UpdatedAt: formatTime(product.UpdatedAt),
	})
}

// ListMovements returns a product's stock movement records, newest first
func (h *StockHandler) ListMovements(c *gin.Context) {
	shopID, ok := middleware.GetShopID(c)
	if !ok {
		h.Forbidden(c, "No shop in request context")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	movements, err := h.stockService.ListMovements(c.Request.Context(), shopID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, StockMovementResponse{
			ID:              m.ID.String(),
			ProductID:       m.ProductID.String(),
			Type:            string(m.Type),
			Quantity:        m.Quantity,
			PreviousStock:   m.PreviousStock,
			NewStock:        m.NewStock,
			ReferenceID:     m.ReferenceID,
			ReferenceNumber: m.ReferenceNumber,
			Notes:           m.Notes,
			OccurredAt:      formatTime(m.OccurredAt),
		})
	}
	h.Success(c, items)
}
