package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/retailcore/backend/internal/application/identity"
	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
)

// ShopHandler handles shop administration API endpoints
type ShopHandler struct {
	BaseHandler
	shopService *identityapp.ShopService
}

// NewShopHandler creates a new ShopHandler
func NewShopHandler(shopService *identityapp.ShopService) *ShopHandler {
	return &ShopHandler{shopService: shopService}
}

// RegisterRoutes registers shop routes on the given group
func (h *ShopHandler) RegisterRoutes(rg *gin.RouterGroup) {
	shops := rg.Group("/shops")
	{
		shops.GET("/:id", h.Get)
		shops.PATCH("/:id/active", h.SetActive)
	}
}

// SetShopActiveRequest represents a shop activation toggle
type SetShopActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// ShopResponse represents a shop in API responses
type ShopResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Active   bool   `json:"active"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"address,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

func toShopResponse(shop *identity.Shop) ShopResponse {
	return ShopResponse{
		ID:       shop.ID.String(),
		Code:     shop.Code,
		Name:     shop.Name,
		Active:   shop.Active,
		Phone:    shop.Phone,
		Email:    shop.Email,
		Address:  shop.Address,
		Timezone: shop.Timezone,
	}
}

// Get returns one shop by id. Non-superadmin callers can only read the shop
// they act for.
func (h *ShopHandler) Get(c *gin.Context) {
	cred, ok := middleware.GetCredential(c)
	if !ok {
		h.Forbidden(c, "No credential in request context")
		return
	}
	effectiveShopID, ok := middleware.GetShopID(c)
	if !ok {
		h.Forbidden(c, "No shop in request context")
		return
	}

	shopID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid shop ID format")
		return
	}

	shop, err := h.shopService.GetShop(c.Request.Context(), cred, effectiveShopID, shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toShopResponse(shop))
}

// SetActive toggles a shop's active flag. Superadmin only; the service
// rejects everyone else.
func (h *ShopHandler) SetActive(c *gin.Context) {
	cred, ok := middleware.GetCredential(c)
	if !ok {
		h.Forbidden(c, "No credential in request context")
		return
	}

	shopID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid shop ID format")
		return
	}

	var req SetShopActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	shop, err := h.shopService.SetShopActive(c.Request.Context(), cred, shopID, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toShopResponse(shop))
}
