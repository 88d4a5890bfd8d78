package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/interfaces/http/dto"
)

// ShopIDKey is the context key for the effective shop id
const ShopIDKey = "effective_shop_id"

// shopIDParam is the query parameter a SUPER_ADMIN uses to view another shop
const shopIDParam = "shopId"

// TenantMiddleware resolves the effective shop for the request. Regular
// callers always act as their home shop; a SUPER_ADMIN may select any shop
// through the shopId query parameter. The resolved id is the only tenant
// handlers trust, body-supplied values are ignored.
func TenantMiddleware(guard *identity.TenantGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		cred, ok := GetCredential(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(shared.CodeUnauthenticated, "No credential on request"))
			return
		}

		var requested uuid.UUID
		if raw := c.Query(shopIDParam); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest,
					dto.NewErrorResponse(dto.ErrCodeBadRequest, "shopId must be a UUID"))
				return
			}
			requested = parsed
		}

		shopID, err := guard.ResolveShop(cred, requested)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(shared.CodeUnauthenticated, "No resolvable shop for caller"))
			return
		}

		c.Set(ShopIDKey, shopID)
		c.Next()
	}
}

// GetShopID returns the effective shop id stored by TenantMiddleware
func GetShopID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(ShopIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
