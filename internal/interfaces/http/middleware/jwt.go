package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/auth"
	"github.com/retailcore/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Context keys
const (
	CredentialKey = "auth_credential"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTAuthMiddleware validates the bearer token and stores the caller
// credential in the request context. Handlers never read the token again.
func JWTAuthMiddleware(jwtService *auth.JWTService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" || !strings.HasPrefix(header, BearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(shared.CodeUnauthenticated, "Missing or malformed authorization header"))
			return
		}

		cred, err := jwtService.ValidateToken(strings.TrimPrefix(header, BearerPrefix))
		if err != nil {
			logger.Debug("token rejected", zap.Error(err), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(shared.CodeUnauthenticated, "Invalid or expired token"))
			return
		}

		c.Set(CredentialKey, cred)
		c.Next()
	}
}

// GetCredential returns the caller credential stored by JWTAuthMiddleware
func GetCredential(c *gin.Context) (identity.Credential, bool) {
	value, exists := c.Get(CredentialKey)
	if !exists {
		return identity.Credential{}, false
	}
	cred, ok := value.(identity.Credential)
	return cred, ok
}
