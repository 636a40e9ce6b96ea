package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/radmosaic/rostergen-api/internal/models"
	"github.com/radmosaic/rostergen-api/internal/service"
	appErrors "github.com/radmosaic/rostergen-api/pkg/errors"
	"github.com/radmosaic/rostergen-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// JWT protects routes by requiring a valid access token.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// RequireScheduler blocks requests whose token lacks the scheduler role.
// Must run after JWT.
func RequireScheduler() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, ok := c.Get(ContextUserKey)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, ok := value.(*models.JWTClaims)
		if !ok || claims.Role != models.RoleScheduler {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "scheduler role required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
