package middleware

import (
	"net/http"
	"strings"

	"github.com/collabhub/backend/internal/models"
	"github.com/collabhub/backend/internal/services"
	"github.com/collabhub/backend/internal/utils"
	"github.com/gin-gonic/gin"
)

const contextActor = "actor"

// AuthRequired checks for a valid bearer token and stores the resulting
// Actor in the request context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "invalid or expired token"})
			c.Abort()
			return
		}

		role, ok := models.ParseRole(claims.Role)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "unknown role in token"})
			c.Abort()
			return
		}

		c.Set(contextActor, services.Actor{
			UserID:   claims.UserID,
			Username: claims.Username,
			Role:     role,
		})

		c.Next()
	}
}

// AdminRequired rejects callers whose token role is not admin. Ownership
// checks beyond the role gate live in the services.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActor(c)
		if !actor.Admin() {
			c.JSON(http.StatusForbidden, gin.H{"code": 403, "message": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetActor returns the authenticated caller for this request. Zero value
// when AuthRequired did not run.
func GetActor(c *gin.Context) services.Actor {
	if v, exists := c.Get(contextActor); exists {
		if actor, ok := v.(services.Actor); ok {
			return actor
		}
	}
	return services.Actor{}
}
