package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fixlyhq/fixly-api/internal/auth"
	"github.com/fixlyhq/fixly-api/internal/models"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxUserID    = "userID"
	CtxUserRole  = "userRole"
	CtxUserEmail = "userEmail"
)

// Auth validates the bearer token and stashes the caller's identity in the
// gin context.
func Auth(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.Validate(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(CtxUserID, claims.ID)
		c.Set(CtxUserRole, claims.Role)
		c.Set(CtxUserEmail, claims.Email)

		c.Next()
	}
}

// RequireRole gates a route to the given roles. It runs after Auth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		val, exists := c.Get(CtxUserRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}
		role, _ := val.(models.Role)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
	}
}
