package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "authUserID"

// Middleware authenticates requests via the Authorization Bearer header and
// stores the caller identity in the gin context.
func Middleware(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		userID, err := v.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(identityKey, userID)
		c.Next()
	}
}

// CallerID returns the authenticated user ID stored by Middleware, or an
// empty string when the request is unauthenticated.
func CallerID(c *gin.Context) string {
	return c.GetString(identityKey)
}
