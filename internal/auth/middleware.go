package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthRequired is a Gin middleware that validates JWT from Authorization: Bearer <token>
func AuthRequired(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing Authorization header",
			})
			return
		}

		if !authenticate(c, jwtManager, header) {
			return
		}
		c.Next()
	}
}

// OptionalAuth lets anonymous requests through. A request that does send a
// token must send a valid one.
func OptionalAuth(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header != "" && !authenticate(c, jwtManager, header) {
			return
		}
		c.Next()
	}
}

// authenticate stores the principal from the header, or aborts the request.
func authenticate(c *gin.Context, jwtManager *JWTManager, header string) bool {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return false
	}

	claims, err := jwtManager.ParseAndValidate(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return false
	}

	// Store user info into Gin context for later handlers.
	c.Set(principalKey, principalFromClaims(claims))
	return true
}
