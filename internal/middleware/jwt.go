package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"bolso_aberto/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// ClaimsKey is the gin context key under which the verified claims are stored
const ClaimsKey = "claims"

// JWTAuthMiddleware validates JWT tokens and extracts the user identity.
// A missing token is 401, a token that fails verification is 403.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token não fornecido"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string and parse it
		claims, err := utils.ParseJWT(tokenStr, secret)       // Parse the JWT token
		if err != nil {
			// Signature or expiry check failed
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Token inválido"})
			return
		}
		c.Set(ClaimsKey, claims) // Store verified claims in context
		c.Next()                 // Proceed to the next handler
	}
}

// CurrentClaims returns the verified claims stored by JWTAuthMiddleware
func CurrentClaims(c *gin.Context) *utils.Claims {
	return c.MustGet(ClaimsKey).(*utils.Claims)
}
