package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnlyMiddleware checks the admin capability carried by the verified token.
// The claim is the source of truth: a demoted admin keeps the capability until
// the token expires. Must run after JWTAuthMiddleware.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentClaims(c) // Claims stored by JWTAuthMiddleware
		if !claims.IsAdmin {
			// Not an admin, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Acesso negado. Apenas administradores podem acessar este recurso."})
			return
		}
		c.Next() // Admin, proceed to the next handler
	}
}
