package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"causelist/pkg/auth"
)

// jwtAuthMiddleware requires an HS256 bearer token signed with secret.
func jwtAuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		claims, err := auth.ParseToken(secret, authHeader[7:])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		c.Set("subject", claims.Subject)
		c.Next()
	}
}
