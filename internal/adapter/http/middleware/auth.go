package middleware

import (
	"strings"

	"usersphere/internal/adapter/http/helper"
	"usersphere/pkg/auth"

	"github.com/gin-gonic/gin"
)

// JwtAuthMiddleware guards a route group with bearer token checks. The
// verified identity is exposed to downstream handlers via context keys.
func JwtAuthMiddleware(jwtSvc *auth.JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := c.GetHeader("Authorization")

		if bearer == "" {
			helper.SendUnauthorizedError(c, "Unauthorized request")
			c.Abort()
			return
		}

		if !strings.HasPrefix(bearer, "Bearer ") {
			helper.SendUnauthorizedError(c, "Invalid authorization format")
			c.Abort()
			return
		}

		claims, err := jwtSvc.VerifyToken(bearer[len("Bearer "):])

		if err != nil {
			helper.SendUnauthorizedError(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("x-user-id", claims.UserID)
		c.Set("x-user-uuid", claims.UserUUID)

		current := GetCurrent(c)
		current.Set("user_id", claims.UserID)
		current.Set("user_uuid", claims.UserUUID)

		c.Next()
	}
}
