package middleware

import (
	"strings"

	"student-data-system/internal/global/jwt"
	"student-data-system/internal/global/response"
	"student-data-system/internal/model"

	"github.com/gin-gonic/gin"
)

// Auth verifies the bearer token and requires at least minRole. ADMIN
// passes every gate; STUDENT only passes RoleStudent gates. The parsed
// claims are stored under "payload" for handlers.
func Auth(minRole model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		payload, valid := jwt.ParseToken(token)
		if !valid {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}
		if minRole == model.RoleAdmin && payload.Role != model.RoleAdmin {
			response.Fail(c, response.ErrForbidden)
			c.Abort()
			return
		}
		c.Set("payload", payload)
		c.Next()
	}
}
