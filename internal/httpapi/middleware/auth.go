package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sarafernandess/ifocus-app/internal/auth"
	"github.com/sarafernandess/ifocus-app/internal/common"
)

const (
	UserIDKey = "auth.user_id"
	RoleKey   = "auth.role"
)

// AuthRequired verifies the identity provider's bearer token and exposes
// the verified user id to handlers. The engine performs no further
// authentication; the id is trusted as-is.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			common.Fail(c, http.StatusUnauthorized, 40100, "missing bearer token")
			c.Abort()
			return
		}
		userID, role, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			common.Fail(c, http.StatusUnauthorized, 40100, "invalid token")
			c.Abort()
			return
		}
		c.Set(UserIDKey, userID)
		c.Set(RoleKey, role)
		c.Next()
	}
}

// AdminRequired gates the catalog admin surface on the provider-issued
// admin capability.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, _ := c.Get(RoleKey); role != "admin" {
			common.Fail(c, http.StatusUnauthorized, 40101, "admin capability required")
			c.Abort()
			return
		}
		c.Next()
	}
}
