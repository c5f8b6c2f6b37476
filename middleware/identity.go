package middleware

import (
	"github.com/gin-gonic/gin"
)

// Identity stores the authenticated caller's resolved details
type Identity struct {
	UserID uint
	Email  string
}

// GetIdentity returns the identity stored by AuthMiddleware, if any
func GetIdentity(c *gin.Context) (Identity, bool) {
	val, exists := c.Get("identity")
	if !exists {
		return Identity{}, false
	}
	ident, ok := val.(Identity)
	return ident, ok
}
