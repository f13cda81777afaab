package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const cartIDKey = "cart_id"

// CartIDHeader identifies the customer's cart across requests. The storefront
// generates it once and sends it with every call.
const CartIDHeader = "X-Cart-ID"

// CartIDMiddleware requires a valid cart id header on every request
func CartIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(CartIDHeader)
		id, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing or invalid " + CartIDHeader + " header"})
			return
		}

		c.Set(cartIDKey, id.String())
		c.Next()
	}
}

// GetCartIDFromContext returns the cart id set by CartIDMiddleware
func GetCartIDFromContext(c *gin.Context) (string, bool) {
	id, ok := c.Get(cartIDKey)
	if !ok {
		return "", false
	}
	s, ok := id.(string)
	return s, ok
}
