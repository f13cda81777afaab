package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lunashop/storefront/internal/api/middleware"
	"github.com/lunashop/storefront/internal/cart"
	"github.com/lunashop/storefront/internal/checkout"
	"github.com/lunashop/storefront/internal/domain"
)

// AddItemRequest adds a product+variant to the cart
type AddItemRequest struct {
	Product  domain.Product `json:"product" binding:"required"`
	Quantity int            `json:"quantity" binding:"required,min=1"`
	Color    string         `json:"color"`
	Size     string         `json:"size"`
	ImageURL string         `json:"image_url"`
}

// UpdateQuantityRequest sets a line's quantity
type UpdateQuantityRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// RemoveItemRequest deletes a line from the cart
type RemoveItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

// CartResponse is the cart as the pages render it
type CartResponse struct {
	Items     []domain.CartLine `json:"items"`
	Subtotal  float64           `json:"subtotal"`
	ItemCount int               `json:"item_count"`
}

func cartResponse(c *cart.Store) CartResponse {
	return CartResponse{
		Items:     c.Lines(),
		Subtotal:  c.Subtotal(),
		ItemCount: c.ItemCount(),
	}
}

func requestCart(c *gin.Context, sessions *checkout.Manager) (*cart.Store, bool) {
	cartID, ok := middleware.GetCartIDFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing cart id"})
		return nil, false
	}
	return sessions.Cart(c.Request.Context(), cartID), true
}

// HandleGetCart handles GET /v1/cart
func HandleGetCart(sessions *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := requestCart(c, sessions)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, cartResponse(store))
	}
}

// HandleAddItem handles POST /v1/cart/items
func HandleAddItem(sessions *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		store, ok := requestCart(c, sessions)
		if !ok {
			return
		}

		store.AddItem(c.Request.Context(), req.Product, req.Quantity, req.Color, req.Size, req.ImageURL)
		c.JSON(http.StatusOK, cartResponse(store))
	}
}

// HandleUpdateQuantity handles PATCH /v1/cart/items/quantity
func HandleUpdateQuantity(sessions *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		store, ok := requestCart(c, sessions)
		if !ok {
			return
		}

		key := domain.VariantKey{ProductID: req.ProductID, Color: req.Color, Size: req.Size}
		store.UpdateQuantity(c.Request.Context(), key, req.Quantity)
		c.JSON(http.StatusOK, cartResponse(store))
	}
}

// HandleRemoveItem handles DELETE /v1/cart/items
func HandleRemoveItem(sessions *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RemoveItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		store, ok := requestCart(c, sessions)
		if !ok {
			return
		}

		key := domain.VariantKey{ProductID: req.ProductID, Color: req.Color, Size: req.Size}
		store.RemoveItem(c.Request.Context(), key)
		c.JSON(http.StatusOK, cartResponse(store))
	}
}

// HandleClearCart handles DELETE /v1/cart
func HandleClearCart(sessions *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := requestCart(c, sessions)
		if !ok {
			return
		}
		store.Clear(c.Request.Context())
		c.JSON(http.StatusOK, cartResponse(store))
	}
}
