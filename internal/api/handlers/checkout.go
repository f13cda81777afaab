package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lunashop/storefront/internal/api/middleware"
	"github.com/lunashop/storefront/internal/checkout"
	"github.com/lunashop/storefront/internal/domain"
	apperrors "github.com/lunashop/storefront/pkg/errors"
)

// SubmitRequest runs the checkout for the current cart
type SubmitRequest struct {
	Shipping      domain.ShippingInfo  `json:"shipping"`
	PaymentMethod domain.PaymentMethod `json:"payment_method" binding:"required"`
}

// PaymentResultRequest is the payment widget's callback payload
type PaymentResultRequest struct {
	Status    domain.PaymentResultStatus `json:"status" binding:"required"`
	ErrorKind domain.PaymentErrorKind    `json:"error_kind"`
	Message   string                     `json:"message"`
}

// CheckoutResponse wraps the session snapshot for the pages
type CheckoutResponse struct {
	Checkout checkout.Status `json:"checkout"`
}

func requestSession(c *gin.Context, sessions *checkout.Manager) (*checkout.Session, bool) {
	cartID, ok := middleware.GetCartIDFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing cart id"})
		return nil, false
	}
	return sessions.Session(c.Request.Context(), cartID), true
}

// HandleSubmit handles POST /v1/checkout/submit
func HandleSubmit(sessions *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubmitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		session, ok := requestSession(c, sessions)
		if !ok {
			return
		}

		status, err := session.Submit(c.Request.Context(), req.Shipping, req.PaymentMethod)
		if err != nil {
			writeCheckoutError(c, logger, status, err)
			return
		}

		c.JSON(http.StatusOK, CheckoutResponse{Checkout: status})
	}
}

// HandlePaymentResult handles POST /v1/checkout/payment-result
func HandlePaymentResult(sessions *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PaymentResultRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		session, ok := requestSession(c, sessions)
		if !ok {
			return
		}

		result := domain.PaymentResult{
			Status:    req.Status,
			ErrorKind: req.ErrorKind,
			Message:   req.Message,
		}
		status, err := session.CompletePayment(c.Request.Context(), result)
		if err != nil {
			writeCheckoutError(c, logger, status, err)
			return
		}

		c.JSON(http.StatusOK, CheckoutResponse{Checkout: status})
	}
}

// HandleCheckoutStatus handles GET /v1/checkout/status
func HandleCheckoutStatus(sessions *checkout.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := requestSession(c, sessions)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, CheckoutResponse{Checkout: session.Status()})
	}
}

// writeCheckoutError maps checkout core errors onto HTTP statuses. The session
// snapshot rides along so the page always renders the current state.
func writeCheckoutError(c *gin.Context, logger *zap.Logger, status checkout.Status, err error) {
	var (
		validation   *apperrors.ErrValidation
		invalidItem  *apperrors.ErrInvalidCartItem
		unreachable  *apperrors.ErrBackendUnreachable
		rejected     *apperrors.ErrBackendRejected
		declined     *apperrors.ErrPaymentDeclined
		confirmation *apperrors.ErrPostChargeConfirmation
		transition   *apperrors.ErrInvalidStateTransition
	)

	body := gin.H{"checkout": status, "error": apperrors.UserMessage(err)}

	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"checkout": status, "error": "cart is empty"})
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"checkout": status, "field_errors": validation.Fields})
	case errors.As(err, &invalidItem):
		body["invalid_products"] = invalidItem.ProductIDs
		c.JSON(http.StatusUnprocessableEntity, body)
	case errors.As(err, &unreachable):
		c.JSON(http.StatusBadGateway, body)
	case errors.As(err, &rejected):
		c.JSON(http.StatusBadGateway, body)
	case errors.As(err, &declined):
		c.JSON(http.StatusPaymentRequired, body)
	case errors.As(err, &confirmation):
		c.JSON(http.StatusBadGateway, body)
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, body)
	default:
		logger.Error("Checkout failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, body)
	}
}
