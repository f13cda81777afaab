package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lunashop/storefront/internal/config"
	"github.com/lunashop/storefront/internal/domain"
	apperrors "github.com/lunashop/storefront/pkg/errors"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the commerce backend REST API
func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// OrderRequest is the payload for the order-creation endpoint
type OrderRequest struct {
	Customer        CustomerInfo         `json:"customer"`
	Items           []OrderItem          `json:"items"`
	ShippingAddress ShippingAddress      `json:"shipping_address"`
	PaymentMethod   domain.PaymentMethod `json:"payment_method"`
	PaymentStatus   domain.PaymentStatus `json:"payment_status"`
	TotalAmount     float64              `json:"total_amount"`
	ShippingCost    float64              `json:"shipping_cost"`
	Tax             float64              `json:"tax"`
}

type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type OrderItem struct {
	Product  string  `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Color    string  `json:"color,omitempty"`
	Size     string  `json:"size,omitempty"`
}

type ShippingAddress struct {
	Address string `json:"address"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
}

// IntentRequest is the payload for the payment-intent creation endpoint
type IntentRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	OrderID  string  `json:"order_id"`
}

// ConfirmRequest is the payload for the payment confirmation endpoint
type ConfirmRequest struct {
	PaymentIntentID string `json:"payment_intent_id"`
	OrderID         string `json:"order_id"`
}

// CreateOrder issues one order-creation call and returns the server-created order
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*domain.Order, error) {
	var order domain.Order
	if err := c.post(ctx, "/orders", req, &order); err != nil {
		return nil, err
	}

	c.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("payment_method", string(req.PaymentMethod)),
		zap.Float64("total_amount", req.TotalAmount),
	)
	return &order, nil
}

// CreatePaymentIntent requests a payment intent sized to the checkout grand total
func (c *Client) CreatePaymentIntent(ctx context.Context, req IntentRequest) (*domain.PaymentIntent, error) {
	var intent domain.PaymentIntent
	if err := c.post(ctx, "/payments/intent", req, &intent); err != nil {
		return nil, err
	}

	c.logger.Info("Payment intent created",
		zap.String("payment_intent_id", intent.ID),
		zap.String("order_id", req.OrderID),
	)
	return &intent, nil
}

// ConfirmPayment marks the order paid after a successful charge
func (c *Client) ConfirmPayment(ctx context.Context, paymentIntentID, orderID string) error {
	req := ConfirmRequest{PaymentIntentID: paymentIntentID, OrderID: orderID}
	if err := c.post(ctx, "/payments/confirm", req, nil); err != nil {
		return err
	}

	c.logger.Info("Payment confirmed",
		zap.String("payment_intent_id", paymentIntentID),
		zap.String("order_id", orderID),
	)
	return nil
}

// errorBody is the message payload the backend returns on 4xx/5xx
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport-level failure: the backend never answered
		return &apperrors.ErrBackendUnreachable{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rejected := &apperrors.ErrBackendRejected{Status: resp.StatusCode}
		var eb errorBody
		if err := json.Unmarshal(body, &eb); err == nil {
			if eb.Message != "" {
				rejected.Message = eb.Message
			} else if eb.Error != "" {
				rejected.Message = eb.Error
			}
		}
		c.logger.Warn("Backend rejected request",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", rejected.Message),
		)
		return rejected
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
