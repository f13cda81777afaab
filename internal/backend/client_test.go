package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lunashop/storefront/internal/config"
	"github.com/lunashop/storefront/internal/domain"
	apperrors "github.com/lunashop/storefront/pkg/errors"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.BackendConfig{BaseURL: baseURL}, zap.NewNop())
}

func orderRequest() OrderRequest {
	return OrderRequest{
		Customer: CustomerInfo{Name: "Lina Osman", Email: "lina@example.com", Phone: "+962790000000"},
		Items: []OrderItem{
			{Product: "p1", Quantity: 2, Price: 25, Color: "red", Size: "M"},
		},
		ShippingAddress: ShippingAddress{Address: "12 Harbor St", City: "Amman", Zip: "11181"},
		PaymentMethod:   domain.PaymentMethodCard,
		PaymentStatus:   domain.PaymentStatusPending,
		TotalAmount:     65,
		ShippingCost:    10,
		Tax:             5,
	}
}

func TestCreateOrder_Success(t *testing.T) {
	var got OrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":             "ord-123",
			"payment_method": "card",
			"payment_status": "pending",
			"total_amount":   65,
		})
	}))
	defer srv.Close()

	order, err := newTestClient(srv.URL).CreateOrder(context.Background(), orderRequest())

	require.NoError(t, err)
	assert.Equal(t, "ord-123", order.ID)
	assert.Equal(t, domain.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, domain.PaymentMethodCard, got.PaymentMethod)
	assert.Equal(t, 65.0, got.TotalAmount)
}

func TestCreateOrder_ServerRejectedWithMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message": "product out of stock"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateOrder(context.Background(), orderRequest())

	var rejected *apperrors.ErrBackendRejected
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusUnprocessableEntity, rejected.Status)
	assert.Equal(t, "product out of stock", rejected.Message)
}

func TestCreateOrder_ServerRejectedErrorFieldFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "internal error"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateOrder(context.Background(), orderRequest())

	var rejected *apperrors.ErrBackendRejected
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "internal error", rejected.Message)
}

func TestCreateOrder_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	_, err := newTestClient(srv.URL).CreateOrder(context.Background(), orderRequest())

	var unreachable *apperrors.ErrBackendUnreachable
	assert.ErrorAs(t, err, &unreachable)
}

func TestCreatePaymentIntent_Success(t *testing.T) {
	var got IntentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/intent", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"payment_intent_id": "pi-9", "client_secret": "pi-9-secret"}`))
	}))
	defer srv.Close()

	intent, err := newTestClient(srv.URL).CreatePaymentIntent(context.Background(), IntentRequest{
		Amount:   65,
		Currency: "usd",
		OrderID:  "ord-123",
	})

	require.NoError(t, err)
	assert.Equal(t, "pi-9", intent.ID)
	assert.Equal(t, "pi-9-secret", intent.ClientSecret)
	assert.Equal(t, "ord-123", got.OrderID)
	assert.Equal(t, 65.0, got.Amount)
}

func TestConfirmPayment_SendsIntentAndOrderIDs(t *testing.T) {
	var got ConfirmRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/confirm", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).ConfirmPayment(context.Background(), "pi-9", "ord-123")

	require.NoError(t, err)
	assert.Equal(t, "pi-9", got.PaymentIntentID)
	assert.Equal(t, "ord-123", got.OrderID)
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)
		w.Write([]byte(`{"id": "ord-1"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL + "/").CreateOrder(context.Background(), orderRequest())
	assert.NoError(t, err)
}
