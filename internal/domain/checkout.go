package domain

import "time"

// ShippingInfo holds the shipping/contact form fields. All are required.
type ShippingInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// Totals holds the client-computed checkout totals
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	Shipping   float64 `json:"shipping"`
	Tax        float64 `json:"tax"`
	GrandTotal float64 `json:"grand_total"`
}

// Order is the backend-created order reference held by the checkout session
type Order struct {
	ID            string        `json:"id"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	TotalAmount   float64       `json:"total_amount"`
	CreatedAt     time.Time     `json:"created_at"`
}

// PaymentIntent is the payment gateway's handle for one charge attempt
type PaymentIntent struct {
	ID           string `json:"payment_intent_id"`
	ClientSecret string `json:"client_secret"`
}

// PaymentResult is what the external payment-collection capability reports back
// after the user submits card details inside it
type PaymentResult struct {
	Status    PaymentResultStatus `json:"status"`
	ErrorKind PaymentErrorKind    `json:"error_kind,omitempty"`
	Message   string              `json:"message,omitempty"`
}
