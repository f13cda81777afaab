package errors

import (
	"fmt"
	"strings"

	"github.com/lunashop/storefront/internal/domain"
)

// ErrValidation carries the per-field error map for an invalid shipping form.
// It is surfaced inline per field, never as a top-level message.
type ErrValidation struct {
	Fields map[string]string
}

func (e *ErrValidation) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}

// ErrInvalidCartItem means one or more cart lines reference products the backend
// does not recognize. Submission is blocked before any network call.
type ErrInvalidCartItem struct {
	ProductIDs []string
}

func (e *ErrInvalidCartItem) Error() string {
	return "some products in your cart cannot be ordered"
}

// ErrBackendUnreachable means the commerce backend could not be reached at all
type ErrBackendUnreachable struct {
	Err error
}

func (e *ErrBackendUnreachable) Error() string {
	return fmt.Sprintf("backend unreachable: %v", e.Err)
}

func (e *ErrBackendUnreachable) Unwrap() error {
	return e.Err
}

// ErrBackendRejected means the backend answered with a non-2xx status. Message holds
// the server's own message when the response carried one.
type ErrBackendRejected struct {
	Status  int
	Message string
}

func (e *ErrBackendRejected) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request rejected with status %d", e.Status)
}

// ErrPaymentDeclined is reported by the payment-collection capability. The checkout
// stays at awaiting_payment_input; nothing is cleared.
type ErrPaymentDeclined struct {
	Kind    domain.PaymentErrorKind
	Message string
}

func (e *ErrPaymentDeclined) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("payment declined: %s", e.Kind)
}

// ErrPostChargeConfirmation means the charge succeeded but the confirm-payment call
// failed, leaving a paid-but-unconfirmed order. The ids are kept so the order can be
// reconciled out of band.
type ErrPostChargeConfirmation struct {
	OrderID         string
	PaymentIntentID string
	Err             error
}

func (e *ErrPostChargeConfirmation) Error() string {
	return fmt.Sprintf("payment captured but order %s could not be confirmed: %v", e.OrderID, e.Err)
}

func (e *ErrPostChargeConfirmation) Unwrap() error {
	return e.Err
}

// ErrInvalidStateTransition reports an operation issued in a checkout state that does
// not permit it
type ErrInvalidStateTransition struct {
	From domain.CheckoutState
	To   domain.CheckoutState
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid checkout state transition from %s to %s", e.From, e.To)
}
