package checkout

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lunashop/storefront/internal/backend"
	"github.com/lunashop/storefront/internal/cart"
	"github.com/lunashop/storefront/internal/domain"
	apperrors "github.com/lunashop/storefront/pkg/errors"
)

// Backend is the slice of the commerce backend the checkout session needs
type Backend interface {
	CreateOrder(ctx context.Context, req backend.OrderRequest) (*domain.Order, error)
	CreatePaymentIntent(ctx context.Context, req backend.IntentRequest) (*domain.PaymentIntent, error)
	ConfirmPayment(ctx context.Context, paymentIntentID, orderID string) error
}

var ErrEmptyCart = errors.New("cart is empty")

// Session drives one checkout from form submission to a confirmed order. The order and
// payment intent are each created at most once per session no matter how often Submit
// re-fires: an existing value or an in-flight creation short-circuits re-entry. In-flight
// calls are never cancelled; whenever one lands its result is stored (last write wins).
//
// The cart is cleared exactly on entry to the confirmed state, and only there.
type Session struct {
	mu      sync.Mutex
	state   domain.CheckoutState
	cart    *cart.Store
	backend Backend
	pricing Pricing
	logger  *zap.Logger

	shipping    domain.ShippingInfo
	method      domain.PaymentMethod
	fieldErrors map[string]string
	errMessage  string

	order  *domain.Order
	intent *domain.PaymentIntent

	submitting     bool
	creatingOrder  bool
	creatingIntent bool
}

// Status is the session snapshot the pages render from
type Status struct {
	State           domain.CheckoutState `json:"state"`
	FieldErrors     map[string]string    `json:"field_errors,omitempty"`
	Error           string               `json:"error,omitempty"`
	Totals          domain.Totals        `json:"totals"`
	Order           *domain.Order        `json:"order,omitempty"`
	PaymentIntentID string               `json:"payment_intent_id,omitempty"`
	ClientSecret    string               `json:"client_secret,omitempty"`
	BillingDefaults *domain.ShippingInfo `json:"billing_defaults,omitempty"`
}

// NewSession creates an idle checkout session over the given cart
func NewSession(c *cart.Store, b Backend, pricing Pricing, logger *zap.Logger) *Session {
	return &Session{
		state:   domain.CheckoutStateIdle,
		cart:    c,
		backend: b,
		pricing: pricing,
		logger:  logger,
	}
}

// Submit runs the checkout for the given form data. For cash on delivery it creates the
// order and confirms immediately. For card it ensures an order and payment intent exist,
// then parks at awaiting_payment_input with the client secret for the payment widget.
// Submit is safe to call repeatedly with unchanged data.
func (s *Session) Submit(ctx context.Context, shipping domain.ShippingInfo, method domain.PaymentMethod) (Status, error) {
	s.mu.Lock()

	if s.state.IsTerminal() {
		err := &apperrors.ErrInvalidStateTransition{From: s.state, To: domain.CheckoutStateValidatingForm}
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, err
	}
	if !method.IsValid() {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, &apperrors.ErrBackendRejected{Status: 0, Message: "unsupported payment method"}
	}
	if s.cart.IsEmpty() {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, ErrEmptyCart
	}

	s.transitionLocked(domain.CheckoutStateValidatingForm)
	s.shipping = shipping
	s.method = method

	s.fieldErrors = ValidateShipping(shipping)
	if len(s.fieldErrors) > 0 {
		err := &apperrors.ErrValidation{Fields: s.fieldErrors}
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, err
	}
	s.errMessage = ""

	if ids := invalidLineIDs(s.cart.Lines()); len(ids) > 0 {
		err := &apperrors.ErrInvalidCartItem{ProductIDs: ids}
		s.failLocked(apperrors.UserMessage(err))
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, err
	}

	switch method {
	case domain.PaymentMethodCashOnDelivery:
		return s.submitCashOnDelivery(ctx)
	default:
		return s.submitCard(ctx)
	}
}

// submitCashOnDelivery creates the order and confirms in one step. Called with s.mu held.
func (s *Session) submitCashOnDelivery(ctx context.Context) (Status, error) {
	if s.submitting {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, nil
	}
	s.submitting = true
	s.transitionLocked(domain.CheckoutStateSubmitting)
	req := s.orderRequestLocked(domain.PaymentMethodCashOnDelivery, domain.PaymentStatusPending)
	s.mu.Unlock()

	order, err := s.backend.CreateOrder(ctx, req)

	s.mu.Lock()
	s.submitting = false
	if err != nil {
		s.failLocked(apperrors.UserMessage(err))
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, err
	}
	s.order = order
	s.confirmLocked(ctx)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	return snap, nil
}

// submitCard ensures the order and payment intent exist, each at most once, then parks
// at awaiting_payment_input. Called with s.mu held.
func (s *Session) submitCard(ctx context.Context) (Status, error) {
	if s.order == nil {
		if s.creatingOrder {
			// Another submission owns the in-flight call; its result will land
			snap := s.snapshotLocked()
			s.mu.Unlock()
			return snap, nil
		}
		s.creatingOrder = true
		s.transitionLocked(domain.CheckoutStateCreatingOrder)
		req := s.orderRequestLocked(domain.PaymentMethodCard, domain.PaymentStatusPending)
		s.mu.Unlock()

		order, err := s.backend.CreateOrder(ctx, req)

		s.mu.Lock()
		s.creatingOrder = false
		if err != nil {
			s.failLocked(apperrors.UserMessage(err))
			snap := s.snapshotLocked()
			s.mu.Unlock()
			return snap, err
		}
		s.order = order
	}

	if s.intent == nil {
		if s.creatingIntent {
			snap := s.snapshotLocked()
			s.mu.Unlock()
			return snap, nil
		}
		s.creatingIntent = true
		if s.state != domain.CheckoutStateCreatingOrder {
			s.transitionLocked(domain.CheckoutStateCreatingOrder)
		}
		s.transitionLocked(domain.CheckoutStateCreatingIntent)
		req := backend.IntentRequest{
			Amount:   s.pricing.Totals(s.cart.Subtotal()).GrandTotal,
			Currency: s.pricing.Currency,
			OrderID:  s.order.ID,
		}
		s.mu.Unlock()

		intent, err := s.backend.CreatePaymentIntent(ctx, req)

		s.mu.Lock()
		s.creatingIntent = false
		if err != nil {
			s.failLocked(apperrors.UserMessage(err))
			snap := s.snapshotLocked()
			s.mu.Unlock()
			return snap, err
		}
		s.intent = intent
	}

	s.transitionLocked(domain.CheckoutStateAwaitingPaymentInput)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	return snap, nil
}

// CompletePayment takes the payment widget's result. A decline keeps the session at
// awaiting_payment_input with the message surfaced. On success the payment is confirmed
// with the backend; only then is the cart cleared and the checkout confirmed. A confirm
// failure after a successful charge does not clear the cart: the order and intent ids
// are kept for out-of-band reconciliation.
func (s *Session) CompletePayment(ctx context.Context, result domain.PaymentResult) (Status, error) {
	s.mu.Lock()

	if s.state != domain.CheckoutStateAwaitingPaymentInput || s.order == nil || s.intent == nil {
		err := &apperrors.ErrInvalidStateTransition{From: s.state, To: domain.CheckoutStateConfirmingPayment}
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, err
	}

	if result.Status != domain.PaymentResultSucceeded {
		declined := &apperrors.ErrPaymentDeclined{Kind: result.ErrorKind, Message: result.Message}
		s.errMessage = apperrors.UserMessage(declined)
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, declined
	}

	s.transitionLocked(domain.CheckoutStateConfirmingPayment)
	intentID := s.intent.ID
	orderID := s.order.ID
	s.mu.Unlock()

	err := s.backend.ConfirmPayment(ctx, intentID, orderID)

	s.mu.Lock()
	if err != nil {
		confErr := &apperrors.ErrPostChargeConfirmation{OrderID: orderID, PaymentIntentID: intentID, Err: err}
		s.logger.Error("Payment captured but confirmation failed, order needs reconciliation",
			zap.String("order_id", orderID),
			zap.String("payment_intent_id", intentID),
			zap.Error(err),
		)
		s.failLocked(apperrors.UserMessage(confErr))
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, confErr
	}

	s.confirmLocked(ctx)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	return snap, nil
}

// Status returns the current session snapshot for the pages to render
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// confirmLocked enters the terminal confirmed state and clears the cart. This is the
// only place the cart is ever cleared.
func (s *Session) confirmLocked(ctx context.Context) {
	s.cart.Clear(ctx)
	s.transitionLocked(domain.CheckoutStateConfirmed)
	s.logger.Info("Checkout confirmed",
		zap.String("order_id", s.order.ID),
		zap.String("payment_method", string(s.method)),
	)
}

func (s *Session) failLocked(message string) {
	s.errMessage = message
	s.transitionLocked(domain.CheckoutStateFailed)
}

func (s *Session) transitionLocked(next domain.CheckoutState) {
	if !s.state.CanTransitionTo(next) && s.state != next {
		s.logger.Warn("Unexpected checkout state transition",
			zap.String("from", s.state.String()),
			zap.String("to", next.String()),
		)
	}
	s.state = next
}

func (s *Session) snapshotLocked() Status {
	snap := Status{
		State:  s.state,
		Error:  s.errMessage,
		Totals: s.pricing.Totals(s.cart.Subtotal()),
		Order:  s.order,
	}
	if len(s.fieldErrors) > 0 {
		snap.FieldErrors = make(map[string]string, len(s.fieldErrors))
		for k, v := range s.fieldErrors {
			snap.FieldErrors[k] = v
		}
	}
	if s.intent != nil {
		snap.PaymentIntentID = s.intent.ID
		snap.ClientSecret = s.intent.ClientSecret
		billing := s.shipping
		snap.BillingDefaults = &billing
	}
	return snap
}

// orderRequestLocked assembles the order-creation payload from the cart and form
func (s *Session) orderRequestLocked(method domain.PaymentMethod, status domain.PaymentStatus) backend.OrderRequest {
	lines := s.cart.Lines()
	items := make([]backend.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, backend.OrderItem{
			Product:  l.ProductID,
			Quantity: l.Quantity,
			Price:    l.UnitPrice,
			Color:    l.Color,
			Size:     l.Size,
		})
	}

	totals := s.pricing.Totals(s.cart.Subtotal())

	return backend.OrderRequest{
		Customer: backend.CustomerInfo{
			Name:  s.shipping.Name,
			Email: s.shipping.Email,
			Phone: s.shipping.Phone,
		},
		Items: items,
		ShippingAddress: backend.ShippingAddress{
			Address: s.shipping.Address,
			City:    s.shipping.City,
			Zip:     s.shipping.Zip,
		},
		PaymentMethod: method,
		PaymentStatus: status,
		TotalAmount:   totals.GrandTotal,
		ShippingCost:  totals.Shipping,
		Tax:           totals.Tax,
	}
}

// invalidLineIDs returns the product ids of lines the backend cannot recognize, such as
// items added from a demo catalog
func invalidLineIDs(lines []domain.CartLine) []string {
	var ids []string
	for _, l := range lines {
		if _, err := uuid.Parse(l.ProductID); err != nil {
			ids = append(ids, l.ProductID)
		}
	}
	return ids
}
