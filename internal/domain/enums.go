package domain

// PaymentMethod represents how the customer pays for an order
type PaymentMethod string

const (
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodCard           PaymentMethod = "card"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCashOnDelivery || m == PaymentMethodCard
}

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// PaymentResultStatus is the outcome reported by the payment-collection capability
type PaymentResultStatus string

const (
	PaymentResultSucceeded PaymentResultStatus = "succeeded"
	PaymentResultFailed    PaymentResultStatus = "failed"
)

// PaymentErrorKind classifies a failed payment collection attempt
type PaymentErrorKind string

const (
	PaymentErrorCard       PaymentErrorKind = "card_error"
	PaymentErrorValidation PaymentErrorKind = "validation_error"
	PaymentErrorUnexpected PaymentErrorKind = "unexpected"
)

// CheckoutState represents where a checkout session is in its lifecycle
type CheckoutState string

const (
	CheckoutStateIdle                 CheckoutState = "idle"
	CheckoutStateValidatingForm       CheckoutState = "validating_form"
	CheckoutStateSubmitting           CheckoutState = "submitting"
	CheckoutStateCreatingOrder        CheckoutState = "creating_order"
	CheckoutStateCreatingIntent       CheckoutState = "creating_intent"
	CheckoutStateAwaitingPaymentInput CheckoutState = "awaiting_payment_input"
	CheckoutStateConfirmingPayment    CheckoutState = "confirming_payment"
	CheckoutStateConfirmed            CheckoutState = "confirmed"
	CheckoutStateFailed               CheckoutState = "failed"
)

// IsTerminal reports whether the checkout reached its final state. Failed is not
// terminal: the user may correct input and resubmit.
func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutStateConfirmed
}

// CanTransitionTo checks if a state transition is valid
func (s CheckoutState) CanTransitionTo(next CheckoutState) bool {
	switch s {
	case CheckoutStateIdle:
		return next == CheckoutStateValidatingForm
	case CheckoutStateValidatingForm:
		return next == CheckoutStateValidatingForm ||
			next == CheckoutStateSubmitting ||
			next == CheckoutStateCreatingOrder ||
			next == CheckoutStateAwaitingPaymentInput ||
			next == CheckoutStateFailed
	case CheckoutStateSubmitting:
		return next == CheckoutStateConfirmed || next == CheckoutStateFailed
	case CheckoutStateCreatingOrder:
		return next == CheckoutStateCreatingIntent || next == CheckoutStateFailed
	case CheckoutStateCreatingIntent:
		return next == CheckoutStateAwaitingPaymentInput || next == CheckoutStateFailed
	case CheckoutStateAwaitingPaymentInput:
		return next == CheckoutStateAwaitingPaymentInput ||
			next == CheckoutStateConfirmingPayment ||
			next == CheckoutStateValidatingForm ||
			next == CheckoutStateFailed
	case CheckoutStateConfirmingPayment:
		return next == CheckoutStateConfirmed || next == CheckoutStateFailed
	case CheckoutStateFailed:
		return next == CheckoutStateValidatingForm
	case CheckoutStateConfirmed:
		return false // terminal
	default:
		return false
	}
}

// String representation (for logging)
func (s CheckoutState) String() string {
	return string(s)
}
