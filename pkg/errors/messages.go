package errors

import (
	stderrors "errors"
	"fmt"
)

// UserMessage maps an error from the checkout core to the single top-level message
// shown to the customer. Field-level validation errors are rendered inline instead and
// get no top-level message.
func UserMessage(err error) string {
	var (
		validation   *ErrValidation
		invalidItem  *ErrInvalidCartItem
		unreachable  *ErrBackendUnreachable
		rejected     *ErrBackendRejected
		declined     *ErrPaymentDeclined
		confirmation *ErrPostChargeConfirmation
	)

	switch {
	case stderrors.As(err, &validation):
		return ""
	case stderrors.As(err, &invalidItem):
		return "some products in your cart cannot be ordered"
	case stderrors.As(err, &unreachable):
		return "could not reach the server, please check if the server is reachable"
	case stderrors.As(err, &rejected):
		if rejected.Message != "" {
			return rejected.Message
		}
		return "the server rejected the request, please try again"
	case stderrors.As(err, &declined):
		if declined.Message != "" {
			return declined.Message
		}
		return "your payment was declined"
	case stderrors.As(err, &confirmation):
		return fmt.Sprintf(
			"your payment was received but order %s could not be confirmed, please contact support",
			confirmation.OrderID,
		)
	default:
		return "something went wrong, please try again"
	}
}
