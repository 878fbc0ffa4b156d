package orders

import (
	"fmt"

	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
)

// statusRank is the fulfillment order; cancelled sits outside it.
var statusRank = map[enums.OrderStatus]int{
	enums.OrderStatusPending:    0,
	enums.OrderStatusProcessing: 1,
	enums.OrderStatusShipped:    2,
	enums.OrderStatusDelivered:  3,
}

var paymentTransitions = map[enums.PaymentStatus][]enums.PaymentStatus{
	enums.PaymentStatusPending: {enums.PaymentStatusPaid, enums.PaymentStatusFailed},
	enums.PaymentStatusPaid:    {enums.PaymentStatusRefunded},
}

// CanTransition reports whether an order may move between fulfillment states.
// Moves are forward only and may skip states; terminal states never change.
func CanTransition(from, to enums.OrderStatus) error {
	switch {
	case from == to:
		return invalidTransition(fmt.Sprintf("order is already %s", to))
	case from.IsTerminal():
		return invalidTransition(fmt.Sprintf("order is %s and can no longer change status", from))
	case to == enums.OrderStatusCancelled:
		if !from.Cancellable() {
			return invalidTransition(fmt.Sprintf("only pending or processing orders can be cancelled, order is %s", from))
		}
		return nil
	}
	if statusRank[to] <= statusRank[from] {
		return invalidTransition(fmt.Sprintf("cannot move order from %s back to %s", from, to))
	}
	return nil
}

// CanTransitionPayment reports whether the payment status may change.
func CanTransitionPayment(from, to enums.PaymentStatus) error {
	if from == to {
		return invalidTransition(fmt.Sprintf("payment is already %s", to))
	}
	for _, allowed := range paymentTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return invalidTransition(fmt.Sprintf("cannot change payment from %s to %s", from, to))
}

// transitionStatus moves the order and returns the previous status.
// A paid order must be refunded before it can be cancelled.
func transitionStatus(o *models.Order, to enums.OrderStatus) (enums.OrderStatus, error) {
	from := o.Status
	if err := CanTransition(from, to); err != nil {
		return from, err
	}
	if to == enums.OrderStatusCancelled && o.PaymentStatus == enums.PaymentStatusPaid {
		return from, invalidTransition("paid orders must be refunded before cancelling")
	}
	o.Status = to
	return from, nil
}

// transitionPayment applies a payment change. Paying a pending order advances it to processing.
func transitionPayment(o *models.Order, to enums.PaymentStatus) (enums.PaymentStatus, bool, error) {
	from := o.PaymentStatus
	if err := CanTransitionPayment(from, to); err != nil {
		return from, false, err
	}
	if to == enums.PaymentStatusPaid && o.Status == enums.OrderStatusCancelled {
		return from, false, invalidTransition("cancelled orders cannot be paid")
	}
	o.PaymentStatus = to
	advanced := false
	if to == enums.PaymentStatusPaid && o.Status == enums.OrderStatusPending {
		o.Status = enums.OrderStatusProcessing
		advanced = true
	}
	return from, advanced, nil
}

func invalidTransition(msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, msg)
}
