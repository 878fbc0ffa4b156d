package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// CommerceMetrics counts cart mutations and order lifecycle changes.
type CommerceMetrics struct {
	cartOps       *prometheus.CounterVec
	ordersCreated *prometheus.CounterVec
	transitions   *prometheus.CounterVec
}

// NewCommerceMetrics registers the commerce metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewCommerceMetrics(reg prometheus.Registerer) *CommerceMetrics {
	if reg == nil {
		return &CommerceMetrics{}
	}
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bazaar",
		Name:      "cart_operations_total",
		Help:      "Cart engine operations by name and outcome.",
	}, []string{"operation", "outcome"})
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bazaar",
		Name:      "orders_created_total",
		Help:      "Orders placed by payment method.",
	}, []string{"payment_method"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bazaar",
		Name:      "order_transitions_total",
		Help:      "Order status and payment status transitions.",
	}, []string{"kind", "from", "to"})
	reg.MustRegister(cartOps, ordersCreated, transitions)
	return &CommerceMetrics{
		cartOps:       cartOps,
		ordersCreated: ordersCreated,
		transitions:   transitions,
	}
}

// ObserveCartOp counts one cart operation. err decides the outcome label.
func (m *CommerceMetrics) ObserveCartOp(op string, err error) {
	if m == nil || m.cartOps == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.cartOps.WithLabelValues(normalizeLabel(op), outcome).Inc()
}

func (m *CommerceMetrics) IncOrderCreated(paymentMethod string) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncStatusTransition records a fulfillment status change.
func (m *CommerceMetrics) IncStatusTransition(from, to string) {
	m.incTransition("status", from, to)
}

// IncPaymentTransition records a payment status change.
func (m *CommerceMetrics) IncPaymentTransition(from, to string) {
	m.incTransition("payment", from, to)
}

func (m *CommerceMetrics) incTransition(kind, from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(kind, normalizeLabel(from), normalizeLabel(to)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
