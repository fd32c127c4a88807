package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// OrderCreateTotal counts order creation attempts against the gateway.
	OrderCreateTotal *prometheus.CounterVec
	// PaymentVerifyTotal counts server-side payment verification outcomes.
	PaymentVerifyTotal *prometheus.CounterVec
	// CartMutationsTotal counts cart ledger mutations by operation.
	CartMutationsTotal *prometheus.CounterVec
	// MenuWindowGauge reports the currently available menu window as a one-hot gauge.
	MenuWindowGauge *prometheus.GaugeVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		OrderCreateTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_create_total",
			Help:      "Count of order creation outcomes.",
		}, []string{"result"})
		PaymentVerifyTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_verify_total",
			Help:      "Count of payment verification outcomes.",
		}, []string{"result"})
		CartMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Count of cart ledger mutations by operation.",
		}, []string{"op"})
		MenuWindowGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "menu_window_available",
			Help:      "Whether the labelled menu window is currently orderable (0/1).",
		}, []string{"window"})
		reg.MustRegister(OrderCreateTotal, PaymentVerifyTotal, CartMutationsTotal, MenuWindowGauge)
	})
}
