// Package metrics собирает метрики расчетов для prometheus.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "billsplit"

// PaymentMetrics считает попытки оплаты по исходу и суммы проведенных оплат.
type PaymentMetrics struct {
	attempts *prometheus.CounterVec
	amounts  *prometheus.HistogramVec
}

// NewPaymentMetrics создает метрики и регистрирует их в reg.
func NewPaymentMetrics(reg prometheus.Registerer) (*PaymentMetrics, error) {
	m := &PaymentMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "attempts_total",
			Help:      "Payment attempts by outcome.",
		}, []string{"outcome"}),
		amounts: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "amount",
			Help:      "Amounts of settled and scheduled payments.",
			Buckets:   prometheus.ExponentialBuckets(10, 10, 8), //nolint:mnd
		}, []string{"outcome"}),
	}
	for _, c := range []prometheus.Collector{m.attempts, m.amounts} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register payment metrics: %w", err)
		}
	}
	return m, nil
}

// ObservePayment учитывает попытку. Сумма пишется только для попыток, которые перевели деньги.
func (m *PaymentMetrics) ObservePayment(outcome string, amount float64) {
	m.attempts.WithLabelValues(outcome).Inc()
	if amount > 0 {
		m.amounts.WithLabelValues(outcome).Observe(amount)
	}
}
