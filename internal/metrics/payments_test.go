package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPaymentMetrics(reg)
	require.NoError(t, err)

	m.ObservePayment("settled", 198000)
	m.ObservePayment("settled", 66000)
	m.ObservePayment("insufficient_funds", 0)

	assert.InDelta(t, 2, testutil.ToFloat64(m.attempts.WithLabelValues("settled")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.attempts.WithLabelValues("insufficient_funds")), 0)

	// сумма пишется только для оплат с ненулевым переводом
	assert.Equal(t, 1, testutil.CollectAndCount(m.amounts))

	families, err := reg.Gather()
	require.NoError(t, err)
	var histogram *dto.Histogram
	for _, f := range families {
		if f.GetName() == "billsplit_payment_amount" {
			require.Len(t, f.GetMetric(), 1)
			histogram = f.GetMetric()[0].GetHistogram()
		}
	}
	require.NotNil(t, histogram)
	assert.Equal(t, uint64(2), histogram.GetSampleCount())
	assert.InDelta(t, 264000, histogram.GetSampleSum(), 0)
}

func TestPaymentMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPaymentMetrics(reg)
	require.NoError(t, err)

	_, err = NewPaymentMetrics(reg)
	require.Error(t, err)
}
