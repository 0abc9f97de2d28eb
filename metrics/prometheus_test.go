package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	rec := NewPrometheusRecorder()
	labels := map[string]string{"network": "arc-testnet"}

	rec.IncCounter("tx_submitted", labels)
	rec.IncCounter("tx_submitted", labels)
	rec.ObserveLatency("submit", 150*time.Millisecond, labels)

	pr, ok := rec.(*PrometheusRecorder)
	require.True(t, ok)

	counted := testutil.ToFloat64(pr.counters.With(prometheus.Labels{
		"type":    "tx_submitted",
		"network": "arc-testnet",
	}))
	assert.Equal(t, float64(2), counted)
}
