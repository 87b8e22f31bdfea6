package prom

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRegistry(t *testing.T) {
	t.Helper()
	prev := registerer
	registerer = prometheus.NewRegistry()
	t.Cleanup(func() {
		registerer = prev
		MetricSystemEnabled = false
	})
	require.NoError(t, Create("test-host", "test", "banking"))
}

func TestObserveLedgerOperation(t *testing.T) {
	setupRegistry(t)

	ObserveLedgerOperation("deposit", time.Now(), nil)
	ObserveLedgerOperation("deposit", time.Now(), nil)
	ObserveLedgerOperation("withdraw", time.Now(), errors.New("insufficient funds"))

	ops := MetricCollectionCounterVec[SystemLedger+MetricLedgerOperations]
	assert.Equal(t, float64(2), testutil.ToFloat64(ops.WithLabelValues("deposit", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(ops.WithLabelValues("withdraw", "error")))
}

func TestCreateMetric_UnknownType(t *testing.T) {
	err := CreateMetric("summary", SystemLedger, "whatever")
	assert.Error(t, err)
}

func TestDisabledMetricsAreNoop(t *testing.T) {
	MetricSystemEnabled = false
	assert.NotPanics(t, func() {
		IncNotifierAlert("CREDIT", "sent")
		ObserveLedgerOperation("transfer", time.Now(), nil)
	})
}

func TestGatewayMetrics(t *testing.T) {
	setupRegistry(t)

	IncGatewayRequest("webhook-1", "ok")
	IncGatewayRequest("webhook-1", "error")
	IncGatewayRequest("webhook-1", "error")
	SetGatewayProviderState("webhook-1", 2)

	reqs := MetricCollectionCounterVec[SystemNotifier+MetricGatewayRequests]
	assert.Equal(t, float64(2), testutil.ToFloat64(reqs.WithLabelValues("webhook-1", "error")))
	state := MetricCollectionGaugeVec[SystemNotifier+MetricGatewayProviderState]
	assert.Equal(t, float64(2), testutil.ToFloat64(state.WithLabelValues("webhook-1")))
}
