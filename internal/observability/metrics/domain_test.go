package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRateLimitCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := New(Config{ServiceName: "test"}, provider)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordRateLimitAllowed(ctx, "acme")
	m.RecordRateLimitAllowed(ctx, "acme")
	m.RecordRateLimitDenied(ctx, "acme", "invite_create")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	totals := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, metric := range scope.Metrics {
			sum, ok := metric.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, point := range sum.DataPoints {
				totals[metric.Name] += point.Value
			}
		}
	}
	assert.Equal(t, int64(2), totals["saas_invite_rate_limit_allowed_total"])
	assert.Equal(t, int64(1), totals["saas_invite_rate_limit_denied_total"])
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordRateLimitAllowed(context.Background(), "acme")
	m.RecordRateLimitDenied(context.Background(), "acme", "invite_create")
}

func TestDisabledProviderIsNoop(t *testing.T) {
	provider, err := NewProvider(nil, Config{}, nil)
	require.NoError(t, err)

	m, err := New(Config{}, provider)
	require.NoError(t, err)
	m.RecordRateLimitAllowed(context.Background(), "acme")
}
