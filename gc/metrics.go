package gc

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// monitorMetrics holds the OTel instruments recorded on each sample.
type monitorMetrics struct {
	collections metric.Int64Counter
	usage       metric.Float64Gauge
}

// newMonitorMetrics creates the sampling instruments from the given meter.
func newMonitorMetrics(meter metric.Meter) (*monitorMetrics, error) {
	collections, err := meter.Int64Counter(
		"daemon.gc.collections",
		metric.WithDescription("Garbage collections observed by the monitor"),
		metric.WithUnit("{collection}"),
	)
	if err != nil {
		return nil, err
	}

	usage, err := meter.Float64Gauge(
		"daemon.gc.pool.usage",
		metric.WithDescription("Memory pool usage at the latest sample"),
		metric.WithUnit("%"),
	)
	if err != nil {
		return nil, err
	}

	return &monitorMetrics{
		collections: collections,
		usage:       usage,
	}, nil
}

// recordSample records one polling pass for a pool.
func (m *monitorMetrics) recordSample(ctx context.Context, pool string, newCollections int64, usagePercent float64) {
	opt := metric.WithAttributes(attribute.String("pool", pool))

	if newCollections > 0 {
		m.collections.Add(ctx, newCollections, opt)
	}
	m.usage.Record(ctx, usagePercent, opt)
}
