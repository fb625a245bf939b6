package postgres

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type storeMetrics struct {
	duration metric.Float64Histogram
	errors   metric.Int64Counter
}

// newStoreMetrics registers the store instruments; a nil meter disables them.
func newStoreMetrics(meter metric.Meter) (*storeMetrics, error) {
	if meter == nil {
		return nil, nil
	}
	duration, err := meter.Float64Histogram("ncnews_store_operation_duration_seconds",
		metric.WithDescription("Duration of store operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	errs, err := meter.Int64Counter("ncnews_store_operation_errors_total",
		metric.WithDescription("Total number of failed store operations"),
	)
	if err != nil {
		return nil, err
	}
	return &storeMetrics{duration: duration, errors: errs}, nil
}

func (m *storeMetrics) observe(ctx context.Context, op string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("op", op))
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
	if err != nil && !isHealthy(err) {
		m.errors.Add(ctx, 1, attrs)
	}
}
