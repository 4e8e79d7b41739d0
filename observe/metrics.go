package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric instrument names.
const (
	MetricOpTotal    = "statecache.op.total"
	MetricOpErrors   = "statecache.op.errors"
	MetricOpMisses   = "statecache.op.misses"
	MetricOpDuration = "statecache.op.duration_ms"
	MetricValueBytes = "statecache.value.bytes"
)

// Metrics records per-operation metrics for the state cache.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordOp records one operation with its outcome, duration and error status.
	RecordOp(ctx context.Context, meta OpMeta, out Outcome, duration time.Duration, err error)
}

type metricsImpl struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	missCount    metric.Int64Counter
	durationHist metric.Float64Histogram
	bytesHist    metric.Int64Histogram
}

// NewMetrics creates the state cache instruments on the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		MetricOpTotal,
		metric.WithDescription("Total number of state cache operations"),
		metric.WithUnit("{op}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		MetricOpErrors,
		metric.WithDescription("Total number of failed state cache operations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	missCount, err := meter.Int64Counter(
		MetricOpMisses,
		metric.WithDescription("Reads and removals that found no entry"),
		metric.WithUnit("{op}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		MetricOpDuration,
		metric.WithDescription("State cache operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	bytesHist, err := meter.Int64Histogram(
		MetricValueBytes,
		metric.WithDescription("Serialized size of values written to the state cache"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		errorCount:   errorCount,
		missCount:    missCount,
		durationHist: durationHist,
		bytesHist:    bytesHist,
	}, nil
}

func (m *metricsImpl) RecordOp(ctx context.Context, meta OpMeta, out Outcome, duration time.Duration, err error) {
	// Keys are deliberately left out: they are unbounded.
	opt := metric.WithAttributes(
		attribute.String("state.op", string(meta.Op)),
		attribute.String("state.section", meta.Section),
	)

	m.totalCount.Add(ctx, 1, opt)

	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	if out.Miss {
		m.missCount.Add(ctx, 1, opt)
	}
	if meta.Op == OpSet && err == nil {
		m.bytesHist.Record(ctx, int64(out.Bytes), opt)
	}

	m.durationHist.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

type noopMetrics struct{}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics { return noopMetrics{} }

func (noopMetrics) RecordOp(context.Context, OpMeta, Outcome, time.Duration, error) {}
