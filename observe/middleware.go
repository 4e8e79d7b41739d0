package observe

import (
	"context"
	"time"
)

// Outcome carries what an operation observed, for telemetry only.
type Outcome struct {
	// Miss is true when a read or removal found nothing.
	Miss bool
	// Bytes is the serialized size of the value read or written.
	Bytes int
}

// OpFunc is the signature of a store operation that Middleware wraps.
type OpFunc func(ctx context.Context, meta OpMeta) (Outcome, error)

// Middleware wraps store operations with tracing, metrics and logging.
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe OpFunc.
//   - Context: Propagates context through tracing spans.
//   - Errors: Errors from the wrapped function are recorded and propagated unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware. Nil components are replaced by no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = NopTracer()
	}
	if metrics == nil {
		metrics = NopMetrics()
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps an OpFunc with tracing, metrics, and logging.
func (m *Middleware) Wrap(fn OpFunc) OpFunc {
	return func(ctx context.Context, meta OpMeta) (Outcome, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		out, err := fn(ctx, meta)

		duration := time.Since(start)
		m.tracer.EndSpan(span, out, err)
		m.metrics.RecordOp(ctx, meta, out, duration, err)

		opLogger := m.logger.WithOp(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000},
			{Key: "bytes", Value: out.Bytes},
		}

		switch {
		case err != nil:
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			opLogger.Error(ctx, "state operation failed", fields...)
		case out.Miss:
			opLogger.Debug(ctx, "state operation missed", fields...)
		default:
			opLogger.Debug(ctx, "state operation completed", fields...)
		}

		return out, err
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}
