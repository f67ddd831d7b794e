package submission

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "github.com/goliatone/go-leadform/pkg/submission"

// Outcome labels recorded by Instrument.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeTimeout  = "timeout"
	OutcomeCanceled = "canceled"
	OutcomeFailed   = "failed"
)

// MetricsConfig configures the gateway metrics.
type MetricsConfig struct {
	Namespace string
	Buckets   []float64
	Registry  prometheus.Registerer
	Tracer    trace.Tracer
}

// MetricsOption configures Instrument.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace (default "leadform").
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithRegistry sets the Prometheus registerer.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithTracer sets the tracer used for delivery spans.
func WithTracer(tracer trace.Tracer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Tracer = tracer
	}
}

type instrumented struct {
	next     Gateway
	tracer   trace.Tracer
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// Instrument wraps next with a delivery counter, a duration histogram and a
// client span per call. Place it inside WithPolicy so each retry attempt is
// recorded on its own.
func Instrument(next Gateway, opts ...MetricsOption) Gateway {
	cfg := MetricsConfig{
		Namespace: "leadform",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 2.5, 5, 10, 30},
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer(defaultTracerName)
	}

	factory := promauto.With(cfg.Registry)
	return &instrumented{
		next:   next,
		tracer: cfg.Tracer,
		total: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "submission",
			Name:      "deliveries_total",
			Help:      "Form submissions handed to the gateway, by form and outcome.",
		}, []string{"form", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: "submission",
			Name:      "delivery_duration_seconds",
			Help:      "Gateway delivery latency in seconds.",
			Buckets:   cfg.Buckets,
		}, []string{"form"}),
	}
}

func (g *instrumented) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	ctx, span := g.tracer.Start(ctx, "submission.deliver",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("form.id", sub.FormID),
			attribute.String("submission.id", sub.ID),
			attribute.Int("form.fields", len(sub.Values)),
		),
	)
	defer span.End()

	start := time.Now()
	receipt, err := g.next.Submit(ctx, sub)
	g.duration.WithLabelValues(sub.FormID).Observe(time.Since(start).Seconds())

	outcome := classify(err)
	g.total.WithLabelValues(sub.FormID, outcome).Inc()
	span.SetAttributes(attribute.String("submission.outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Receipt{}, err
	}
	span.SetStatus(codes.Ok, "")
	return receipt, nil
}

func classify(err error) string {
	switch {
	case err == nil:
		return OutcomeAccepted
	case IsRejection(err):
		return OutcomeRejected
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	case errors.Is(err, context.Canceled):
		return OutcomeCanceled
	default:
		return OutcomeFailed
	}
}
