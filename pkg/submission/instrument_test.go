package submission

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInstrumentRecordsOutcomes(t *testing.T) {
	registry := prometheus.NewRegistry()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	fail := true
	next := GatewayFunc(func(ctx context.Context, sub Submission) (Receipt, error) {
		if fail {
			return Receipt{}, &RejectionError{Message: "no"}
		}
		return Receipt{SubmissionID: sub.ID, Attempts: 1}, nil
	})

	gw := Instrument(next,
		WithRegistry(registry),
		WithTracer(provider.Tracer("test")),
		WithNamespace("test"),
	)
	inst := gw.(*instrumented)

	if _, err := gw.Submit(context.Background(), New("proposal", nil, time.Now())); err == nil {
		t.Fatalf("expected rejection")
	}
	fail = false
	if _, err := gw.Submit(context.Background(), New("proposal", nil, time.Now())); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if got := testutil.ToFloat64(inst.total.WithLabelValues("proposal", OutcomeRejected)); got != 1 {
		t.Fatalf("rejected count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(inst.total.WithLabelValues("proposal", OutcomeAccepted)); got != 1 {
		t.Fatalf("accepted count = %v, want 1", got)
	}

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(spans))
	}
	if spans[0].Name() != "submission.deliver" {
		t.Fatalf("span name = %q", spans[0].Name())
	}
	if spans[0].Status().Code != codes.Error {
		t.Fatalf("first span status = %v, want error", spans[0].Status().Code)
	}
	if spans[1].Status().Code != codes.Ok {
		t.Fatalf("second span status = %v, want ok", spans[1].Status().Code)
	}
}

func TestInstrumentInsidePolicyRecordsEachAttempt(t *testing.T) {
	registry := prometheus.NewRegistry()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	calls := 0
	next := GatewayFunc(func(ctx context.Context, sub Submission) (Receipt, error) {
		calls++
		if calls < 3 {
			return Receipt{}, ErrUnavailable
		}
		return Receipt{SubmissionID: sub.ID, Attempts: 1}, nil
	})

	gw := Instrument(next, WithRegistry(registry), WithTracer(provider.Tracer("test")))
	inst := gw.(*instrumented)

	receipt, err := WithPolicy(gw, fastPolicy()).Submit(context.Background(), New("proposal", nil, time.Now()))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if receipt.Attempts != 3 {
		t.Fatalf("attempts = %d, want 3", receipt.Attempts)
	}

	if got := testutil.ToFloat64(inst.total.WithLabelValues("proposal", OutcomeFailed)); got != 2 {
		t.Fatalf("failed count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(inst.total.WithLabelValues("proposal", OutcomeAccepted)); got != 1 {
		t.Fatalf("accepted count = %v, want 1", got)
	}
	spans := recorder.Ended()
	if len(spans) != 3 {
		t.Fatalf("spans = %d, want one per attempt", len(spans))
	}
	for i, want := range []codes.Code{codes.Error, codes.Error, codes.Ok} {
		if spans[i].Status().Code != want {
			t.Fatalf("span %d status = %v, want %v", i, spans[i].Status().Code, want)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := map[string]error{
		OutcomeAccepted: nil,
		OutcomeRejected: &RejectionError{},
		OutcomeTimeout:  ErrTimeout,
		OutcomeCanceled: context.Canceled,
		OutcomeFailed:   ErrUnavailable,
	}
	for want, err := range cases {
		if got := classify(err); got != want {
			t.Fatalf("classify(%v) = %q, want %q", err, got, want)
		}
	}
}
