package driver

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// metricsHandler records OpenTelemetry counters/histograms for each compile
// phase, one struct holding typed instruments built from an injected
// metric.Meter (spec.md §2's "Driver / CLI glue" row, grounded on the
// pack's otel.MetricsHandler pattern).
type metricsHandler struct {
	attempted metric.Int64Counter
	failed    metric.Int64Counter
	succeeded metric.Int64Counter
	phaseDur  metric.Float64Histogram
}

func newMetricsHandler(meter metric.Meter) (*metricsHandler, error) {
	attempted, err := meter.Int64Counter("graphc.compile.attempted",
		metric.WithDescription("Number of compile invocations started"),
	)
	if err != nil {
		return nil, err
	}
	failed, err := meter.Int64Counter("graphc.compile.failed",
		metric.WithDescription("Number of compiles that failed, by reason (load, validate, emit)"),
	)
	if err != nil {
		return nil, err
	}
	succeeded, err := meter.Int64Counter("graphc.compile.succeeded",
		metric.WithDescription("Number of compiles that emitted successfully"),
	)
	if err != nil {
		return nil, err
	}
	phaseDur, err := meter.Float64Histogram("graphc.compile.phase_duration",
		metric.WithDescription("Duration of a compile phase in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsHandler{
		attempted: attempted,
		failed:    failed,
		succeeded: succeeded,
		phaseDur:  phaseDur,
	}, nil
}

func (h *metricsHandler) recordAttempted(ctx context.Context, requestID string) {
	h.attempted.Add(ctx, 1, metric.WithAttributes(attribute.String("request_id", requestID)))
}

func (h *metricsHandler) recordFailed(ctx context.Context, requestID, reason string) {
	h.failed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("request_id", requestID),
		attribute.String("reason", reason),
	))
}

func (h *metricsHandler) recordSucceeded(ctx context.Context, requestID string) {
	h.succeeded.Add(ctx, 1, metric.WithAttributes(attribute.String("request_id", requestID)))
}

func (h *metricsHandler) recordPhase(ctx context.Context, phase string, seconds float64) {
	h.phaseDur.Record(ctx, seconds, metric.WithAttributes(attribute.String("phase", phase)))
}
