// Package observe provides observability primitives for Podium: OpenTelemetry
// metrics with a Prometheus exporter bridge so the standard /metrics endpoint
// keeps working.
//
// A package-level default [Metrics] instance ([DefaultMetrics]) is provided
// for convenience; tests should use [NewMetrics] with a custom
// [metric.MeterProvider] to avoid cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Podium metrics.
const meterName = "github.com/podium-ed/podium"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms per pipeline stage ---

	// DecodeDuration tracks audio decode and resample latency.
	DecodeDuration metric.Float64Histogram

	// TranscribeDuration tracks speech-to-text transcription latency.
	TranscribeDuration metric.Float64Histogram

	// FeatureDuration tracks acoustic feature extraction latency.
	FeatureDuration metric.Float64Histogram

	// ScoreDuration tracks metric scoring and report assembly latency.
	ScoreDuration metric.Float64Histogram

	// PipelineDuration tracks end-to-end evaluation latency.
	PipelineDuration metric.Float64Histogram

	// --- Counters ---

	// Evaluations counts completed evaluations. Use with attributes:
	//   attribute.String("age_group", ...), attribute.String("status", ...)
	Evaluations metric.Int64Counter

	// StoreWrites counts report persistence attempts. Use with attributes:
	//   attribute.String("store", ...), attribute.String("status", ...)
	StoreWrites metric.Int64Counter

	// --- Error counters ---

	// StageErrors counts per-stage failures. Use with attribute:
	//   attribute.String("stage", ...)
	StageErrors metric.Int64Counter

	// --- Gauges ---

	// ActiveEvaluations tracks the number of evaluations currently in flight.
	ActiveEvaluations metric.Int64UpDownCounter
}

// latencyBuckets defines histogram bucket boundaries (in seconds). Whisper
// transcription of a multi-minute recording dominates the upper range.
var latencyBuckets = []float64{
	0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.DecodeDuration, err = m.Float64Histogram("podium.decode.duration",
		metric.WithDescription("Latency of audio decoding and resampling."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TranscribeDuration, err = m.Float64Histogram("podium.transcribe.duration",
		metric.WithDescription("Latency of speech-to-text transcription."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.FeatureDuration, err = m.Float64Histogram("podium.features.duration",
		metric.WithDescription("Latency of acoustic feature extraction."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ScoreDuration, err = m.Float64Histogram("podium.score.duration",
		metric.WithDescription("Latency of metric scoring and report assembly."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.PipelineDuration, err = m.Float64Histogram("podium.pipeline.duration",
		metric.WithDescription("End-to-end evaluation latency."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.Evaluations, err = m.Int64Counter("podium.evaluations",
		metric.WithDescription("Total completed evaluations by age group and status."),
	); err != nil {
		return nil, err
	}
	if met.StoreWrites, err = m.Int64Counter("podium.store.writes",
		metric.WithDescription("Total report persistence attempts by store and status."),
	); err != nil {
		return nil, err
	}

	// Error counters.
	if met.StageErrors, err = m.Int64Counter("podium.stage.errors",
		metric.WithDescription("Total pipeline stage failures by stage."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.ActiveEvaluations, err = m.Int64UpDownCounter("podium.active_evaluations",
		metric.WithDescription("Number of evaluations currently in flight."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordEvaluation records a completed evaluation with the standard attribute
// set.
func (m *Metrics) RecordEvaluation(ctx context.Context, ageGroup, status string) {
	m.Evaluations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("age_group", ageGroup),
			attribute.String("status", status),
		),
	)
}

// RecordStageError records a pipeline stage failure.
func (m *Metrics) RecordStageError(ctx context.Context, stage string) {
	m.StageErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("stage", stage)),
	)
}

// RecordStoreWrite records a report persistence attempt.
func (m *Metrics) RecordStoreWrite(ctx context.Context, store, status string) {
	m.StoreWrites.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("store", store),
			attribute.String("status", status),
		),
	)
}
