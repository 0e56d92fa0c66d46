// collector.go: OpenTelemetry metrics collector for xanthos runs
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package otel

import (
	"context"
	"errors"
	"time"

	"github.com/agilira/xanthos"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Compile-time check that the collector satisfies the core interface.
var _ xanthos.MetricsCollector = (*OTelMetricsCollector)(nil)

// OTelMetricsCollector implements xanthos.MetricsCollector using
// OpenTelemetry.
//
// Thread-safety: Safe for concurrent use by multiple goroutines.
// The underlying OTEL instruments are thread-safe and lock-free.
type OTelMetricsCollector struct {
	phaseDuration metric.Int64Histogram
	outputRows    metric.Int64Histogram
	decisions     metric.Int64Counter
	fallbacks     metric.Int64Counter
}

// Options for configuring OTelMetricsCollector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: "github.com/agilira/xanthos"
	MeterName string
}

// Option is a functional option for configuring OTelMetricsCollector.
type Option func(*Options)

// WithMeterName sets a custom meter name.
func WithMeterName(name string) Option {
	return func(o *Options) {
		o.MeterName = name
	}
}

// NewOTelMetricsCollector creates a new OpenTelemetry metrics collector.
func NewOTelMetricsCollector(provider metric.MeterProvider, opts ...Option) (*OTelMetricsCollector, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	options := Options{
		MeterName: "github.com/agilira/xanthos",
	}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)
	collector := &OTelMetricsCollector{}

	var err error
	collector.phaseDuration, err = meter.Int64Histogram(
		"xanthos_phase_duration_ns",
		metric.WithDescription("Wall time of aggregation phases in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.outputRows, err = meter.Int64Histogram(
		"xanthos_output_rows",
		metric.WithDescription("Result rows produced per run"),
	)
	if err != nil {
		return nil, err
	}

	collector.decisions, err = meter.Int64Counter(
		"xanthos_decisions_total",
		metric.WithDescription("Strategies chosen by the adaptive selectors"),
	)
	if err != nil {
		return nil, err
	}

	collector.fallbacks, err = meter.Int64Counter(
		"xanthos_fallbacks_total",
		metric.WithDescription("Recovered lock-free table overflows"),
	)
	if err != nil {
		return nil, err
	}

	return collector, nil
}

// RecordPhase records the wall time of one named phase.
func (c *OTelMetricsCollector) RecordPhase(_ int, phase string, elapsed time.Duration) {
	c.phaseDuration.Record(context.Background(), elapsed.Nanoseconds(),
		metric.WithAttributes(attribute.String("phase", phase)))
}

// RecordRows records the output row count of one run.
func (c *OTelMetricsCollector) RecordRows(_ int, rows int) {
	c.outputRows.Record(context.Background(), int64(rows))
}

// RecordDecision counts one adaptive strategy decision.
func (c *OTelMetricsCollector) RecordDecision(_ int, strategy string) {
	c.decisions.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("strategy", strategy)))
}

// RecordFallback counts one recovered lock-free overflow.
func (c *OTelMetricsCollector) RecordFallback(_ int, from, to string) {
	c.fallbacks.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("from", from), attribute.String("to", to)))
}
