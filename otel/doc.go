// Package otel provides OpenTelemetry integration for xanthos run metrics.
//
// This package implements the xanthos.MetricsCollector interface using
// OpenTelemetry, so long benchmark campaigns can ship per-phase wall times,
// output row counts, adaptive decisions and lock-free fallbacks to any OTEL
// backend (Prometheus, Jaeger, DataDog, Grafana).
//
// # Usage
//
//	import (
//	    "github.com/agilira/xanthos"
//	    xanthosotel "github.com/agilira/xanthos/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	collector, _ := xanthosotel.NewOTelMetricsCollector(provider)
//
//	cfg := xanthos.DefaultConfig()
//	cfg.NumThreads = 8
//	cfg.Metrics = collector
//
// # Metrics Exposed
//
//   - xanthos_phase_duration_ns: Histogram of phase wall times, attribute "phase"
//   - xanthos_output_rows: Histogram of per-run output row counts
//   - xanthos_decisions_total: Counter of adaptive decisions, attribute "strategy"
//   - xanthos_fallbacks_total: Counter of recovered lock-free overflows
//
// All metrics are aggregated by the OTEL SDK; histograms automatically
// calculate percentiles (p50, p95, p99).
package otel
