// Package otel provides OpenTelemetry integration for memora cache metrics.
//
// This package implements the memora.MetricsCollector interface using
// OpenTelemetry, enabling percentile-aware observability (p50, p95, p99) and
// multi-backend export (Prometheus, Jaeger, DataDog, Grafana).
//
// # Usage
//
//	import (
//	    "github.com/agilira/memora"
//	    memoraotel "github.com/agilira/memora/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//
//	collector, _ := memoraotel.NewOTelMetricsCollector(provider)
//
//	cfg := memora.DefaultConfig()
//	cfg.MetricsCollector = collector
//
// # Metrics Exposed
//
//   - memora_get_latency_ns: Histogram of Get operation latencies
//   - memora_set_latency_ns: Histogram of Set/Insert operation latencies
//   - memora_get_hits_total: Counter of cache hits
//   - memora_get_misses_total: Counter of cache misses
//   - memora_evictions_total: Counter of evictions
//   - memora_expirations_total: Counter of TTL-based expirations
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package otel

import (
	"context"
	"errors"

	"github.com/agilira/memora"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetricsCollector implements memora.MetricsCollector using
// OpenTelemetry. Safe for concurrent use; the underlying OTEL instruments
// are lock-free.
type OTelMetricsCollector struct {
	getLatency  metric.Int64Histogram
	setLatency  metric.Int64Histogram
	hits        metric.Int64Counter
	misses      metric.Int64Counter
	evictions   metric.Int64Counter
	expirations metric.Int64Counter
}

// Options configures OTelMetricsCollector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: "github.com/agilira/memora"
	MeterName string
}

// Option is a functional option for configuring OTelMetricsCollector.
type Option func(*Options)

// WithMeterName sets a custom meter name, useful for distinguishing metrics
// from multiple cache instances.
func WithMeterName(name string) Option {
	return func(o *Options) {
		o.MeterName = name
	}
}

// NewOTelMetricsCollector creates a collector bound to provider, registering
// one histogram per latency metric and one counter per event metric.
func NewOTelMetricsCollector(provider metric.MeterProvider, opts ...Option) (*OTelMetricsCollector, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	options := Options{MeterName: "github.com/agilira/memora"}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)
	collector := &OTelMetricsCollector{}

	var err error
	collector.getLatency, err = meter.Int64Histogram(
		"memora_get_latency_ns",
		metric.WithDescription("Latency of Get operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.setLatency, err = meter.Int64Histogram(
		"memora_set_latency_ns",
		metric.WithDescription("Latency of Set/Insert operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.hits, err = meter.Int64Counter(
		"memora_get_hits_total",
		metric.WithDescription("Total number of cache hits"),
	)
	if err != nil {
		return nil, err
	}

	collector.misses, err = meter.Int64Counter(
		"memora_get_misses_total",
		metric.WithDescription("Total number of cache misses"),
	)
	if err != nil {
		return nil, err
	}

	collector.evictions, err = meter.Int64Counter(
		"memora_evictions_total",
		metric.WithDescription("Total number of evictions"),
	)
	if err != nil {
		return nil, err
	}

	collector.expirations, err = meter.Int64Counter(
		"memora_expirations_total",
		metric.WithDescription("Total number of TTL-based expirations"),
	)
	if err != nil {
		return nil, err
	}

	return collector, nil
}

// RecordGet records a Get operation's latency and hit/miss outcome.
func (c *OTelMetricsCollector) RecordGet(latencyNanos int64, hit bool) {
	ctx := context.Background()
	c.getLatency.Record(ctx, latencyNanos)
	if hit {
		c.hits.Add(ctx, 1)
	} else {
		c.misses.Add(ctx, 1)
	}
}

// RecordSet records an Insert operation's latency.
func (c *OTelMetricsCollector) RecordSet(latencyNanos int64) {
	c.setLatency.Record(context.Background(), latencyNanos)
}

// RecordEviction increments the evictions counter.
func (c *OTelMetricsCollector) RecordEviction() {
	c.evictions.Add(context.Background(), 1)
}

// RecordExpiration increments the TTL-expiration counter.
func (c *OTelMetricsCollector) RecordExpiration() {
	c.expirations.Add(context.Background(), 1)
}

var _ memora.MetricsCollector = (*OTelMetricsCollector)(nil)
