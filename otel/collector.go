// Package otel provides OpenTelemetry integration for vektor engine metrics.
//
// This package implements the vektor.MetricsCollector interface using
// OpenTelemetry, enabling percentile-based latency reporting and
// multi-backend export (Prometheus, Jaeger, DataDog, Grafana) for an
// engine instance's GET/SET/DELETE/LOCK/memory-reject activity.
//
// # Usage
//
//	import (
//	    "github.com/agilira/vektor"
//	    vektorotel "github.com/agilira/vektor/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	collector, _ := vektorotel.NewOTelMetricsCollector(provider)
//	srv := vektor.NewServer(vektor.Config{MetricsCollector: collector})
//
// # Metrics exposed
//
//   - vektor_get_latency_ns / vektor_set_latency_ns / vektor_delete_latency_ns: histograms
//   - vektor_get_hits_total / vektor_get_misses_total: counters
//   - vektor_evictions_total / vektor_expirations_total: counters
//   - vektor_lock_conflicts_total: counters (LOCK/SET/DEL against a locked item)
//   - vektor_memory_rejects_total: counters (SET/MSET rejected by memused > maxmem)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package otel

import (
	"context"
	"errors"

	"github.com/agilira/vektor"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetricsCollector implements vektor.MetricsCollector using OpenTelemetry.
//
// Thread-safety: safe for concurrent use; the underlying OTEL instruments
// are themselves thread-safe. The engine itself drives one Server from a
// single logical flow at a time (spec §5), but a collector may be shared
// across multiple Server instances.
type OTelMetricsCollector struct {
	getLatency    metric.Int64Histogram
	setLatency    metric.Int64Histogram
	deleteLatency metric.Int64Histogram
	hits          metric.Int64Counter
	misses        metric.Int64Counter
	evictions     metric.Int64Counter
	expirations   metric.Int64Counter
	lockConflicts metric.Int64Counter
	memoryRejects metric.Int64Counter
}

// Options configures OTelMetricsCollector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: "github.com/agilira/vektor"
	MeterName string
}

// Option is a functional option for configuring OTelMetricsCollector.
type Option func(*Options)

// WithMeterName sets a custom meter name, useful when distinguishing
// metrics from multiple engine instances.
func WithMeterName(name string) Option {
	return func(o *Options) { o.MeterName = name }
}

// NewOTelMetricsCollector creates a new OpenTelemetry metrics collector.
// provider must not be nil.
func NewOTelMetricsCollector(provider metric.MeterProvider, opts ...Option) (*OTelMetricsCollector, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	options := Options{MeterName: "github.com/agilira/vektor"}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)
	c := &OTelMetricsCollector{}

	var err error
	if c.getLatency, err = meter.Int64Histogram(
		"vektor_get_latency_ns",
		metric.WithDescription("Latency of GET operations in nanoseconds"),
		metric.WithUnit("ns"),
	); err != nil {
		return nil, err
	}
	if c.setLatency, err = meter.Int64Histogram(
		"vektor_set_latency_ns",
		metric.WithDescription("Latency of SET operations in nanoseconds"),
		metric.WithUnit("ns"),
	); err != nil {
		return nil, err
	}
	if c.deleteLatency, err = meter.Int64Histogram(
		"vektor_delete_latency_ns",
		metric.WithDescription("Latency of DEL operations in nanoseconds"),
		metric.WithUnit("ns"),
	); err != nil {
		return nil, err
	}
	if c.hits, err = meter.Int64Counter(
		"vektor_get_hits_total",
		metric.WithDescription("Total number of GET hits"),
	); err != nil {
		return nil, err
	}
	if c.misses, err = meter.Int64Counter(
		"vektor_get_misses_total",
		metric.WithDescription("Total number of GET misses"),
	); err != nil {
		return nil, err
	}
	if c.evictions, err = meter.Int64Counter(
		"vektor_evictions_total",
		metric.WithDescription("Total number of evictions"),
	); err != nil {
		return nil, err
	}
	if c.expirations, err = meter.Int64Counter(
		"vektor_expirations_total",
		metric.WithDescription("Total number of TTL-based expirations"),
	); err != nil {
		return nil, err
	}
	if c.lockConflicts, err = meter.Int64Counter(
		"vektor_lock_conflicts_total",
		metric.WithDescription("Total number of mutations rejected by an advisory lock"),
	); err != nil {
		return nil, err
	}
	if c.memoryRejects, err = meter.Int64Counter(
		"vektor_memory_rejects_total",
		metric.WithDescription("Total number of writes rejected by the memory ceiling"),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RecordGet records a GET operation's latency and hit/miss outcome.
func (c *OTelMetricsCollector) RecordGet(latencyNs int64, hit bool) {
	ctx := context.Background()
	c.getLatency.Record(ctx, latencyNs)
	if hit {
		c.hits.Add(ctx, 1)
	} else {
		c.misses.Add(ctx, 1)
	}
}

// RecordSet records a SET operation's latency.
func (c *OTelMetricsCollector) RecordSet(latencyNs int64) {
	c.setLatency.Record(context.Background(), latencyNs)
}

// RecordDelete records a DEL operation's latency.
func (c *OTelMetricsCollector) RecordDelete(latencyNs int64) {
	c.deleteLatency.Record(context.Background(), latencyNs)
}

// RecordExpire increments the expirations counter.
func (c *OTelMetricsCollector) RecordExpire() {
	c.expirations.Add(context.Background(), 1)
}

// RecordEviction increments the evictions counter.
func (c *OTelMetricsCollector) RecordEviction() {
	c.evictions.Add(context.Background(), 1)
}

// RecordLockConflict increments the lock-conflicts counter.
func (c *OTelMetricsCollector) RecordLockConflict() {
	c.lockConflicts.Add(context.Background(), 1)
}

// RecordMemoryReject increments the memory-rejects counter.
func (c *OTelMetricsCollector) RecordMemoryReject() {
	c.memoryRejects.Add(context.Background(), 1)
}

// Compile-time interface check.
var _ vektor.MetricsCollector = (*OTelMetricsCollector)(nil)
