// Package otel provides OpenTelemetry integration for vektor engine metrics.
//
// # Overview
//
// This package implements the vektor.MetricsCollector interface using
// OpenTelemetry, giving operators percentile latency (p50/p95/p99) and
// hit/miss/lock/memory-reject counters for a running engine without any
// impact on the core's allocation profile when left unconfigured.
//
// The package is separate from the core module so applications that don't
// need metrics collection don't pay for the OTEL dependency tree.
//
// # Quick start
//
//	import (
//	    "github.com/agilira/vektor"
//	    vektorotel "github.com/agilira/vektor/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, err := prometheus.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	defer provider.Shutdown(context.Background())
//
//	collector, err := vektorotel.NewOTelMetricsCollector(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	srv := vektor.NewServer(vektor.Config{
//	    MetricsCollector: collector,
//	})
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":2112", nil))
//
// # Metrics exposed
//
// Histograms:
//   - vektor_get_latency_ns, vektor_set_latency_ns, vektor_delete_latency_ns
//
// Counters:
//   - vektor_get_hits_total, vektor_get_misses_total
//   - vektor_evictions_total, vektor_expirations_total
//   - vektor_lock_conflicts_total, vektor_memory_rejects_total
//
// # Configuration
//
// Custom meter name, useful when running several engine instances in one
// process:
//
//	collector, err := vektorotel.NewOTelMetricsCollector(
//	    provider,
//	    vektorotel.WithMeterName("myapp_session_store"),
//	)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package otel
