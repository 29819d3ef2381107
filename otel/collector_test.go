package otel

import (
	"context"
	"testing"
	"time"

	"github.com/agilira/vektor"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// TestOTelMetricsCollector_Interface verifies OTelMetricsCollector implements vektor.MetricsCollector
func TestOTelMetricsCollector_Interface(t *testing.T) {
	var _ vektor.MetricsCollector = (*OTelMetricsCollector)(nil)
}

// TestNewOTelMetricsCollector tests constructor with valid meter provider
func TestNewOTelMetricsCollector(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Errorf("Failed to shutdown provider: %v", err)
		}
	}()

	collector, err := NewOTelMetricsCollector(provider)
	if err != nil {
		t.Fatalf("NewOTelMetricsCollector() error = %v", err)
	}
	if collector == nil {
		t.Fatal("NewOTelMetricsCollector() returned nil")
	}
}

// TestNewOTelMetricsCollector_NilProvider tests error handling with nil provider
func TestNewOTelMetricsCollector_NilProvider(t *testing.T) {
	collector, err := NewOTelMetricsCollector(nil)
	if err == nil {
		t.Fatal("NewOTelMetricsCollector(nil) should return error")
	}
	if collector != nil {
		t.Fatal("NewOTelMetricsCollector(nil) should return nil collector")
	}
}

// TestOTelMetricsCollector_RecordGet tests Get operation metrics
func TestOTelMetricsCollector_RecordGet(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	collector, err := NewOTelMetricsCollector(provider)
	if err != nil {
		t.Fatalf("NewOTelMetricsCollector() error = %v", err)
	}

	collector.RecordGet(1000, true)
	collector.RecordGet(2000, false)
	collector.RecordGet(1500, true)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Failed to collect metrics: %v", err)
	}

	if len(rm.ScopeMetrics) == 0 {
		t.Fatal("No scope metrics recorded")
	}

	var foundLatency, foundHits, foundMisses bool

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch m.Name {
			case "vektor_get_latency_ns":
				foundLatency = true
				hist, ok := m.Data.(metricdata.Histogram[int64])
				if !ok {
					t.Errorf("Expected Histogram[int64], got %T", m.Data)
					continue
				}
				totalCount := uint64(0)
				for _, dp := range hist.DataPoints {
					totalCount += dp.Count
				}
				if totalCount != 3 {
					t.Errorf("Expected 3 operations, got %d", totalCount)
				}

			case "vektor_get_hits_total":
				foundHits = true
				sum, ok := m.Data.(metricdata.Sum[int64])
				if !ok {
					t.Errorf("Expected Sum[int64], got %T", m.Data)
					continue
				}
				if len(sum.DataPoints) == 0 || sum.DataPoints[0].Value != 2 {
					t.Errorf("Expected 2 hits, got %+v", sum.DataPoints)
				}

			case "vektor_get_misses_total":
				foundMisses = true
				sum, ok := m.Data.(metricdata.Sum[int64])
				if !ok {
					t.Errorf("Expected Sum[int64], got %T", m.Data)
					continue
				}
				if len(sum.DataPoints) == 0 || sum.DataPoints[0].Value != 1 {
					t.Errorf("Expected 1 miss, got %+v", sum.DataPoints)
				}
			}
		}
	}

	if !foundLatency {
		t.Error("vektor_get_latency_ns metric not found")
	}
	if !foundHits {
		t.Error("vektor_get_hits_total metric not found")
	}
	if !foundMisses {
		t.Error("vektor_get_misses_total metric not found")
	}
}

// TestOTelMetricsCollector_RecordSet tests Set operation metrics
func TestOTelMetricsCollector_RecordSet(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	collector, err := NewOTelMetricsCollector(provider)
	if err != nil {
		t.Fatalf("NewOTelMetricsCollector() error = %v", err)
	}

	collector.RecordSet(500)
	collector.RecordSet(1000)
	collector.RecordSet(750)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Failed to collect metrics: %v", err)
	}

	var foundLatency bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == "vektor_set_latency_ns" {
				foundLatency = true
				hist, ok := m.Data.(metricdata.Histogram[int64])
				if !ok {
					t.Errorf("Expected Histogram[int64], got %T", m.Data)
					continue
				}
				totalCount := uint64(0)
				for _, dp := range hist.DataPoints {
					totalCount += dp.Count
				}
				if totalCount != 3 {
					t.Errorf("Expected 3 operations, got %d", totalCount)
				}
			}
		}
	}

	if !foundLatency {
		t.Error("vektor_set_latency_ns metric not found")
	}
}

// TestOTelMetricsCollector_RecordDelete tests Delete operation metrics
func TestOTelMetricsCollector_RecordDelete(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	collector, err := NewOTelMetricsCollector(provider)
	if err != nil {
		t.Fatalf("NewOTelMetricsCollector() error = %v", err)
	}

	collector.RecordDelete(300)
	collector.RecordDelete(600)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Failed to collect metrics: %v", err)
	}

	var foundLatency bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == "vektor_delete_latency_ns" {
				foundLatency = true
				hist, ok := m.Data.(metricdata.Histogram[int64])
				if !ok {
					t.Errorf("Expected Histogram[int64], got %T", m.Data)
					continue
				}
				totalCount := uint64(0)
				for _, dp := range hist.DataPoints {
					totalCount += dp.Count
				}
				if totalCount != 2 {
					t.Errorf("Expected 2 operations, got %d", totalCount)
				}
			}
		}
	}

	if !foundLatency {
		t.Error("vektor_delete_latency_ns metric not found")
	}
}

// TestOTelMetricsCollector_RecordEviction tests eviction counter
func TestOTelMetricsCollector_RecordEviction(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	collector, err := NewOTelMetricsCollector(provider)
	if err != nil {
		t.Fatalf("NewOTelMetricsCollector() error = %v", err)
	}

	collector.RecordEviction()
	collector.RecordEviction()
	collector.RecordEviction()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Failed to collect metrics: %v", err)
	}

	var foundEvictions bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == "vektor_evictions_total" {
				foundEvictions = true
				sum, ok := m.Data.(metricdata.Sum[int64])
				if !ok {
					t.Errorf("Expected Sum[int64], got %T", m.Data)
					continue
				}
				if len(sum.DataPoints) == 0 || sum.DataPoints[0].Value != 3 {
					t.Errorf("Expected 3 evictions, got %+v", sum.DataPoints)
				}
			}
		}
	}

	if !foundEvictions {
		t.Error("vektor_evictions_total metric not found")
	}
}

// TestOTelMetricsCollector_RecordLockConflict tests lock-conflict counter
func TestOTelMetricsCollector_RecordLockConflict(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	collector, err := NewOTelMetricsCollector(provider)
	if err != nil {
		t.Fatalf("NewOTelMetricsCollector() error = %v", err)
	}

	collector.RecordLockConflict()
	collector.RecordLockConflict()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Failed to collect metrics: %v", err)
	}

	var found bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == "vektor_lock_conflicts_total" {
				found = true
				sum, ok := m.Data.(metricdata.Sum[int64])
				if !ok {
					t.Errorf("Expected Sum[int64], got %T", m.Data)
					continue
				}
				if len(sum.DataPoints) == 0 || sum.DataPoints[0].Value != 2 {
					t.Errorf("Expected 2 lock conflicts, got %+v", sum.DataPoints)
				}
			}
		}
	}
	if !found {
		t.Error("vektor_lock_conflicts_total metric not found")
	}
}

// TestOTelMetricsCollector_RecordMemoryReject tests memory-reject counter
func TestOTelMetricsCollector_RecordMemoryReject(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	collector, err := NewOTelMetricsCollector(provider)
	if err != nil {
		t.Fatalf("NewOTelMetricsCollector() error = %v", err)
	}

	collector.RecordMemoryReject()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Failed to collect metrics: %v", err)
	}

	var found bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == "vektor_memory_rejects_total" {
				found = true
				sum, ok := m.Data.(metricdata.Sum[int64])
				if !ok {
					t.Errorf("Expected Sum[int64], got %T", m.Data)
					continue
				}
				if len(sum.DataPoints) == 0 || sum.DataPoints[0].Value != 1 {
					t.Errorf("Expected 1 memory reject, got %+v", sum.DataPoints)
				}
			}
		}
	}
	if !found {
		t.Error("vektor_memory_rejects_total metric not found")
	}
}

// TestOTelMetricsCollector_Concurrent tests thread safety
func TestOTelMetricsCollector_Concurrent(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	collector, err := NewOTelMetricsCollector(provider)
	if err != nil {
		t.Fatalf("NewOTelMetricsCollector() error = %v", err)
	}

	const numGoroutines = 10
	const opsPerGoroutine = 100
	done := make(chan bool, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			for j := 0; j < opsPerGoroutine; j++ {
				collector.RecordGet(int64(100+id), j%2 == 0)
				collector.RecordSet(int64(200 + id))
				collector.RecordDelete(int64(50 + id))
				collector.RecordEviction()
				collector.RecordLockConflict()
				collector.RecordMemoryReject()
			}
			done <- true
		}(i)
	}

	for i := 0; i < numGoroutines; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("Test timeout - deadlock?")
		}
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Failed to collect metrics: %v", err)
	}

	if len(rm.ScopeMetrics) == 0 {
		t.Fatal("No metrics collected after concurrent operations")
	}
}

// TestOTelMetricsCollector_WithOptions tests constructor with options
func TestOTelMetricsCollector_WithOptions(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	collector, err := NewOTelMetricsCollector(
		provider,
		WithMeterName("custom_vektor"),
	)
	if err != nil {
		t.Fatalf("NewOTelMetricsCollector() error = %v", err)
	}
	if collector == nil {
		t.Fatal("NewOTelMetricsCollector() returned nil")
	}

	collector.RecordGet(1000, true)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Failed to collect metrics: %v", err)
	}

	if len(rm.ScopeMetrics) == 0 {
		t.Fatal("No scope metrics")
	}

	if rm.ScopeMetrics[0].Scope.Name != "custom_vektor" {
		t.Errorf("Expected scope name 'custom_vektor', got '%s'", rm.ScopeMetrics[0].Scope.Name)
	}
}
