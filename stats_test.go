// stats_test.go: unit tests for the STATS emitter
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package vektor

import "testing"

// wantedStatKeys is the fixed order spec §6.3 requires.
var wantedStatKeys = []string{
	"server_version", "server_build_datetime", "server_allocator", "server_arch",
	"server_started", "server_time", "first_item_seen", "last_item_seen",
	"total_items", "total_compressed_items", "total_clients", "total_cron_done",
	"total_connections", "total_requests",
	"item_pool_current_used", "item_pool_current_capacity", "item_pool_total_capacity",
	"item_pool_object_size", "item_pool_max_block_size",
	"memory_available", "memory_usable", "memory_used", "memory_peak",
	"memory_fragmentation", "item_size_avg", "compr_rate_avg", "reqs_per_client_avg",
}

func TestHandleStatsKeyOrder(t *testing.T) {
	clock := &fakeClock{t: 1}
	s := newTestServer(clock)
	sink := &testSink{}

	s.handleStats(sink)
	if len(sink.kvKeys) != len(wantedStatKeys) {
		t.Fatalf("expected %d stat rows, got %d", len(wantedStatKeys), len(sink.kvKeys))
	}
	for i, want := range wantedStatKeys {
		if string(sink.kvKeys[i]) != want {
			t.Fatalf("row %d: expected key %q, got %q", i, want, sink.kvKeys[i])
		}
	}
}

func TestHandleStatsReflectsCounters(t *testing.T) {
	clock := &fakeClock{t: 0}
	s := newTestServer(clock)
	sink := &testSink{}

	s.Dispatch(req(OpSet, "-1 k v"), sink)
	sink.reset()

	s.handleStats(sink)
	idx := indexOf(wantedStatKeys, "total_items")
	if string(sink.kvVals[idx].Bytes()) != "1" {
		t.Fatalf("expected total_items=1, got %s", sink.kvVals[idx].Bytes())
	}
}

func indexOf(ss []string, target string) int {
	for i, s := range ss {
		if s == target {
			return i
		}
	}
	return -1
}
