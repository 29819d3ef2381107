// stats.go: STATS emitter (spec §4.7, §6.3)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package vektor

import (
	"runtime"
	"strconv"

	"github.com/agilira/vektor/internal/heapstat"
)

// BuildDateTime is stamped by the build process (ldflags); it is a plain
// var rather than a const so a release pipeline can override it.
var BuildDateTime = "unknown"

// statRow is one STATS entry: a static key and its value bytes, tagged with
// the encoding its value should be reported under.
type statRow struct {
	key      string
	value    []byte
	encoding Encoding
}

// handleStats implements STATS (spec §4.7, §6.3): a fixed, ordered list of
// counters materialized as volatile items, emitted as one key/value set
// reply, then torn down. Keys are static string literals and are never
// freed; only the volatile value items are (spec's scratch-list ownership
// duality, §9).
func (s *Server) handleStats(sink ReplySink) {
	now := s.now()
	memUsed, fragRatio := heapstat.Snapshot()

	reqsPerClient := float64(0)
	if s.connections > 0 {
		reqsPerClient = float64(s.requests) / float64(s.connections)
	}

	used, capacity, totalCapacity, objectSize, maxBlockSize := s.pool.Stats()

	rows := []statRow{
		{"server_version", []byte(Version), PLAIN},
		{"server_build_datetime", []byte(BuildDateTime), PLAIN},
		{"server_allocator", []byte("go"), PLAIN},
		{"server_arch", []byte(runtime.GOARCH), PLAIN},
		{"server_started", formatInt(s.started), NUMBER},
		{"server_time", formatInt(now), NUMBER},
		{"first_item_seen", formatInt(s.firstin), NUMBER},
		{"last_item_seen", formatInt(s.lastin), NUMBER},
		{"total_items", formatInt(s.nitems), NUMBER},
		{"total_compressed_items", formatInt(s.ncompressed), NUMBER},
		{"total_clients", formatInt(s.nclients), NUMBER},
		{"total_cron_done", formatInt(s.crondone), NUMBER},
		{"total_connections", formatInt(s.connections), NUMBER},
		{"total_requests", formatInt(s.requests), NUMBER},
		{"item_pool_current_used", formatInt(used), NUMBER},
		{"item_pool_current_capacity", formatInt(capacity), NUMBER},
		{"item_pool_total_capacity", formatInt(totalCapacity), NUMBER},
		{"item_pool_object_size", formatInt(int64(objectSize)), NUMBER},
		{"item_pool_max_block_size", formatInt(int64(maxBlockSize)), NUMBER},
		{"memory_available", formatInt(s.memoryAvailable()), NUMBER},
		{"memory_usable", formatInt(s.cfg.MaxMemory), NUMBER},
		{"memory_used", formatInt(memUsed), NUMBER},
		{"memory_peak", formatInt(s.mempeak), NUMBER},
		{"memory_fragmentation", []byte(strconv.FormatFloat(fragRatio, 'f', 6, 64)), PLAIN},
		{"item_size_avg", []byte(strconv.FormatFloat(s.sizeavg, 'f', 2, 64)), PLAIN},
		{"compr_rate_avg", []byte(strconv.FormatFloat(s.compravg, 'f', 2, 64)), PLAIN},
		{"reqs_per_client_avg", []byte(strconv.FormatFloat(reqsPerClient, 'f', 2, 64)), PLAIN},
	}

	s.resetScratch()
	for _, r := range rows {
		s.scratchKeys = append(s.scratchKeys, []byte(r.key))
		if r.encoding == NUMBER {
			// NUMBER items carry their value inline in num, not in data.
			n, _ := parseLong(r.value)
			s.scratchValues = append(s.scratchValues, s.newVolatileItem(NUMBER, nil, n, numberWordSize))
			continue
		}
		s.scratchValues = append(s.scratchValues, s.newVolatileItem(r.encoding, r.value, 0, len(r.value)))
	}
	sink.EnqueueKVSet(s.scratchKeys, s.scratchValues)
	for _, v := range s.scratchValues {
		s.destroyVolatile(v)
	}
}
