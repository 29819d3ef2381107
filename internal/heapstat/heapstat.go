// Package heapstat implements the heap-wrapper collaborator's read-only
// reporting surface required for STATS (spec §6.4: "mem_used,
// mem_fragmentation_ratio"). strdup/memdup/free are plain Go allocation and
// need no wrapper; only the introspection surface is worth a package.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package heapstat

import "runtime"

// Snapshot reports the process's current heap usage and an approximate
// fragmentation ratio, derived from runtime.MemStats. No example in the
// retrieval pack ships a heap-introspection library, so this is grounded
// directly on the standard library's runtime package (see DESIGN.md).
func Snapshot() (memUsed int64, fragmentationRatio float64) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	memUsed = int64(ms.HeapInuse)
	if ms.HeapSys == 0 {
		return memUsed, 0
	}
	fragmentationRatio = 1 - float64(ms.HeapInuse)/float64(ms.HeapSys)
	return memUsed, fragmentationRatio
}
