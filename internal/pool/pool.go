// Package pool implements the object pool collaborator required by the
// engine (spec §6.4: "Object pool: alloc, free, exposing used, capacity,
// total_capacity, object_size, max_block_size for stats").
//
// No object-pool library appears anywhere in the retrieval pack, so this
// wraps sync.Pool from the standard library, which is the idiomatic Go
// mechanism for exactly this job; see DESIGN.md for the justification.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package pool

import "sync"

// Pool hands out and reclaims *T values, tracking the counters the STATS
// reply needs. It is not safe for concurrent use across goroutines beyond
// what sync.Pool itself offers; the engine's single-threaded handler model
// (spec §5) means a single Pool instance is only ever touched from one
// logical flow at a time.
type Pool[T any] struct {
	sp            sync.Pool
	objectSize    int
	maxBlockSize  int
	used          int64
	totalCapacity int64
}

// New creates a pool of *T, constructed with newFn when empty. objectSize
// and maxBlockSize are reported verbatim in Stats for STATS emission.
func New[T any](objectSize, maxBlockSize int, newFn func() *T) *Pool[T] {
	p := &Pool[T]{objectSize: objectSize, maxBlockSize: maxBlockSize}
	p.sp.New = func() interface{} {
		p.totalCapacity++
		return newFn()
	}
	return p
}

// Get returns a pooled or freshly constructed *T and marks it in-use.
func (p *Pool[T]) Get() *T {
	v := p.sp.Get().(*T)
	p.used++
	return v
}

// Put returns v to the pool, marking it free.
func (p *Pool[T]) Put(v *T) {
	p.used--
	p.sp.Put(v)
}

// Stats reports the counters needed for the item_pool_* STATS rows.
func (p *Pool[T]) Stats() (used, capacity, totalCapacity int64, objectSize, maxBlockSize int) {
	return p.used, p.totalCapacity, p.totalCapacity, p.objectSize, p.maxBlockSize
}
