// Package vektor implements an in-memory key/value engine whose defining
// feature is that every operation accepts either a literal key or a
// prefix expression that selects many keys at once; multi-key operations
// are dispatched atomically through a single traversal of an ordered
// prefix index.
//
// # Overview
//
// The engine stores opaque byte values, optionally compressed
// transparently, each carrying a TTL and an advisory lock, and is driven
// by a binary request/response protocol over already-accepted client
// connections (see cmd/vektord for a concrete TCP host). Durability is
// explicitly out of scope: the engine is purely in-memory and a restart
// loses all data.
//
// # Features
//
//   - Prefix-expression multi-key dispatch: MGET/MSET/MDEL/MTTL/MINC/MDEC/
//     MLOCK/MUNLOCK visit every key sharing a prefix in one traversal.
//   - Lazy TTL expiry: no background reaper; expiry is detected and the
//     item destroyed on the access that observes it.
//   - Transparent compression: values above a configurable threshold are
//     compressed on write when doing so saves a meaningful number of bytes.
//   - Advisory locking: LOCK/UNLOCK gate mutating ops without being an
//     OS-level lock.
//   - A numeric fast path: INC/DEC operate on an inline machine word once
//     an item's encoding has transitioned to NUMBER.
//
// # Quick start
//
//	cfg := vektor.DefaultConfig()
//	srv := vektor.NewServer(cfg)
//
//	// sink implements vektor.ReplySink, usually backed by a connection.
//	err := srv.Dispatch(requestBuffer, sink)
//
// # Concurrency model
//
// The engine is single-threaded cooperative: a Server is driven by one
// request at a time, handlers run to completion without suspension, and
// the only blocking boundary is the ReplySink.Enqueue* call. Running
// multiple Server instances (e.g. one per connection, or sharded by key
// prefix) is the supported path to parallelism; a single Server must never
// be called from two goroutines concurrently.
//
// # Observability
//
// A Logger interface (Debug/Info/Warn/Error) and a MetricsCollector
// interface (latency and hit/miss/lock/eviction counters) are both
// dependency-injected through Config, defaulting to no-ops. See the otel
// subpackage for an OpenTelemetry-backed MetricsCollector.
//
// # Configuration
//
// Config carries the engine's limits (MaxKeySize, MaxValueSize,
// MaxItemTTL, MaxMemory, CompressionThreshold) plus the injectable
// TimeProvider/Logger/MetricsCollector. DefaultConfig returns sane
// defaults; Validate normalizes zero-valued fields in place. HotLimits
// wraps a Server with a github.com/agilira/argus-backed file watcher for
// live-reloading the limits without a restart.
//
// # Error handling
//
// Handlers never propagate errors above themselves: every control path
// enqueues exactly one reply (OK, ERR, ERR_NOT_FOUND, ERR_NAN, ERR_MEM, or
// ERR_LOCKED). The exceptions are dispatcher-level: an unknown opcode or a
// request shorter than the opcode header is a fatal protocol violation the
// host is expected to treat by dropping the connection; everywhere else,
// errors.go's structured errors
// (built on github.com/agilira/go-errors) carry context for logging and
// are never surfaced to the wire protocol directly.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package vektor
