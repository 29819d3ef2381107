// server.go: process-wide engine state (spec §3.3)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package vektor

import (
	"unsafe"

	"github.com/agilira/vektor/internal/pool"
)

// Server owns every piece of process-wide state the engine needs: the
// prefix index, the item pool, the LZF scratch buffer, configured limits,
// and the counters STATS reports. A Server is driven by exactly one
// dispatcher goroutine at a time (spec §5); it holds no internal mutex.
type Server struct {
	idx     *index
	pool    *pool.Pool[Item]
	scratch scratch
	cfg     Config
	logger  Logger
	clock   TimeProvider
	metrics MetricsCollector

	// reusable scratch lists for multi-key replies (spec §3.3 m_keys/m_values).
	scratchKeys   [][]byte
	scratchValues []*Item

	started     int64
	nitems      int64
	ncompressed int64
	nclients    int64
	connections int64
	requests    int64
	crondone    int64
	firstin     int64
	lastin      int64
	memused     int64
	mempeak     int64
	sizeavg     float64
	compravg    float64
}

// NewServer constructs a Server from cfg, normalizing zero-valued fields to
// their documented defaults.
func NewServer(cfg Config) *Server {
	cfg.Validate()
	s := &Server{
		idx:    newIndex(),
		cfg:    cfg,
		logger: cfg.Logger,
		clock:  cfg.TimeProvider,
		metrics: cfg.MetricsCollector,
	}
	s.pool = pool.New(int(unsafe.Sizeof(Item{})), cfg.MaxValueSize, func() *Item { return &Item{} })
	s.started = s.clock.Now()
	return s
}

// now returns server.time: the cached wall-clock second, read once per
// handler invocation so a later read within the same handler stays
// consistent with the value observed at entry (spec §5).
func (s *Server) now() int64 { return s.clock.Now() }

// OnConnect is called by the host accept loop when a new client connection
// is accepted (an out-of-core concern per spec §1); it bumps the client and
// connection counters STATS reports.
func (s *Server) OnConnect() {
	s.nclients++
	s.connections++
}

// OnDisconnect is called by the host accept loop when a client connection
// closes.
func (s *Server) OnDisconnect() {
	if s.nclients > 0 {
		s.nclients--
	}
}

// Cron is called by the host's external periodic task (spec §3.3's "cron")
// once per sweep; the engine performs no TTL sweeping itself (expiry is
// lazy, spec §4.3), so this only advances the completed-sweep counter.
func (s *Server) Cron() {
	s.crondone++
}

// accountCreate updates population/memory counters on item creation
// (spec §4.2 Create): items-count, memory-used, first/last insert time,
// peak memory, average size, compressed count.
func (s *Server) accountCreate(it *Item) {
	s.nitems++
	s.memused += int64(it.size)
	if s.memused > s.mempeak {
		s.mempeak = s.memused
	}
	now := it.time
	if s.firstin == 0 {
		s.firstin = now
	}
	s.lastin = now
	if s.nitems == 1 {
		s.sizeavg = float64(it.size)
	} else {
		s.sizeavg = (s.sizeavg + float64(it.size)) / 2
	}
	if it.encoding == LZF {
		s.ncompressed++
	}
}

// accountDestroy reverses accountCreate's counter effects (spec §4.2
// Destroy: "update counters" symmetrically with Create).
func (s *Server) accountDestroy(it *Item) {
	s.nitems--
	s.memused -= int64(it.size)
	if s.memused < 0 {
		s.memused = 0
	}
	if it.encoding == LZF {
		s.ncompressed--
	}
}

// memoryAvailable reports maxmem minus memused, floored at zero, for the
// memory_available STATS row.
func (s *Server) memoryAvailable() int64 {
	avail := s.cfg.MaxMemory - s.memused
	if avail < 0 {
		return 0
	}
	return avail
}

// resetScratch truncates the reusable key/value scratch lists for a new
// multi-key reply, retaining their backing arrays.
func (s *Server) resetScratch() {
	s.scratchKeys = s.scratchKeys[:0]
	s.scratchValues = s.scratchValues[:0]
}
