// handlers_single.go: single-key handlers (spec §4.4)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package vektor

import "bytes"

// handleSet implements SET <ttl> <key> <value> (spec §4.4 SET).
func (s *Server) handleSet(payload []byte, sink ReplySink) {
	if s.memused > s.cfg.MaxMemory {
		s.logger.Warn("SET rejected by memory ceiling", "memused", s.memused, "maxmem", s.cfg.MaxMemory)
		s.metrics.RecordMemoryReject()
		sink.EnqueueCode(ReplyErrMem)
		return
	}
	ttlBuf, key, value, ok := parseTTLKeyValue(payload, s.cfg.MaxKeySize, s.cfg.MaxValueSize)
	if !ok {
		sink.EnqueueCode(ReplyErr)
		return
	}
	ttl, ok := parseLong(ttlBuf)
	if !ok {
		sink.EnqueueCode(ReplyErrNaN)
		return
	}

	now := s.now()
	if sl, existed := s.idx.FindSlot(key); existed && sl.item != nil {
		if isLocked(sl.item, lockEta(sl.item, now)) {
			s.logger.Debug("SET against locked item", "key", string(key))
			s.metrics.RecordLockConflict()
			sink.EnqueueCode(ReplyErrLocked)
			return
		}
	}

	it := s.buildValueItem(value, ttl, now)
	old := s.idx.Insert(key, it)
	if old != nil {
		s.destroyItem(old)
	}
	s.metrics.RecordSet(0)
	sink.EnqueueItem(it)
}

// buildValueItem applies the compress-or-copy policy shared by SET and MSET
// (spec §4.4 SET, §4.5 MSET) and clamps ttl to maxitemttl when positive.
func (s *Server) buildValueItem(value []byte, ttl int64, now int64) *Item {
	effectiveTTL := int64(-1)
	if ttl > 0 {
		effectiveTTL = ttl
		if effectiveTTL > s.cfg.MaxItemTTL {
			effectiveTTL = s.cfg.MaxItemTTL
		}
	}

	if len(value) > s.cfg.CompressionThreshold {
		if compressed, ok := s.tryCompress(value); ok {
			s.updateCompressionAverage(len(value), len(compressed))
			return s.newItem(LZF, compressed, 0, len(compressed), effectiveTTL, now)
		}
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return s.newItem(PLAIN, cp, 0, len(cp), effectiveTTL, now)
}

// handleTTL implements TTL <key> <ttl> (spec §4.4 TTL).
func (s *Server) handleTTL(payload []byte, sink ReplySink) {
	key, ttlBuf, ok := parseKeyValue(payload, s.cfg.MaxKeySize, s.cfg.MaxValueSize, false)
	if !ok {
		sink.EnqueueCode(ReplyErr)
		return
	}
	ttl, ok := parseLong(ttlBuf)
	if !ok {
		sink.EnqueueCode(ReplyErrNaN)
		return
	}
	now := s.now()
	it := s.lookup(key, now)
	if it == nil {
		sink.EnqueueCode(ReplyErrNotFound)
		return
	}
	if ttl > 0 && ttl > s.cfg.MaxItemTTL {
		ttl = s.cfg.MaxItemTTL
	}
	it.ttl = ttl
	it.time = now
	it.lastAccessTime = now
	sink.EnqueueCode(ReplyOK)
}

// lookup resolves key to its still-valid item, or nil (miss or expired).
func (s *Server) lookup(key []byte, now int64) *Item {
	it := s.idx.Find(key)
	if it == nil {
		return nil
	}
	if !s.isItemValid(key, it, now) {
		return nil
	}
	return it
}

// handleGet implements GET <key> (spec §4.4 GET).
func (s *Server) handleGet(payload []byte, sink ReplySink) {
	key, _, ok := parseKeyValue(payload, s.cfg.MaxKeySize, s.cfg.MaxValueSize, true)
	if !ok {
		sink.EnqueueCode(ReplyErr)
		return
	}
	now := s.now()
	it := s.lookup(key, now)
	if it == nil {
		s.metrics.RecordGet(0, false)
		sink.EnqueueCode(ReplyErrNotFound)
		return
	}
	it.lastAccessTime = now
	s.metrics.RecordGet(0, true)
	sink.EnqueueItem(it)
}

// handleDel implements DEL <key> (spec §4.4 DEL).
func (s *Server) handleDel(payload []byte, sink ReplySink) {
	key, _, ok := parseKeyValue(payload, s.cfg.MaxKeySize, s.cfg.MaxValueSize, true)
	if !ok {
		sink.EnqueueCode(ReplyErr)
		return
	}
	now := s.now()
	it := s.idx.Find(key)
	if it == nil {
		sink.EnqueueCode(ReplyErrNotFound)
		return
	}
	// DEL is never called from inside a prefix traversal, so it is free to
	// use the real-removal variant instead of the tombstone one MDEL needs.
	if !s.isItemValidRemove(key, it, now) {
		sink.EnqueueCode(ReplyErrNotFound)
		return
	}
	if isLocked(it, lockEta(it, now)) {
		s.metrics.RecordLockConflict()
		sink.EnqueueCode(ReplyErrLocked)
		return
	}
	s.destroyItem(s.idx.Remove(key))
	s.metrics.RecordDelete(0)
	sink.EnqueueCode(ReplyOK)
}

// handleIncDec implements INC/DEC <key> (spec §4.4 INC/DEC, delta = +1/-1).
func (s *Server) handleIncDec(payload []byte, sink ReplySink, delta int64) {
	key, _, ok := parseKeyValue(payload, s.cfg.MaxKeySize, s.cfg.MaxValueSize, true)
	if !ok {
		sink.EnqueueCode(ReplyErr)
		return
	}
	now := s.now()
	sl, existed := s.idx.FindSlot(key)
	if !existed || sl.item == nil {
		it := s.newItem(NUMBER, nil, 1, numberWordSize, -1, now)
		s.idx.Insert(key, it)
		sink.EnqueueItem(it)
		return
	}
	it := sl.item
	if !s.isItemValid(key, it, now) {
		sink.EnqueueCode(ReplyErrNotFound)
		return
	}
	if isLocked(it, lockEta(it, now)) {
		sink.EnqueueCode(ReplyErrLocked)
		return
	}
	switch it.encoding {
	case NUMBER:
		it.num += delta
	case PLAIN:
		n, ok := parseLong(it.data)
		if !ok {
			sink.EnqueueCode(ReplyErrNaN)
			return
		}
		it.data = nil
		it.encoding = NUMBER
		it.num = n + delta
		it.size = numberWordSize
		it.time = now
	default:
		sink.EnqueueCode(ReplyErrNaN)
		return
	}
	it.lastAccessTime = now
	sink.EnqueueItem(it)
}

// handleLock implements LOCK <key> <secs> (spec §4.4 LOCK).
func (s *Server) handleLock(payload []byte, sink ReplySink) {
	key, secsBuf, ok := parseKeyValue(payload, s.cfg.MaxKeySize, s.cfg.MaxValueSize, false)
	if !ok {
		sink.EnqueueCode(ReplyErr)
		return
	}
	secs, ok := parseLong(secsBuf)
	if !ok {
		sink.EnqueueCode(ReplyErrNaN)
		return
	}
	now := s.now()
	it := s.lookup(key, now)
	if it == nil {
		sink.EnqueueCode(ReplyErrNotFound)
		return
	}
	if isLocked(it, lockEta(it, now)) {
		s.metrics.RecordLockConflict()
		sink.EnqueueCode(ReplyErrLocked)
		return
	}
	it.lock = secs
	it.time = now
	sink.EnqueueCode(ReplyOK)
}

// handleUnlock implements UNLOCK <key> (spec §4.4 UNLOCK). Unaffected by
// current lock state; always replies OK on any present, unexpired item.
func (s *Server) handleUnlock(payload []byte, sink ReplySink) {
	key, _, ok := parseKeyValue(payload, s.cfg.MaxKeySize, s.cfg.MaxValueSize, true)
	if !ok {
		sink.EnqueueCode(ReplyErr)
		return
	}
	now := s.now()
	it := s.lookup(key, now)
	if it == nil {
		sink.EnqueueCode(ReplyErrNotFound)
		return
	}
	it.lock = 0
	it.lastAccessTime = now
	sink.EnqueueCode(ReplyOK)
}

// metaFields are matched by prefix length (spec §4.4 META).
var metaFields = []string{"size", "encoding", "access", "created", "ttl", "left", "lock"}

// handleMeta implements META <key> <field> (spec §4.4 META).
func (s *Server) handleMeta(payload []byte, sink ReplySink) {
	key, fieldBuf, ok := parseKeyValue(payload, s.cfg.MaxKeySize, s.cfg.MaxValueSize, false)
	if !ok {
		sink.EnqueueCode(ReplyErr)
		return
	}
	now := s.now()
	it := s.lookup(key, now)
	if it == nil {
		sink.EnqueueCode(ReplyErrNotFound)
		return
	}

	var matched string
	for _, f := range metaFields {
		if len(fieldBuf) > 0 && bytes.HasPrefix([]byte(f), fieldBuf) {
			matched = f
			break
		}
	}
	if matched == "" {
		sink.EnqueueCode(ReplyErr)
		return
	}

	var n int64
	switch matched {
	case "size":
		n = int64(it.size)
	case "encoding":
		n = int64(it.encoding)
	case "access":
		n = it.lastAccessTime
	case "created":
		n = it.time
	case "ttl":
		n = it.ttl
	case "left":
		if it.ttl <= 0 {
			n = -1
		} else {
			n = it.ttl - (now - it.time)
		}
	case "lock":
		n = it.lock
	}
	sink.EnqueueData(NUMBER, formatInt(n))
}

// handleKeys implements KEYS <expr> (spec §4.4 KEYS). Matches are reported
// as (position, matched-key) pairs, position being a decimal string, not
// (matched-key, matched-key): gibson's query_keys emits 0,1,2,... on the key
// side and the key name as the value, and this mirrors that.
func (s *Server) handleKeys(payload []byte, sink ReplySink) {
	expr, _, ok := parseKeyValue(payload, s.cfg.MaxKeySize, s.cfg.MaxValueSize, true)
	if !ok {
		sink.EnqueueCode(ReplyErr)
		return
	}

	s.resetScratch()
	i := 0
	s.idx.SearchValuesCallback(expr, 0, func(key []byte, it *Item) int {
		if it == nil {
			return 0
		}
		kcopy := make([]byte, len(key))
		copy(kcopy, key)
		s.scratchKeys = append(s.scratchKeys, formatInt(int64(i)))
		s.scratchValues = append(s.scratchValues, s.newVolatileItem(PLAIN, kcopy, 0, len(kcopy)))
		i++
		return 1
	})
	if len(s.scratchKeys) == 0 {
		sink.EnqueueCode(ReplyErrNotFound)
		return
	}
	sink.EnqueueKVSet(s.scratchKeys, s.scratchValues)
	for _, v := range s.scratchValues {
		s.destroyVolatile(v)
	}
}

// handleCount implements COUNT <expr> (spec §4.4 COUNT). Always replies VAL.
func (s *Server) handleCount(payload []byte, sink ReplySink) {
	expr, _, ok := parseKeyValue(payload, s.cfg.MaxKeySize, s.cfg.MaxValueSize, true)
	if !ok {
		sink.EnqueueCode(ReplyErr)
		return
	}
	now := s.now()
	tally := s.idx.SearchValuesCallback(expr, 0, func(key []byte, it *Item) int {
		if it == nil || !s.isItemValid(key, it, now) {
			return 0
		}
		it.lastAccessTime = now
		return 1
	})
	sink.EnqueueData(NUMBER, formatInt(int64(tally)))
}
