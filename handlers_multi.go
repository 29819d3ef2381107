// handlers_multi.go: multi-key (prefix-expression) handlers (spec §4.5)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package vektor

// mutateMatching drives the common multi-key contract: for each entry whose
// key starts with expr, skip locked entries (unless ignoreLock), skip and
// clean up expired entries, otherwise invoke mutate and count it. Returns
// the count of mutated entries (spec §4.5 common contract, steps 2-3).
func (s *Server) mutateMatching(expr []byte, ignoreLock bool, mutate func(key []byte, it *Item, now int64)) int {
	now := s.now()
	return s.idx.SearchSlotsCallback(expr, 0, func(key []byte, sl *slot) int {
		it := sl.item
		if it == nil {
			return 0
		}
		if !s.isItemValid(key, it, now) {
			return 0
		}
		if !ignoreLock && isLocked(it, lockEta(it, now)) {
			return 0
		}
		mutate(key, it, now)
		it.lastAccessTime = now
		return 1
	})
}

// replyCount replies VAL(NUMBER count) or ERR_NOT_FOUND when count is zero
// (spec §4.5 common contract, step 3).
func replyCount(sink ReplySink, count int) {
	if count == 0 {
		sink.EnqueueCode(ReplyErrNotFound)
		return
	}
	sink.EnqueueData(NUMBER, formatInt(int64(count)))
}

// handleMTTL implements MTTL <expr> <ttl> (spec §4.5).
func (s *Server) handleMTTL(payload []byte, sink ReplySink) {
	expr, ttlBuf, ok := parseKeyValue(payload, s.cfg.MaxKeySize, s.cfg.MaxValueSize, false)
	if !ok {
		sink.EnqueueCode(ReplyErr)
		return
	}
	ttl, ok := parseLong(ttlBuf)
	if !ok {
		sink.EnqueueCode(ReplyErrNaN)
		return
	}
	if ttl > 0 && ttl > s.cfg.MaxItemTTL {
		ttl = s.cfg.MaxItemTTL
	}
	count := s.mutateMatching(expr, false, func(_ []byte, it *Item, now int64) {
		it.ttl = ttl
		it.time = now
	})
	replyCount(sink, count)
}

// handleMDel implements MDEL <expr> (spec §4.5).
func (s *Server) handleMDel(payload []byte, sink ReplySink) {
	expr, _, ok := parseKeyValue(payload, s.cfg.MaxKeySize, s.cfg.MaxValueSize, true)
	if !ok {
		sink.EnqueueCode(ReplyErr)
		return
	}
	var destroyed []*Item
	count := s.mutateMatching(expr, false, func(key []byte, it *Item, _ int64) {
		s.idx.Tombstone(key)
		destroyed = append(destroyed, it)
	})
	for _, it := range destroyed {
		s.destroyItem(it)
	}
	replyCount(sink, count)
}

// handleMIncDec implements MINC/MDEC <expr> (spec §4.5, delta = +1/-1).
// Entries whose data does not parse as an integer are skipped (not counted),
// mirroring the single-key ERR_NAN case without aborting the whole traversal.
func (s *Server) handleMIncDec(payload []byte, sink ReplySink, delta int64) {
	expr, _, ok := parseKeyValue(payload, s.cfg.MaxKeySize, s.cfg.MaxValueSize, true)
	if !ok {
		sink.EnqueueCode(ReplyErr)
		return
	}
	skipped := 0
	count := s.mutateMatching(expr, false, func(_ []byte, it *Item, now int64) {
		switch it.encoding {
		case NUMBER:
			it.num += delta
		case PLAIN:
			n, ok := parseLong(it.data)
			if !ok {
				skipped++
				return
			}
			it.data = nil
			it.encoding = NUMBER
			it.num = n + delta
			it.size = numberWordSize
			it.time = now
		default:
			skipped++
		}
	})
	replyCount(sink, count-skipped)
}

// handleMLock implements MLOCK <expr> <secs> (spec §4.5).
func (s *Server) handleMLock(payload []byte, sink ReplySink) {
	expr, secsBuf, ok := parseKeyValue(payload, s.cfg.MaxKeySize, s.cfg.MaxValueSize, false)
	if !ok {
		sink.EnqueueCode(ReplyErr)
		return
	}
	secs, ok := parseLong(secsBuf)
	if !ok {
		sink.EnqueueCode(ReplyErrNaN)
		return
	}
	count := s.mutateMatching(expr, false, func(_ []byte, it *Item, now int64) {
		it.lock = secs
		it.time = now
	})
	replyCount(sink, count)
}

// handleMUnlock implements MUNLOCK <expr> (spec §4.5). Ignores lock state
// entirely, per the common contract's carve-out for MUNLOCK.
func (s *Server) handleMUnlock(payload []byte, sink ReplySink) {
	expr, _, ok := parseKeyValue(payload, s.cfg.MaxKeySize, s.cfg.MaxValueSize, true)
	if !ok {
		sink.EnqueueCode(ReplyErr)
		return
	}
	count := s.mutateMatching(expr, true, func(_ []byte, it *Item, _ int64) {
		it.lock = 0
	})
	replyCount(sink, count)
}

// handleMSet implements MSET <expr> <value> (spec §4.5 MSET). The parser is
// the strict key+value form, matching the §9 open question's decision to
// preserve the source's stricter multi-key semantics for MSET.
func (s *Server) handleMSet(payload []byte, sink ReplySink) {
	if s.memused > s.cfg.MaxMemory {
		s.logger.Warn("MSET rejected by memory ceiling", "memused", s.memused, "maxmem", s.cfg.MaxMemory)
		s.metrics.RecordMemoryReject()
		sink.EnqueueCode(ReplyErrMem)
		return
	}
	expr, value, ok := parseKeyValue(payload, s.cfg.MaxKeySize, s.cfg.MaxValueSize, false)
	if !ok {
		sink.EnqueueCode(ReplyErr)
		return
	}
	count := s.mutateMatching(expr, false, func(key []byte, old *Item, now int64) {
		it := s.buildValueItem(value, old.ttl, now)
		s.idx.Tombstone(key)
		s.idx.Insert(key, it)
		s.destroyItem(old)
	})
	replyCount(sink, count)
}

// handleMGet implements MGET <expr> <value> (spec §4.5). The trailing value
// field is required by the strict parser (§9 open question) but unused; it
// matches the on-wire grammar the source's gbParseKeyValue enforces.
func (s *Server) handleMGet(payload []byte, sink ReplySink) {
	expr, _, ok := parseKeyValue(payload, s.cfg.MaxKeySize, s.cfg.MaxValueSize, false)
	if !ok {
		sink.EnqueueCode(ReplyErr)
		return
	}
	now := s.now()
	s.resetScratch()
	keys, items := s.idx.SearchValuesInto(expr, searchLimit, 0, s.scratchKeys, s.scratchValues)
	s.scratchKeys, s.scratchValues = keys, items
	for i, k := range keys {
		if items[i] != nil && !s.isItemValid(k, items[i], now) {
			items[i] = nil
		}
	}
	sink.EnqueueKVSet(keys, items)
}
