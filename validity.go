// validity.go: TTL expiry and lock-state predicates (spec §4.3)
//
// These are the only place TTL is ever evaluated; there is no background
// reaper in the core. Per the §9 design note, the node-handle variant is
// implemented as a key tombstone rather than an exposed tree node, since
// github.com/armon/go-radix does not expose its internal node type.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package vektor

// isItemValid reports whether it is still live given the current time. On
// observed expiry it tombstones key in the index and destroys the item,
// so callers never need a separate cleanup step (spec: "is-node-still-valid").
func (s *Server) isItemValid(key []byte, it *Item, now int64) bool {
	if it == nil {
		return false
	}
	if it.ttl > 0 && now-it.time >= it.ttl {
		s.logger.Debug("item expired", "key", string(key))
		s.idx.Tombstone(key)
		s.destroyItem(it)
		s.metrics.RecordExpire()
		return false
	}
	return true
}

// isItemValidRemove is isItemValid but performs a full tree removal instead
// of a tombstone (spec's "is-item-still-valid(remove=true)"), for call sites
// that only hold a key, not an already-resolved slot.
func (s *Server) isItemValidRemove(key []byte, it *Item, now int64) bool {
	if it == nil {
		return false
	}
	if it.ttl > 0 && now-it.time >= it.ttl {
		s.idx.Remove(key)
		s.destroyItem(it)
		s.metrics.RecordExpire()
		return false
	}
	return true
}

// isLocked reports whether it is currently locked at the given eta (elapsed
// seconds since it.time). lock == -1 means permanently locked; otherwise the
// item is locked while eta < lock.
func isLocked(it *Item, eta int64) bool {
	return it.lock == -1 || eta < it.lock
}

// lockEta computes the glossary's "lock eta": elapsed seconds since time.
func lockEta(it *Item, now int64) int64 {
	return now - it.time
}
