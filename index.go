// index.go: storage index facade over a prefix tree
//
// Thin semantic wrapper over github.com/armon/go-radix (spec §3.2, §9 "node
// handle exposure"). Rather than exposing internal tree nodes so a handler
// can null a node's data in place, each key maps to a *slot indirection; a
// handler tombstones a key by nilling the slot's item pointer without
// touching the tree (no rebalance), and Remove performs the real tree
// deletion. This is the design note's suggested alternative, chosen because
// go-radix does not expose its internal node type.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package vektor

import (
	radix "github.com/armon/go-radix"
)

// slot is the indirection stored in the radix tree for every key. Keeping
// item behind a pointer-to-pointer lets Tombstone clear it without mutating
// the tree itself.
type slot struct {
	item *Item
}

// index is the storage index facade (spec §3.2).
type index struct {
	tree *radix.Tree
}

func newIndex() *index {
	return &index{tree: radix.New()}
}

// Find returns the item stored at key, or nil if absent. It does not
// evaluate TTL/lock state; callers run validity checks themselves.
func (ix *index) Find(key []byte) *Item {
	v, ok := ix.tree.Get(string(key))
	if !ok {
		return nil
	}
	return v.(*slot).item
}

// FindSlot returns the slot handle backing key, creating nothing. Handlers
// use this to Tombstone cheaply instead of calling Remove.
func (ix *index) FindSlot(key []byte) (*slot, bool) {
	v, ok := ix.tree.Get(string(key))
	if !ok {
		return nil, false
	}
	return v.(*slot), true
}

// Insert maps key to item, returning the previously stored item (nil if new).
func (ix *index) Insert(key []byte, item *Item) *Item {
	old, existed := ix.tree.Insert(string(key), &slot{item: item})
	if !existed {
		return nil
	}
	return old.(*slot).item
}

// Remove deletes key from the tree outright, returning the removed item.
func (ix *index) Remove(key []byte) *Item {
	old, existed := ix.tree.Delete(string(key))
	if !existed {
		return nil
	}
	return old.(*slot).item
}

// Tombstone nulls the item behind key's slot without removing the key from
// the tree, avoiding a rebalance. The key remains present but Find/WalkPrefix
// observers see a nil item and must treat it as absent.
func (ix *index) Tombstone(key []byte) {
	if s, ok := ix.FindSlot(key); ok {
		s.item = nil
	}
}

// Len reports how many keys the tree currently holds, including tombstoned
// slots whose item is nil but whose key has not been Removed.
func (ix *index) Len() int {
	return ix.tree.Len()
}

// searchLimit is a sentinel meaning "no cap on matches".
const searchLimit = -1

// SearchValues appends every (key, item) whose key starts with expr,
// skipping tombstoned slots, bounded by limit (searchLimit = unbounded) and
// maxKeyLen. Returned keys are freshly copied; the caller owns them.
func (ix *index) SearchValues(expr []byte, limit int, maxKeyLen int) (keys [][]byte, items []*Item) {
	return ix.SearchValuesInto(expr, limit, maxKeyLen, nil, nil)
}

// SearchValuesInto is SearchValues but appends onto keysDst/itemsDst instead
// of allocating fresh slices, so a caller holding a reusable m_keys/m_values
// scratch pair (spec §3.3) can pass last call's backing arrays, truncated to
// length 0, and avoid regrowing them on every multi-key reply.
func (ix *index) SearchValuesInto(expr []byte, limit int, maxKeyLen int, keysDst [][]byte, itemsDst []*Item) (keys [][]byte, items []*Item) {
	n := 0
	keys, items = keysDst, itemsDst
	ix.tree.WalkPrefix(string(expr), func(s string, v interface{}) bool {
		it := v.(*slot).item
		if it == nil {
			return false
		}
		if maxKeyLen > 0 && len(s) > maxKeyLen {
			return false
		}
		k := make([]byte, len(s))
		copy(k, s)
		keys = append(keys, k)
		items = append(items, it)
		n++
		return limit >= 0 && n >= limit
	})
	return keys, items
}

// SlotCallback is invoked for each matching (key, slot) pair during a
// prefix traversal. It returns the count to add to the traversal's tally
// (spec §3.2 search_nodes_callback: "cb's return value is summed").
type SlotCallback func(key []byte, s *slot) int

// SearchSlotsCallback invokes cb for every slot whose key starts with expr,
// bounded by maxKeyLen, and returns the sum of cb's return values. Iteration
// stops only when the tree is exhausted; it never revisits a key inserted by
// cb itself, since go-radix's WalkPrefix snapshots the tree's structure at
// call time (spec §4.5 "traversal snapshot semantics").
func (ix *index) SearchSlotsCallback(expr []byte, maxKeyLen int, cb SlotCallback) int {
	total := 0
	ix.tree.WalkPrefix(string(expr), func(s string, v interface{}) bool {
		if maxKeyLen > 0 && len(s) > maxKeyLen {
			return false
		}
		key := []byte(s)
		total += cb(key, v.(*slot))
		return false
	})
	return total
}

// ValueCallback is invoked with the matched key and its current item
// (nil if tombstoned); it returns the count to add to the tally.
type ValueCallback func(key []byte, item *Item) int

// SearchValuesCallback is SearchSlotsCallback without slot-level tombstone
// access, for handlers that only ever replace or read values. COUNT is built
// directly on this rather than a separate bool-predicate variant: summing
// cb's int tally and counting true predicates are the same operation, so a
// dedicated Count would only duplicate this traversal.
func (ix *index) SearchValuesCallback(expr []byte, maxKeyLen int, cb ValueCallback) int {
	return ix.SearchSlotsCallback(expr, maxKeyLen, func(key []byte, s *slot) int {
		return cb(key, s.item)
	})
}
