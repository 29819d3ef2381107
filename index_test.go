// index_test.go: unit tests for the storage index facade
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package vektor

import "testing"

func TestIndexInsertFindRemove(t *testing.T) {
	ix := newIndex()
	it := &Item{data: []byte("v")}
	if old := ix.Insert([]byte("k"), it); old != nil {
		t.Fatalf("expected nil old on first insert, got %v", old)
	}
	if got := ix.Find([]byte("k")); got != it {
		t.Fatalf("Find: expected %v, got %v", it, got)
	}

	replacement := &Item{data: []byte("v2")}
	if old := ix.Insert([]byte("k"), replacement); old != it {
		t.Fatalf("expected old item returned on replace, got %v", old)
	}

	removed := ix.Remove([]byte("k"))
	if removed != replacement {
		t.Fatalf("Remove: expected %v, got %v", replacement, removed)
	}
	if ix.Find([]byte("k")) != nil {
		t.Fatal("expected key absent after Remove")
	}
}

func TestIndexTombstoneKeepsKeyAbsentValue(t *testing.T) {
	ix := newIndex()
	it := &Item{data: []byte("v")}
	ix.Insert([]byte("k"), it)

	ix.Tombstone([]byte("k"))
	if ix.Find([]byte("k")) != nil {
		t.Fatal("expected nil item after tombstone")
	}
	if _, ok := ix.FindSlot([]byte("k")); !ok {
		t.Fatal("expected slot to remain present after tombstone")
	}
	if ix.Len() != 1 {
		t.Fatalf("expected tombstoned key to still count in Len, got %d", ix.Len())
	}
}

func TestIndexSearchValuesPrefix(t *testing.T) {
	ix := newIndex()
	ix.Insert([]byte("user:1"), &Item{data: []byte("a")})
	ix.Insert([]byte("user:2"), &Item{data: []byte("b")})
	ix.Insert([]byte("other"), &Item{data: []byte("c")})

	keys, items := ix.SearchValues([]byte("user:"), searchLimit, 0)
	if len(keys) != 2 || len(items) != 2 {
		t.Fatalf("expected 2 matches, got %d keys %d items", len(keys), len(items))
	}
}

func TestIndexSearchValuesSkipsTombstoned(t *testing.T) {
	ix := newIndex()
	ix.Insert([]byte("p:1"), &Item{data: []byte("a")})
	ix.Insert([]byte("p:2"), &Item{data: []byte("b")})
	ix.Tombstone([]byte("p:1"))

	keys, _ := ix.SearchValues([]byte("p:"), searchLimit, 0)
	if len(keys) != 1 || string(keys[0]) != "p:2" {
		t.Fatalf("expected only p:2 to match, got %v", keys)
	}
}

func TestIndexSearchSlotsCallbackTally(t *testing.T) {
	ix := newIndex()
	ix.Insert([]byte("x:1"), &Item{data: []byte("a")})
	ix.Insert([]byte("x:2"), &Item{data: []byte("b")})
	ix.Insert([]byte("x:3"), &Item{data: []byte("c")})

	total := ix.SearchSlotsCallback([]byte("x:"), 0, func(key []byte, s *slot) int {
		if s.item == nil {
			return 0
		}
		return 1
	})
	if total != 3 {
		t.Fatalf("expected tally 3, got %d", total)
	}
}
