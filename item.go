// item.go: item lifecycle (spec §3.1, §4.2)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package vektor

// Encoding tags how an Item's payload is represented.
type Encoding int

const (
	// PLAIN is an uncompressed heap-owned byte buffer.
	PLAIN Encoding = iota
	// LZF is a compressed heap-owned byte buffer (spec's LZF label;
	// see compress.go for the concrete codec substitution).
	LZF
	// NUMBER is a machine-word integer stored inline, never heap-allocated.
	NUMBER
)

func (e Encoding) String() string {
	switch e {
	case PLAIN:
		return "PLAIN"
	case LZF:
		return "LZF"
	case NUMBER:
		return "NUMBER"
	default:
		return "UNKNOWN"
	}
}

// numberWordSize is the reported size of a NUMBER-encoded item (spec §3.1:
// "size == sizeof(native word)").
const numberWordSize = 8

// Item is a single stored value (spec §3.1). data is nil when encoding is
// NUMBER; num is meaningless otherwise.
type Item struct {
	data           []byte
	num            int64
	size           int
	encoding       Encoding
	time           int64
	lastAccessTime int64
	ttl            int64
	lock           int64
}

// Size returns the logical byte length of the item's payload.
func (it *Item) Size() int { return it.size }

// EncodingTag returns the item's current encoding tag.
func (it *Item) EncodingTag() Encoding { return it.encoding }

// Bytes returns the item's payload as raw bytes. For NUMBER items this
// decodes the inline integer to its decimal representation on demand; the
// caller owns the returned slice.
func (it *Item) Bytes() []byte {
	if it.encoding == NUMBER {
		return formatInt(it.num)
	}
	return it.data
}

// newItem allocates an item from srv's pool and populates it as a freshly
// created entry (spec §4.2 Create). now is the anchor time for time and
// lastAccessTime.
func (s *Server) newItem(encoding Encoding, data []byte, num int64, size int, ttl int64, now int64) *Item {
	it := s.pool.Get()
	it.encoding = encoding
	it.data = data
	it.num = num
	it.size = size
	it.ttl = ttl
	it.lock = 0
	it.time = now
	it.lastAccessTime = now
	s.accountCreate(it)
	return it
}

// newVolatileItem builds an item for a single reply without touching
// population statistics (spec §4.2 Create volatile / glossary "Volatile item").
// Used by STATS to wrap counter values and by KEYS to wrap matched keys as
// PLAIN items.
func (s *Server) newVolatileItem(encoding Encoding, data []byte, num int64, size int) *Item {
	it := s.pool.Get()
	it.encoding = encoding
	it.data = data
	it.num = num
	it.size = size
	it.ttl = -1
	it.lock = 0
	it.time = 0
	it.lastAccessTime = 0
	return it
}

// destroyItem frees it's buffer (if any), returns it to the pool, and
// updates population/memory counters (spec §4.2 Destroy).
func (s *Server) destroyItem(it *Item) {
	if it == nil {
		return
	}
	s.accountDestroy(it)
	it.data = nil
	s.pool.Put(it)
}

// destroyVolatile returns a volatile item to the pool without touching
// counters (spec §4.2 Destroy-volatile).
func (s *Server) destroyVolatile(it *Item) {
	if it == nil {
		return
	}
	it.data = nil
	s.pool.Put(it)
}
