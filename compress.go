// compress.go: transparent compression codec (spec §3.1 LZF encoding, §6.4)
//
// The specification only requires the contract "compress/decompress opaque
// bytes"; it explicitly leaves the codec itself out of core scope (§1). No
// Go LZF implementation appears anywhere in the reference corpus, so this
// engine substitutes github.com/golang/snappy, a real block compressor
// with the same compress(src)->dst / decompress(src)->dst shape. The
// on-wire encoding tag remains LZF per spec terminology; only the codec
// behind it differs from the source system (documented in DESIGN.md).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package vektor

import (
	"github.com/golang/snappy"
)

// scratch is the process-wide LZF scratch buffer (spec §3.3), sized lazily
// to the largest value compressed so far and reused across SET/MSET calls.
// It is not safe for reentrant use, consistent with the engine's
// single-threaded handler model (spec §5).
type scratch struct {
	buf []byte
}

func (sc *scratch) grow(n int) []byte {
	if cap(sc.buf) < n {
		sc.buf = make([]byte, n)
	}
	return sc.buf[:n]
}

// tryCompress attempts to compress value into srv's scratch buffer. It
// reports ok=false ("codec reports 0") when the compressed form would save
// fewer than minCompressionSaving bytes over the plain form, per spec §4.4's
// SET contract ("requesting at least 4 bytes of saving"). On success it
// returns a fresh heap copy the caller owns, matching the spec's "copy of
// the compressed bytes" wording.
func (s *Server) tryCompress(value []byte) (compressed []byte, ok bool) {
	dst := s.scratch.grow(snappy.MaxEncodedLen(len(value)))
	out := snappy.Encode(dst, value)
	if len(out) > len(value)-minCompressionSaving {
		return nil, false
	}
	cp := make([]byte, len(out))
	copy(cp, out)
	return cp, true
}

// decompress reverses tryCompress for reply-time decoding of an LZF item.
func decompress(compressed []byte) ([]byte, error) {
	out, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, NewErrInternal("decompress", err)
	}
	return out, nil
}

// updateCompressionAverage folds one more compression-rate sample into the
// server's running pairwise average (spec §9: "a pairwise average, not an
// arithmetic mean"; §4.4: "rate = 100 - 100*comprlen/vlen").
func (s *Server) updateCompressionAverage(vlen, comprlen int) {
	rate := float64(100) - (float64(100)*float64(comprlen))/float64(vlen)
	if s.ncompressed == 0 {
		s.compravg = rate
	} else {
		s.compravg = (s.compravg + rate) / 2
	}
}
