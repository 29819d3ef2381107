// compress_test.go: unit tests for the transparent compression codec
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package vektor

import "testing"

func TestTryCompressRoundTrip(t *testing.T) {
	s := NewServer(DefaultConfig())
	value := make([]byte, 512)
	for i := range value {
		value[i] = 'x'
	}

	compressed, ok := s.tryCompress(value)
	if !ok {
		t.Fatal("expected highly compressible value to compress")
	}
	if len(compressed) >= len(value) {
		t.Fatalf("expected compressed smaller than original: %d vs %d", len(compressed), len(value))
	}

	out, err := decompress(compressed)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if string(out) != string(value) {
		t.Fatal("round-tripped value mismatch")
	}
}

func TestTryCompressRejectsInsufficientSaving(t *testing.T) {
	s := NewServer(DefaultConfig())
	// Short, high-entropy-looking value: snappy's output won't beat it by
	// minCompressionSaving bytes.
	value := []byte{0x01, 0x02, 0x03, 0x04, 0x05}

	if _, ok := s.tryCompress(value); ok {
		t.Fatal("expected tiny incompressible value to be rejected")
	}
}

func TestUpdateCompressionAveragePairwise(t *testing.T) {
	s := NewServer(DefaultConfig())

	s.updateCompressionAverage(100, 50) // rate = 50
	if s.compravg != 50 {
		t.Fatalf("expected first sample to set average directly, got %v", s.compravg)
	}

	s.ncompressed = 1
	s.updateCompressionAverage(100, 90) // rate = 10
	want := (50.0 + 10.0) / 2
	if s.compravg != want {
		t.Fatalf("expected pairwise average %v, got %v", want, s.compravg)
	}
}
