// vektor.go: package-level constants and defaults
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package vektor

const (
	// Version of the vektor engine.
	Version = "v0.1.0-dev"

	// DefaultMaxKeySize bounds the number of bytes scanned for a key span.
	DefaultMaxKeySize = 250

	// DefaultMaxValueSize bounds the number of bytes accepted for a value span.
	DefaultMaxValueSize = 1 << 20 // 1 MiB

	// DefaultMaxItemTTL is the ceiling a parsed TTL is clamped to, in seconds.
	DefaultMaxItemTTL = 60 * 60 * 24 * 30 // 30 days

	// DefaultMaxMemory is the default memused ceiling gating SET/MSET, in bytes.
	DefaultMaxMemory = 256 << 20 // 256 MiB

	// DefaultCompressionThreshold is the value size, in bytes, above which SET
	// attempts transparent compression before storing.
	DefaultCompressionThreshold = 64

	// minCompressionSaving is the minimum number of bytes a compressed value
	// must save over the plain form to be worth storing compressed.
	minCompressionSaving = 4
)
