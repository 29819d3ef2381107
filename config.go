// config.go: configuration for the vektor engine
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package vektor

import (
	"github.com/agilira/go-timecache"
)

// Config holds the limits and collaborators the engine is constructed with.
// Loading Config from a file is an external-collaborator concern (spec §1);
// see HotLimits for the argus-backed live-reload of the subset of fields
// that are safe to change without disturbing in-flight items.
type Config struct {
	// MaxKeySize bounds the number of bytes scanned for a key span.
	// Must be > 0. Default: DefaultMaxKeySize.
	MaxKeySize int

	// MaxValueSize bounds the number of bytes accepted for a value span.
	// Must be > 0. Default: DefaultMaxValueSize.
	MaxValueSize int

	// MaxItemTTL is the ceiling a parsed TTL is clamped to, in seconds.
	// Must be > 0. Default: DefaultMaxItemTTL.
	MaxItemTTL int64

	// MaxMemory is the memused ceiling gating SET/MSET (spec §5).
	// Must be > 0. Default: DefaultMaxMemory.
	MaxMemory int64

	// CompressionThreshold is the value size, in bytes, above which SET
	// attempts transparent compression before storing. Default:
	// DefaultCompressionThreshold.
	CompressionThreshold int

	// Logger is used for debugging and monitoring. Default: NoOpLogger.
	Logger Logger

	// TimeProvider provides server.time. Default: go-timecache backed.
	TimeProvider TimeProvider

	// MetricsCollector collects operation metrics. Default: NoOpMetricsCollector.
	MetricsCollector MetricsCollector
}

// Validate normalizes zero-valued fields to their documented defaults.
// It never returns an error; like balios' Config.Validate, it only
// normalizes — callers that want hard validation errors should compare
// the returned Config's fields to their own bounds before use.
func (c *Config) Validate() error {
	if c.MaxKeySize <= 0 {
		c.MaxKeySize = DefaultMaxKeySize
	}
	if c.MaxValueSize <= 0 {
		c.MaxValueSize = DefaultMaxValueSize
	}
	if c.MaxItemTTL <= 0 {
		c.MaxItemTTL = DefaultMaxItemTTL
	}
	if c.MaxMemory <= 0 {
		c.MaxMemory = DefaultMaxMemory
	}
	if c.CompressionThreshold <= 0 {
		c.CompressionThreshold = DefaultCompressionThreshold
	}
	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}
	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}
	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}
	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxKeySize:           DefaultMaxKeySize,
		MaxValueSize:         DefaultMaxValueSize,
		MaxItemTTL:           DefaultMaxItemTTL,
		MaxMemory:            DefaultMaxMemory,
		CompressionThreshold: DefaultCompressionThreshold,
		Logger:               NoOpLogger{},
		TimeProvider:         &systemTimeProvider{},
		MetricsCollector:     NoOpMetricsCollector{},
	}
}

// systemTimeProvider is the default time provider, backed by go-timecache's
// cached clock rather than a time.Now() syscall per read.
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano() / 1e9
}
