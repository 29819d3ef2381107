// hot-reload.go: dynamic limit reload with Argus integration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package vektor

import (
	"fmt"
	"sync"
	"time"

	"github.com/agilira/argus"
)

// HotLimits provides live reload of the engine's tunable limits using Argus.
// It watches a configuration file and updates the Server's limits in place
// when changes are detected. Unlike MaxSize in a fixed-capacity cache, every
// field here (MaxKeySize, MaxValueSize, MaxItemTTL, MaxMemory,
// CompressionThreshold) is read fresh by each handler invocation, so all of
// them are safe to change without disrupting in-flight items (spec §5: no
// suspension points inside a handler, so a reload between invocations never
// races one in progress).
type HotLimits struct {
	srv     *Server
	watcher *argus.Watcher
	mu      sync.RWMutex
	limits  limitsView

	// OnReload is called after limits are successfully reloaded. Optional;
	// must be fast and non-blocking.
	OnReload func(old, new limitsView)
}

// limitsView is the reloadable subset of Config.
type limitsView struct {
	MaxKeySize           int
	MaxValueSize         int
	MaxItemTTL           int64
	MaxMemory            int64
	CompressionThreshold int
}

// HotLimitsOptions configures hot reload behavior.
type HotLimitsOptions struct {
	// ConfigPath is the path to the configuration file to watch. Supports
	// JSON, YAML, TOML, HCL, INI, Properties formats.
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// OnReload is called after limits are successfully reloaded.
	OnReload func(old, new limitsView)

	// Logger for hot reload operations. If nil, defaults to the server's
	// logger. HotLimits itself writes no log entries.
	Logger Logger
}

// NewHotLimits creates a new hot-reloadable limits watcher for srv. It does
// not start watching; call Start to begin.
//
// Example configuration file (YAML):
//
//	engine:
//	  max_key_size: 250
//	  max_value_size: 1048576
//	  max_item_ttl: "720h"
//	  max_memory: 268435456
//	  compression_threshold: 64
func NewHotLimits(srv *Server, opts HotLimitsOptions) (*HotLimits, error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("config_path is required")
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = srv.logger
	}

	hl := &HotLimits{
		srv:      srv,
		OnReload: opts.OnReload,
		limits:   limitsFromConfig(srv.cfg),
	}

	argusConfig := argus.Config{PollInterval: opts.PollInterval}
	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hl.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	hl.watcher = watcher
	return hl, nil
}

// Start begins watching the configuration file for changes.
func (hl *HotLimits) Start() error {
	if hl.watcher.IsRunning() {
		return nil
	}
	return hl.watcher.Start()
}

// Stop stops watching the configuration file.
func (hl *HotLimits) Stop() error {
	return hl.watcher.Stop()
}

// Limits returns the current reloadable limits (thread-safe).
func (hl *HotLimits) Limits() limitsView {
	hl.mu.RLock()
	defer hl.mu.RUnlock()
	return hl.limits
}

func (hl *HotLimits) handleConfigChange(data map[string]interface{}) {
	hl.mu.Lock()
	old := hl.limits
	next := hl.parseLimits(data)
	hl.limits = next
	hl.mu.Unlock()

	hl.srv.cfg.MaxKeySize = next.MaxKeySize
	hl.srv.cfg.MaxValueSize = next.MaxValueSize
	hl.srv.cfg.MaxItemTTL = next.MaxItemTTL
	hl.srv.cfg.MaxMemory = next.MaxMemory
	hl.srv.cfg.CompressionThreshold = next.CompressionThreshold

	if hl.OnReload != nil {
		hl.OnReload(old, next)
	}
}

func limitsFromConfig(c Config) limitsView {
	return limitsView{
		MaxKeySize:           c.MaxKeySize,
		MaxValueSize:         c.MaxValueSize,
		MaxItemTTL:           c.MaxItemTTL,
		MaxMemory:            c.MaxMemory,
		CompressionThreshold: c.CompressionThreshold,
	}
}

func parsePositiveInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		if v > 0 {
			return v, true
		}
	case float64:
		if v > 0 {
			return int(v), true
		}
	}
	return 0, false
}

func parsePositiveInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int:
		if v > 0 {
			return int64(v), true
		}
	case int64:
		if v > 0 {
			return v, true
		}
	case float64:
		if v > 0 {
			return int64(v), true
		}
	}
	return 0, false
}

func parseDuration(value interface{}) (time.Duration, bool) {
	if str, ok := value.(string); ok {
		if d, err := time.ParseDuration(str); err == nil {
			return d, true
		}
	}
	return 0, false
}

// parseLimits extracts engine limits from Argus config data, falling back
// to the current limits for any field absent or malformed.
func (hl *HotLimits) parseLimits(data map[string]interface{}) limitsView {
	next := hl.limits

	section, ok := data["engine"].(map[string]interface{})
	if !ok {
		if _, hasKeySize := data["max_key_size"]; hasKeySize {
			section = data
		} else {
			return next
		}
	}

	if v, ok := parsePositiveInt(section["max_key_size"]); ok {
		next.MaxKeySize = v
	}
	if v, ok := parsePositiveInt(section["max_value_size"]); ok {
		next.MaxValueSize = v
	}
	if d, ok := parseDuration(section["max_item_ttl"]); ok {
		next.MaxItemTTL = int64(d.Seconds())
	}
	if v, ok := parsePositiveInt64(section["max_memory"]); ok {
		next.MaxMemory = v
	}
	if v, ok := parsePositiveInt(section["compression_threshold"]); ok {
		next.CompressionThreshold = v
	}
	return next
}
