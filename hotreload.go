// hotreload.go: dynamic TTL/limit reload with Argus integration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memora

import (
	"fmt"
	"sync"
	"time"

	"github.com/agilira/argus"
)

// HotReload watches a configuration file and applies TTL/limit changes to
// the named stores registered with it. Changes that require a rebuild
// (policy, scope, frequency weight) are intentionally not hot-reloadable;
// HotReload only ever calls SetTTL/SetLimit.
type HotReload struct {
	watcher *argus.Watcher
	logger  Logger

	mu      sync.RWMutex
	targets map[string]Reconfigurable

	// OnReload is called after a configuration change is successfully
	// applied to at least one registered store. Optional, must be fast.
	OnReload func(name string, ttl time.Duration, limit int)
}

// HotReloadOptions configures a HotReload watcher.
type HotReloadOptions struct {
	// ConfigPath is the path to the configuration file to watch, of the
	// shape {"caches": {"<name>": {"ttl": "30s", "limit": 1000}}}.
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// OnReload is called after a configuration change is successfully applied.
	OnReload func(name string, ttl time.Duration, limit int)

	// Logger for hot-reload diagnostics. Default: NoOpLogger.
	Logger Logger
}

// NewHotReload constructs a HotReload watching opts.ConfigPath and starts
// it immediately.
func NewHotReload(opts HotReloadOptions) (*HotReload, error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("config_path is required")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	if opts.Logger == nil {
		opts.Logger = NoOpLogger{}
	}

	hr := &HotReload{
		logger:   opts.Logger,
		targets:  make(map[string]Reconfigurable),
		OnReload: opts.OnReload,
	}

	argusConfig := argus.Config{PollInterval: opts.PollInterval}
	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hr.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	hr.watcher = watcher

	return hr, nil
}

// Register associates name with the store that should receive TTL/limit
// changes read for that name from the watched config file.
func (hr *HotReload) Register(name string, target Reconfigurable) {
	hr.mu.Lock()
	defer hr.mu.Unlock()
	hr.targets[name] = target
}

// Start begins watching the configuration file for changes.
func (hr *HotReload) Start() error {
	if hr.watcher.IsRunning() {
		return nil
	}
	return hr.watcher.Start()
}

// Stop stops watching the configuration file.
func (hr *HotReload) Stop() error {
	return hr.watcher.Stop()
}

// handleConfigChange is invoked by Argus when the watched file changes.
func (hr *HotReload) handleConfigChange(data map[string]interface{}) {
	cachesSection, ok := data["caches"].(map[string]interface{})
	if !ok {
		return
	}

	for name, raw := range cachesSection {
		section, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		hr.mu.RLock()
		target, registered := hr.targets[name]
		hr.mu.RUnlock()
		if !registered {
			hr.logger.Warn("hot-reload: no store registered for cache", "name", name)
			continue
		}

		ttl, hasTTL := parseDuration(section["ttl"])
		limit, hasLimit := parsePositiveInt(section["limit"])

		if hasTTL {
			target.SetTTL(int64(ttl))
		}
		if hasLimit {
			target.SetLimit(limit)
		}

		if hasTTL || hasLimit {
			hr.logger.Info("hot-reload: applied config change", "name", name, "ttl", ttl, "limit", limit)
			if hr.OnReload != nil {
				hr.OnReload(name, ttl, limit)
			}
		}
	}
}

// parsePositiveInt extracts a positive integer from an interface{} value.
// Supports both int and float64, since JSON/YAML decoders vary.
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

// parseDuration extracts a time.Duration from a string value.
func parseDuration(value interface{}) (time.Duration, bool) {
	if str, ok := value.(string); ok {
		if d, err := time.ParseDuration(str); err == nil {
			return d, true
		}
	}
	return 0, false
}
