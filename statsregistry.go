// statsregistry.go: process-wide registry of named StatsCounters
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memora

import "sync"

// StatsRegistry maps cache names to their StatsCounter. A process normally
// uses the package-level singleton via RegisterStats/GetStats and friends;
// the type is exported so tests can construct an isolated instance instead
// of sharing global state.
type StatsRegistry struct {
	mu       sync.RWMutex
	counters map[string]*StatsCounter
}

func newStatsRegistry() *StatsRegistry {
	return &StatsRegistry{counters: make(map[string]*StatsCounter)}
}

var globalStats = newStatsRegistry()

// Register creates (or returns the existing) StatsCounter for name.
func (r *StatsRegistry) Register(name string) *StatsCounter {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.counters[name]; ok {
		return c
	}
	c := &StatsCounter{}
	r.counters[name] = c
	return c
}

// Get returns the StatsSnapshot for name and whether it was registered.
func (r *StatsRegistry) Get(name string) (StatsSnapshot, bool) {
	r.mu.RLock()
	c, ok := r.counters[name]
	r.mu.RUnlock()
	if !ok {
		return StatsSnapshot{}, false
	}
	return c.Snapshot(), true
}

// GetRef returns the live *StatsCounter for name, or nil if unregistered.
func (r *StatsRegistry) GetRef(name string) *StatsCounter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counters[name]
}

// List returns the names of every registered cache.
func (r *StatsRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.counters))
	for name := range r.counters {
		names = append(names, name)
	}
	return names
}

// Reset zeroes the counters for name without unregistering it.
func (r *StatsRegistry) Reset(name string) {
	r.mu.RLock()
	c, ok := r.counters[name]
	r.mu.RUnlock()
	if ok {
		c.Reset()
	}
}

// Clear removes every registered cache from the registry.
func (r *StatsRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters = make(map[string]*StatsCounter)
}

// RegisterStats creates (or returns the existing) StatsCounter for name in
// the process-wide registry.
func RegisterStats(name string) *StatsCounter {
	return globalStats.Register(name)
}

// GetStats returns the StatsSnapshot for name from the process-wide registry.
func GetStats(name string) (StatsSnapshot, bool) {
	return globalStats.Get(name)
}

// GetStatsRef returns the live *StatsCounter for name from the process-wide
// registry, or nil if unregistered.
func GetStatsRef(name string) *StatsCounter {
	return globalStats.GetRef(name)
}

// ListStats returns the names of every cache registered process-wide.
func ListStats() []string {
	return globalStats.List()
}

// ResetStats zeroes the counters for name in the process-wide registry.
func ResetStats(name string) {
	globalStats.Reset(name)
}

// ClearStats removes every cache from the process-wide registry.
func ClearStats() {
	globalStats.Clear()
}
