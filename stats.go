// stats.go: per-cache hit/miss counters
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memora

import "sync/atomic"

// StatsCounter tracks hits and misses for a single named cache. All
// operations are relaxed, best-effort counts: a Snapshot taken concurrently
// with Hit/Miss calls may undercount by the handful of increments in
// flight, which is acceptable for a statistics surface that is observed,
// not relied on for correctness.
type StatsCounter struct {
	hits   atomic.Uint64
	misses atomic.Uint64
}

// Hit increments the hit counter.
func (s *StatsCounter) Hit() {
	s.hits.Add(1)
}

// Miss increments the miss counter.
func (s *StatsCounter) Miss() {
	s.misses.Add(1)
}

// Snapshot returns the current hit and miss counts.
func (s *StatsCounter) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
	}
}

// Reset zeroes both counters.
func (s *StatsCounter) Reset() {
	s.hits.Store(0)
	s.misses.Store(0)
}

// StatsSnapshot is an immutable point-in-time read of a StatsCounter.
type StatsSnapshot struct {
	Hits   uint64
	Misses uint64
}

// HitRate returns the fraction of lookups that were hits, in [0, 1]. A
// snapshot with no lookups at all returns 0.
func (s StatsSnapshot) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// MissRate returns the fraction of lookups that were misses, in [0, 1].
func (s StatsSnapshot) MissRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Misses) / float64(total)
}
