// store_threadlocal.go: single-owner, no-lock store
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memora

import "sync/atomic"

// storeConfig is the normalized, runtime form of Config shared by all three
// store shapes: plain fields instead of optionals, a bound *StatsCounter
// instead of a name to look up on every operation. limit and ttlNanos are
// atomics since HotReload may update them concurrently with reads from a
// shared or concurrent store's hot path.
type storeConfig struct {
	name            string
	limitVal        atomic.Int64
	maxMemory       int64
	policy          Policy
	ttlNanosVal     atomic.Int64
	frequencyWeight float64
	timeProvider    TimeProvider
	metrics         MetricsCollector
	logger          Logger
	stats           *StatsCounter
}

func newStoreConfig(cfg Config) storeConfig {
	_ = cfg.Validate()
	sc := storeConfig{
		name:            cfg.Name,
		maxMemory:       cfg.MaxMemory,
		policy:          cfg.Policy,
		frequencyWeight: cfg.FrequencyWeight,
		timeProvider:    cfg.TimeProvider,
		metrics:         cfg.MetricsCollector,
		logger:          cfg.Logger,
		stats:           RegisterStats(cfg.Name),
	}
	sc.limitVal.Store(int64(cfg.Limit))
	sc.ttlNanosVal.Store(int64(cfg.TTL))
	return sc
}

func (c *storeConfig) limit() int        { return int(c.limitVal.Load()) }
func (c *storeConfig) ttlNanos() int64    { return c.ttlNanosVal.Load() }

// SetLimit implements Reconfigurable.
func (c *storeConfig) SetLimit(limit int) { c.limitVal.Store(int64(limit)) }

// SetTTL implements Reconfigurable.
func (c *storeConfig) SetTTL(ttlNanos int64) { c.ttlNanosVal.Store(ttlNanos) }

// ThreadLocalStore is a single-owner cache with no internal synchronization.
// Every operation must run to completion before another operation on the
// same store begins; callers are responsible for not sharing one across
// goroutines.
type ThreadLocalStore[V any] struct {
	cfg          storeConfig
	m            map[string]*entry[V]
	order        []string
	currentBytes int64
}

// NewThreadLocalStore constructs a store from cfg, registering its
// statistics counter under cfg.Name.
func NewThreadLocalStore[V any](cfg Config) *ThreadLocalStore[V] {
	return &ThreadLocalStore[V]{
		cfg: newStoreConfig(cfg),
		m:   make(map[string]*entry[V]),
	}
}

// Get looks up key, applying expiry and policy-metadata updates per the
// store's policy, and records a hit or miss.
func (s *ThreadLocalStore[V]) Get(key string) (V, bool) {
	var zero V
	now := s.cfg.timeProvider.Now()

	e, present := s.m[key]
	if !present {
		s.cfg.stats.Miss()
		s.cfg.metrics.RecordGet(s.cfg.timeProvider.Now()-now, false)
		return zero, false
	}

	if e.isExpired(s.cfg.ttlNanos(), now) {
		s.removeKey(key)
		s.cfg.stats.Miss()
		s.cfg.metrics.RecordExpiration()
		s.cfg.metrics.RecordGet(s.cfg.timeProvider.Now()-now, false)
		return zero, false
	}

	value := e.value
	if s.cfg.policy.usesRecencyReorder() {
		s.order = moveKeyToEnd(s.order, key)
	}
	if s.cfg.policy.usesFrequencyCount() {
		e.incrementFrequency()
	}

	s.cfg.stats.Hit()
	s.cfg.metrics.RecordGet(s.cfg.timeProvider.Now()-now, true)
	return value, true
}

// Insert stores value under key, with no memory accounting, then enforces
// the entry-count limit.
func (s *ThreadLocalStore[V]) Insert(key string, value V) {
	now := s.cfg.timeProvider.Now()
	s.insertEntry(key, newEntry[V](value, now, false))
	s.enforceLimit()
	s.cfg.metrics.RecordSet(s.cfg.timeProvider.Now() - now)
}

// InsertWithMemory stores value under key subject to the store's MaxMemory
// bound: if value alone exceeds it, the insertion is rejected outright;
// otherwise entries are evicted by policy until there is room.
func (s *ThreadLocalStore[V]) InsertWithMemory(key string, value V) error {
	size := int64(EstimateSize(value))
	if s.cfg.maxMemory > 0 && size > s.cfg.maxMemory {
		return NewErrAdmissionRejected(key, int(size), int(s.cfg.maxMemory))
	}

	now := s.cfg.timeProvider.Now()

	if prior, present := s.m[key]; present {
		s.currentBytes -= int64(EstimateSize(prior.value))
	}

	for s.cfg.maxMemory > 0 && s.currentBytes+size > s.cfg.maxMemory {
		if !s.evictOnce() {
			break
		}
	}

	s.insertEntry(key, newEntry[V](value, now, false))
	s.currentBytes += size
	s.enforceLimit()
	s.cfg.metrics.RecordSet(s.cfg.timeProvider.Now() - now)
	return nil
}

// InsertResult stores value under key only if err is nil; a non-nil err
// leaves the store untouched, since the body's own failure is never cached.
func (s *ThreadLocalStore[V]) InsertResult(key string, value V, err error) {
	if err != nil {
		return
	}
	s.Insert(key, value)
}

// InsertResultWithMemory is InsertWithMemory's counterpart to InsertResult.
func (s *ThreadLocalStore[V]) InsertResultWithMemory(key string, value V, err error) error {
	if err != nil {
		return nil
	}
	return s.InsertWithMemory(key, value)
}

// insertEntry performs the shared touch-or-insert logic: an already-present
// key has its order position updated by touchOnInsert (moved to the back
// for recency-reordering policies), otherwise a fresh key is appended to
// order. For every policy the stored entry is then replaced by e, so an
// insert over a present key never keeps the resident value.
func (s *ThreadLocalStore[V]) insertEntry(key string, e *entry[V]) {
	if _, present := s.m[key]; present {
		s.order = touchOnInsert(s.order, key, s.cfg.policy)
	} else {
		s.order = append(s.order, key)
	}
	s.m[key] = e
}

// enforceLimit evicts entries by policy until the map size is within
// cfg.limit. A limit <= 0 means unbounded.
func (s *ThreadLocalStore[V]) enforceLimit() {
	if s.cfg.limit() <= 0 {
		return
	}
	for len(s.m) > s.cfg.limit() {
		if !s.evictOnce() {
			break
		}
	}
}

// evictOnce removes a single victim per the store's policy, returning
// whether one was found.
func (s *ThreadLocalStore[V]) evictOnce() bool {
	now := s.cfg.timeProvider.Now()
	var key string
	var ok bool
	s.order, key, ok = evictOne(s.order, s.m, s.cfg.policy, s.cfg.ttlNanos(), s.cfg.frequencyWeight, now)
	if ok {
		s.cfg.metrics.RecordEviction()
	}
	return ok
}

// removeKey deletes key from both the map and the order queue.
func (s *ThreadLocalStore[V]) removeKey(key string) {
	delete(s.m, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Remove deletes key, reporting whether it was present. It backs
// InvalidateOn's stale-on-hit removal, the one single-key eviction path
// that is not driven by the store's own policy/TTL.
func (s *ThreadLocalStore[V]) Remove(key string) bool {
	if _, present := s.m[key]; !present {
		return false
	}
	s.removeKey(key)
	return true
}

// Clear empties the store, leaving its statistics counter untouched.
func (s *ThreadLocalStore[V]) Clear() {
	s.m = make(map[string]*entry[V])
	s.order = nil
	s.currentBytes = 0
}

// Stats returns the current hit/miss snapshot for this store.
func (s *ThreadLocalStore[V]) Stats() StatsSnapshot {
	return s.cfg.stats.Snapshot()
}

// PurgeWhere removes every resident key for which predicate returns true,
// returning how many were removed. It backs InvalidateWith/InvalidateAllWith.
func (s *ThreadLocalStore[V]) PurgeWhere(predicate func(key string) bool) int {
	removed := 0
	for key := range s.m {
		if predicate(key) {
			s.removeKey(key)
			removed++
		}
	}
	return removed
}

// Len reports the number of entries currently resident.
func (s *ThreadLocalStore[V]) Len() int {
	return len(s.m)
}

// SetLimit implements Reconfigurable.
func (s *ThreadLocalStore[V]) SetLimit(limit int) { s.cfg.SetLimit(limit) }

// SetTTL implements Reconfigurable.
func (s *ThreadLocalStore[V]) SetTTL(ttlNanos int64) { s.cfg.SetTTL(ttlNanos) }
