// store_concurrent.go: sharded store for cooperatively-scheduled hosts
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memora

import "sync"

const concurrentShardCount = 16 // power of two, masked against fnv64a(key)

// concurrentShard is one partition of ConcurrentStore's map, independently
// locked so lookups against different shards never contend.
type concurrentShard[V any] struct {
	mu sync.Mutex
	m  map[string]*entry[V]
}

// ConcurrentStore partitions its map across a fixed number of independently
// locked shards (grounded on the sharding technique in pack example
// IvanBrykalov-shardcache) and keeps a single mutex-protected order queue,
// touched only briefly and never across a suspension point.
//
// Stampede policy: concurrent misses on the same key are not deduplicated.
// Every goroutine that misses computes the value; the first to reach
// Insert installs it, the rest observe the key already present and no-op.
// Each goroutine still returns its own computed value. This store
// intentionally does not coalesce concurrent misses with a singleflight;
// see the package documentation for why.
type ConcurrentStore[V any] struct {
	cfg    storeConfig
	shards [concurrentShardCount]*concurrentShard[V]

	orderMu      sync.Mutex
	order        []string
	currentBytes int64
}

// NewConcurrentStore constructs a store from cfg, registering its
// statistics counter under cfg.Name.
func NewConcurrentStore[V any](cfg Config) *ConcurrentStore[V] {
	s := &ConcurrentStore[V]{cfg: newStoreConfig(cfg)}
	for i := range s.shards {
		s.shards[i] = &concurrentShard[V]{m: make(map[string]*entry[V])}
	}
	return s
}

// shardFor picks a shard by hashing key with FNV-1a and masking against
// len(shards)-1, which is a power of two.
func (s *ConcurrentStore[V]) shardFor(key string) *concurrentShard[V] {
	return s.shards[fnv64a(key)&(concurrentShardCount-1)]
}

func fnv64a(s string) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}

// Get looks up key in its shard, applying expiry and policy-metadata
// updates, and records a hit or miss.
func (s *ConcurrentStore[V]) Get(key string) (V, bool) {
	var zero V
	shard := s.shardFor(key)
	now := s.cfg.timeProvider.Now()

	shard.mu.Lock()
	e, present := shard.m[key]
	if !present {
		shard.mu.Unlock()
		s.cfg.stats.Miss()
		s.cfg.metrics.RecordGet(s.cfg.timeProvider.Now()-now, false)
		return zero, false
	}
	if e.isExpired(s.cfg.ttlNanos(), now) {
		delete(shard.m, key)
		shard.mu.Unlock()

		s.orderMu.Lock()
		s.removeFromOrderLocked(key)
		s.orderMu.Unlock()

		s.cfg.stats.Miss()
		s.cfg.metrics.RecordExpiration()
		s.cfg.metrics.RecordGet(s.cfg.timeProvider.Now()-now, false)
		return zero, false
	}

	value := e.value
	if s.cfg.policy.usesFrequencyCount() {
		e.incrementFrequency()
	}
	shard.mu.Unlock()

	if s.cfg.policy.usesRecencyReorder() {
		s.orderMu.Lock()
		s.order = moveKeyToEnd(s.order, key)
		s.orderMu.Unlock()
	}

	s.cfg.stats.Hit()
	s.cfg.metrics.RecordGet(s.cfg.timeProvider.Now()-now, true)
	return value, true
}

// Insert stores value under key if no other goroutine has already installed
// one: the first caller to observe the key absent wins, later callers on
// the same key no-op (their computed value is still returned to them by
// the Memoize wrapper, just not remembered again).
func (s *ConcurrentStore[V]) Insert(key string, value V) {
	shard := s.shardFor(key)
	now := s.cfg.timeProvider.Now()

	shard.mu.Lock()
	_, present := shard.m[key]
	if !present {
		shard.m[key] = newEntry[V](value, now, true)
	}
	shard.mu.Unlock()

	if present {
		s.orderMu.Lock()
		s.order = touchOnInsert(s.order, key, s.cfg.policy)
		s.orderMu.Unlock()
		s.cfg.metrics.RecordSet(s.cfg.timeProvider.Now() - now)
		return
	}

	s.orderMu.Lock()
	s.order = append(s.order, key)
	s.orderMu.Unlock()

	s.enforceLimit()
	s.cfg.metrics.RecordSet(s.cfg.timeProvider.Now() - now)
}

// InsertWithMemory is InsertWithMemory's counterpart for the sharded store.
// Memory accounting is best-effort across shards: currentBytes is a single
// store-wide counter updated under orderMu, not per-shard.
func (s *ConcurrentStore[V]) InsertWithMemory(key string, value V) error {
	size := int64(EstimateSize(value))
	if s.cfg.maxMemory > 0 && size > s.cfg.maxMemory {
		return NewErrAdmissionRejected(key, int(size), int(s.cfg.maxMemory))
	}

	shard := s.shardFor(key)
	now := s.cfg.timeProvider.Now()

	s.orderMu.Lock()
	if s.cfg.maxMemory > 0 {
		shard.mu.Lock()
		if prior, present := shard.m[key]; present {
			s.currentBytes -= int64(EstimateSize(prior.value))
		}
		shard.mu.Unlock()

		for s.cfg.maxMemory > 0 && s.currentBytes+size > s.cfg.maxMemory {
			if !s.evictOnceLocked() {
				break
			}
		}
	}
	s.orderMu.Unlock()

	shard.mu.Lock()
	_, present := shard.m[key]
	if !present {
		shard.m[key] = newEntry[V](value, now, true)
	}
	shard.mu.Unlock()

	s.orderMu.Lock()
	s.currentBytes += size
	if present {
		s.order = touchOnInsert(s.order, key, s.cfg.policy)
	} else {
		s.order = append(s.order, key)
	}
	s.orderMu.Unlock()

	if !present {
		s.enforceLimit()
	}
	s.cfg.metrics.RecordSet(s.cfg.timeProvider.Now() - now)
	return nil
}

// InsertResult stores value under key only if err is nil.
func (s *ConcurrentStore[V]) InsertResult(key string, value V, err error) {
	if err != nil {
		return
	}
	s.Insert(key, value)
}

// InsertResultWithMemory is InsertWithMemory's counterpart to InsertResult.
func (s *ConcurrentStore[V]) InsertResultWithMemory(key string, value V, err error) error {
	if err != nil {
		return nil
	}
	return s.InsertWithMemory(key, value)
}

// enforceLimit evicts entries by policy until the store's total size is
// within cfg.limit. The size check walks every shard, since no single
// shard knows the global count.
func (s *ConcurrentStore[V]) enforceLimit() {
	if s.cfg.limit() <= 0 {
		return
	}
	for s.totalLen() > s.cfg.limit() {
		s.orderMu.Lock()
		ok := s.evictOnceLocked()
		s.orderMu.Unlock()
		if !ok {
			break
		}
	}
}

// evictOnceLocked removes a single victim per policy from whichever shard
// holds it. Callers must already hold orderMu.
func (s *ConcurrentStore[V]) evictOnceLocked() bool {
	now := s.cfg.timeProvider.Now()

	n := len(s.order)
	if n == 0 {
		return false
	}

	// The shared policy algorithms in orderqueue.go operate on a single
	// map; present this store's sharded map as one by locking every shard
	// only for the scan, which is brief and bounded by queue length.
	combined := make(map[string]*entry[V], n)
	for _, key := range s.order {
		shard := s.shardFor(key)
		shard.mu.Lock()
		if e, present := shard.m[key]; present {
			combined[key] = e
		}
		shard.mu.Unlock()
	}

	var key string
	var ok bool
	s.order, key, ok = evictOne(s.order, combined, s.cfg.policy, s.cfg.ttlNanos(), s.cfg.frequencyWeight, now)
	if !ok {
		return false
	}

	shard := s.shardFor(key)
	shard.mu.Lock()
	delete(shard.m, key)
	shard.mu.Unlock()

	s.cfg.metrics.RecordEviction()
	return true
}

func (s *ConcurrentStore[V]) removeFromOrderLocked(key string) {
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// Remove deletes key, reporting whether it was present. It backs
// InvalidateOn's stale-on-hit removal.
func (s *ConcurrentStore[V]) Remove(key string) bool {
	shard := s.shardFor(key)

	shard.mu.Lock()
	_, present := shard.m[key]
	if present {
		delete(shard.m, key)
	}
	shard.mu.Unlock()

	if !present {
		return false
	}

	s.orderMu.Lock()
	s.removeFromOrderLocked(key)
	s.orderMu.Unlock()
	return true
}

func (s *ConcurrentStore[V]) totalLen() int {
	total := 0
	for _, shard := range s.shards {
		shard.mu.Lock()
		total += len(shard.m)
		shard.mu.Unlock()
	}
	return total
}

// Clear empties every shard and the order queue, leaving the statistics
// counter untouched.
func (s *ConcurrentStore[V]) Clear() {
	for _, shard := range s.shards {
		shard.mu.Lock()
		shard.m = make(map[string]*entry[V])
		shard.mu.Unlock()
	}
	s.orderMu.Lock()
	s.order = nil
	s.currentBytes = 0
	s.orderMu.Unlock()
}

// Stats returns the current hit/miss snapshot for this store.
func (s *ConcurrentStore[V]) Stats() StatsSnapshot {
	return s.cfg.stats.Snapshot()
}

// PurgeWhere removes every resident key for which predicate returns true,
// returning how many were removed.
func (s *ConcurrentStore[V]) PurgeWhere(predicate func(key string) bool) int {
	removed := 0
	for _, shard := range s.shards {
		shard.mu.Lock()
		for key := range shard.m {
			if predicate(key) {
				delete(shard.m, key)
				removed++
			}
		}
		shard.mu.Unlock()
	}

	if removed > 0 {
		s.orderMu.Lock()
		filtered := s.order[:0:0]
		for _, key := range s.order {
			if !predicate(key) {
				filtered = append(filtered, key)
			}
		}
		s.order = filtered
		s.orderMu.Unlock()
	}

	return removed
}

// Len reports the number of entries currently resident across all shards.
func (s *ConcurrentStore[V]) Len() int {
	return s.totalLen()
}

// SetLimit implements Reconfigurable.
func (s *ConcurrentStore[V]) SetLimit(limit int) { s.cfg.SetLimit(limit) }

// SetTTL implements Reconfigurable.
func (s *ConcurrentStore[V]) SetTTL(ttlNanos int64) { s.cfg.SetTTL(ttlNanos) }
