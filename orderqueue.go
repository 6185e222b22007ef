// orderqueue.go: shared eviction-policy algorithms
//
// The order queue is a plain slice of keys, deliberately decoupled from the
// entry map: a key may sit in the queue without (yet, or any longer) having
// a live map entry. Every scan below tolerates that orphan case by skipping
// keys absent from the map rather than treating their absence as an error.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memora

import (
	"math"
	"math/rand"
)

// moveKeyToEnd removes key's prior occurrence from order, if any, and
// appends it to the back, marking it as most recently touched. A key
// absent from order is appended. The removal shifts elements within
// order's backing array, so callers replace order with the result.
func moveKeyToEnd(order []string, key string) []string {
	for i, k := range order {
		if k == key {
			order = append(order[:i], order[i+1:]...)
			break
		}
	}
	return append(order, key)
}

// reorderOnHit applies the order-queue side effect of a hit under policy:
// LRU/ARC/TLRU move the key to the back, FIFO/LFU/Random leave it in place.
func reorderOnHit(order []string, key string, policy Policy) []string {
	if policy.usesRecencyReorder() {
		return moveKeyToEnd(order, key)
	}
	return order
}

// touchOnInsert applies the order-queue side effect of inserting over an
// already-present key: LRU/ARC/TLRU treat it as a touch (move to back);
// every other policy appends nothing since the key is already queued.
// Whether the stored value is replaced is up to the caller: the
// thread-local and shared stores replace it, the concurrent store keeps
// the resident value.
func touchOnInsert(order []string, key string, policy Policy) []string {
	if policy.usesRecencyReorder() {
		return moveKeyToEnd(order, key)
	}
	return order
}

// evictFIFOorLRU repeatedly pops the front of order until it finds a key
// still present in m, removes that key from m, and returns the shrunk
// order slice and the evicted key. It returns ok=false if order empties
// without finding a present key.
func evictFIFOorLRU[V any](order []string, m map[string]*entry[V]) ([]string, string, bool) {
	for len(order) > 0 {
		key := order[0]
		order = order[1:]
		if _, present := m[key]; present {
			delete(m, key)
			return order, key, true
		}
	}
	return order, "", false
}

// evictLFU scans order for the present key with the lowest frequency
// counter, removes it from both order and m, and returns the shrunk order
// slice and the evicted key.
func evictLFU[V any](order []string, m map[string]*entry[V]) ([]string, string, bool) {
	minFreq := uint64(math.MaxUint64)
	minIdx := -1
	for i, key := range order {
		e, present := m[key]
		if !present {
			continue
		}
		f := e.loadFrequency()
		if f < minFreq {
			minFreq = f
			minIdx = i
		}
	}
	if minIdx < 0 {
		return order, "", false
	}
	key := order[minIdx]
	order = append(order[:minIdx], order[minIdx+1:]...)
	delete(m, key)
	return order, key, true
}

// evictARC scans order with positional weight (n - i), computing
// score = frequency * (n - i) for each present entry, and evicts the
// argmin. Position 0 is the front (oldest/least-recently-touched) and
// carries the largest weight n; position n-1 (most recently touched)
// carries the smallest weight 1, so among entries of equal frequency the
// one nearest the back scores lowest and is evicted.
func evictARC[V any](order []string, m map[string]*entry[V]) ([]string, string, bool) {
	n := len(order)
	bestScore := math.MaxFloat64
	bestIdx := -1
	for i, key := range order {
		e, present := m[key]
		if !present {
			continue
		}
		weight := float64(n - i)
		score := float64(e.loadFrequency()) * weight
		if score < bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return order, "", false
	}
	key := order[bestIdx]
	order = append(order[:bestIdx], order[bestIdx+1:]...)
	delete(m, key)
	return order, key, true
}

// evictTLRU scans order like evictARC, additionally discounting each score
// by an age factor that falls toward zero as an entry nears its ttl
// (ttlNanos <= 0 disables the discount, leaving age_factor == 1). The
// frequency term is raised to frequencyWeight before being combined.
func evictTLRU[V any](order []string, m map[string]*entry[V], ttlNanos int64, frequencyWeight float64, now int64) ([]string, string, bool) {
	n := len(order)
	bestScore := math.MaxFloat64
	bestIdx := -1
	for i, key := range order {
		e, present := m[key]
		if !present {
			continue
		}
		weight := float64(n - i)
		freqTerm := math.Pow(float64(e.loadFrequency()), frequencyWeight)

		ageFactor := 1.0
		if ttlNanos > 0 {
			age := e.ageSeconds(now)
			ttlSecs := float64(ttlNanos) / 1e9
			ageFactor = 1.0 - age/ttlSecs
			if ageFactor < 0 {
				ageFactor = 0
			}
		}

		score := freqTerm * weight * ageFactor
		if score < bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return order, "", false
	}
	key := order[bestIdx]
	order = append(order[:bestIdx], order[bestIdx+1:]...)
	delete(m, key)
	return order, key, true
}

// evictRandom removes a uniformly random slot from order. If that slot is
// an orphan (absent from m), the queue still shrinks but m is left
// unchanged and ok is false — the caller's eviction loop is expected to
// retry on an empty insertion if room is still needed.
func evictRandom[V any](order []string, m map[string]*entry[V]) ([]string, string, bool) {
	if len(order) == 0 {
		return order, "", false
	}
	idx := rand.Intn(len(order))
	key := order[idx]
	order = append(order[:idx], order[idx+1:]...)
	if _, present := m[key]; present {
		delete(m, key)
		return order, key, true
	}
	return order, "", false
}

// evictOne applies policy's single-eviction step to (order, m), looping
// past orphaned slots as needed so that at most one present entry is
// removed per call. It returns ok=false only when no present entry
// remains to evict.
func evictOne[V any](order []string, m map[string]*entry[V], policy Policy, ttlNanos int64, frequencyWeight float64, now int64) ([]string, string, bool) {
	switch policy {
	case PolicyFIFO, PolicyLRU:
		return evictFIFOorLRU(order, m)
	case PolicyLFU:
		return evictLFU(order, m)
	case PolicyARC:
		return evictARC(order, m)
	case PolicyTLRU:
		return evictTLRU(order, m, ttlNanos, frequencyWeight, now)
	case PolicyRandom:
		for len(order) > 0 {
			var key string
			var ok bool
			order, key, ok = evictRandom(order, m)
			if ok {
				return order, key, true
			}
			if len(order) == 0 {
				break
			}
		}
		return order, "", false
	default:
		return evictFIFOorLRU(order, m)
	}
}
