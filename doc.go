// Package memora provides function-level memoization caches with pluggable
// eviction policies, TTL expiration, memory-bounded admission, and
// multi-axis invalidation (tags, events, dependencies, predicates).
//
// # Overview
//
// memora wraps a plain function with a cache: Memoize for pure functions of
// one comparable argument, MemoizeCtx for context-aware functions that can
// fail. Both pick one of three store shapes by Config.Scope:
//
//   - ScopeThread: single-owner, no internal locking. Fastest, but callers
//     must not share the resulting function across goroutines.
//   - ScopeShared: one map behind a sync.RWMutex, reader-preferring.
//   - ScopeConcurrent: a 16-way sharded map, for high write concurrency.
//     Concurrent misses on the same key are not deduplicated; see below.
//
// # Quick Start
//
//	import "github.com/agilira/memora"
//
//	var fib func(int) int
//	fib = memora.Memoize(func(n int) int {
//	    if n < 2 {
//	        return n
//	    }
//	    return fib(n-1) + fib(n-2)
//	}, memora.Config{
//	    Limit:  10_000,
//	    Policy: memora.PolicyLRU,
//	    TTL:    time.Hour,
//	})
//
// # Eviction Policies
//
//   - PolicyFIFO: evicts the oldest inserted key still resident.
//   - PolicyLRU: evicts the least recently touched key.
//   - PolicyLFU: evicts the key with the lowest access frequency.
//   - PolicyARC: scores frequency against queue position, evicts the minimum.
//   - PolicyTLRU: scores frequency, position, and TTL age factor together.
//   - PolicyRandom: evicts a uniformly random resident key.
//
// Eviction runs against a decoupled order queue (a plain []string) that
// tolerates orphaned keys — entries the queue still references after they
// were removed from the map by expiry or invalidation. Orphans are skipped,
// never treated as an error.
//
// # Stampede Behavior
//
// ScopeThread and ScopeShared serialize their Insert path, so a miss on a
// key already being computed by another goroutine still recomputes
// independently — there is no loader deduplication anywhere in this
// package. ScopeConcurrent makes this explicit: every goroutine that misses
// invokes the wrapped function, and whichever reaches Insert first wins;
// the rest still return their own freshly computed value. Callers that need
// single-flight semantics should wrap the memoized function themselves.
//
// # Invalidation
//
// A Config can carry Tags, Events, and Dependencies. Package-level
// InvalidateByTag, InvalidateByEvent, and InvalidateByDependency purge
// every registered cache matching one of these labels. InvalidateWith and
// InvalidateAllWith accept an arbitrary key predicate instead.
//
// # Hot Reload
//
// HotReload watches a configuration file with Argus and applies TTL/limit
// changes to named stores registered with it via Register. Only TTL and
// Limit are hot-reloadable; Policy, Scope, and FrequencyWeight require
// rebuilding the cache.
//
// # Observability
//
// Config.MetricsCollector is a zero-overhead no-op unless set. The
// memora/otel subpackage adapts it to OpenTelemetry:
//
//	import memoraotel "github.com/agilira/memora/otel"
//
//	collector, _ := memoraotel.NewOTelMetricsCollector(provider)
//	cfg := memora.DefaultConfig()
//	cfg.MetricsCollector = collector
//
// Per-cache hit/miss counters are also available without OTEL via
// memora.GetStats(name) and memora.ListStats().
//
// # Errors
//
// memora uses structured errors from github.com/agilira/go-errors, each
// carrying a MEMORA_* error code and contextual fields. Predicate helpers
// like IsNotFound, IsCacheFull, and IsAdmissionRejected classify a returned
// error without string matching.
//
// # License
//
// See LICENSE file in the repository.
package memora
