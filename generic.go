// generic.go: memoization wrappers
//
// Memoize and MemoizeCtx are the generic constructors an attribute-style
// code generator would target: given a plain function and a Config, each
// returns a wrapped function with the same signature, transparently
// cached. Both perform the same steps: format key, look up, consult
// InvalidateOn on a hit (evicting and falling through to a miss if it says
// stale), miss -> invoke body, optional CacheIf gate, insert, record.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memora

import "context"

// store is the minimal surface Memoize/MemoizeCtx need from any of the
// three store shapes.
type store[V any] interface {
	Get(key string) (V, bool)
	Insert(key string, value V)
	Remove(key string) bool
}

func newStore[K comparable, V any](cfg Config) store[V] {
	switch cfg.Scope {
	case ScopeShared:
		return NewSharedStore[V](cfg)
	case ScopeConcurrent:
		return NewConcurrentStore[V](cfg)
	default:
		return NewThreadLocalStore[V](cfg)
	}
}

// Memoize wraps fn, a pure function of one comparable argument, with a
// cache built from cfg. Panics inside fn are recovered and re-panicked
// after the recovered value is logged, never silently swallowed or cached.
func Memoize[K comparable, V any](fn func(K) V, cfg Config) func(K) V {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	s := newStore[K, V](cfg)
	formatter := DefaultKeyFormatter[K]{}

	registerInvalidation(cfg, s)

	return func(arg K) V {
		key := formatter.FormatKey(arg)

		if v, ok := s.Get(key); ok {
			if cfg.InvalidateOn == nil || !cfg.InvalidateOn(key, v) {
				return v
			}
			s.Remove(key)
		}

		value := callRecovering(cfg.Logger, cfg.Name, key, fn, arg)

		if cfg.CacheIf == nil || cfg.CacheIf(key, value) {
			s.Insert(key, value)
		}

		return value
	}
}

// MemoizeCtx wraps fn, a context-aware function that may fail, with a
// cache built from cfg. A non-nil error is never cached, matching
// InsertResult semantics: the caller sees the error on every call until fn
// itself succeeds.
func MemoizeCtx[K comparable, V any](fn func(context.Context, K) (V, error), cfg Config) func(context.Context, K) (V, error) {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	s := newStore[K, V](cfg)
	formatter := DefaultKeyFormatter[K]{}

	registerInvalidation(cfg, s)

	return func(ctx context.Context, arg K) (V, error) {
		var zero V
		key := formatter.FormatKey(arg)

		if v, ok := s.Get(key); ok {
			if cfg.InvalidateOn == nil || !cfg.InvalidateOn(key, v) {
				return v, nil
			}
			s.Remove(key)
		}

		select {
		case <-ctx.Done():
			return zero, NewErrLoaderCancelled(key)
		default:
		}

		value, err := callRecoveringCtx(cfg.Logger, cfg.Name, key, fn, ctx, arg)
		if err != nil {
			return zero, NewErrLoaderFailed(key, err)
		}

		if cfg.CacheIf == nil || cfg.CacheIf(key, value) {
			s.Insert(key, value)
		}

		return value, nil
	}
}

// callRecovering invokes fn, logging a panic through logger as a
// NewErrPanicRecovered diagnostic before re-panicking, so a bug in a
// memoized body is never mistaken for a cache miss.
func callRecovering[K comparable, V any](logger Logger, name, key string, fn func(K) V, arg K) (result V) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("memora: panic recovered", "error", NewErrPanicRecovered(name+":"+key, r))
			panic(r)
		}
	}()
	return fn(arg)
}

func callRecoveringCtx[K comparable, V any](logger Logger, name, key string, fn func(context.Context, K) (V, error), ctx context.Context, arg K) (result V, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("memora: panic recovered", "error", NewErrPanicRecovered(name+":"+key, r))
			panic(r)
		}
	}()
	return fn(ctx, arg)
}

// registerInvalidation wires cfg's Tags/Events/Dependencies and the store's
// Clear/PurgeWhere hooks into the process-wide InvalidationRegistry, so
// InvalidateByTag/Event/Dependency and InvalidateWith/InvalidateAllWith
// reach this cache.
func registerInvalidation[V any](cfg Config, s store[V]) {
	purger, hasPurge := s.(interface {
		PurgeWhere(predicate func(key string) bool) int
	})
	clearer, hasClear := s.(interface{ Clear() })

	var purge PurgeFunc
	if hasPurge {
		purge = purger.PurgeWhere
	} else {
		purge = func(func(string) bool) int { return 0 }
	}

	clear := func() {}
	if hasClear {
		clear = clearer.Clear
	}

	RegisterCache(cfg.Name, InvalidationMetadata{
		Tags:         cfg.Tags,
		Events:       cfg.Events,
		Dependencies: cfg.Dependencies,
	}, clear, purge)
}
