// invalidation.go: multi-axis cache invalidation
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memora

import "sync"

// InvalidationMetadata records the tags, events, and dependencies a named
// cache was registered under.
type InvalidationMetadata struct {
	Tags         []string
	Events       []string
	Dependencies []string
}

// PurgeFunc removes every resident key for which predicate returns true and
// reports how many were removed. A store registers one of these per cache
// name so the registry can drive key-level invalidation without knowing the
// store's internal shape.
type PurgeFunc func(predicate func(key string) bool) int

// InvalidationRegistry is a process-wide index from tag/event/dependency
// name to the set of cache names registered under it, plus a clear callback
// and a purge hook per cache. A process normally uses the package-level
// singleton via RegisterCache and friends; the type is exported so tests
// can construct an isolated instance.
type InvalidationRegistry struct {
	mu sync.RWMutex

	tagToCaches        map[string]map[string]struct{}
	eventToCaches      map[string]map[string]struct{}
	dependencyToCaches map[string]map[string]struct{}
	cacheToMetadata    map[string]InvalidationMetadata

	callbacks      map[string]func()
	predicateHooks map[string]PurgeFunc
}

func newInvalidationRegistry() *InvalidationRegistry {
	return &InvalidationRegistry{
		tagToCaches:        make(map[string]map[string]struct{}),
		eventToCaches:      make(map[string]map[string]struct{}),
		dependencyToCaches: make(map[string]map[string]struct{}),
		cacheToMetadata:    make(map[string]InvalidationMetadata),
		callbacks:          make(map[string]func()),
		predicateHooks:     make(map[string]PurgeFunc),
	}
}

var globalInvalidation = newInvalidationRegistry()

// Register indexes name under each of meta's tags, events, and
// dependencies, replacing any prior registration for name.
func (r *InvalidationRegistry) Register(name string, meta InvalidationMetadata) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.cacheToMetadata[name]; ok {
		removeFromIndex(r.tagToCaches, old.Tags, name)
		removeFromIndex(r.eventToCaches, old.Events, name)
		removeFromIndex(r.dependencyToCaches, old.Dependencies, name)
	}

	addToIndex(r.tagToCaches, meta.Tags, name)
	addToIndex(r.eventToCaches, meta.Events, name)
	addToIndex(r.dependencyToCaches, meta.Dependencies, name)
	r.cacheToMetadata[name] = meta
}

func addToIndex(index map[string]map[string]struct{}, keys []string, name string) {
	for _, k := range keys {
		set, ok := index[k]
		if !ok {
			set = make(map[string]struct{})
			index[k] = set
		}
		set[name] = struct{}{}
	}
}

func removeFromIndex(index map[string]map[string]struct{}, keys []string, name string) {
	for _, k := range keys {
		set, ok := index[k]
		if !ok {
			continue
		}
		delete(set, name)
		if len(set) == 0 {
			delete(index, k)
		}
	}
}

// RegisterCallback registers the function invoked to clear the named cache
// entirely, typically a store's Clear method.
func (r *InvalidationRegistry) RegisterCallback(name string, cb func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks[name] = cb
}

// RegisterPredicateHook registers the function a named cache uses to purge
// keys matching an arbitrary predicate, typically a store's PurgeWhere method.
func (r *InvalidationRegistry) RegisterPredicateHook(name string, hook PurgeFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.predicateHooks[name] = hook
}

// InvalidateByTag clears every cache registered under tag.
func (r *InvalidationRegistry) InvalidateByTag(tag string) {
	r.invalidateNames(r.namesFor(r.tagToCaches, tag))
}

// InvalidateByEvent clears every cache registered under event.
func (r *InvalidationRegistry) InvalidateByEvent(event string) {
	r.invalidateNames(r.namesFor(r.eventToCaches, event))
}

// InvalidateByDependency clears every cache registered under dependency.
func (r *InvalidationRegistry) InvalidateByDependency(dependency string) {
	r.invalidateNames(r.namesFor(r.dependencyToCaches, dependency))
}

func (r *InvalidationRegistry) namesFor(index map[string]map[string]struct{}, key string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := index[key]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	return names
}

func (r *InvalidationRegistry) invalidateNames(names []string) {
	r.mu.RLock()
	cbs := make([]func(), 0, len(names))
	for _, n := range names {
		if cb, ok := r.callbacks[n]; ok {
			cbs = append(cbs, cb)
		}
	}
	r.mu.RUnlock()
	for _, cb := range cbs {
		cb()
	}
}

// InvalidateCache clears the single named cache, if it registered a callback.
func (r *InvalidationRegistry) InvalidateCache(name string) {
	r.mu.RLock()
	cb, ok := r.callbacks[name]
	r.mu.RUnlock()
	if ok {
		cb()
	}
}

// InvalidateWith purges keys from the named cache matching predicate,
// returning how many were removed. It returns 0 if name never registered a
// predicate hook.
func (r *InvalidationRegistry) InvalidateWith(name string, predicate func(key string) bool) int {
	r.mu.RLock()
	hook, ok := r.predicateHooks[name]
	r.mu.RUnlock()
	if !ok {
		return 0
	}
	return hook(predicate)
}

// InvalidateAllWith purges keys matching predicate from every cache that
// registered a predicate hook, returning the total removed across all of them.
func (r *InvalidationRegistry) InvalidateAllWith(predicate func(key string) bool) int {
	r.mu.RLock()
	hooks := make([]PurgeFunc, 0, len(r.predicateHooks))
	for _, h := range r.predicateHooks {
		hooks = append(hooks, h)
	}
	r.mu.RUnlock()

	total := 0
	for _, h := range hooks {
		total += h(predicate)
	}
	return total
}

// CachesByTag returns the names of caches registered under tag.
func (r *InvalidationRegistry) CachesByTag(tag string) []string {
	return r.namesFor(r.tagToCaches, tag)
}

// CachesByEvent returns the names of caches registered under event.
func (r *InvalidationRegistry) CachesByEvent(event string) []string {
	return r.namesFor(r.eventToCaches, event)
}

// CachesByDependency returns the names of caches registered under dependency.
func (r *InvalidationRegistry) CachesByDependency(dependency string) []string {
	return r.namesFor(r.dependencyToCaches, dependency)
}

// Clear wipes every registration: tags, events, dependencies, metadata,
// callbacks, and predicate hooks. Intended for test isolation, since the
// registry is otherwise a process-wide singleton.
func (r *InvalidationRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tagToCaches = make(map[string]map[string]struct{})
	r.eventToCaches = make(map[string]map[string]struct{})
	r.dependencyToCaches = make(map[string]map[string]struct{})
	r.cacheToMetadata = make(map[string]InvalidationMetadata)
	r.callbacks = make(map[string]func())
	r.predicateHooks = make(map[string]PurgeFunc)
}

// RegisterCache registers name's invalidation metadata and callbacks with
// the process-wide InvalidationRegistry.
func RegisterCache(name string, meta InvalidationMetadata, clear func(), purge PurgeFunc) {
	globalInvalidation.Register(name, meta)
	globalInvalidation.RegisterCallback(name, clear)
	globalInvalidation.RegisterPredicateHook(name, purge)
}

// InvalidateByTag clears every process-wide cache registered under tag.
func InvalidateByTag(tag string) { globalInvalidation.InvalidateByTag(tag) }

// InvalidateByEvent clears every process-wide cache registered under event.
func InvalidateByEvent(event string) { globalInvalidation.InvalidateByEvent(event) }

// InvalidateByDependency clears every process-wide cache registered under dependency.
func InvalidateByDependency(dependency string) {
	globalInvalidation.InvalidateByDependency(dependency)
}

// InvalidateCache clears the single named process-wide cache.
func InvalidateCache(name string) { globalInvalidation.InvalidateCache(name) }

// InvalidateWith purges keys from the named process-wide cache matching predicate.
func InvalidateWith(name string, predicate func(key string) bool) int {
	return globalInvalidation.InvalidateWith(name, predicate)
}

// InvalidateAllWith purges keys matching predicate from every process-wide cache.
func InvalidateAllWith(predicate func(key string) bool) int {
	return globalInvalidation.InvalidateAllWith(predicate)
}
