// config.go: configuration for memora stores
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memora

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/agilira/go-timecache"
	"github.com/google/uuid"
)

// Scope selects which of the three store concurrency shapes a Config
// builds: "thread" for single-owner/no-lock, "shared" for a reader-
// preferring RWMutex map, "concurrent" for a sharded, cooperatively-locked
// map. The zero value is treated as "thread".
type Scope string

const (
	ScopeThread     Scope = "thread"
	ScopeShared     Scope = "shared"
	ScopeConcurrent Scope = "concurrent"
)

// Config holds every attribute a Memoize/MemoizeCtx wrapper may be
// configured with.
type Config struct {
	// Limit is the maximum number of entries the store holds. 0 means
	// unbounded (subject only to MaxMemory, if set).
	Limit int

	// MaxMemory bounds the store by estimated byte footprint instead of, or
	// in addition to, Limit. 0 means no memory bound.
	MaxMemory int64

	// Policy selects the eviction discipline applied once the store is
	// full. Default: PolicyLRU.
	Policy Policy

	// TTL is the time-to-live applied to every entry. 0 means entries
	// never expire.
	TTL time.Duration

	// Scope selects the store's concurrency shape. Default: ScopeThread.
	Scope Scope

	// Name identifies this cache in the statistics registry and in
	// invalidation lookups. If empty, Validate generates one.
	Name string

	// FrequencyWeight is the exponent applied to an entry's frequency
	// counter in the TLRU composite score; ARC scoring does not use it.
	// Default: DefaultFrequencyWeight.
	FrequencyWeight float64

	// Tags, Events, and Dependencies register this cache with the
	// InvalidationRegistry under each named axis, so a single
	// InvalidateByTag/Event/Dependency call can clear it alongside other
	// caches sharing the same name.
	Tags         []string
	Events       []string
	Dependencies []string

	// CacheIf, if set, is consulted after a miss computes a fresh value;
	// returning false skips insertion (the value is still returned to the
	// caller, just not remembered).
	CacheIf func(key string, value interface{}) bool

	// InvalidateOn, if set, is consulted on every lookup against a
	// resident entry; returning true treats the entry as a miss and
	// removes it. The TTL check runs first, so an expired entry is
	// removed without reaching InvalidateOn.
	InvalidateOn func(key string, value interface{}) bool

	// Logger is used for hot-reload and lifecycle diagnostics. Default: NoOpLogger.
	Logger Logger

	// TimeProvider supplies the current time for TTL/age computation.
	// Default: a cached-time provider backed by go-timecache.
	TimeProvider TimeProvider

	// MetricsCollector receives Get/Set/eviction/expiration events.
	// Default: NoOpMetricsCollector.
	MetricsCollector MetricsCollector
}

// Validate normalizes Config in place, filling in defaults for every field
// left at its zero value. It never rejects a Config outright: a literal
// policy string or memory-size string that fails to parse is surfaced at
// the call site by ParsePolicy/ParseMemorySize before a Config ever reaches
// Validate, so by the time Validate runs every field is already
// well-formed, merely possibly unset.
func (c *Config) Validate() error {
	if c.Policy == "" {
		c.Policy = DefaultPolicy
	}

	if c.Scope == "" {
		c.Scope = ScopeThread
	}

	if c.FrequencyWeight <= 0 {
		c.FrequencyWeight = DefaultFrequencyWeight
	}

	if c.Limit < 0 {
		c.Limit = 0
	}

	if c.MaxMemory < 0 {
		c.MaxMemory = 0
	}

	if c.Name == "" {
		c.Name = "memora-" + uuid.NewString()
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}

	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}

	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}

	return nil
}

// DefaultConfig returns a Config with sensible defaults: LRU eviction,
// unbounded limit/memory, no TTL, thread-local scope.
func DefaultConfig() Config {
	return Config{
		Policy:           DefaultPolicy,
		Scope:            ScopeThread,
		FrequencyWeight:  DefaultFrequencyWeight,
		Logger:           NoOpLogger{},
		TimeProvider:     &systemTimeProvider{},
		MetricsCollector: NoOpMetricsCollector{},
	}
}

// systemTimeProvider is the default time provider, backed by go-timecache's
// amortized clock read.
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}

// ParseMemorySize parses a string of the form "<number><unit>", where unit
// is one of B, KB, MB, GB (case-insensitive, binary multiples: 1KB = 1024B).
// A bare number with no unit is interpreted as bytes.
func ParseMemorySize(s string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, NewErrInvalidMemorySize(s)
	}

	upper := strings.ToUpper(trimmed)
	var multiplier int64 = 1
	numPart := upper

	switch {
	case strings.HasSuffix(upper, "GB"):
		multiplier = 1024 * 1024 * 1024
		numPart = strings.TrimSuffix(upper, "GB")
	case strings.HasSuffix(upper, "MB"):
		multiplier = 1024 * 1024
		numPart = strings.TrimSuffix(upper, "MB")
	case strings.HasSuffix(upper, "KB"):
		multiplier = 1024
		numPart = strings.TrimSuffix(upper, "KB")
	case strings.HasSuffix(upper, "B"):
		multiplier = 1
		numPart = strings.TrimSuffix(upper, "B")
	}

	numPart = strings.TrimSpace(numPart)
	n, err := strconv.ParseFloat(numPart, 64)
	if err != nil || n < 0 {
		return 0, NewErrInvalidMemorySize(s)
	}

	return int64(n * float64(multiplier)), nil
}

// FormatMemorySize is the inverse of ParseMemorySize.
func FormatMemorySize(bytes int64) string {
	switch {
	case bytes >= 1024*1024*1024 && bytes%(1024*1024*1024) == 0:
		return fmt.Sprintf("%dGB", bytes/(1024*1024*1024))
	case bytes >= 1024*1024 && bytes%(1024*1024) == 0:
		return fmt.Sprintf("%dMB", bytes/(1024*1024))
	case bytes >= 1024 && bytes%1024 == 0:
		return fmt.Sprintf("%dKB", bytes/1024)
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}
