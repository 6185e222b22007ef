// interfaces.go: public extension points for memora
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memora

// Logger defines a minimal logging interface with zero overhead.
// Implementations should use structured logging and be allocation-free.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keyvals ...interface{})

	// Info logs an info message with optional key-value pairs.
	Info(msg string, keyvals ...interface{})

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keyvals ...interface{})

	// Error logs an error message with optional key-value pairs.
	Error(msg string, keyvals ...interface{})
}

// NoOpLogger is a logger that does nothing. Used as default to avoid nil checks.
type NoOpLogger struct{}

func (NoOpLogger) Debug(msg string, keyvals ...interface{}) {}
func (NoOpLogger) Info(msg string, keyvals ...interface{})  {}
func (NoOpLogger) Warn(msg string, keyvals ...interface{})  {}
func (NoOpLogger) Error(msg string, keyvals ...interface{}) {}

// TimeProvider provides the current time with caching for performance.
// This interface allows injecting optimized time implementations; memora
// defaults to github.com/agilira/go-timecache, which amortizes the syscall
// cost of time.Now() across many calls.
type TimeProvider interface {
	// Now returns the current time in nanoseconds since the Unix epoch.
	// This method must be very fast and allocation-free.
	Now() int64
}

// MetricsCollector receives cache lifecycle events for export to an
// external metrics backend. All methods must be safe for concurrent use
// and must not block the caller for any meaningful duration, since they
// run inline with cache operations.
type MetricsCollector interface {
	// RecordGet is called after every lookup, hit or miss, with the
	// wall-clock duration of the call.
	RecordGet(latencyNanos int64, hit bool)

	// RecordSet is called after every insertion, with the wall-clock
	// duration of the call.
	RecordSet(latencyNanos int64)

	// RecordEviction is called when an entry is evicted to make room for
	// a new insertion, distinct from an explicit invalidation.
	RecordEviction()

	// RecordExpiration is called when a lookup discovers an entry whose
	// TTL has elapsed.
	RecordExpiration()
}

// NoOpMetricsCollector discards every event. Used as the default collector
// so stores never need a nil check on the hot path.
type NoOpMetricsCollector struct{}

func (NoOpMetricsCollector) RecordGet(latencyNanos int64, hit bool) {}
func (NoOpMetricsCollector) RecordSet(latencyNanos int64)           {}
func (NoOpMetricsCollector) RecordEviction()                        {}
func (NoOpMetricsCollector) RecordExpiration()                      {}

// Reconfigurable is implemented by stores that accept live configuration
// updates from a HotReload watcher. Changing Limit or TTL never evicts
// entries outright; a new Limit takes effect on the next insertion, and a
// new TTL applies to every resident entry, measured from its insertion
// time, at that entry's next lookup.
type Reconfigurable interface {
	// SetLimit updates the maximum number of entries the store admits.
	SetLimit(limit int)

	// SetTTL updates the time-to-live checked on each lookup, for resident
	// and future entries alike. A ttl <= 0 disables expiration.
	SetTTL(ttl int64)
}
