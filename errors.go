// errors.go: comprehensive error handling for memora cache operations
//
// This file provides structured error types using the go-errors library,
// enabling rich error context, categorization, and standardized error codes
// for all cache operations.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package memora

import (
	goerrors "errors"
	"fmt"

	"github.com/agilira/go-errors"
)

// Error codes for memora cache operations
const (
	// Configuration errors (1xxx)
	ErrCodeInvalidConfig     errors.ErrorCode = "MEMORA_INVALID_CONFIG"
	ErrCodeInvalidPolicy     errors.ErrorCode = "MEMORA_INVALID_POLICY"
	ErrCodeInvalidMemorySize errors.ErrorCode = "MEMORA_INVALID_MEMORY_SIZE"
	ErrCodeInvalidScope      errors.ErrorCode = "MEMORA_INVALID_SCOPE"
	ErrCodeInvalidTTL        errors.ErrorCode = "MEMORA_INVALID_TTL"
	ErrCodeInvalidLimit      errors.ErrorCode = "MEMORA_INVALID_LIMIT"

	// Operation errors (2xxx)
	ErrCodeCacheFull        errors.ErrorCode = "MEMORA_CACHE_FULL"
	ErrCodeKeyNotFound      errors.ErrorCode = "MEMORA_KEY_NOT_FOUND"
	ErrCodeEmptyKey         errors.ErrorCode = "MEMORA_EMPTY_KEY"
	ErrCodeEvictionFailed   errors.ErrorCode = "MEMORA_EVICTION_FAILED"
	ErrCodeAdmissionRejected errors.ErrorCode = "MEMORA_ADMISSION_REJECTED"

	// Loader errors (3xxx)
	ErrCodeLoaderFailed    errors.ErrorCode = "MEMORA_LOADER_FAILED"
	ErrCodeLoaderCancelled errors.ErrorCode = "MEMORA_LOADER_CANCELLED"
	ErrCodeInvalidLoader   errors.ErrorCode = "MEMORA_INVALID_LOADER"

	// Hot-reload errors (4xxx)
	ErrCodeReloadFailed errors.ErrorCode = "MEMORA_RELOAD_FAILED"

	// Internal errors (5xxx)
	ErrCodeInternalError  errors.ErrorCode = "MEMORA_INTERNAL_ERROR"
	ErrCodePanicRecovered errors.ErrorCode = "MEMORA_PANIC_RECOVERED"
)

// Common error messages
const (
	msgInvalidPolicy      = "invalid eviction policy"
	msgInvalidMemorySize  = "invalid memory size string"
	msgInvalidScope       = "invalid store scope"
	msgInvalidTTL         = "invalid TTL: must be non-negative"
	msgInvalidLimit       = "invalid entry limit: must be non-negative"
	msgCacheFull          = "store is full and eviction failed"
	msgKeyNotFound        = "key not found in store"
	msgEmptyKey           = "key cannot be empty"
	msgEvictionFailed     = "failed to evict entry from store"
	msgAdmissionRejected  = "entry rejected by memory admission control"
	msgLoaderFailed       = "memoized function returned an error"
	msgLoaderCancelled    = "memoized function call was cancelled"
	msgInvalidLoader      = "memoized function cannot be nil"
	msgReloadFailed       = "hot-reload of configuration failed"
	msgInternalError      = "internal cache error"
	msgPanicRecovered     = "panic recovered in cache operation"
)

// =============================================================================
// CONFIGURATION ERRORS
// =============================================================================

// NewErrInvalidPolicy creates an error for a policy string outside the
// closed set of six recognized eviction policies.
func NewErrInvalidPolicy(provided string) error {
	return errors.NewWithContext(ErrCodeInvalidPolicy, msgInvalidPolicy, map[string]interface{}{
		"provided": provided,
		"valid":    "fifo, lru, lfu, arc, tlru, random",
	})
}

// NewErrInvalidMemorySize creates an error for a memory size string that
// does not parse as "<number><B|KB|MB|GB>".
func NewErrInvalidMemorySize(provided string) error {
	return errors.NewWithContext(ErrCodeInvalidMemorySize, msgInvalidMemorySize, map[string]interface{}{
		"provided": provided,
		"format":   "<number><B|KB|MB|GB>",
	})
}

// NewErrInvalidScope creates an error for an unrecognized store scope.
func NewErrInvalidScope(provided string) error {
	return errors.NewWithContext(ErrCodeInvalidScope, msgInvalidScope, map[string]interface{}{
		"provided": provided,
		"valid":    "thread, shared, concurrent",
	})
}

// NewErrInvalidTTL creates an error for a negative TTL.
func NewErrInvalidTTL(ttl interface{}) error {
	return errors.NewWithContext(ErrCodeInvalidTTL, msgInvalidTTL, map[string]interface{}{
		"provided_ttl": ttl,
	})
}

// NewErrInvalidLimit creates an error for a negative entry limit.
func NewErrInvalidLimit(limit int) error {
	return errors.NewWithContext(ErrCodeInvalidLimit, msgInvalidLimit, map[string]interface{}{
		"provided_limit": limit,
	})
}

// =============================================================================
// OPERATION ERRORS
// =============================================================================

// NewErrCacheFull creates an error when a store is full and eviction fails
// to free space.
func NewErrCacheFull(capacity int, size int) error {
	return errors.NewWithContext(ErrCodeCacheFull, msgCacheFull, map[string]interface{}{
		"capacity":     capacity,
		"current_size": size,
	}).AsRetryable()
}

// NewErrKeyNotFound creates an error when a key is absent from the store.
func NewErrKeyNotFound(key string) error {
	return errors.NewWithField(ErrCodeKeyNotFound, msgKeyNotFound, "key", key)
}

// NewErrEmptyKey creates an error when an operation is given an empty key.
func NewErrEmptyKey(operation string) error {
	return errors.NewWithField(ErrCodeEmptyKey, msgEmptyKey, "operation", operation)
}

// NewErrEvictionFailed creates an error when the eviction policy cannot
// select a victim (e.g. an order queue containing only orphaned keys).
func NewErrEvictionFailed(reason string) error {
	return errors.NewWithField(ErrCodeEvictionFailed, msgEvictionFailed, "reason", reason).
		AsRetryable()
}

// NewErrAdmissionRejected creates an error when a value's estimated memory
// footprint exceeds the store's configured MaxMemory on its own, so no
// amount of eviction of other entries would make room for it.
func NewErrAdmissionRejected(key string, estimatedBytes, maxMemory int) error {
	return errors.NewWithContext(ErrCodeAdmissionRejected, msgAdmissionRejected, map[string]interface{}{
		"key":             key,
		"estimated_bytes": estimatedBytes,
		"max_memory":      maxMemory,
	})
}

// =============================================================================
// LOADER ERRORS
// =============================================================================

// NewErrLoaderFailed wraps an error returned by a memoized function body.
func NewErrLoaderFailed(key string, cause error) error {
	return errors.Wrap(cause, ErrCodeLoaderFailed, msgLoaderFailed).
		WithContext("key", key)
}

// NewErrLoaderCancelled creates an error when a memoized function call is
// cancelled via its context before completing.
func NewErrLoaderCancelled(key string) error {
	return errors.NewWithField(ErrCodeLoaderCancelled, msgLoaderCancelled, "key", key)
}

// NewErrInvalidLoader creates an error when a nil function is memoized.
func NewErrInvalidLoader(operation string) error {
	return errors.NewWithField(ErrCodeInvalidLoader, msgInvalidLoader, "operation", operation)
}

// =============================================================================
// HOT-RELOAD ERRORS
// =============================================================================

// NewErrReloadFailed wraps an error encountered while applying a
// configuration change detected by the hot-reload watcher.
func NewErrReloadFailed(source string, cause error) error {
	return errors.Wrap(cause, ErrCodeReloadFailed, msgReloadFailed).
		WithContext("source", source)
}

// =============================================================================
// INTERNAL ERRORS
// =============================================================================

// NewErrInternal creates a generic internal error.
func NewErrInternal(operation string, cause error) error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeInternalError, msgInternalError).
			WithContext("operation", operation).
			WithSeverity("warning")
	}
	return errors.NewWithField(ErrCodeInternalError, msgInternalError, "operation", operation).
		WithSeverity("warning")
}

// NewErrPanicRecovered creates an error when a panic inside a memoized
// function body is recovered at the call boundary.
func NewErrPanicRecovered(operation string, panicValue interface{}) error {
	return errors.NewWithContext(ErrCodePanicRecovered, msgPanicRecovered, map[string]interface{}{
		"operation":   operation,
		"panic_value": fmt.Sprintf("%v", panicValue),
	}).WithSeverity("critical")
}

// =============================================================================
// ERROR CHECKING HELPERS
// =============================================================================

// IsNotFound reports whether err is a key-not-found error.
func IsNotFound(err error) bool {
	return errors.HasCode(err, ErrCodeKeyNotFound)
}

// IsEmptyKey reports whether err is an empty-key error.
func IsEmptyKey(err error) bool {
	return errors.HasCode(err, ErrCodeEmptyKey)
}

// IsCacheFull reports whether err is a store-full error.
func IsCacheFull(err error) bool {
	return errors.HasCode(err, ErrCodeCacheFull)
}

// IsAdmissionRejected reports whether err is a memory-admission rejection.
func IsAdmissionRejected(err error) bool {
	return errors.HasCode(err, ErrCodeAdmissionRejected)
}

// IsConfigError reports whether err originates from configuration
// validation (policy, memory size, scope, TTL, limit).
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeInvalidConfig || code == ErrCodeInvalidPolicy ||
			code == ErrCodeInvalidMemorySize || code == ErrCodeInvalidScope ||
			code == ErrCodeInvalidTTL || code == ErrCodeInvalidLimit
	}
	return false
}

// IsOperationError reports whether err originates from a store operation.
func IsOperationError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeCacheFull || code == ErrCodeKeyNotFound ||
			code == ErrCodeEvictionFailed || code == ErrCodeAdmissionRejected || code == ErrCodeEmptyKey
	}
	return false
}

// IsLoaderError reports whether err originates from a memoized function call.
func IsLoaderError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeLoaderFailed || code == ErrCodeLoaderCancelled || code == ErrCodeInvalidLoader
	}
	return false
}

// IsRetryable reports whether err can be retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetErrorCode extracts the error code from err, or "" if err carries none.
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts the structured context map from err, if any.
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var memoraErr *errors.Error
	if goerrors.As(err, &memoraErr) {
		return memoraErr.Context
	}
	return nil
}
