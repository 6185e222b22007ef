// errors_test.go: tests and benchmarks for error handling in memora
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package memora

import (
	"encoding/json"
	goerrors "errors"
	"testing"

	"github.com/agilira/go-errors"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name         string
		errFunc      func() error
		expectedCode errors.ErrorCode
		shouldRetry  bool
	}{
		{
			name:         "InvalidPolicy",
			errFunc:      func() error { return NewErrInvalidPolicy("bogus") },
			expectedCode: ErrCodeInvalidPolicy,
			shouldRetry:  false,
		},
		{
			name:         "CacheFull",
			errFunc:      func() error { return NewErrCacheFull(100, 100) },
			expectedCode: ErrCodeCacheFull,
			shouldRetry:  true,
		},
		{
			name:         "KeyNotFound",
			errFunc:      func() error { return NewErrKeyNotFound("test-key") },
			expectedCode: ErrCodeKeyNotFound,
			shouldRetry:  false,
		},
		{
			name:         "EvictionFailed",
			errFunc:      func() error { return NewErrEvictionFailed("queue empty") },
			expectedCode: ErrCodeEvictionFailed,
			shouldRetry:  true,
		},
		{
			name:         "AdmissionRejected",
			errFunc:      func() error { return NewErrAdmissionRejected("key", 2048, 1024) },
			expectedCode: ErrCodeAdmissionRejected,
			shouldRetry:  false,
		},
		{
			name:         "PanicRecovered",
			errFunc:      func() error { return NewErrPanicRecovered("test-op", "panic message") },
			expectedCode: ErrCodePanicRecovered,
			shouldRetry:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.errFunc()
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			if !errors.HasCode(err, tt.expectedCode) {
				t.Errorf("expected code %s, got %s", tt.expectedCode, GetErrorCode(err))
			}

			if IsRetryable(err) != tt.shouldRetry {
				t.Errorf("expected retryable=%v, got %v", tt.shouldRetry, IsRetryable(err))
			}

			if err.Error() == "" {
				t.Error("error message should not be empty")
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	cause := goerrors.New("underlying loader error")

	err := NewErrLoaderFailed("test-key", cause)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	unwrapped := goerrors.Unwrap(err)
	if unwrapped == nil {
		t.Fatal("expected unwrapped error, got nil")
	}

	rootCause := errors.RootCause(err)
	if rootCause.Error() != cause.Error() {
		t.Errorf("expected root cause %q, got %q", cause.Error(), rootCause.Error())
	}
}

func TestErrorContext(t *testing.T) {
	err := NewErrCacheFull(100, 100)

	ctx := GetErrorContext(err)
	if ctx == nil {
		t.Fatal("expected context, got nil")
	}

	capacity, ok := ctx["capacity"]
	if !ok {
		t.Error("expected 'capacity' in context")
	}
	if capacity != 100 {
		t.Errorf("expected capacity=100, got %v", capacity)
	}

	size, ok := ctx["current_size"]
	if !ok {
		t.Error("expected 'current_size' in context")
	}
	if size != 100 {
		t.Errorf("expected current_size=100, got %v", size)
	}
}

func TestErrorCategoryHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isConfig bool
		isOp     bool
		isLoader bool
	}{
		{
			name:     "ConfigError",
			err:      NewErrInvalidPolicy("bogus"),
			isConfig: true,
		},
		{
			name: "OperationError",
			err:  NewErrCacheFull(10, 10),
			isOp: true,
		},
		{
			name:     "LoaderError",
			err:      NewErrLoaderFailed("key", goerrors.New("boom")),
			isLoader: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if IsConfigError(tt.err) != tt.isConfig {
				t.Errorf("IsConfigError: expected %v, got %v", tt.isConfig, IsConfigError(tt.err))
			}
			if IsOperationError(tt.err) != tt.isOp {
				t.Errorf("IsOperationError: expected %v, got %v", tt.isOp, IsOperationError(tt.err))
			}
			if IsLoaderError(tt.err) != tt.isLoader {
				t.Errorf("IsLoaderError: expected %v, got %v", tt.isLoader, IsLoaderError(tt.err))
			}
		})
	}
}

func TestSpecificErrorCheckers(t *testing.T) {
	notFoundErr := NewErrKeyNotFound("missing-key")
	if !IsNotFound(notFoundErr) {
		t.Error("IsNotFound should return true for KeyNotFound error")
	}

	fullErr := NewErrCacheFull(100, 100)
	if !IsCacheFull(fullErr) {
		t.Error("IsCacheFull should return true for CacheFull error")
	}

	rejectedErr := NewErrAdmissionRejected("key", 2048, 1024)
	if !IsAdmissionRejected(rejectedErr) {
		t.Error("IsAdmissionRejected should return true for AdmissionRejected error")
	}

	if IsNotFound(nil) {
		t.Error("IsNotFound should return false for nil error")
	}
	if IsCacheFull(nil) {
		t.Error("IsCacheFull should return false for nil error")
	}
}

func TestErrorJSONSerialization(t *testing.T) {
	err := NewErrCacheFull(100, 100)

	var memoraErr *errors.Error
	if !goerrors.As(err, &memoraErr) {
		t.Fatal("expected *errors.Error type")
	}

	data, jsonErr := json.Marshal(memoraErr)
	if jsonErr != nil {
		t.Fatalf("JSON marshal failed: %v", jsonErr)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("JSON unmarshal failed: %v", err)
	}

	if decoded["code"] != string(ErrCodeCacheFull) {
		t.Errorf("expected code %q in JSON, got %v", ErrCodeCacheFull, decoded["code"])
	}

	if decoded["message"] == "" {
		t.Error("expected non-empty message in JSON")
	}

	ctx, ok := decoded["context"].(map[string]interface{})
	if !ok {
		t.Error("expected context in JSON")
	}
	if ctx["capacity"] != float64(100) {
		t.Errorf("expected capacity=100 in context, got %v", ctx["capacity"])
	}
}

func TestErrorSeverity(t *testing.T) {
	panicErr := NewErrPanicRecovered("test-op", "panic!")
	var memoraErr *errors.Error
	if goerrors.As(panicErr, &memoraErr) {
		if memoraErr.Severity != "critical" {
			t.Errorf("expected severity=critical, got %s", memoraErr.Severity)
		}
	}

	internalErr := NewErrInternal("test-op", nil)
	if goerrors.As(internalErr, &memoraErr) {
		if memoraErr.Severity != "warning" {
			t.Errorf("expected severity=warning, got %s", memoraErr.Severity)
		}
	}
}

func TestGetErrorCode(t *testing.T) {
	if GetErrorCode(nil) != "" {
		t.Error("expected empty string for nil error")
	}

	stdErr := goerrors.New("standard error")
	if GetErrorCode(stdErr) != "" {
		t.Error("expected empty string for standard error")
	}

	memoraErr := NewErrKeyNotFound("test")
	if GetErrorCode(memoraErr) != ErrCodeKeyNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeKeyNotFound, GetErrorCode(memoraErr))
	}
}

func BenchmarkErrorCreation(b *testing.B) {
	b.Run("Simple", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = NewErrKeyNotFound("test-key")
		}
	})

	b.Run("WithContext", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = NewErrCacheFull(100, 100)
		}
	})

	b.Run("Wrapped", func(b *testing.B) {
		cause := goerrors.New("underlying error")
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = NewErrLoaderFailed("test-key", cause)
		}
	})
}

func BenchmarkErrorChecking(b *testing.B) {
	err := NewErrCacheFull(100, 100)

	b.Run("HasCode", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = errors.HasCode(err, ErrCodeCacheFull)
		}
	})

	b.Run("IsRetryable", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = IsRetryable(err)
		}
	})

	b.Run("GetErrorCode", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = GetErrorCode(err)
		}
	})

	b.Run("GetErrorContext", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = GetErrorContext(err)
		}
	})
}
