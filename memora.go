// memora.go: package-wide constants
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memora

const (
	// Version of the memora cache library.
	Version = "v0.1.0-dev"

	// DefaultPolicy is used when a store is constructed without an explicit policy.
	DefaultPolicy = PolicyLRU

	// DefaultFrequencyWeight is the TLRU frequency exponent applied when the
	// caller does not override it.
	DefaultFrequencyWeight = 1.0
)
