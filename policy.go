// policy.go: eviction policy tag and its string conversions
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memora

import "strings"

// Policy selects which eviction discipline a store applies once it is full.
//
// # Variants
//
//   - FIFO: oldest insertion evicted first. Access does not change order. O(1).
//   - LRU (default): least recently accessed evicted first. A hit moves the
//     entry to the back of the order queue. O(n) reorder on hit.
//   - LFU: least frequently accessed evicted first. A hit increments the
//     entry's frequency counter. O(n) scan on eviction.
//   - ARC: a frequency x recency composite score, not the Megiddo-Modha
//     Adaptive Replacement Cache (no T1/T2/B1/B2 lists, no ghost entries,
//     no self-tuning parameter). See evictARC in orderqueue.go for the
//     scoring formula.
//   - TLRU: like ARC, with an additional age factor that discounts entries
//     nearing TTL expiry.
//   - Random: a uniformly random resident entry is evicted. O(1).
type Policy string

const (
	PolicyFIFO   Policy = "fifo"
	PolicyLRU    Policy = "lru"
	PolicyLFU    Policy = "lfu"
	PolicyARC    Policy = "arc"
	PolicyTLRU   Policy = "tlru"
	PolicyRandom Policy = "random"
)

// ParsePolicy converts a string to a Policy, case-insensitively. It returns
// an error for any value outside the closed set, since a literal policy
// string is a configuration-time mistake the caller should see immediately
// rather than have silently redirected to a different policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case string(PolicyFIFO):
		return PolicyFIFO, nil
	case string(PolicyLRU):
		return PolicyLRU, nil
	case string(PolicyLFU):
		return PolicyLFU, nil
	case string(PolicyARC):
		return PolicyARC, nil
	case string(PolicyTLRU):
		return PolicyTLRU, nil
	case string(PolicyRandom):
		return PolicyRandom, nil
	default:
		return "", NewErrInvalidPolicy(s)
	}
}

// ParsePolicyOrDefault converts a string to a Policy, case-insensitively,
// defaulting to PolicyLRU for any value outside the closed set. Use this
// when the policy string is computed at runtime rather than supplied as a
// literal, matching the permissive conversion of the upstream eviction
// policy enum this type is modeled on.
func ParsePolicyOrDefault(s string) Policy {
	p, err := ParsePolicy(s)
	if err != nil {
		return PolicyLRU
	}
	return p
}

// IsValidPolicy reports whether s names one of the six closed-set policies,
// case-insensitively.
func IsValidPolicy(s string) bool {
	_, err := ParsePolicy(s)
	return err == nil
}

// usesRecencyReorder reports whether a hit on this policy moves the key to
// the back of the order queue.
func (p Policy) usesRecencyReorder() bool {
	return p == PolicyLRU || p == PolicyARC || p == PolicyTLRU
}

// usesFrequencyCount reports whether a hit on this policy increments the
// entry's frequency counter.
func (p Policy) usesFrequencyCount() bool {
	return p == PolicyLFU || p == PolicyARC || p == PolicyTLRU
}
