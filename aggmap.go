// aggmap.go: single-writer hash map from group key to accumulator
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// hash64 hashes a group key with xxHash over its little-endian bytes.
// Radix partitioning and the lock-free table both go through this one
// function so that partition assignment and probe start points agree
// across strategies. AggMap does not use it: its entries live in a Go
// builtin map, which hashes keys with the runtime's own hash.
func hash64(k int64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(k))
	return xxhash.Sum64(b[:])
}

// AggMap is a thread-local mapping from group key to Accumulator.
//
// It is deliberately NOT safe for concurrent use: the two-phase strategies
// give each map exactly one writer during the scan phase, and merge phases
// hand whole maps between threads across a barrier. Allocation failure is
// fatal to the run, as it is for every intermediate structure here.
type AggMap struct {
	entries map[int64]Accumulator
}

// NewAggMap creates an empty thread-local aggregation map.
func NewAggMap() *AggMap {
	return &AggMap{entries: make(map[int64]Accumulator)}
}

// NewAggMapSized creates an empty map pre-sized for about n keys.
func NewAggMapSized(n int) *AggMap {
	if n < 0 {
		n = 0
	}
	return &AggMap{entries: make(map[int64]Accumulator, n)}
}

// AbsorbRow folds row r of the table into the entry for its key,
// installing the identity element first if the key is absent.
func (m *AggMap) AbsorbRow(t *RowStore, r int) {
	key := t.Get(r, 0)
	acc, ok := m.entries[key]
	if !ok {
		acc = IdentityAccumulator()
	}
	m.entries[key] = acc.AbsorbValue(t.Get(r, 1))
}

// Absorb merges acc into the entry for key (identity if absent).
func (m *AggMap) Absorb(key int64, acc Accumulator) {
	cur, ok := m.entries[key]
	if !ok {
		cur = IdentityAccumulator()
	}
	m.entries[key] = cur.Merge(acc)
}

// MergeFrom absorbs every entry of other into m. other is left untouched.
func (m *AggMap) MergeFrom(other *AggMap) {
	for key, acc := range other.entries {
		m.Absorb(key, acc)
	}
}

// Get returns the accumulator for key and whether it is present.
func (m *AggMap) Get(key int64) (Accumulator, bool) {
	acc, ok := m.entries[key]
	return acc, ok
}

// Len returns the number of distinct keys in the map.
func (m *AggMap) Len() int { return len(m.entries) }

// ForEach calls fn for every (key, accumulator) entry, in map order.
func (m *AggMap) ForEach(fn func(key int64, acc Accumulator)) {
	for key, acc := range m.entries {
		fn(key, acc)
	}
}
