// lockfree.go: fixed-capacity linear-probing hash map with atomic slot upserts
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"math"
	"sync/atomic"
)

// lockFreeSlot holds the five per-key fields. All access goes through
// sync/atomic; the int64 fields are 8-byte aligned by construction.
type lockFreeSlot struct {
	key   int64
	count int64
	sum   int64
	min   int64
	max   int64
}

// lockFreeSlotBytes is the memory footprint of one slot, used by the
// adaptive selector's working-set gate.
const lockFreeSlotBytes = 5 * 8

// LockFreeAggMap is a fixed-size open-addressing aggregation table that
// supports concurrent upserts from any number of goroutines.
//
// Protocol per slot: the first writer to arrive claims the slot by CASing
// the key field from KeyEmpty to its key; every later writer for the same
// key converges on the slot via linear probing. Once claimed, a slot's key
// never changes again. COUNT and SUM are plain atomic adds, so ordering is
// irrelevant; MIN and MAX are installed through CAS loops and, being
// monotone and idempotent, settle on the correct extremum by the time all
// writers have joined, whatever the interleaving.
//
// The caller must size the table to roughly 3-4x the expected number of
// distinct keys. Load factor 1 is the hard wall: when a probe sequence
// visits every slot without finding the key or an empty slot, Upsert
// returns false and the caller is expected to fall back (see the
// lock-free-hash-table strategy).
type LockFreeAggMap struct {
	mask  uint64
	slots []lockFreeSlot
}

// NewLockFreeAggMap creates a table with at least the given capacity,
// rounded up to a power of two (minimum 16) so probing can use a mask
// instead of a modulo.
func NewLockFreeAggMap(capacity int) *LockFreeAggMap {
	size := nextPowerOf2(capacity)
	if size < 16 {
		size = 16
	}
	m := &LockFreeAggMap{
		mask:  uint64(size - 1), // #nosec G115 - size is a bounded power of 2
		slots: make([]lockFreeSlot, size),
	}
	for i := range m.slots {
		m.slots[i].key = KeyEmpty
		m.slots[i].min = math.MaxInt64
		m.slots[i].max = math.MinInt64
	}
	return m
}

// nextPowerOf2 returns the next power of 2 greater than or equal to n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// Capacity returns the number of slots in the table.
func (m *LockFreeAggMap) Capacity() int { return len(m.slots) }

// findSlot probes for the slot owned by k, claiming an empty slot along the
// way if needed. Returns the slot index, or -1 when the table is full of
// other keys.
func (m *LockFreeAggMap) findSlot(k int64) int {
	h := hash64(k)
	for probe := uint64(0); probe <= m.mask; probe++ {
		j := (h + probe) & m.mask
		s := &m.slots[j]

		cur := atomic.LoadInt64(&s.key)
		if cur == KeyEmpty {
			if atomic.CompareAndSwapInt64(&s.key, KeyEmpty, k) {
				return int(j)
			}
			// Lost the race; the winner's key is now stable.
			cur = atomic.LoadInt64(&s.key)
		}
		if cur == k {
			return int(j)
		}
	}
	return -1
}

// Upsert atomically folds one (key, value) row into the table. It returns
// false when every probe saw a distinct other key, i.e. the table is full.
func (m *LockFreeAggMap) Upsert(k, v int64) bool {
	j := m.findSlot(k)
	if j < 0 {
		return false
	}
	s := &m.slots[j]
	atomic.AddInt64(&s.count, 1)
	atomic.AddInt64(&s.sum, v)
	for {
		cur := atomic.LoadInt64(&s.min)
		if v >= cur || atomic.CompareAndSwapInt64(&s.min, cur, v) {
			break
		}
	}
	for {
		cur := atomic.LoadInt64(&s.max)
		if v <= cur || atomic.CompareAndSwapInt64(&s.max, cur, v) {
			break
		}
	}
	return true
}

// AbsorbAccumulator merges a whole accumulator into the slot for k. Used
// when draining sampling or thread-local maps into the table. Identity
// accumulators are skipped so they do not claim slots for keys that never
// produced a row.
func (m *LockFreeAggMap) AbsorbAccumulator(k int64, acc Accumulator) bool {
	if acc.Count == 0 {
		return true
	}
	j := m.findSlot(k)
	if j < 0 {
		return false
	}
	s := &m.slots[j]
	atomic.AddInt64(&s.count, acc.Count)
	atomic.AddInt64(&s.sum, acc.Sum)
	for {
		cur := atomic.LoadInt64(&s.min)
		if acc.Min >= cur || atomic.CompareAndSwapInt64(&s.min, cur, acc.Min) {
			break
		}
	}
	for {
		cur := atomic.LoadInt64(&s.max)
		if acc.Max <= cur || atomic.CompareAndSwapInt64(&s.max, cur, acc.Max) {
			break
		}
	}
	return true
}

// Len counts the occupied slots. Intended for use after all writers have
// joined; concurrent use returns a point-in-time lower bound.
func (m *LockFreeAggMap) Len() int {
	n := 0
	for i := range m.slots {
		if atomic.LoadInt64(&m.slots[i].key) != KeyEmpty {
			n++
		}
	}
	return n
}

// ForEach snapshots every occupied slot and calls fn with its key and
// accumulator. Single-threaded by contract: callers invoke it only after
// the barrier that joins all writers, so one atomic load per field is a
// consistent read.
func (m *LockFreeAggMap) ForEach(fn func(key int64, acc Accumulator)) {
	for i := range m.slots {
		s := &m.slots[i]
		k := atomic.LoadInt64(&s.key)
		if k == KeyEmpty {
			continue
		}
		fn(k, Accumulator{
			Count: atomic.LoadInt64(&s.count),
			Sum:   atomic.LoadInt64(&s.sum),
			Min:   atomic.LoadInt64(&s.min),
			Max:   atomic.LoadInt64(&s.max),
		})
	}
}
