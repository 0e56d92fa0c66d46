// lockfree_test.go: unit and concurrency tests for the lock-free table
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"math"
	"sync"
	"sync/atomic"
	"testing"
)

func collectLockFree(m *LockFreeAggMap) map[int64]Accumulator {
	out := map[int64]Accumulator{}
	m.ForEach(func(key int64, acc Accumulator) {
		out[key] = acc
	})
	return out
}

func TestLockFreeAggMap_CapacityRounding(t *testing.T) {
	cases := []struct{ requested, want int }{
		{0, 16},
		{1, 16},
		{16, 16},
		{17, 32},
		{64, 64},
		{100, 128},
	}
	for _, tc := range cases {
		m := NewLockFreeAggMap(tc.requested)
		if m.Capacity() != tc.want {
			t.Errorf("capacity(%d): expected %d, got %d", tc.requested, tc.want, m.Capacity())
		}
	}
}

func TestLockFreeAggMap_UpsertBasic(t *testing.T) {
	m := NewLockFreeAggMap(64)
	rows := [][2]int64{{1, 10}, {2, 5}, {1, 7}, {2, 3}, {1, 20}}
	for _, row := range rows {
		if !m.Upsert(row[0], row[1]) {
			t.Fatalf("upsert(%d, %d) returned false", row[0], row[1])
		}
	}

	got := collectLockFree(m)
	if len(got) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(got))
	}
	if got[1] != (Accumulator{Count: 3, Sum: 37, Min: 7, Max: 20}) {
		t.Errorf("key 1: got %+v", got[1])
	}
	if got[2] != (Accumulator{Count: 2, Sum: 8, Min: 3, Max: 5}) {
		t.Errorf("key 2: got %+v", got[2])
	}
	if m.Len() != 2 {
		t.Errorf("Len: expected 2, got %d", m.Len())
	}
}

func TestLockFreeAggMap_NegativeValues(t *testing.T) {
	m := NewLockFreeAggMap(16)
	for _, v := range []int64{-5, 0, 5, math.MinInt64 + 1, math.MaxInt64} {
		if !m.Upsert(42, v) {
			t.Fatal("upsert failed")
		}
	}
	got := collectLockFree(m)[42]
	if got.Min != math.MinInt64+1 || got.Max != math.MaxInt64 || got.Count != 5 {
		t.Errorf("got %+v", got)
	}
}

func TestLockFreeAggMap_FullTable(t *testing.T) {
	m := NewLockFreeAggMap(16) // 16 slots exactly
	for k := int64(0); k < 16; k++ {
		if !m.Upsert(k, k) {
			t.Fatalf("upsert %d should fit", k)
		}
	}
	if m.Upsert(999, 1) {
		t.Error("17th distinct key should report a full table")
	}
	// existing keys still work at load factor 1
	if !m.Upsert(3, 100) {
		t.Error("existing key must still be upsertable in a full table")
	}
}

func TestLockFreeAggMap_AbsorbAccumulator(t *testing.T) {
	m := NewLockFreeAggMap(32)
	if !m.Upsert(5, 10) {
		t.Fatal("seed upsert failed")
	}
	if !m.AbsorbAccumulator(5, Accumulator{Count: 2, Sum: 3, Min: -1, Max: 4}) {
		t.Fatal("absorb failed")
	}
	if !m.AbsorbAccumulator(6, Accumulator{Count: 1, Sum: 7, Min: 7, Max: 7}) {
		t.Fatal("absorb of new key failed")
	}

	got := collectLockFree(m)
	if got[5] != (Accumulator{Count: 3, Sum: 13, Min: -1, Max: 10}) {
		t.Errorf("key 5: got %+v", got[5])
	}
	if got[6] != (Accumulator{Count: 1, Sum: 7, Min: 7, Max: 7}) {
		t.Errorf("key 6: got %+v", got[6])
	}
}

func TestLockFreeAggMap_AbsorbIdentitySkipsSlot(t *testing.T) {
	m := NewLockFreeAggMap(16)
	if !m.AbsorbAccumulator(1, IdentityAccumulator()) {
		t.Fatal("identity absorb should succeed trivially")
	}
	if m.Len() != 0 {
		t.Error("identity absorb must not claim a slot")
	}
}

func TestLockFreeAggMap_ConcurrentUpserts(t *testing.T) {
	const (
		goroutines = 8
		perKey     = 1000
		keys       = 50
	)
	m := NewLockFreeAggMap(4 * keys)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perKey; i++ {
				for k := int64(0); k < keys; k++ {
					// values cycle so min/max are contended from all sides
					v := int64((i+g)%100) - 50
					if !m.Upsert(k, v) {
						t.Errorf("upsert(%d) failed", k)
						return
					}
				}
			}
		}(g)
	}
	wg.Wait()

	got := collectLockFree(m)
	if len(got) != keys {
		t.Fatalf("expected %d keys, got %d", keys, len(got))
	}
	for k, acc := range got {
		if acc.Count != goroutines*perKey {
			t.Errorf("key %d: count %d, expected %d", k, acc.Count, goroutines*perKey)
		}
		if acc.Min < -50 || acc.Max > 49 {
			t.Errorf("key %d: extrema out of range %d/%d", k, acc.Min, acc.Max)
		}
	}
}

func TestLockFreeAggMap_SlotKeyStability(t *testing.T) {
	// Once a slot key is claimed it never changes; hammer the same small
	// key set from many goroutines and snapshot keys mid-flight.
	m := NewLockFreeAggMap(64)
	var stop atomic.Bool

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; !stop.Load(); i++ {
				m.Upsert(int64(i%8), int64(g))
			}
		}(g)
	}

	seen := map[int]int64{}
	for round := 0; round < 100; round++ {
		for j := range m.slots {
			k := atomic.LoadInt64(&m.slots[j].key)
			if k == KeyEmpty {
				continue
			}
			if prev, ok := seen[j]; ok && prev != k {
				t.Errorf("slot %d changed key %d -> %d", j, prev, k)
			}
			seen[j] = k
		}
	}
	stop.Store(true)
	wg.Wait()
}

func TestLockFreeAggMap_EmptyIteration(t *testing.T) {
	m := NewLockFreeAggMap(64)
	n := 0
	m.ForEach(func(int64, Accumulator) { n++ })
	if n != 0 {
		t.Errorf("empty table iterated %d slots", n)
	}
}
