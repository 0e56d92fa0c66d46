// lockfree_strategy.go: single shared lock-free table strategy
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "sync/atomic"

// lockFreeScan drives all workers' upserts over [lo, hi). Returns false
// if any upsert hit a full table; the table contents are then garbage and
// the caller must fall back.
func lockFreeScan(table *RowStore, lo, hi int, cfg Config, m *LockFreeAggMap) bool {
	var full atomic.Bool
	sched := newRowScheduler(lo, hi, cfg.BatchSize)
	runWorkers(cfg.NumThreads, func(int) {
		for start, end, ok := sched.next(); ok; start, end, ok = sched.next() {
			if full.Load() {
				return
			}
			for r := start; r < end; r++ {
				if !m.Upsert(table.Get(r, 0), table.Get(r, 1)) {
					full.Store(true)
					return
				}
			}
		}
	})
	return !full.Load()
}

// lockFreeStrategy: no per-thread structure at all. Every worker upserts
// straight into one shared table sized from LockFreeCapacity, or from the
// row count when unset (an upper bound on the distinct key count, so the
// scan cannot overflow). A full table is recovered, not fatal: the partial
// state is discarded and the whole input re-runs through radix.
type lockFreeStrategy struct{}

func (lockFreeStrategy) Name() string { return AlgLockFree }

func (lockFreeStrategy) Run(table *RowStore, cfg Config, sink ResultSink) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	defer startPhase(cfg, PhaseElapsed)()

	capacity := cfg.LockFreeCapacity
	if capacity <= 0 {
		capacity = table.NumRows()
	}
	m := NewLockFreeAggMap(capacity)

	aggDone := startPhase(cfg, PhaseAggregation)
	p1 := startPhase(cfg, PhaseScan)
	ok := lockFreeScan(table, 0, table.NumRows(), cfg, m)
	p1()

	if !ok {
		aggDone()
		err := NewErrTableFull(m.Capacity())
		cfg.Logger.Warn("lock-free table full, falling back to radix",
			"capacity", m.Capacity(), "error", err)
		cfg.Metrics.RecordFallback(cfg.Trial, AlgLockFree, AlgTwoPhaseRadix)
		return radixStrategy{}.Run(table, cfg, sink)
	}
	aggDone()

	outDone := startPhase(cfg, PhaseOutput)
	rows := 0
	m.ForEach(func(key int64, acc Accumulator) {
		sink.Emit(ResultRow{Key: key, Count: acc.Count, Sum: acc.Sum, Min: acc.Min, Max: acc.Max})
		rows++
	})
	outDone()
	cfg.Metrics.RecordRows(cfg.Trial, rows)
	return nil
}
