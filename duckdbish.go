// duckdbish.go: two-phase strategy with late repartitioning
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "sync/atomic"

// scatterLocal redistributes a thread-local map into the partition matrix
// row owned by tid.
func scatterLocal(sub [][]*AggMap, local *AggMap, tid, parts int) {
	local.ForEach(func(key int64, acc Accumulator) {
		sub[partitionOf(key, parts)][tid].Absorb(key, acc)
	})
}

// duckdbishStrategy starts out as central: each worker scans into a single
// local map. A worker whose map outgrows the adaptation threshold raises a
// shared flag and scatters its entries into the radix partition matrix;
// after the scan barrier every worker that has not yet scattered does so
// too, and phase 2 proceeds as radix. If no map ever crossed the
// threshold, phase 2 is the plain centralised merge. The point is to
// convert a low-cardinality plan into radix on the fly without discarding
// work already done.
type duckdbishStrategy struct{}

func (duckdbishStrategy) Name() string { return AlgDuckDBish }

func (duckdbishStrategy) Run(table *RowStore, cfg Config, sink ResultSink) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	defer startPhase(cfg, PhaseElapsed)()

	p := cfg.NumThreads
	parts := cfg.numPartitions()

	aggDone := startPhase(cfg, PhaseAggregation)

	locals := make([]*AggMap, p)
	scattered := make([]bool, p)
	sub := newPartitionMatrix(parts, p)
	var repartition atomic.Bool

	p1 := startPhase(cfg, PhaseScan)
	sched := newRowScheduler(0, table.NumRows(), cfg.BatchSize)
	runWorkers(p, func(tid int) {
		local := NewAggMap()
		for start, end, ok := sched.next(); ok; start, end, ok = sched.next() {
			for r := start; r < end; r++ {
				local.AbsorbRow(table, r)
			}
		}
		locals[tid] = local
		if local.Len() > cfg.AdaptationThreshold {
			repartition.Store(true)
			scatterLocal(sub, local, tid, parts)
			scattered[tid] = true
		}
	})

	doPartition := repartition.Load()
	if doPartition {
		cfg.Logger.Info("switching to late repartitioning",
			"threshold", cfg.AdaptationThreshold, "partitions", parts)
		runWorkers(p, func(tid int) {
			if !scattered[tid] {
				scatterLocal(sub, locals[tid], tid, parts)
			}
		})
	}
	p1()

	p2 := startPhase(cfg, PhaseMerge)
	var merged *AggMap
	if doPartition {
		mergeRadixMaps(sub, p)
	} else {
		merged = mergeCentral(locals)
	}
	p2()
	aggDone()

	outDone := startPhase(cfg, PhaseOutput)
	var rows int
	if doPartition {
		rows = emitRadix(sink, sub)
	} else {
		emitAggMap(sink, merged)
		rows = merged.Len()
	}
	outDone()
	cfg.Metrics.RecordRows(cfg.Trial, rows)
	return nil
}
