// radix.go: two-phase radix-partitioned strategy
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

// partitionOf maps a group key to its radix partition. Shares hash64 with
// the maps so a key lands in the same partition everywhere.
func partitionOf(key int64, parts int) int {
	return int(hash64(key) % uint64(parts)) // #nosec G115 - parts is a small positive int
}

// newPartitionMatrix allocates the [partition][thread] map matrix. Every
// cell starts as an empty map so merge loops never see nil.
func newPartitionMatrix(parts, p int) [][]*AggMap {
	sub := make([][]*AggMap, parts)
	for part := range sub {
		sub[part] = make([]*AggMap, p)
		for tid := range sub[part] {
			sub[part][tid] = NewAggMap()
		}
	}
	return sub
}

// scanRadixMaps is the radix phase 1: each worker owns one map per
// partition and scatters the rows it receives by key hash. Cell [part][tid]
// has exactly one writer during the scan.
func scanRadixMaps(table *RowStore, lo, hi, parts int, cfg Config) [][]*AggMap {
	p := cfg.NumThreads
	sub := newPartitionMatrix(parts, p)
	sched := newRowScheduler(lo, hi, cfg.BatchSize)
	runWorkers(p, func(tid int) {
		for start, end, ok := sched.next(); ok; start, end, ok = sched.next() {
			for r := start; r < end; r++ {
				part := partitionOf(table.Get(r, 0), parts)
				sub[part][tid].AbsorbRow(table, r)
			}
		}
	})
	return sub
}

// mergeRadixMaps is the radix phase 2: partitions are handed out
// dynamically and each claiming worker folds the partition's per-thread
// stack into [part][0]. Partitions are disjoint key sets, so no two
// workers ever touch the same map.
func mergeRadixMaps(sub [][]*AggMap, p int) {
	sched := newIndexScheduler(len(sub))
	runWorkers(p, func(int) {
		for part, ok := sched.next(); ok; part, ok = sched.next() {
			for other := 1; other < p; other++ {
				sub[part][0].MergeFrom(sub[part][other])
			}
		}
	})
}

// emitRadix concatenates the merged partition maps into the sink and
// returns the total row count.
func emitRadix(sink ResultSink, sub [][]*AggMap) int {
	rows := 0
	for part := range sub {
		emitAggMap(sink, sub[part][0])
		rows += sub[part][0].Len()
	}
	return rows
}

// radixStrategy: scatter rows into N = p * ratio partitions during the
// scan, then merge partitions in parallel. The scan pays an extra hash and
// a scattered write per row; the merge parallelises perfectly because
// partitions never share keys.
type radixStrategy struct{}

func (radixStrategy) Name() string { return AlgTwoPhaseRadix }

func (radixStrategy) Run(table *RowStore, cfg Config, sink ResultSink) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	defer startPhase(cfg, PhaseElapsed)()

	aggDone := startPhase(cfg, PhaseAggregation)

	p1 := startPhase(cfg, PhaseScan)
	sub := scanRadixMaps(table, 0, table.NumRows(), cfg.numPartitions(), cfg)
	p1()

	p2 := startPhase(cfg, PhaseMerge)
	mergeRadixMaps(sub, cfg.NumThreads)
	p2()
	aggDone()

	outDone := startPhase(cfg, PhaseOutput)
	rows := emitRadix(sink, sub)
	outDone()
	cfg.Metrics.RecordRows(cfg.Trial, rows)
	return nil
}
