// central.go: two-phase centralised-merge strategy
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

// scanLocalMaps is phase 1 of every two-phase strategy: p workers pull
// dynamic chunks of [lo, hi) and absorb rows into a map they exclusively
// own. The returned slice is indexed by thread id; the runWorkers join is
// the barrier that publishes the maps to the merging phase.
func scanLocalMaps(table *RowStore, lo, hi int, cfg Config) []*AggMap {
	p := cfg.NumThreads
	maps := make([]*AggMap, p)
	sched := newRowScheduler(lo, hi, cfg.BatchSize)
	runWorkers(p, func(tid int) {
		m := NewAggMap()
		for start, end, ok := sched.next(); ok; start, end, ok = sched.next() {
			for r := start; r < end; r++ {
				m.AbsorbRow(table, r)
			}
		}
		maps[tid] = m
	})
	return maps
}

// mergeCentral is phase 2: thread 0 folds every other map into map 0 and
// returns it. Cost is O((p-1) * G), all on one thread.
func mergeCentral(maps []*AggMap) *AggMap {
	merged := maps[0]
	for i := 1; i < len(maps); i++ {
		merged.MergeFrom(maps[i])
	}
	return merged
}

// centralStrategy: parallel scan into per-thread maps, then a serial merge
// on worker 0. Simple and cache-friendly at low group cardinality; the
// serial merge is the scaling wall when G or p grows.
type centralStrategy struct{}

func (centralStrategy) Name() string { return AlgTwoPhaseCentral }

func (centralStrategy) Run(table *RowStore, cfg Config, sink ResultSink) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	defer startPhase(cfg, PhaseElapsed)()

	aggDone := startPhase(cfg, PhaseAggregation)

	p1 := startPhase(cfg, PhaseScan)
	maps := scanLocalMaps(table, 0, table.NumRows(), cfg)
	p1()

	p2 := startPhase(cfg, PhaseMerge)
	merged := mergeCentral(maps)
	p2()
	aggDone()

	outDone := startPhase(cfg, PhaseOutput)
	emitAggMap(sink, merged)
	outDone()
	cfg.Metrics.RecordRows(cfg.Trial, merged.Len())
	return nil
}
