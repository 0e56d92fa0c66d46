// tree.go: two-phase tree-merge strategy
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "sync"

// treeMerge folds maps[1..p) into maps[0] in ceil(log2(p)) parallel
// rounds. In round r every thread id that is a multiple of 2^r merges the
// map of tid + 2^(r-1) into its own, with a barrier between rounds. Works
// for any p, including non-powers of two: a round simply skips pairs whose
// source id does not exist.
func treeMerge(maps []*AggMap, p int) {
	for step := 2; step/2 < p; step *= 2 {
		half := step / 2
		var wg sync.WaitGroup
		for tid := 0; tid+half < p; tid += step {
			wg.Add(1)
			go func(tid int) {
				defer wg.Done()
				maps[tid].MergeFrom(maps[tid+half])
			}(tid)
		}
		wg.Wait()
	}
}

// treeStrategy: phase 1 identical to central, phase 2 merges pairwise up a
// binary tree so the merge work is spread over O(log p) parallel rounds
// instead of being serialised on worker 0.
type treeStrategy struct{}

func (treeStrategy) Name() string { return AlgTwoPhaseTree }

func (treeStrategy) Run(table *RowStore, cfg Config, sink ResultSink) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	defer startPhase(cfg, PhaseElapsed)()

	aggDone := startPhase(cfg, PhaseAggregation)

	p1 := startPhase(cfg, PhaseScan)
	maps := scanLocalMaps(table, 0, table.NumRows(), cfg)
	p1()

	p2 := startPhase(cfg, PhaseMerge)
	treeMerge(maps, cfg.NumThreads)
	p2()
	aggDone()

	outDone := startPhase(cfg, PhaseOutput)
	emitAggMap(sink, maps[0])
	outDone()
	cfg.Metrics.RecordRows(cfg.Trial, maps[0].Len())
	return nil
}
