// adaptive.go: sampling-driven strategy selection (alg1 and alg2)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

// strategyKind is the selector's internal decision space.
type strategyKind int

const (
	kindCentral strategyKind = iota
	kindTree
	kindRadix
	kindLockFree
)

func (k strategyKind) String() string {
	switch k {
	case kindCentral:
		return AlgTwoPhaseCentral
	case kindTree:
		return AlgTwoPhaseTree
	case kindRadix:
		return AlgTwoPhaseRadix
	case kindLockFree:
		return AlgLockFree
	}
	return "unknown"
}

// samplePrefix runs phase 0: absorb the first k rows single-threadedly and
// return the sampling map.
func samplePrefix(table *RowStore, k int) *AggMap {
	sample := NewAggMap()
	for r := 0; r < k; r++ {
		sample.AbsorbRow(table, r)
	}
	return sample
}

// decideHeuristic is the alg1 decision tree. Thresholds follow the
// benchmark campaign that produced them: small estimated cardinality keeps
// the merge cheap (central below 5 threads, tree above); large cardinality
// wants radix unless the thread count is modest and the sample prefix was
// not saturated by fresh keys, in which case the cardinality estimate is
// trustworthy enough to size a lock-free table.
func decideHeuristic(gHat float64, gTilde, sampleLen, p int) strategyKind {
	if gHat < 500_000 && p < 32 {
		if p <= 4 {
			return kindCentral
		}
		return kindTree
	}
	if p < 16 && 100*gTilde < 95*sampleLen {
		return kindLockFree
	}
	return kindRadix
}

// decideCostModel is the alg2 decision: the lock-free gate first, then the
// cheapest of central, tree and radix under the cost models, using the
// actual count of unscanned rows for the scan terms.
func decideCostModel(gHat float64, remainingRows, totalRows, p, parts int) strategyKind {
	if lockFreeEligible(gHat, p, totalRows) {
		return kindLockFree
	}

	centralCost := centralMergeCost(gHat, p) + scanCost(gHat, remainingRows)
	treeCost := treeMergeCost(gHat, p) + scanCost(gHat, remainingRows)
	radixCost := radixMergeCost(gHat, p) + radixScanCost(gHat, remainingRows, parts)

	best := kindCentral
	bestCost := centralCost
	if treeCost < bestCost {
		best, bestCost = kindTree, treeCost
	}
	if radixCost < bestCost {
		best = kindRadix
	}
	return best
}

// dispatchSampled runs the chosen strategy over rows [lo, n) and folds the
// sampling map into the final result: central/tree absorb it into the
// merged map, radix distributes it by partition, and the lock-free table
// takes it through AbsorbAccumulator. A full lock-free table falls back to
// radix over the same row range, so the sampled prefix is never recounted.
func dispatchSampled(kind strategyKind, table *RowStore, lo int, cfg Config, sample *AggMap, gHat float64, sink ResultSink) error {
	n := table.NumRows()

	switch kind {
	case kindCentral, kindTree:
		p1 := startPhase(cfg, PhaseScan)
		maps := scanLocalMaps(table, lo, n, cfg)
		p1()

		p2 := startPhase(cfg, PhaseMerge)
		var merged *AggMap
		if kind == kindCentral {
			merged = mergeCentral(maps)
		} else {
			treeMerge(maps, cfg.NumThreads)
			merged = maps[0]
		}
		merged.MergeFrom(sample)
		p2()

		outDone := startPhase(cfg, PhaseOutput)
		emitAggMap(sink, merged)
		outDone()
		cfg.Metrics.RecordRows(cfg.Trial, merged.Len())
		return nil

	case kindLockFree:
		capacity := cfg.LockFreeCapacity
		if capacity <= 0 {
			capacity = int(4 * gHat)
		}
		m := NewLockFreeAggMap(capacity)

		p1 := startPhase(cfg, PhaseScan)
		ok := lockFreeScan(table, lo, n, cfg, m)
		p1()

		if ok {
			p2 := startPhase(cfg, PhaseMerge)
			sample.ForEach(func(key int64, acc Accumulator) {
				if ok && !m.AbsorbAccumulator(key, acc) {
					ok = false
				}
			})
			p2()
		}
		if !ok {
			err := NewErrTableFull(m.Capacity())
			cfg.Logger.Warn("lock-free table full, falling back to radix",
				"capacity", m.Capacity(), "estimated_groups", int64(gHat), "error", err)
			cfg.Metrics.RecordFallback(cfg.Trial, AlgLockFree, AlgTwoPhaseRadix)
			return dispatchSampled(kindRadix, table, lo, cfg, sample, gHat, sink)
		}

		outDone := startPhase(cfg, PhaseOutput)
		rows := 0
		m.ForEach(func(key int64, acc Accumulator) {
			sink.Emit(ResultRow{Key: key, Count: acc.Count, Sum: acc.Sum, Min: acc.Min, Max: acc.Max})
			rows++
		})
		outDone()
		cfg.Metrics.RecordRows(cfg.Trial, rows)
		return nil

	default: // kindRadix
		parts := cfg.numPartitions()

		p1 := startPhase(cfg, PhaseScan)
		sub := scanRadixMaps(table, lo, n, parts, cfg)
		p1()

		p2 := startPhase(cfg, PhaseMerge)
		mergeRadixMaps(sub, cfg.NumThreads)
		sample.ForEach(func(key int64, acc Accumulator) {
			sub[partitionOf(key, parts)][0].Absorb(key, acc)
		})
		p2()

		outDone := startPhase(cfg, PhaseOutput)
		rows := emitRadix(sink, sub)
		outDone()
		cfg.Metrics.RecordRows(cfg.Trial, rows)
		return nil
	}
}

// adaptiveHeuristic is adaptive-alg1: one up-front decision through the
// hand-tuned tree.
type adaptiveHeuristic struct{}

func (adaptiveHeuristic) Name() string { return AlgAdaptive1 }

func (adaptiveHeuristic) Run(table *RowStore, cfg Config, sink ResultSink) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	defer startPhase(cfg, PhaseElapsed)()
	aggDone := startPhase(cfg, PhaseAggregation)

	p0 := startPhase(cfg, PhaseSampling)
	k := min(cfg.SamplePrefixLen, table.NumRows())
	sample := samplePrefix(table, k)
	gTilde := sample.Len()
	gHat := EstimateDistinct(k, gTilde)
	kind := decideHeuristic(gHat, gTilde, k, cfg.NumThreads)
	p0()

	cfg.Logger.Info("strategy decided", "algorithm", AlgAdaptive1,
		"g_tilde", gTilde, "g_hat", int64(gHat), "strategy", kind.String())
	cfg.Metrics.RecordDecision(cfg.Trial, kind.String())

	err := dispatchSampled(kind, table, k, cfg, sample, gHat, sink)
	aggDone()
	return err
}

// adaptiveCostModel is adaptive-alg2: one up-front decision through the
// cost models.
type adaptiveCostModel struct{}

func (adaptiveCostModel) Name() string { return AlgAdaptive2 }

func (adaptiveCostModel) Run(table *RowStore, cfg Config, sink ResultSink) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	defer startPhase(cfg, PhaseElapsed)()
	aggDone := startPhase(cfg, PhaseAggregation)

	p0 := startPhase(cfg, PhaseSampling)
	n := table.NumRows()
	k := min(cfg.SamplePrefixLen, n)
	sample := samplePrefix(table, k)
	gTilde := sample.Len()
	gHat := EstimateDistinct(k, gTilde)
	kind := decideCostModel(gHat, n-k, n, cfg.NumThreads, cfg.numPartitions())
	p0()

	cfg.Logger.Info("strategy decided", "algorithm", AlgAdaptive2,
		"g_tilde", gTilde, "g_hat", int64(gHat), "strategy", kind.String())
	cfg.Metrics.RecordDecision(cfg.Trial, kind.String())

	err := dispatchSampled(kind, table, k, cfg, sample, gHat, sink)
	aggDone()
	return err
}
