// adaptive_window.go: windowed re-deciding selector (alg3)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

// windowSampleTarget bounds how many rows of each window feed the
// cardinality sample, so sampling stays O(1) per window regardless of the
// geometric growth.
const windowSampleTarget = 4096

// adaptiveWindowed is adaptive-alg3: instead of one up-front decision it
// consumes the table in geometrically growing windows (S, 2S, 4S, ...),
// re-estimates the group cardinality after each window, and re-picks the
// strategy for the next one. In-flight state is never discarded: per-thread
// maps, the radix matrix and the lock-free table all stay live once
// touched, and a final combine folds whichever of them were used into one
// result.
//
// The first window runs with at most four workers; every window after the
// first re-decision uses all p workers. A lock-free table is allocated at
// twelve times the current estimate and rebuilt (re-accumulating every
// occupied slot) if a later estimate shows it undersized below four times.
type adaptiveWindowed struct{}

func (adaptiveWindowed) Name() string { return AlgAdaptive3 }

func (adaptiveWindowed) Run(table *RowStore, cfg Config, sink ResultSink) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	defer startPhase(cfg, PhaseElapsed)()
	aggDone := startPhase(cfg, PhaseAggregation)

	n := table.NumRows()
	p := cfg.NumThreads
	parts := cfg.numPartitions()

	kind := kindCentral
	pHat := min(4, p)

	locals := make([]*AggMap, p)
	for i := range locals {
		locals[i] = NewAggMap()
	}
	var sub [][]*AggMap
	var lfm *LockFreeAggMap
	touchedLocals := false
	touchedRadix := false
	overflowed := false

	sampleSet := make(map[int64]struct{})
	sampled := 0
	maxGHat := 1.0

	windowLen := cfg.BatchSize
	lo := 0
	step := 0
	for lo < n && !overflowed {
		hi := min(lo+windowLen, n)

		// scan this window with the current strategy's layout
		switch kind {
		case kindCentral, kindTree:
			touchedLocals = true
			sched := newRowScheduler(lo, hi, cfg.BatchSize)
			runWorkers(pHat, func(tid int) {
				m := locals[tid]
				for start, end, ok := sched.next(); ok; start, end, ok = sched.next() {
					for r := start; r < end; r++ {
						m.AbsorbRow(table, r)
					}
				}
			})
		case kindRadix:
			touchedRadix = true
			sched := newRowScheduler(lo, hi, cfg.BatchSize)
			runWorkers(pHat, func(tid int) {
				for start, end, ok := sched.next(); ok; start, end, ok = sched.next() {
					for r := start; r < end; r++ {
						part := partitionOf(table.Get(r, 0), parts)
						sub[part][tid].AbsorbRow(table, r)
					}
				}
			})
		case kindLockFree:
			if !lockFreeScan(table, lo, hi, cfg, lfm) {
				overflowed = true
			}
		}

		// cheap distinct-key sample from the window just scanned
		stride := (hi-lo)/windowSampleTarget + 1
		for r := lo; r < hi; r += stride {
			sampleSet[table.Get(r, 0)] = struct{}{}
			sampled++
		}

		lo = hi
		if lo >= n || overflowed {
			break
		}

		// re-estimate and re-decide for the next window
		gHat := EstimateDistinct(sampled, len(sampleSet))
		if gHat > maxGHat {
			maxGHat = gHat
		}

		if kind == kindLockFree || lockFreeEligible(maxGHat, p, lo) {
			kind = kindLockFree
			pHat = p
			want := int(12 * maxGHat)
			acceptable := int(4 * maxGHat)
			if lfm == nil {
				lfm = NewLockFreeAggMap(want)
			} else if lfm.Capacity() < acceptable {
				grown := NewLockFreeAggMap(want)
				ok := true
				lfm.ForEach(func(key int64, acc Accumulator) {
					if ok && !grown.AbsorbAccumulator(key, acc) {
						ok = false
					}
				})
				if !ok {
					overflowed = true
					break
				}
				cfg.Logger.Debug("lock-free table grown",
					"from", lfm.Capacity(), "to", grown.Capacity())
				lfm = grown
			}
		} else {
			kind = decideCostModel(maxGHat, n-lo, n, p, parts)
			pHat = p
			if kind == kindRadix && sub == nil {
				sub = newPartitionMatrix(parts, p)
			}
		}

		cfg.Logger.Debug("adaptation step", "step", step, "rows_seen", lo,
			"g_hat", int64(maxGHat), "strategy", kind.String())
		cfg.Metrics.RecordDecision(cfg.Trial, kind.String())

		windowLen *= 2
		step++
	}

	if overflowed {
		aggDone()
		err := NewErrTableFull(lfm.Capacity())
		cfg.Logger.Warn("lock-free table full, restarting with radix", "error", err)
		cfg.Metrics.RecordFallback(cfg.Trial, AlgLockFree, AlgTwoPhaseRadix)
		return radixStrategy{}.Run(table, cfg, sink)
	}

	// final combine across whichever structures were touched
	p2 := startPhase(cfg, PhaseMerge)
	if touchedRadix {
		mergeRadixMaps(sub, p)
	}
	if touchedLocals {
		mergeCentral(locals)
	}
	combineOK := true
	if lfm != nil {
		if touchedRadix {
			for part := range sub {
				sub[part][0].ForEach(func(key int64, acc Accumulator) {
					if combineOK && !lfm.AbsorbAccumulator(key, acc) {
						combineOK = false
					}
				})
			}
		}
		if touchedLocals {
			locals[0].ForEach(func(key int64, acc Accumulator) {
				if combineOK && !lfm.AbsorbAccumulator(key, acc) {
					combineOK = false
				}
			})
		}
	} else if touchedRadix && touchedLocals {
		locals[0].ForEach(func(key int64, acc Accumulator) {
			sub[partitionOf(key, parts)][0].Absorb(key, acc)
		})
	}
	p2()
	aggDone()

	if !combineOK {
		err := NewErrTableFull(lfm.Capacity())
		cfg.Logger.Warn("lock-free table full during combine, restarting with radix", "error", err)
		cfg.Metrics.RecordFallback(cfg.Trial, AlgLockFree, AlgTwoPhaseRadix)
		return radixStrategy{}.Run(table, cfg, sink)
	}

	outDone := startPhase(cfg, PhaseOutput)
	rows := 0
	switch {
	case lfm != nil:
		lfm.ForEach(func(key int64, acc Accumulator) {
			sink.Emit(ResultRow{Key: key, Count: acc.Count, Sum: acc.Sum, Min: acc.Min, Max: acc.Max})
			rows++
		})
	case touchedRadix:
		rows = emitRadix(sink, sub)
	default:
		emitAggMap(sink, locals[0])
		rows = locals[0].Len()
	}
	outDone()
	cfg.Metrics.RecordRows(cfg.Trial, rows)
	return nil
}
