// Package xanthos is a research testbed for parallel group-by aggregation
// on large in-memory integer tables.
//
// # Overview
//
// Given a two-column table of int64 (key, value) rows and a worker count,
// xanthos computes, for every distinct key, the COUNT, SUM, MIN and MAX of
// its values, and emits one result row per key. The interesting part is not
// the aggregation algebra but the family of parallel strategies that compute
// it and the adaptive selector that picks among them at runtime:
//
//   - sequential: single-thread baseline, defines the reference output
//   - two-phase-central-merge: per-thread maps, thread 0 merges serially
//   - two-phase-tree-merge: per-thread maps, parallel log2(p) merge rounds
//   - two-phase-radix: per-thread per-partition maps, partition-parallel merge
//   - duckdbish-two-phase: starts central, repartitions late when a local map
//     grows past a threshold
//   - lock-free-hash-table: all threads upsert into one fixed-capacity
//     linear-probing table with per-slot atomics
//   - adaptive-alg1/2/3: sample a prefix, estimate group cardinality, and
//     dispatch via a heuristic tree (alg1), a cost model (alg2), or
//     geometrically growing re-decision windows (alg3)
//
// All strategies share a strict data contract: a frozen RowStore in, an
// associative-commutative Accumulator algebra, and a flat list of result
// rows out. For a fixed input table the output multiset is identical across
// strategies and thread counts; only row order may differ.
//
// # Concurrency model
//
// Strategies are bulk-synchronous: work proceeds in phases separated by
// barriers, and within a phase every mutable cell has exactly one writer.
// Rows are handed to workers in dynamic chunks of Config.BatchSize. The one
// exception is the lock-free table, where any number of writers converge on
// a slot through an atomic claim of the slot key followed by fetch-add for
// count/sum and CAS loops for min/max.
//
// # Quick start
//
//	table, err := xanthos.LoadDataset("data/uniform-1M.csv.gz")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg := xanthos.DefaultConfig()
//	cfg.NumThreads = 8
//
//	strat, _ := xanthos.StrategyByName(xanthos.AlgTwoPhaseRadix)
//	var buf xanthos.ResultBuffer
//	if err := strat.Run(table, cfg, &buf); err != nil {
//	    log.Fatal(err)
//	}
//	for _, row := range buf.Rows() {
//	    fmt.Println(row.Key, row.Count, row.Sum, row.Min, row.Max)
//	}
//
// # Packages
//
//   - github.com/agilira/xanthos: core strategies, selector, loader, validator
//   - github.com/agilira/xanthos/otel: OpenTelemetry metrics (separate module)
//   - cmd/xanthos-bench: benchmark driver CLI
//   - cmd/xanthos-gen: synthetic dataset generator CLI
//
// # License
//
// MPL-2.0, as stated by the SPDX-License-Identifier header of each source file.
package xanthos
