// strategies_test.go: cross-strategy correctness tests
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"testing"

	"go.uber.org/goleak"
)

// runStrategy executes one algorithm and returns its rows sorted by key.
func runStrategy(t *testing.T, name string, table *RowStore, cfg Config) []ResultRow {
	t.Helper()
	strat, err := StrategyByName(name)
	if err != nil {
		t.Fatalf("StrategyByName(%s): %v", name, err)
	}
	var buf ResultBuffer
	if err := strat.Run(table, cfg, &buf); err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	buf.SortByKey()
	return buf.Rows()
}

func configWithThreads(p int) Config {
	cfg := DefaultConfig()
	cfg.NumThreads = p
	return cfg
}

// randomTable builds a deterministic pseudo-random table.
func randomTable(nRows int, keySpace int64, seed uint64) *RowStore {
	rng := &xorshift64{state: splitmix64(seed)}
	table := NewRowStore(2, nRows)
	for r := 0; r < nRows; r++ {
		table.Write(r, 0, int64(rng.next()%uint64(keySpace)))
		table.Write(r, 1, int64(rng.next()%4096)-2048)
	}
	return table
}

func assertSameRows(t *testing.T, name string, got, want []ResultRow) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: %d rows, reference has %d", name, len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s: row %d mismatch: got %+v, want %+v", name, i, got[i], want[i])
		}
	}
}

func TestSequential_ReferenceScenario(t *testing.T) {
	// scenario A: (1,10),(2,5),(1,7),(2,3),(1,20)
	table := tableOf([][2]int64{{1, 10}, {2, 5}, {1, 7}, {2, 3}, {1, 20}})
	rows := runStrategy(t, AlgSequential, table, configWithThreads(1))

	want := []ResultRow{
		{Key: 1, Count: 3, Sum: 37, Min: 7, Max: 20},
		{Key: 2, Count: 2, Sum: 8, Min: 3, Max: 5},
	}
	assertSameRows(t, AlgSequential, rows, want)
}

func TestRadix_MatchesSequentialSmall(t *testing.T) {
	// scenario B: same input, four threads
	table := tableOf([][2]int64{{1, 10}, {2, 5}, {1, 7}, {2, 3}, {1, 20}})
	want := runStrategy(t, AlgSequential, table, configWithThreads(1))
	got := runStrategy(t, AlgTwoPhaseRadix, table, configWithThreads(4))
	assertSameRows(t, AlgTwoPhaseRadix, got, want)
}

func TestTree_SingleHotKey(t *testing.T) {
	// scenario C: (5,100) x 1000 rows, eight threads
	rows := make([][2]int64, 1000)
	for i := range rows {
		rows[i] = [2]int64{5, 100}
	}
	got := runStrategy(t, AlgTwoPhaseTree, tableOf(rows), configWithThreads(8))

	want := []ResultRow{{Key: 5, Count: 1000, Sum: 100_000, Min: 100, Max: 100}}
	assertSameRows(t, AlgTwoPhaseTree, got, want)
}

func TestLockFree_AllDistinct(t *testing.T) {
	// scenario D: rows (i, i) for i in 0..9, capacity 64
	rows := make([][2]int64, 10)
	for i := range rows {
		rows[i] = [2]int64{int64(i), int64(i)}
	}
	cfg := configWithThreads(4)
	cfg.LockFreeCapacity = 64
	got := runStrategy(t, AlgLockFree, tableOf(rows), cfg)

	if len(got) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(got))
	}
	for i, row := range got {
		k := int64(i)
		if row != (ResultRow{Key: k, Count: 1, Sum: k, Min: k, Max: k}) {
			t.Errorf("row %d: got %+v", i, row)
		}
	}
}

func TestAllStrategies_MatchSequential(t *testing.T) {
	defer goleak.VerifyNone(t)

	tables := map[string]*RowStore{
		"low-cardinality":  randomTable(20_000, 16, 1),
		"mid-cardinality":  randomTable(20_000, 1_000, 2),
		"high-cardinality": randomTable(20_000, 50_000, 3),
	}

	for tableName, table := range tables {
		want := runStrategy(t, AlgSequential, table, configWithThreads(1))
		for _, alg := range StrategyNames() {
			for _, p := range []int{1, 2, 4, 7} {
				t.Run(tableName+"/"+alg, func(t *testing.T) {
					cfg := configWithThreads(p)
					cfg.BatchSize = 512 // force multiple chunks per worker
					got := runStrategy(t, alg, table, cfg)
					assertSameRows(t, alg, got, want)
				})
			}
		}
	}
}

func TestAllStrategies_EmptyInput(t *testing.T) {
	table := NewRowStore(2, 0)
	for _, alg := range StrategyNames() {
		rows := runStrategy(t, alg, table, configWithThreads(4))
		if len(rows) != 0 {
			t.Errorf("%s: expected empty output, got %d rows", alg, len(rows))
		}
	}
}

func TestAllStrategies_SingleThreadMatchesSequential(t *testing.T) {
	table := randomTable(5_000, 300, 7)
	want := runStrategy(t, AlgSequential, table, configWithThreads(1))
	for _, alg := range StrategyNames() {
		got := runStrategy(t, alg, table, configWithThreads(1))
		assertSameRows(t, alg, got, want)
	}
}

func TestAllStrategies_AllKeysDistinct(t *testing.T) {
	const n = 3_000
	rows := make([][2]int64, n)
	for i := range rows {
		rows[i] = [2]int64{int64(i), int64(i % 100)}
	}
	table := tableOf(rows)
	for _, alg := range StrategyNames() {
		got := runStrategy(t, alg, table, configWithThreads(4))
		if len(got) != n {
			t.Errorf("%s: expected %d rows, got %d", alg, n, len(got))
			continue
		}
		for i, row := range got {
			if row.Count != 1 || row.Key != int64(i) {
				t.Errorf("%s: row %d: got %+v", alg, i, row)
				break
			}
		}
	}
}

func TestPartitionCoverage(t *testing.T) {
	// every input row lands in exactly one accumulator: sum of counts == n
	table := randomTable(10_000, 777, 11)
	for _, alg := range StrategyNames() {
		rows := runStrategy(t, alg, table, configWithThreads(4))
		var total int64
		for _, row := range rows {
			total += row.Count
		}
		if total != int64(table.NumRows()) {
			t.Errorf("%s: counts sum to %d, expected %d", alg, total, table.NumRows())
		}
	}
}

func TestRadix_SinglePartitionBehavesAsCentral(t *testing.T) {
	table := randomTable(4_000, 100, 13)
	want := runStrategy(t, AlgSequential, table, configWithThreads(1))

	cfg := configWithThreads(1)
	cfg.RadixPartitionRatio = 1 // N = 1
	got := runStrategy(t, AlgTwoPhaseRadix, table, cfg)
	assertSameRows(t, AlgTwoPhaseRadix, got, want)
}

func TestDuckDBish_RepartitionPath(t *testing.T) {
	// tiny threshold forces the late-repartition path
	table := randomTable(8_000, 2_000, 17)
	want := runStrategy(t, AlgSequential, table, configWithThreads(1))

	cfg := configWithThreads(4)
	cfg.AdaptationThreshold = 10
	got := runStrategy(t, AlgDuckDBish, table, cfg)
	assertSameRows(t, AlgDuckDBish, got, want)
}

func TestDuckDBish_CentralPath(t *testing.T) {
	// huge threshold keeps every local map below it
	table := randomTable(8_000, 50, 19)
	want := runStrategy(t, AlgSequential, table, configWithThreads(1))

	cfg := configWithThreads(4)
	cfg.AdaptationThreshold = 1 << 30
	got := runStrategy(t, AlgDuckDBish, table, cfg)
	assertSameRows(t, AlgDuckDBish, got, want)
}

func TestLockFree_FallbackToRadix(t *testing.T) {
	defer goleak.VerifyNone(t)

	// 500 distinct keys cannot fit 64 slots; the strategy must recover
	table := randomTable(2_000, 500, 23)
	want := runStrategy(t, AlgSequential, table, configWithThreads(1))

	rec := &recordingCollector{}
	cfg := configWithThreads(4)
	cfg.LockFreeCapacity = 64
	cfg.Metrics = rec

	got := runStrategy(t, AlgLockFree, table, cfg)
	assertSameRows(t, AlgLockFree, got, want)
	if len(rec.fallbacks) == 0 {
		t.Error("expected a recorded fallback")
	}
}

func TestStrategyByName_Unknown(t *testing.T) {
	_, err := StrategyByName("no-such-algorithm")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !IsConfigError(err) {
		t.Errorf("expected a config error, got %v", err)
	}
}

func TestStrategies_InvalidThreadCount(t *testing.T) {
	table := tableOf([][2]int64{{1, 1}})
	strat, _ := StrategyByName(AlgSequential)
	var buf ResultBuffer
	err := strat.Run(table, Config{NumThreads: 0}, &buf)
	if err == nil || !IsConfigError(err) {
		t.Errorf("expected a config error for zero threads, got %v", err)
	}
}

func TestDeterminismAcrossRuns(t *testing.T) {
	table := randomTable(15_000, 400, 29)
	cfg := configWithThreads(7)
	first := runStrategy(t, AlgTwoPhaseTree, table, cfg)
	for i := 0; i < 5; i++ {
		again := runStrategy(t, AlgTwoPhaseTree, table, cfg)
		assertSameRows(t, AlgTwoPhaseTree, again, first)
	}
}
